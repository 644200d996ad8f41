package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

// Options configures a Factory's live/static resolution policy. Each field
// is copied from a field of internal/config.PricingConfig (LiveEnabled from
// LivePricingEnabled); the per-provider toggles and Concurrency are not part
// of it.
type Options struct {
	LiveEnabled      bool
	FallbackToStatic bool
	RequestTimeout   time.Duration
	MaxRetries       int
	RetryBaseDelay   time.Duration
}

// Factory is the ordered live -> static pricing resolver.
type Factory struct {
	catalog     *Catalog
	liveSources *LiveSourceRegistry
	opts        Options
}

// NewFactory builds a Factory over catalog and the registered live
// sources, governed by opts.
func NewFactory(catalog *Catalog, liveSources *LiveSourceRegistry, opts Options) *Factory {
	return &Factory{catalog: catalog, liveSources: liveSources, opts: opts}
}

// sku builds the catalog/live lookup key for a resource:
// "<type>:<billing key>". The billing key defaults to the resource's Size,
// but an extractor whose Size embeds a variable quantity (shard counts,
// node counts, disk capacities) records the quantity-free billing identity
// in metadata["sku"] instead, so the catalog's key space stays finite and
// the quantity multiplies in through Count or the unit factor.
func sku(resource types.CanonicalResource) string {
	if key, ok := resource.Metadata["sku"].(string); ok && key != "" {
		return fmt.Sprintf("%s:%s", resource.Type, key)
	}
	return fmt.Sprintf("%s:%s", resource.Type, resource.Size)
}

// PriceFor is the total resolver contract: it always returns a PriceRecord,
// never an error, for a resource with a known provider. An unpriceable
// resource gets types.UnpricedRecord plus the caller-visible risk flag.
// The only error this returns is pricing_unavailable, and only when live
// pricing was required, fallback is disabled, and the live lookup failed;
// and cancelled, when ctx was cancelled mid-lookup.
func (f *Factory) PriceFor(ctx context.Context, resource types.CanonicalResource, provider string) (types.PriceRecord, error) {
	if resource.Size == "unknown" {
		return types.UnpricedRecord(resource.Region), nil
	}

	key := RateKey{Provider: provider, SKU: sku(resource), Region: resource.Region}

	if f.opts.LiveEnabled {
		if source, ok := f.liveSources.Get(provider); ok {
			record, err := fetchWithRetry(ctx, source, key, f.opts.RequestTimeout, f.opts.MaxRetries, f.opts.RetryBaseDelay)
			if err == nil {
				record.Confidence = types.ConfidenceHigh
				record.Source = types.SourceLive
				return record, nil
			}
			if ctx.Err() != nil {
				return types.PriceRecord{}, apperrors.Cancelled(ctx.Err())
			}
			if !f.opts.FallbackToStatic {
				return types.PriceRecord{}, apperrors.Pricing(
					fmt.Sprintf("live pricing failed for %s and fallback is disabled", key.SKU), err)
			}
			// fall through to static
		}
	}

	if record, ok := f.catalog.Lookup(key.Provider, key.SKU, key.Region); ok {
		return record, nil
	}

	unpriced := types.UnpricedRecord(resource.Region)
	return unpriced, nil
}

// ResolveAll prices every resource in resources concurrently, bounded by
// concurrency in-flight lookups at once to respect provider rate limits,
// and returns one PriceRecord per resource in the same order. It
// returns as soon as any resource resolution errors (pricing_unavailable or
// a cancelled context), abandoning the rest.
func (f *Factory) ResolveAll(ctx context.Context, resources []types.CanonicalResource, concurrency int) ([]types.PriceRecord, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	prices := make([]types.PriceRecord, len(resources))
	errs := make([]error, len(resources))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i, resource := range resources {
		wg.Add(1)
		go func(i int, resource types.CanonicalResource) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = apperrors.Cancelled(ctx.Err())
				return
			}
			defer func() { <-sem }()

			price, err := f.PriceFor(ctx, resource, types.ProviderForResourceType(resource.Type))
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			prices[i] = price
		}(i, resource)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return prices, nil
}
