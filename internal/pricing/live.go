package pricing

import (
	"context"

	"github.com/finopsguard/finopsguard/internal/types"
)

// LiveSource fetches a single rate from a live provider pricing API. A
// real implementation wraps a provider SDK client; FetchRate must respect
// ctx's deadline and return promptly on cancellation.
type LiveSource interface {
	// Provider is the provider name this source serves ("aws", "azurerm",
	// "google").
	Provider() string

	// FetchRate resolves one RateKey to a PriceRecord with
	// ConfidenceHigh, or an error if the live lookup failed.
	FetchRate(ctx context.Context, key RateKey) (types.PriceRecord, error)
}

// LiveSourceRegistry holds the live sources keyed by provider, mirroring
// the closed registry pattern used by the static catalog and the IaC
// extractor table.
type LiveSourceRegistry struct {
	sources map[string]LiveSource
}

// NewLiveSourceRegistry builds an empty registry; callers Register their
// own LiveSource implementations (real SDK-backed adapters are an
// out-of-core concern the factory depends on only through this interface).
func NewLiveSourceRegistry() *LiveSourceRegistry {
	return &LiveSourceRegistry{sources: make(map[string]LiveSource)}
}

// Register adds a live source for its provider, replacing any existing one.
func (r *LiveSourceRegistry) Register(source LiveSource) {
	r.sources[source.Provider()] = source
}

// Get returns the live source for a provider, if one is registered.
func (r *LiveSourceRegistry) Get(provider string) (LiveSource, bool) {
	s, ok := r.sources[provider]
	return s, ok
}
