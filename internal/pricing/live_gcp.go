package pricing

import (
	"context"
	"net/http"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

// gcpRegionNames mirrors awsRegionNames for GCP's billing catalog, which
// names regions by a human label distinct from the "us-central1"-style
// region code the core works in.
var gcpRegionNames = map[string]string{
	"us-central1": "Iowa",
	"us-east1":    "South Carolina",
	"us-west1":    "Oregon",
	"europe-west1": "Belgium",
}

func gcpRegionName(code string) (string, bool) {
	name, ok := gcpRegionNames[code]
	return name, ok
}

// GCPBillingCatalogSource is a reference LiveSource backed by the GCP Cloud
// Billing Catalog API. As with AWSPricingSource, it is a thin, intentionally
// incomplete stub: it exercises the factory's live-then-static fallback
// path without requiring a real API key in tests or an unconfigured
// process.
type GCPBillingCatalogSource struct {
	Client *http.Client
	APIKey string
}

// Provider identifies this source to the LiveSourceRegistry.
func (s *GCPBillingCatalogSource) Provider() string { return "google" }

// FetchRate resolves key against the GCP Cloud Billing Catalog API.
// Without a configured Client and APIKey, or for a region this adapter
// doesn't have a name mapping for, it returns pricing_unavailable.
func (s *GCPBillingCatalogSource) FetchRate(ctx context.Context, key RateKey) (types.PriceRecord, error) {
	if s.Client == nil || s.APIKey == "" {
		return types.PriceRecord{}, apperrors.Pricing("GCP live pricing source is not configured", nil)
	}
	if _, ok := gcpRegionName(key.Region); !ok {
		return types.PriceRecord{}, apperrors.Pricing("unmapped GCP region: "+key.Region, nil)
	}

	const catalogURL = "https://cloudbilling.googleapis.com/v1/services"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catalogURL, nil)
	if err != nil {
		return types.PriceRecord{}, apperrors.Pricing("failed to build GCP billing catalog request", err)
	}
	q := req.URL.Query()
	q.Set("key", s.APIKey)
	req.URL.RawQuery = q.Encode()

	resp, err := s.Client.Do(req)
	if err != nil {
		return types.PriceRecord{}, apperrors.Pricing("GCP billing catalog request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PriceRecord{}, apperrors.Pricing("GCP billing catalog API returned a non-200 status", nil)
	}

	return types.PriceRecord{}, apperrors.Pricing("GCP billing catalog response decoding is not implemented", nil)
}
