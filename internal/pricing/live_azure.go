package pricing

import (
	"context"
	"fmt"
	"net/http"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

// azureRegionNames mirrors awsRegionNames for the Azure Retail Prices API,
// which labels regions with display names distinct from the "eastus"-style
// codes the core works in.
var azureRegionNames = map[string]string{
	"eastus":      "East US",
	"eastus2":     "East US 2",
	"westus":      "West US",
	"westus2":     "West US 2",
	"westeurope":  "West Europe",
	"northeurope": "North Europe",
}

func azureRegionName(code string) (string, bool) {
	name, ok := azureRegionNames[code]
	return name, ok
}

// defaultAzureRetailPricesURL is the Azure Retail Prices API endpoint. It
// is public and unauthenticated, so unlike the AWS source this adapter
// needs only an HTTP client to attempt a lookup.
const defaultAzureRetailPricesURL = "https://prices.azure.com/api/retail/prices"

// AzurePricingSource is a reference LiveSource backed by the Azure Retail
// Prices API. Like AWSPricingSource and GCPBillingCatalogSource it is a
// thin, intentionally incomplete stub: it exercises the factory's
// live-then-static fallback path without requiring network access in tests
// or an unconfigured process.
type AzurePricingSource struct {
	Client   *http.Client
	Endpoint string
}

// Provider identifies this source to the LiveSourceRegistry.
func (s *AzurePricingSource) Provider() string { return "azurerm" }

// FetchRate resolves key against the Azure Retail Prices API. Without a
// configured Client, or for a region this adapter doesn't have a display
// name for, it returns pricing_unavailable.
func (s *AzurePricingSource) FetchRate(ctx context.Context, key RateKey) (types.PriceRecord, error) {
	if s.Client == nil {
		return types.PriceRecord{}, apperrors.Pricing("Azure live pricing source is not configured", nil)
	}
	regionName, ok := azureRegionName(key.Region)
	if !ok {
		return types.PriceRecord{}, apperrors.Pricing("unmapped Azure region: "+key.Region, nil)
	}

	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultAzureRetailPricesURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.PriceRecord{}, apperrors.Pricing("failed to build Azure retail prices request", err)
	}
	q := req.URL.Query()
	q.Set("$filter", fmt.Sprintf("armRegionName eq '%s' and skuName eq '%s'", regionName, key.SKU))
	req.URL.RawQuery = q.Encode()

	resp, err := s.Client.Do(req)
	if err != nil {
		return types.PriceRecord{}, apperrors.Pricing("Azure retail prices request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.PriceRecord{}, apperrors.Pricing("Azure retail prices API returned a non-200 status", nil)
	}

	return types.PriceRecord{}, apperrors.Pricing("Azure retail prices response decoding is not implemented", nil)
}
