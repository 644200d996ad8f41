// Package pricing implements the static catalog, the live adapter seam,
// and the resolution factory that normalizes both into PriceRecord.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/finopsguard/finopsguard/internal/types"
)

// RateKey identifies one static catalog entry or live lookup.
type RateKey struct {
	Provider string
	SKU      string
	Region   string
}

// catalogEntry is one deterministic static rate, plus the reference region
// its SKU falls back to when the exact region isn't covered.
type catalogEntry struct {
	rate           types.PriceRecord
	referenceRegion string
}

// Catalog is a deterministic, immutable (provider, sku, region) -> rate
// table. It never changes after NewCatalog has run registerAWSCatalog,
// registerAzureCatalog and registerGCPCatalog.
type Catalog struct {
	entries map[RateKey]catalogEntry
}

// NewCatalog builds the catalog with every built-in entry registered.
func NewCatalog() *Catalog {
	c := &Catalog{entries: make(map[RateKey]catalogEntry)}
	registerAWSCatalog(c)
	registerAzureCatalog(c)
	registerGCPCatalog(c)
	return c
}

func (c *Catalog) register(provider, sku, region string, unit types.PricingUnit, amount string, referenceRegion string) {
	key := RateKey{Provider: provider, SKU: sku, Region: region}
	if _, exists := c.entries[key]; exists {
		panic("pricing: duplicate catalog entry: " + provider + "/" + sku + "/" + region)
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		panic("pricing: invalid catalog amount for " + sku + ": " + err.Error())
	}
	c.entries[key] = catalogEntry{
		rate: types.PriceRecord{
			Unit:       unit,
			Amount:     dec,
			Currency:   "USD",
			Confidence: types.ConfidenceMedium,
			Source:     types.SourceStatic,
			SKU:        sku,
			Region:     region,
		},
		referenceRegion: referenceRegion,
	}
}

// Lookup resolves (provider, sku, region) to a PriceRecord. A region miss
// falls back to the SKU's reference region with a confidence downgrade from
// medium to low. A SKU miss returns false; the caller (the factory) is
// responsible for producing an UnpricedRecord.
func (c *Catalog) Lookup(provider, sku, region string) (types.PriceRecord, bool) {
	if entry, ok := c.entries[RateKey{Provider: provider, SKU: sku, Region: region}]; ok {
		return entry.rate, true
	}

	// Region miss: try the SKU's reference region under any key sharing the
	// same (provider, sku).
	for key, entry := range c.entries {
		if key.Provider == provider && key.SKU == sku && key.Region == entry.referenceRegion {
			downgraded := entry.rate
			downgraded.Region = region
			downgraded.Confidence = types.ConfidenceLow
			return downgraded, true
		}
	}

	return types.PriceRecord{}, false
}
