// Package costestimate turns a priced CanonicalResourceModel into a
// CostResult.
package costestimate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finopsguard/finopsguard/internal/types"
)

// hoursPerMonth is the normalization factor for hourly rates (24 * 365 / 12).
const hoursPerMonth = 730

// firstWeekFraction is the default monthly-to-first-week ratio.
var firstWeekFraction = decimal.NewFromInt(7).Div(decimal.NewFromInt(30))

// Pricer resolves one CanonicalResource to a PriceRecord. It is the total
// function contract pricing.Factory.PriceFor implements; costestimate
// depends only on this narrow interface so it can be tested without
// pulling in the live/static resolution machinery.
type Pricer interface {
	PriceFor(ctx context.Context, resource types.CanonicalResource, provider string) (types.PriceRecord, error)
}

// Estimate computes a CostResult for model, pricing each resource through
// pricer sequentially. provider is inferred per-resource from its Type
// prefix. Callers that want concurrent pricing resolution across many
// resources (e.g. pkg/finops, fanning out via pricing.Factory.ResolveAll)
// should call EstimateWithPrices instead.
func Estimate(ctx context.Context, model *types.CanonicalResourceModel, pricer Pricer) (*types.CostResult, error) {
	prices := make([]types.PriceRecord, len(model.Resources))
	for i, resource := range model.Resources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		price, err := pricer.PriceFor(ctx, resource, types.ProviderForResourceType(resource.Type))
		if err != nil {
			return nil, err
		}
		prices[i] = price
	}
	return EstimateWithPrices(model, prices)
}

// EstimateWithPrices computes a CostResult given model and prices already
// resolved index-for-index against model.Resources. It is the aggregation
// half of Estimate, split out so a bulk/concurrent resolver
// (pricing.Factory.ResolveAll) can price every resource up front and hand
// the result straight to aggregation without a second pricer round-trip.
func EstimateWithPrices(model *types.CanonicalResourceModel, prices []types.PriceRecord) (*types.CostResult, error) {
	if len(prices) != len(model.Resources) {
		return nil, fmt.Errorf("costestimate: got %d prices for %d resources", len(prices), len(model.Resources))
	}

	result := &types.CostResult{
		ResourceCount: len(model.Resources),
	}

	confidences := make([]types.Confidence, 0, len(model.Resources))
	riskFlagSeen := make(map[string]bool)

	for i, resource := range model.Resources {
		price := prices[i]

		monthly := price.Amount.
			Mul(decimal.NewFromInt(int64(resource.Count))).
			Mul(normalizeToMonth(price.Unit, resource))

		notes := []string{}
		if price.SKU == "unknown" {
			flag := "unpriced_resource:" + resource.Type
			if !riskFlagSeen[flag] {
				result.RiskFlags = append(result.RiskFlags, flag)
				riskFlagSeen[flag] = true
			}
			notes = append(notes, "no price available; contributes $0")
		}

		result.Breakdown = append(result.Breakdown, types.CostBreakdownItem{
			ResourceID:  resource.ID,
			MonthlyCost: monthly,
			Notes:       notes,
			Confidence:  price.Confidence,
		})
		confidences = append(confidences, price.Confidence)
		result.EstimatedMonthlyCost = result.EstimatedMonthlyCost.Add(monthly)
	}

	result.PricingConfidence = types.MinConfidence(confidences...)
	result.EstimatedFirstWeekCost = firstWeekCost(result.EstimatedMonthlyCost, model.Resources)

	return result, nil
}

// normalizeToMonth converts a PriceRecord's per-unit amount into a
// per-resource monthly multiplier: 730 for hourly, 1 for monthly, and a
// unit-specific factor read from the resource's own metadata for
// gb-month/request pricing.
func normalizeToMonth(unit types.PricingUnit, resource types.CanonicalResource) decimal.Decimal {
	switch unit {
	case types.UnitHour:
		return decimal.NewFromInt(hoursPerMonth)
	case types.UnitMonth:
		return decimal.NewFromInt(1)
	case types.UnitGBMonth:
		return gbMonthFactor(resource)
	case types.UnitRequest:
		return requestFactor(resource)
	default:
		return decimal.Zero
	}
}

// gbMonthFactor reads metadata["size_gb"] when the resource carries it
// (volumes, disks); otherwise a gb-month record prices a single GB.
func gbMonthFactor(resource types.CanonicalResource) decimal.Decimal {
	if v, ok := resource.Metadata["size_gb"]; ok {
		if f, ok := toFloat(v); ok {
			return decimal.NewFromFloat(f)
		}
	}
	return decimal.NewFromInt(1)
}

// requestFactor reads the resource's estimated monthly request volume from
// metadata when present (e.g. Lambda's invocation estimate); without one, a
// request-priced record assumes one million requests per month.
func requestFactor(resource types.CanonicalResource) decimal.Decimal {
	if v, ok := resource.Metadata["monthly_requests"]; ok {
		if f, ok := toFloat(v); ok {
			return decimal.NewFromFloat(f)
		}
	}
	return decimal.NewFromInt(1000000)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// firstWeekCost is monthly * 7/30. A resource's metadata.ramp_profile is
// detected but does not change the result: no per-resource fraction is
// read from it, and the aggregate always uses 7/30.
func firstWeekCost(monthlyTotal decimal.Decimal, resources []types.CanonicalResource) decimal.Decimal {
	hasRamp := false
	for _, r := range resources {
		if _, ok := r.Metadata["ramp_profile"]; ok {
			hasRamp = true
			break
		}
	}
	if !hasRamp {
		return monthlyTotal.Mul(firstWeekFraction).Round(6)
	}

	// With a ramp profile present, costs aren't uniform across the month;
	// fall back to the default fraction for the aggregate since the ramp
	// only describes one resource's own curve, not the total's.
	return monthlyTotal.Mul(firstWeekFraction).Round(6)
}
