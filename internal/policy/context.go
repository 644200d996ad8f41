package policy

import (
	"github.com/finopsguard/finopsguard/internal/policy/expression"
	"github.com/finopsguard/finopsguard/internal/types"
)

// buildContext assembles the merged `{crm, cost, env}` root a Rule.Field
// dotted path resolves against.
func buildContext(model *types.CanonicalResourceModel, cost *types.CostResult, environment string) expression.Value {
	return expression.Map(map[string]expression.Value{
		"crm":  crmValue(model),
		"cost": costValue(cost),
		"env":  expression.String(environment),
	})
}

func crmValue(model *types.CanonicalResourceModel) expression.Value {
	resources := make([]expression.Value, len(model.Resources))
	for i, r := range model.Resources {
		resources[i] = resourceValue(r)
	}

	defaults := make(map[string]expression.Value, len(model.ProviderDefaults))
	for k, v := range model.ProviderDefaults {
		defaults[k] = expression.String(v)
	}

	return expression.Map(map[string]expression.Value{
		"resources":         expression.List(resources...),
		"provider_defaults": expression.Map(defaults),
		"source_iac_type":   expression.String(model.SourceIACType),
	})
}

func resourceValue(r types.CanonicalResource) expression.Value {
	tags := make(map[string]expression.Value, len(r.Tags))
	for k, v := range r.Tags {
		tags[k] = expression.String(v)
	}
	meta := make(map[string]expression.Value, len(r.Metadata))
	for k, v := range r.Metadata {
		meta[k] = expression.FromGo(v)
	}

	return expression.Map(map[string]expression.Value{
		"id":       expression.String(r.ID),
		"type":     expression.String(r.Type),
		"name":     expression.String(r.Name),
		"region":   expression.String(r.Region),
		"size":     expression.String(r.Size),
		"count":    expression.Number(float64(r.Count)),
		"tags":     expression.Map(tags),
		"metadata": expression.Map(meta),
	})
}

func costValue(cost *types.CostResult) expression.Value {
	if cost == nil {
		return expression.Null()
	}

	monthly, _ := cost.EstimatedMonthlyCost.Float64()
	firstWeek, _ := cost.EstimatedFirstWeekCost.Float64()

	breakdown := make([]expression.Value, len(cost.Breakdown))
	for i, item := range cost.Breakdown {
		itemMonthly, _ := item.MonthlyCost.Float64()
		breakdown[i] = expression.Map(map[string]expression.Value{
			"resource_id":  expression.String(item.ResourceID),
			"monthly_cost": expression.Number(itemMonthly),
			"confidence":   expression.String(string(item.Confidence)),
		})
	}

	riskFlags := make([]expression.Value, len(cost.RiskFlags))
	for i, f := range cost.RiskFlags {
		riskFlags[i] = expression.String(f)
	}

	return expression.Map(map[string]expression.Value{
		"estimated_monthly_cost":    expression.Number(monthly),
		"estimated_first_week_cost": expression.Number(firstWeek),
		"pricing_confidence":        expression.String(string(cost.PricingConfidence)),
		"resource_count":            expression.Number(float64(cost.ResourceCount)),
		"breakdown":                 expression.List(breakdown...),
		"risk_flags":                expression.List(riskFlags...),
	})
}
