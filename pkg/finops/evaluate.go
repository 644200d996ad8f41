package finops

import (
	"context"

	"github.com/finopsguard/finopsguard/internal/costestimate"
	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/iacparser"
	"github.com/finopsguard/finopsguard/internal/policy"
	"github.com/finopsguard/finopsguard/internal/types"
)

// EvaluatePolicy runs the same parse -> price -> estimate path as
// CheckCostImpact but returns only the policy evaluations. Unlike
// CheckCostImpact it neither caches nor persists: it is meant for a caller
// probing "would this fail" without recording an analysis.
func (c *Core) EvaluatePolicy(ctx context.Context, req EvaluateRequest) ([]*types.PolicyEvaluation, error) {
	payload, _, err := c.validateAndDecode(req.CheckRequest)
	if err != nil {
		return nil, err
	}

	model, err := iacparser.Parse(payload, "payload.tf")
	if err != nil {
		return nil, apperrors.Parsing("failed to parse terraform payload", err)
	}

	prices, err := c.factory.ResolveAll(ctx, model.Resources, c.cfg.Pricing.Concurrency)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.Cancelled(ctx.Err())
		}
		return nil, err
	}

	cost, err := costestimate.EstimateWithPrices(model, prices)
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate cost estimate", err)
	}

	var policies []*types.Policy
	if len(req.PolicyIDs) > 0 {
		policies, err = c.registry.Resolve(req.PolicyIDs)
		if err != nil {
			return nil, err
		}
	}

	var budget float64
	if len(req.PolicyIDs) == 0 && req.BudgetRules != nil {
		budget = req.BudgetRules.MonthlyBudget
	}

	evals := make([]*types.PolicyEvaluation, 0, len(policies)+1)
	for _, p := range policies {
		mode := p.OnViolation
		if req.Mode != "" {
			mode = req.Mode
		}
		if !p.Enabled {
			evals = append(evals, policy.NotApplicable(p, mode))
			continue
		}
		eval, err := policy.Evaluate(model, cost, req.Environment, p, mode)
		if err != nil {
			return nil, err
		}
		evals = append(evals, eval)
	}

	if budget > 0 {
		mode := types.ModeBlocking
		if req.Mode != "" {
			mode = req.Mode
		}
		evals = append(evals, policy.EvaluateBudget(cost, budget, mode))
	}

	return evals, nil
}
