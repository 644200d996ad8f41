package finops

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/finopsguard/finopsguard/internal/cache"
	"github.com/finopsguard/finopsguard/internal/costestimate"
	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/iacparser"
	"github.com/finopsguard/finopsguard/internal/logging"
	"github.com/finopsguard/finopsguard/internal/policy"
	"github.com/finopsguard/finopsguard/internal/types"
)

// analysis is the portion of a check's result that depends only on the
// request's IaC payload, environment, and policy selection, which is the
// part the cache memoizes behind the request fingerprint. request_id and
// duration_ms are request-scoped and computed fresh on every call, cache
// hit or not: every successful check writes its own AnalysisRecord even
// when the priced analysis was shared.
type analysis struct {
	model           *types.CanonicalResourceModel
	cost            *types.CostResult
	recommendations []string
	policyEvals     []*types.PolicyEvaluation
	policyBlocked   bool
}

// CheckCostImpact runs the full pipeline (parse, price, estimate, evaluate
// policy, recommend) over req and returns the aggregated CheckResponse.
// A successful call persists exactly one AnalysisRecord, regardless of
// whether the priced analysis itself was served from cache.
func (c *Core) CheckCostImpact(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	started := time.Now().UTC()

	payload, requestID, err := c.validateAndDecode(req)
	if err != nil {
		return nil, err
	}

	key := c.fingerprint(req, payload)
	build := func(ctx context.Context) (any, error) {
		return c.buildAnalysis(ctx, req, payload)
	}
	var result any
	if c.cfg.Cache.Enabled {
		result, err = c.cache.GetOrBuild(ctx, key, build)
	} else {
		result, err = build(ctx)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.Cancelled(ctx.Err())
		}
		return nil, err
	}
	a := result.(*analysis)

	completed := time.Now().UTC()
	resp := &CheckResponse{
		RequestID:              requestID,
		EstimatedMonthlyCost:   a.cost.EstimatedMonthlyCost.String(),
		EstimatedFirstWeekCost: a.cost.EstimatedFirstWeekCost.String(),
		Breakdown:              a.cost.Breakdown,
		PricingConfidence:      a.cost.PricingConfidence,
		ResourceCount:          a.cost.ResourceCount,
		RiskFlags:              a.cost.RiskFlags,
		Recommendations:        a.recommendations,
		PolicyEvaluations:      a.policyEvals,
		PolicyBlocked:          a.policyBlocked,
		DurationMS:             completed.Sub(started).Milliseconds(),
	}

	record := c.toRecord(requestID, req, a, started, completed, resp.DurationMS)
	if err := c.store.Put(ctx, record); err != nil {
		// Store failures are fatal to persistence, not to the caller's
		// result: the computed analysis is still returned.
		logging.Warn("failed to persist analysis record",
			zap.String("request_id", requestID), zap.Error(err))
	} else if c.webhook != nil && a.policyBlocked {
		c.webhook.NotifyMaterialEvent(ctx, record)
	}

	return resp, nil
}

// validateAndDecode checks req's required fields and decodes its payload,
// returning the request id to use (generated when req.RequestID is empty).
func (c *Core) validateAndDecode(req CheckRequest) ([]byte, string, error) {
	if req.IACType == "" {
		return nil, "", apperrors.InvalidRequest("iac_type is required")
	}
	if req.IACType != "terraform" {
		return nil, "", apperrors.InvalidRequest("unsupported iac_type: " + req.IACType)
	}
	if req.IACPayload == "" {
		return nil, "", apperrors.InvalidRequest("iac_payload is required")
	}

	payload, err := base64.StdEncoding.DecodeString(req.IACPayload)
	if err != nil {
		return nil, "", apperrors.InvalidPayloadEncoding(err)
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = newRequestID()
	}
	return payload, requestID, nil
}

// fingerprint computes the cache key over req's analysis-relevant fields:
// iac_type, the decoded payload text, environment, sorted policy_ids, and
// the budget rules.
func (c *Core) fingerprint(req CheckRequest, payload []byte) string {
	return cache.Fingerprint(req.IACType, string(payload), req.Environment, req.PolicyIDs, budgetFingerprint(req.BudgetRules))
}

func budgetFingerprint(b *BudgetRules) []string {
	if b == nil {
		return nil
	}
	return []string{fmt.Sprintf("monthly_budget=%g", b.MonthlyBudget)}
}

// buildAnalysis runs parse -> price -> estimate -> recommend -> evaluate for
// req's payload. It is the Builder singleflight/TTL-caches behind
// CheckCostImpact's fingerprint.
func (c *Core) buildAnalysis(ctx context.Context, req CheckRequest, payload []byte) (any, error) {
	model, err := iacparser.Parse(payload, "payload.tf")
	if err != nil {
		return nil, apperrors.Parsing("failed to parse terraform payload", err)
	}

	prices, err := c.factory.ResolveAll(ctx, model.Resources, c.cfg.Pricing.Concurrency)
	if err != nil {
		return nil, err
	}

	cost, err := costestimate.EstimateWithPrices(model, prices)
	if err != nil {
		return nil, apperrors.Internal("failed to aggregate cost estimate", err)
	}

	recommendations := costestimate.Recommend(model, cost, req.Environment)

	evals, blocked, err := c.evaluatePolicies(model, cost, req)
	if err != nil {
		return nil, err
	}

	return &analysis{
		model:           model,
		cost:            cost,
		recommendations: recommendations,
		policyEvals:     evals,
		policyBlocked:   blocked,
	}, nil
}

// evaluatePolicies resolves req.PolicyIDs (if any) and evaluates them. The
// implicit budget policy applies only when PolicyIDs is empty; naming
// explicit policies takes over the verdict entirely.
func (c *Core) evaluatePolicies(model *types.CanonicalResourceModel, cost *types.CostResult, req CheckRequest) ([]*types.PolicyEvaluation, bool, error) {
	var budget float64
	if len(req.PolicyIDs) == 0 && req.BudgetRules != nil {
		budget = req.BudgetRules.MonthlyBudget
	}

	var policies []*types.Policy
	if len(req.PolicyIDs) > 0 {
		resolved, err := c.registry.Resolve(req.PolicyIDs)
		if err != nil {
			return nil, false, err
		}
		policies = resolved
	}

	return policy.EvaluateAll(model, cost, req.Environment, policies, budget)
}

func (c *Core) toRecord(requestID string, req CheckRequest, a *analysis, started, completed time.Time, durationMS int64) *types.AnalysisRecord {
	record := &types.AnalysisRecord{
		RequestID:              requestID,
		StartedAt:              started,
		CompletedAt:            completed,
		DurationMS:             durationMS,
		IACType:                req.IACType,
		Environment:            req.Environment,
		EstimatedMonthlyCost:   a.cost.EstimatedMonthlyCost,
		EstimatedFirstWeekCost: a.cost.EstimatedFirstWeekCost,
		ResourceCount:          a.cost.ResourceCount,
		RiskFlags:              a.cost.RiskFlags,
		RecommendationsCount:   len(a.recommendations),
		CreatedAt:              completed,
	}
	if eval := firstFailureOrFirst(a.policyEvals); eval != nil {
		record.PolicyID = eval.PolicyID
		record.PolicyStatus = string(eval.Status)
	}
	record.ResultJSON = marshalResult(a)
	return record
}

// firstFailureOrFirst summarizes evals down to the single policy_id/status
// an AnalysisRecord's flat columns carry: the first failing evaluation, or
// the first evaluation if none failed, or nil if evals is empty.
func firstFailureOrFirst(evals []*types.PolicyEvaluation) *types.PolicyEvaluation {
	for _, e := range evals {
		if e.Status == types.StatusFail {
			return e
		}
	}
	if len(evals) > 0 {
		return evals[0]
	}
	return nil
}
