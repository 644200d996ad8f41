// Package finops is FinOpsGuard's in-process core API: the small surface an
// HTTP layer, CLI, or any other external collaborator calls to run a check,
// evaluate a policy, query history, or manage the policy registry. It is
// the only package outside internal/* that the rest of the module (and any
// future consumer) is meant to import.
package finops

import (
	"context"
	"time"

	"github.com/finopsguard/finopsguard/internal/types"
)

// CheckRequest is the caller-supplied input to CheckCostImpact and
// EvaluatePolicy.
type CheckRequest struct {
	// IACType names the IaC dialect the payload is written in. Only
	// "terraform" is implemented.
	IACType string

	// IACPayload is base64-encoded UTF-8 IaC source text.
	IACPayload string

	// Environment is a free-form label ("dev", "staging", "production")
	// policy expressions and recommendation heuristics key off of.
	Environment string

	// BudgetRules, if set, applies the implicit monthly_budget policy. It
	// is only considered when PolicyIDs is empty; naming explicit policies
	// takes over the verdict entirely.
	BudgetRules *BudgetRules

	// PolicyIDs names zero or more stored policies to evaluate against
	// this check.
	PolicyIDs []string

	// RequestID, if set, is used as the AnalysisRecord's idempotency key.
	// When empty, Core generates a ULID.
	RequestID string
}

// BudgetRules carries the caller's implicit budget policy input.
type BudgetRules struct {
	MonthlyBudget float64
}

// EvaluateRequest is CheckRequest plus an explicit mode override, for
// EvaluatePolicy's narrower "policy decision only" contract.
type EvaluateRequest struct {
	CheckRequest
	// Mode, if set, overrides every evaluated policy's own OnViolation for
	// this call only.
	Mode types.PolicyMode
}

// CheckResponse is the CostResult unioned with the policy, risk, and
// recommendation fields CheckCostImpact adds.
type CheckResponse struct {
	RequestID              string                     `json:"request_id"`
	EstimatedMonthlyCost   string                     `json:"estimated_monthly_cost"`
	EstimatedFirstWeekCost string                     `json:"estimated_first_week_cost"`
	Breakdown              []types.CostBreakdownItem  `json:"breakdown"`
	PricingConfidence      types.Confidence           `json:"pricing_confidence"`
	ResourceCount          int                        `json:"resource_count"`
	RiskFlags              []string                   `json:"risk_flags,omitempty"`
	Recommendations        []string                   `json:"recommendations,omitempty"`
	PolicyEvaluations      []*types.PolicyEvaluation  `json:"policy_evaluations,omitempty"`
	PolicyBlocked          bool                       `json:"policy_blocked"`
	DurationMS             int64                      `json:"duration_ms"`
}

// ListQuery is the caller-supplied paging input to ListRecentAnalyses.
type ListQuery struct {
	// Since and Until bound the search window on StartedAt. A zero Since
	// means unbounded in the past; a zero Until means "now".
	Since time.Time
	Until time.Time

	// Limit caps the page size; <= 0 is replaced by a default of 50.
	Limit int

	// Cursor resumes a prior page, or is empty for the first page.
	Cursor string
}

// ListResponse is one page of analysis history.
type ListResponse struct {
	Items      []*types.AnalysisRecord `json:"items"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// WebhookNotifier is the contract the out-of-core webhook dispatcher
// implements. Core calls NotifyMaterialEvent after a successfully persisted
// check whose policy verdict blocked it, if one is configured; delivery,
// retries, and signing are the
// notifier's own concern, not the core's.
type WebhookNotifier interface {
	NotifyMaterialEvent(ctx context.Context, record *types.AnalysisRecord)
}
