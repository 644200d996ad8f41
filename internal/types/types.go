// Package types defines the canonical resource model and the value types
// that flow through the pricing, cost, and policy stages of the core.
package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Confidence labels how trustworthy a PriceRecord or CostResult is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// rank orders confidences so Min can be computed without a lookup table.
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// MinConfidence returns the lowest-ranked confidence among cs. An empty cs
// returns ConfidenceLow, matching the "no priced resources" edge case.
func MinConfidence(cs ...Confidence) Confidence {
	min := ConfidenceHigh
	seen := false
	for _, c := range cs {
		if !seen || c.rank() < min.rank() {
			min = c
			seen = true
		}
	}
	if !seen {
		return ConfidenceLow
	}
	return min
}

// PricingUnit is the billing unit a PriceRecord's amount is denominated in.
type PricingUnit string

const (
	UnitHour    PricingUnit = "hour"
	UnitMonth   PricingUnit = "month"
	UnitGBMonth PricingUnit = "gb-month"
	UnitRequest PricingUnit = "request"
	UnitOther   PricingUnit = "other"
)

// PricingSource names where a PriceRecord's amount came from.
type PricingSource string

const (
	SourceLive   PricingSource = "live"
	SourceStatic PricingSource = "static"
)

// CanonicalResource is the unit of analysis: one infrastructure resource,
// normalized out of whatever IaC syntax produced it.
type CanonicalResource struct {
	// ID is unique within the enclosing CanonicalResourceModel.
	ID string `json:"id"`

	// Type is a namespaced resource type, e.g. "aws_instance".
	Type string `json:"type"`

	// Name is the resource's declared name.
	Name string `json:"name"`

	// Region is non-empty; the parser substitutes a provider default when
	// the source IaC omits one. "global" is a valid region for
	// region-less services.
	Region string `json:"region"`

	// Size is an opaque, human-readable capture of the billing-salient
	// shape of the resource, e.g. "m5.large", "pd-ssd/500GB",
	// "FARGATE/3tasks". Unknown resource types use "unknown".
	Size string `json:"size"`

	// Count is the replica count; always >= 1.
	Count int `json:"count"`

	// Tags are resource tags as declared in the source IaC.
	Tags map[string]string `json:"tags,omitempty"`

	// Metadata carries extractor-specific detail that doesn't fit the
	// fields above: unresolved expression text, confidence impacts,
	// ramp profiles, normalization factors.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ProviderForResourceType infers a provider name ("aws", "azurerm",
// "google") from a resource type's namespace prefix. It is the one place
// this inference lives, shared by the pricing factory's concurrent resolver
// and the cost estimator's sequential one so both agree on a resource's
// provider.
func ProviderForResourceType(resourceType string) string {
	switch {
	case strings.HasPrefix(resourceType, "aws_"):
		return "aws"
	case strings.HasPrefix(resourceType, "azurerm_"):
		return "azurerm"
	case strings.HasPrefix(resourceType, "google_"), strings.HasPrefix(resourceType, "gcp_"):
		return "google"
	default:
		return "unknown"
	}
}

// CanonicalResourceModel is the immutable output of the IaC parser.
type CanonicalResourceModel struct {
	Resources []CanonicalResource `json:"resources"`

	// ProviderDefaults maps a provider name to its default region, used to
	// fill CanonicalResource.Region when the source IaC doesn't specify one.
	ProviderDefaults map[string]string `json:"provider_defaults,omitempty"`

	// SourceIACType names the IaC dialect the model was parsed from, e.g.
	// "terraform".
	SourceIACType string `json:"source_iac_type"`
}

// PriceRecord is a total resolver result: every resource gets one, even if
// it could not be priced.
type PriceRecord struct {
	Unit       PricingUnit     `json:"unit"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Confidence Confidence      `json:"confidence"`
	Source     PricingSource   `json:"source"`
	SKU        string          `json:"sku"`
	Region     string          `json:"region"`
}

// UnpricedRecord is the PriceRecord returned for a resource the pricing
// resolver has no rate for.
func UnpricedRecord(region string) PriceRecord {
	return PriceRecord{
		Unit:       UnitOther,
		Amount:     decimal.Zero,
		Currency:   "USD",
		Confidence: ConfidenceLow,
		Source:     SourceStatic,
		SKU:        "unknown",
		Region:     region,
	}
}

// CostBreakdownItem is one resource's contribution to a CostResult.
type CostBreakdownItem struct {
	ResourceID  string          `json:"resource_id"`
	MonthlyCost decimal.Decimal `json:"monthly_cost"`
	Notes       []string        `json:"notes,omitempty"`
	Confidence  Confidence      `json:"confidence"`
}

// CostResult is the output of the cost estimator.
type CostResult struct {
	EstimatedMonthlyCost   decimal.Decimal     `json:"estimated_monthly_cost"`
	EstimatedFirstWeekCost decimal.Decimal     `json:"estimated_first_week_cost"`
	Breakdown              []CostBreakdownItem `json:"breakdown"`
	PricingConfidence      Confidence          `json:"pricing_confidence"`
	ResourceCount          int                 `json:"resource_count"`
	RiskFlags              []string            `json:"risk_flags,omitempty"`
}

// RuleOperator is a comparison a policy Rule applies between a resolved
// field value and Rule.Value.
type RuleOperator string

const (
	OpEqual        RuleOperator = "=="
	OpNotEqual     RuleOperator = "!="
	OpGreaterThan  RuleOperator = ">"
	OpGreaterEqual RuleOperator = ">="
	OpLessThan     RuleOperator = "<"
	OpLessEqual    RuleOperator = "<="
	OpIn           RuleOperator = "in"
	OpNotIn        RuleOperator = "not_in"
	OpContains     RuleOperator = "contains"
)

// Rule compares one dotted-path field of the CRM or CostResult against a
// literal value.
type Rule struct {
	Field    string       `json:"field"`
	Operator RuleOperator `json:"operator"`
	Value    any          `json:"value"`
}

// RuleOperatorCombinator joins a PolicyExpression's rules.
type RuleOperatorCombinator string

const (
	CombinatorAnd RuleOperatorCombinator = "and"
	CombinatorOr  RuleOperatorCombinator = "or"
)

// PolicyExpression is a flat set of rules joined by a single combinator.
type PolicyExpression struct {
	Rules        []Rule                 `json:"rules"`
	RuleOperator RuleOperatorCombinator `json:"rule_operator"`
}

// PolicyMode controls whether a violated policy blocks the caller or is
// merely reported.
type PolicyMode string

const (
	ModeAdvisory PolicyMode = "advisory"
	ModeBlocking PolicyMode = "blocking"
)

// Policy is a named, storable check against a CanonicalResourceModel+
// CostResult. Exactly one of Budget or Expression.Rules is populated:
// Budget is sugar for an expression comparing
// cost.estimated_monthly_cost > budget, kept as a distinct field (rather
// than pre-compiled into Expression) so a stored policy round-trips back
// out through GetPolicy/ListPolicies exactly as created.
type Policy struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Budget      *float64         `json:"budget,omitempty"`
	Expression  PolicyExpression `json:"expression,omitempty"`
	OnViolation PolicyMode       `json:"on_violation"`
	Enabled     bool             `json:"enabled"`
	CreatedBy   string           `json:"created_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// HasBudget reports whether p is a budget-sugar policy rather than an
// expression policy.
func (p *Policy) HasBudget() bool { return p.Budget != nil }

// PolicyStatus is the outcome of evaluating a Policy against a CRM+CostResult.
type PolicyStatus string

const (
	StatusPass PolicyStatus = "pass"
	StatusFail PolicyStatus = "fail"
	StatusNA   PolicyStatus = "n/a"
)

// PolicyEvaluation is the result of evaluating one policy.
type PolicyEvaluation struct {
	PolicyID      string       `json:"policy_id"`
	Status        PolicyStatus `json:"status"`
	Reason        string       `json:"reason"`
	Mode          PolicyMode   `json:"mode"`
	ViolatedRules []Rule       `json:"violated_rules,omitempty"`
}

// AnalysisRecord is the immutable, append-only record of one completed
// check, persisted by the analysis store.
type AnalysisRecord struct {
	RequestID              string          `json:"request_id"`
	StartedAt              time.Time       `json:"started_at"`
	CompletedAt            time.Time       `json:"completed_at"`
	DurationMS             int64           `json:"duration_ms"`
	IACType                string          `json:"iac_type"`
	Environment            string          `json:"environment"`
	EstimatedMonthlyCost   decimal.Decimal `json:"estimated_monthly_cost"`
	EstimatedFirstWeekCost decimal.Decimal `json:"estimated_first_week_cost"`
	ResourceCount          int             `json:"resource_count"`
	PolicyStatus           string          `json:"policy_status,omitempty"`
	PolicyID               string          `json:"policy_id,omitempty"`
	RiskFlags              []string        `json:"risk_flags,omitempty"`
	RecommendationsCount   int             `json:"recommendations_count"`
	ResultJSON             []byte          `json:"result_json"`
	CreatedAt              time.Time       `json:"created_at"`
}

// CacheEntry describes one entry owned by the analysis cache. The
// cached payload itself lives alongside this metadata in the cache store,
// not in this struct.
type CacheEntry struct {
	CacheKey     string    `json:"cache_key"`
	CacheType    string    `json:"cache_type"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	HitCount     int64     `json:"hit_count"`
	LastAccessed time.Time `json:"last_accessed"`
}
