package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/finopsguard/finopsguard/internal/types"
)

func monthlyCost(amount float64) *types.CostResult {
	return &types.CostResult{
		EstimatedMonthlyCost: decimal.NewFromFloat(amount),
		PricingConfidence:    types.ConfidenceHigh,
		ResourceCount:        1,
	}
}

func TestEvaluateBudgetPassesUnderLimit(t *testing.T) {
	eval := EvaluateBudget(monthlyCost(100), 500, types.ModeBlocking)
	require.Equal(t, types.StatusPass, eval.Status)
	require.Equal(t, DefaultBudgetPolicyID, eval.PolicyID)
}

func TestEvaluateBudgetFailsOverLimit(t *testing.T) {
	eval := EvaluateBudget(monthlyCost(600), 500, types.ModeBlocking)
	require.Equal(t, types.StatusFail, eval.Status)
	require.Len(t, eval.ViolatedRules, 1)
}

func TestEvaluateSimpleFieldRule(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{ID: "a", Type: "aws_instance", Region: "us-east-1", Size: "m5.2xlarge"},
		},
	}
	policy := &types.Policy{
		ID: "no-oversized-instances",
		Expression: types.PolicyExpression{
			Rules: []types.Rule{
				{Field: "env", Operator: types.OpEqual, Value: "production"},
			},
			RuleOperator: types.CombinatorAnd,
		},
		OnViolation: types.ModeBlocking,
	}

	eval, err := Evaluate(model, monthlyCost(10), "production", policy, types.ModeBlocking)
	require.NoError(t, err)
	require.Equal(t, types.StatusFail, eval.Status)
}

func TestEvaluateAnySentinelPassesWhenOneResourceMatches(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{ID: "a", Type: "aws_instance", Region: "us-east-1", Size: "t3.micro"},
			{ID: "b", Type: "aws_instance", Region: "us-east-1", Size: "m5.24xlarge"},
		},
	}
	policy := &types.Policy{
		ID: "flag-any-huge-instance",
		Expression: types.PolicyExpression{
			Rules: []types.Rule{
				{Field: "crm.resources.*.size", Operator: types.OpEqual, Value: "m5.24xlarge"},
			},
			RuleOperator: types.CombinatorOr,
		},
		OnViolation: types.ModeBlocking,
	}

	eval, err := Evaluate(model, monthlyCost(10), "dev", policy, types.ModeBlocking)
	require.NoError(t, err)
	require.Equal(t, types.StatusFail, eval.Status)
}

func TestEvaluateEveryQuantifierRequiresAllResources(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{ID: "a", Type: "aws_instance", Region: "us-east-1", Tags: map[string]string{"owner": "team-a"}},
			{ID: "b", Type: "aws_instance", Region: "us-east-1", Tags: map[string]string{}},
		},
	}
	policy := &types.Policy{
		ID: "require-owner-tag",
		Expression: types.PolicyExpression{
			Rules: []types.Rule{
				{Field: "!crm.resources.*.tags.owner", Operator: types.OpNotEqual, Value: ""},
			},
			RuleOperator: types.CombinatorOr,
		},
		OnViolation: types.ModeBlocking,
	}

	eval, err := Evaluate(model, monthlyCost(10), "dev", policy, types.ModeBlocking)
	require.NoError(t, err)
	// resource b has no owner tag at all, so its resolved value is Null,
	// which is never equal to the empty string target (kind mismatch) --
	// so "!= ''" holds for both resources and the every-quantifier is
	// satisfied, making this single-rule "or" expression violated.
	require.Equal(t, types.StatusFail, eval.Status)
}

func TestEvaluateAllSkipsDisabledPolicies(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{{ID: "a", Type: "aws_instance", Size: "m5.large"}},
	}
	disabled := &types.Policy{
		ID: "disabled-policy",
		Expression: types.PolicyExpression{
			Rules: []types.Rule{
				{Field: "crm.resources.*.size", Operator: types.OpEqual, Value: "m5.large"},
			},
			RuleOperator: types.CombinatorAnd,
		},
		OnViolation: types.ModeBlocking,
		Enabled:     false,
	}

	evals, failed, err := EvaluateAll(model, monthlyCost(10), "dev", []*types.Policy{disabled}, 0)
	require.NoError(t, err)
	require.False(t, failed)
	require.Len(t, evals, 1)
	require.Equal(t, types.StatusNA, evals[0].Status)
}

func TestTypeMismatchNeverErrors(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{{ID: "a", Type: "aws_instance"}},
	}
	policy := &types.Policy{
		ID: "bogus-path",
		Expression: types.PolicyExpression{
			Rules: []types.Rule{
				{Field: "crm.resources.*.nonexistent.deeper", Operator: types.OpGreaterThan, Value: 5},
			},
			RuleOperator: types.CombinatorOr,
		},
		OnViolation: types.ModeAdvisory,
	}

	eval, err := Evaluate(model, monthlyCost(10), "dev", policy, types.ModeAdvisory)
	require.NoError(t, err)
	require.Equal(t, types.StatusPass, eval.Status)
}
