package finops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finopsguard/finopsguard/internal/types"
)

func TestEvaluatePolicyModeOverride(t *testing.T) {
	core := testCore(t)
	require.NoError(t, core.CreatePolicy(noLargeInstancesInDev(types.ModeBlocking)))

	payload := encode(`
resource "aws_instance" "big" {
  instance_type = "m5.large"
}
`)

	evals, err := core.EvaluatePolicy(context.Background(), EvaluateRequest{
		CheckRequest: CheckRequest{
			IACType:     "terraform",
			IACPayload:  payload,
			Environment: "dev",
			PolicyIDs:   []string{"no_large_instances_in_dev"},
		},
		Mode: types.ModeAdvisory,
	})
	require.NoError(t, err)
	require.Len(t, evals, 1)
	require.Equal(t, types.StatusFail, evals[0].Status)
	require.Equal(t, types.ModeAdvisory, evals[0].Mode)
}

func TestEvaluatePolicyImplicitBudget(t *testing.T) {
	core := testCore(t)
	payload := encode(`
resource "aws_instance" "example" {
  instance_type = "t3.medium"
}
`)

	evals, err := core.EvaluatePolicy(context.Background(), EvaluateRequest{
		CheckRequest: CheckRequest{
			IACType:     "terraform",
			IACPayload:  payload,
			Environment: "dev",
			BudgetRules: &BudgetRules{MonthlyBudget: 25},
		},
	})
	require.NoError(t, err)
	require.Len(t, evals, 1)
	require.Equal(t, "monthly_budget", evals[0].PolicyID)
	require.Equal(t, types.StatusFail, evals[0].Status)
}
