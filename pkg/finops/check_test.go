package finops

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finopsguard/finopsguard/internal/config"
	"github.com/finopsguard/finopsguard/internal/types"
)

func testCore(t *testing.T) *Core {
	t.Helper()
	cfg := config.Default()
	core, err := NewCore(context.Background(), cfg)
	require.NoError(t, err)
	return core
}

func encode(hcl string) string {
	return base64.StdEncoding.EncodeToString([]byte(hcl))
}

// TestCheckCostImpactBasicAWSInstanceNoPolicy is end-to-end scenario 1: a
// single t3.medium in dev with no policy selection produces a priced,
// unblocked result.
func TestCheckCostImpactBasicAWSInstanceNoPolicy(t *testing.T) {
	core := testCore(t)
	payload := encode(`
resource "aws_instance" "example" {
  instance_type = "t3.medium"
}
provider "aws" {
  region = "us-east-1"
}
`)

	resp, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:     "terraform",
		IACPayload:  payload,
		Environment: "dev",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.ResourceCount)
	require.NotEqual(t, "0", resp.EstimatedMonthlyCost)
	require.Contains(t, []types.Confidence{types.ConfidenceHigh, types.ConfidenceMedium}, resp.PricingConfidence)
	require.Empty(t, resp.PolicyEvaluations)
}

// TestCheckCostImpactBudgetViolation is end-to-end scenario 2: the same
// t3.medium instance (~$30/mo) fails an implicit $25 monthly budget.
func TestCheckCostImpactBudgetViolation(t *testing.T) {
	core := testCore(t)
	payload := encode(`
resource "aws_instance" "example" {
  instance_type = "t3.medium"
}
provider "aws" {
  region = "us-east-1"
}
`)

	resp, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:     "terraform",
		IACPayload:  payload,
		Environment: "dev",
		BudgetRules: &BudgetRules{MonthlyBudget: 25},
	})
	require.NoError(t, err)
	require.Len(t, resp.PolicyEvaluations, 1)
	require.Equal(t, "monthly_budget", resp.PolicyEvaluations[0].PolicyID)
	require.Equal(t, types.StatusFail, resp.PolicyEvaluations[0].Status)
	require.True(t, resp.PolicyBlocked)
}

func noLargeInstancesInDev(mode types.PolicyMode) *types.Policy {
	return &types.Policy{
		ID:   "no_large_instances_in_dev",
		Name: "no_large_instances_in_dev",
		Expression: types.PolicyExpression{
			RuleOperator: types.CombinatorAnd,
			Rules: []types.Rule{
				{Field: "env", Operator: types.OpEqual, Value: "dev"},
				{Field: "crm.resources.*.size", Operator: types.OpEqual, Value: "m5.large"},
			},
		},
		OnViolation: mode,
		Enabled:     true,
	}
}

// TestCheckCostImpactBlockingPolicyViolation is end-to-end scenario 3: a
// blocking policy against m5.large instances in dev fails and echoes the
// policy id.
func TestCheckCostImpactBlockingPolicyViolation(t *testing.T) {
	core := testCore(t)
	require.NoError(t, core.CreatePolicy(noLargeInstancesInDev(types.ModeBlocking)))

	payload := encode(`
resource "aws_instance" "big" {
  instance_type = "m5.large"
}
provider "aws" {
  region = "us-east-1"
}
`)

	resp, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:     "terraform",
		IACPayload:  payload,
		Environment: "dev",
		PolicyIDs:   []string{"no_large_instances_in_dev"},
	})
	require.NoError(t, err)
	require.Len(t, resp.PolicyEvaluations, 1)
	require.Equal(t, "no_large_instances_in_dev", resp.PolicyEvaluations[0].PolicyID)
	require.Equal(t, types.StatusFail, resp.PolicyEvaluations[0].Status)
	require.True(t, resp.PolicyBlocked)
}

// TestCheckCostImpactAdvisoryPolicyDoesNotBlock is end-to-end scenario 4:
// the same policy in advisory mode still reports fail but never sets
// PolicyBlocked.
func TestCheckCostImpactAdvisoryPolicyDoesNotBlock(t *testing.T) {
	core := testCore(t)
	require.NoError(t, core.CreatePolicy(noLargeInstancesInDev(types.ModeAdvisory)))

	payload := encode(`
resource "aws_instance" "big" {
  instance_type = "m5.large"
}
provider "aws" {
  region = "us-east-1"
}
`)

	resp, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:     "terraform",
		IACPayload:  payload,
		Environment: "dev",
		PolicyIDs:   []string{"no_large_instances_in_dev"},
	})
	require.NoError(t, err)
	require.Equal(t, types.StatusFail, resp.PolicyEvaluations[0].Status)
	require.False(t, resp.PolicyBlocked)
}

// TestCheckCostImpactGCPSpannerTwoNodes is end-to-end scenario 5: a 2-node
// Spanner instance prices from the static catalog via its per-node rate.
func TestCheckCostImpactGCPSpannerTwoNodes(t *testing.T) {
	core := testCore(t)
	payload := encode(`
resource "google_spanner_instance" "spanner" {
  num_nodes = 2
}
`)

	resp, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:     "terraform",
		IACPayload:  payload,
		Environment: "production",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.ResourceCount)
	require.NotEqual(t, "0", resp.EstimatedMonthlyCost)
	require.Empty(t, resp.RiskFlags)
}

// TestCheckCostImpactUnpricedResourceRiskFlag is end-to-end scenario 6: an
// unrecognized resource type contributes $0, is flagged, and forces low
// confidence.
func TestCheckCostImpactUnpricedResourceRiskFlag(t *testing.T) {
	core := testCore(t)
	payload := encode(`
resource "aws_quantum_widget" "mystery" {
  foo = "bar"
}
`)

	resp, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:     "terraform",
		IACPayload:  payload,
		Environment: "production",
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.ResourceCount)
	require.Equal(t, "0", resp.EstimatedMonthlyCost)
	require.Contains(t, resp.RiskFlags, "unpriced_resource:aws_quantum_widget")
	require.Equal(t, types.ConfidenceLow, resp.PricingConfidence)
}

func TestCheckCostImpactRejectsEmptyPayload(t *testing.T) {
	core := testCore(t)
	_, err := core.CheckCostImpact(context.Background(), CheckRequest{IACType: "terraform"})
	require.Error(t, err)
}

func TestCheckCostImpactRejectsBadBase64(t *testing.T) {
	core := testCore(t)
	_, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:    "terraform",
		IACPayload: "not valid base64!!",
	})
	require.Error(t, err)
}

func TestCheckCostImpactPersistsAnalysisRecord(t *testing.T) {
	core := testCore(t)
	payload := encode(`
resource "aws_instance" "example" {
  instance_type = "t3.medium"
}
`)

	resp, err := core.CheckCostImpact(context.Background(), CheckRequest{
		IACType:     "terraform",
		IACPayload:  payload,
		Environment: "dev",
		RequestID:   "fixed-request-id",
	})
	require.NoError(t, err)
	require.Equal(t, "fixed-request-id", resp.RequestID)

	record, err := core.GetAnalysis(context.Background(), "fixed-request-id")
	require.NoError(t, err)
	require.Equal(t, 1, record.ResourceCount)
}
