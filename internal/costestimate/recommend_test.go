package costestimate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/finopsguard/finopsguard/internal/types"
)

func TestRecommendOversizedDevInstance(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{Type: "aws_instance", Name: "web", Size: "m5.large", Count: 1},
		},
	}
	recs := Recommend(model, &types.CostResult{}, "dev")
	require.Len(t, recs, 1)
	require.Contains(t, recs[0], "m5.large")
}

func TestRecommendSkipsProdEnvironment(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{Type: "aws_instance", Name: "web", Size: "m5.large", Count: 1},
		},
	}
	recs := Recommend(model, &types.CostResult{}, "production")
	require.Empty(t, recs)
}

func TestRecommendUnencryptedEBSVolume(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{Type: "aws_ebs_volume", Name: "data", Size: "gp3/100GB", Metadata: map[string]any{"encrypted": false}},
		},
	}
	recs := Recommend(model, &types.CostResult{}, "production")
	require.Len(t, recs, 1)
	require.Contains(t, recs[0], "not encrypted")
}

func TestRecommendPublicRDSInstance(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{Type: "aws_db_instance", Name: "main", Size: "db.t3.micro", Metadata: map[string]any{"publicly_accessible": true}},
		},
	}
	recs := Recommend(model, &types.CostResult{}, "production")
	require.Len(t, recs, 1)
	require.Contains(t, recs[0], "publicly_accessible")
}

func TestRecommendIdleNATGateway(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{Type: "aws_nat_gateway", Name: "nat1", Size: "standard", Metadata: map[string]any{"has_subnet": false}},
		},
	}
	recs := Recommend(model, &types.CostResult{}, "production")
	require.Len(t, recs, 1)
	require.Contains(t, recs[0], "no resolvable subnet")
}

func TestRecommendNoFindingsOnCleanModel(t *testing.T) {
	model := &types.CanonicalResourceModel{
		Resources: []types.CanonicalResource{
			{Type: "aws_instance", Name: "web", Size: "t3.micro", Count: 1},
		},
	}
	recs := Recommend(model, &types.CostResult{}, "production")
	require.Empty(t, recs)
}
