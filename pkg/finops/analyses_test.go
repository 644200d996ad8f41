package finops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListRecentAnalysesReturnsPersistedChecks(t *testing.T) {
	core := testCore(t)
	payload := encode(`
resource "aws_instance" "example" {
  instance_type = "t3.medium"
}
`)

	for _, id := range []string{"req-1", "req-2"} {
		_, err := core.CheckCostImpact(context.Background(), CheckRequest{
			IACType:     "terraform",
			IACPayload:  payload,
			Environment: "dev",
			RequestID:   id,
		})
		require.NoError(t, err)
	}

	list, err := core.ListRecentAnalyses(context.Background(), ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
}

func TestGetAnalysisRejectsEmptyRequestID(t *testing.T) {
	core := testCore(t)
	_, err := core.GetAnalysis(context.Background(), "")
	require.Error(t, err)
}
