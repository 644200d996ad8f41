package finops

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

func TestCorePolicyCRUD(t *testing.T) {
	core := testCore(t)
	budget := 100.0
	p := &types.Policy{ID: "monthly-cap", Name: "monthly-cap", Budget: &budget, OnViolation: types.ModeBlocking, Enabled: true}

	require.NoError(t, core.CreatePolicy(p))

	got, err := core.GetPolicy("monthly-cap")
	require.NoError(t, err)
	require.Equal(t, "monthly-cap", got.ID)

	require.Len(t, core.ListPolicies(), 1)

	require.NoError(t, core.DeletePolicy("monthly-cap"))
	_, err = core.GetPolicy("monthly-cap")
	require.Equal(t, apperrors.TypePolicyNotFound, apperrors.TypeOf(err))
}

func TestCoreCreatePolicyDuplicateFails(t *testing.T) {
	core := testCore(t)
	budget := 10.0
	p := &types.Policy{ID: "dup", Name: "dup", Budget: &budget, Enabled: true}

	require.NoError(t, core.CreatePolicy(p))
	err := core.CreatePolicy(p)
	require.Equal(t, apperrors.TypePolicyExists, apperrors.TypeOf(err))
}
