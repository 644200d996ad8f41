package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

func budgetPolicy(id string, budget float64) *types.Policy {
	b := budget
	return &types.Policy{ID: id, Name: id, Budget: &b, OnViolation: types.ModeBlocking, Enabled: true}
}

func TestRegistryCreateGetDelete(t *testing.T) {
	r := NewRegistry()
	p := budgetPolicy("no_large_instances_in_dev", 100)

	require.NoError(t, r.Create(p))

	got, err := r.Get(p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
	require.False(t, got.CreatedAt.IsZero())

	require.NoError(t, r.Delete(p.ID))
	_, err = r.Get(p.ID)
	require.Equal(t, apperrors.TypePolicyNotFound, apperrors.TypeOf(err))
}

func TestRegistryCreateDuplicateFails(t *testing.T) {
	r := NewRegistry()
	p := budgetPolicy("dup", 50)
	require.NoError(t, r.Create(p))

	err := r.Create(p)
	require.Equal(t, apperrors.TypePolicyExists, apperrors.TypeOf(err))
}

func TestRegistryCreateRejectsBothOrNeitherBudgetAndExpression(t *testing.T) {
	r := NewRegistry()

	neither := &types.Policy{ID: "neither", Name: "neither"}
	require.Equal(t, apperrors.TypeInvalidRequest, apperrors.TypeOf(r.Create(neither)))

	budget := 10.0
	both := &types.Policy{
		ID:     "both",
		Name:   "both",
		Budget: &budget,
		Expression: types.PolicyExpression{
			Rules: []types.Rule{{Field: "env", Operator: types.OpEqual, Value: "dev"}},
		},
	}
	require.Equal(t, apperrors.TypeInvalidRequest, apperrors.TypeOf(r.Create(both)))
}

func TestRegistryDeleteUnknownFails(t *testing.T) {
	r := NewRegistry()
	err := r.Delete("nope")
	require.Equal(t, apperrors.TypePolicyNotFound, apperrors.TypeOf(err))
}

func TestRegistryListOrderedByID(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Create(budgetPolicy("zeta", 1)))
	require.NoError(t, r.Create(budgetPolicy("alpha", 1)))

	list := r.List()
	require.Len(t, list, 2)
	require.Equal(t, "alpha", list[0].ID)
	require.Equal(t, "zeta", list[1].ID)
}

func TestRegistryResolveStopsAtFirstMissing(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Create(budgetPolicy("a", 1)))

	_, err := r.Resolve([]string{"a", "missing"})
	require.Equal(t, apperrors.TypePolicyNotFound, apperrors.TypeOf(err))
}
