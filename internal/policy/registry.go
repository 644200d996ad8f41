package policy

import (
	"sort"
	"sync/atomic"
	"time"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

// Registry is the policy CRUD surface: a copy-on-write snapshot of the
// enabled/disabled policy set. Writers (Create/Delete) build a
// new snapshot map and swap it in atomically; readers (Get/List) always see
// one consistent snapshot for the whole call, never a partially-updated map.
type Registry struct {
	snapshot atomic.Pointer[map[string]*types.Policy]
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := map[string]*types.Policy{}
	r.snapshot.Store(&empty)
	return r
}

func (r *Registry) load() map[string]*types.Policy {
	return *r.snapshot.Load()
}

// Create adds policy to the registry. It fails with policy_exists if
// policy.ID is already registered, and with invalid_request unless exactly
// one of policy.Budget or policy.Expression.Rules is populated.
func (r *Registry) Create(policy *types.Policy) error {
	hasExpression := len(policy.Expression.Rules) > 0
	if policy.HasBudget() == hasExpression {
		return apperrors.InvalidRequest("policy must set exactly one of budget or expression")
	}

	for {
		current := r.snapshot.Load()
		if _, exists := (*current)[policy.ID]; exists {
			return apperrors.PolicyExists(policy.ID)
		}

		next := make(map[string]*types.Policy, len(*current)+1)
		for k, v := range *current {
			next[k] = v
		}
		stored := *policy
		now := time.Now().UTC()
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		stored.UpdatedAt = now
		next[policy.ID] = &stored

		if r.snapshot.CompareAndSwap(current, &next) {
			return nil
		}
		// Another writer raced us; retry against the new snapshot.
	}
}

// Get returns the policy registered under id, or policy_not_found.
func (r *Registry) Get(id string) (*types.Policy, error) {
	current := r.load()
	p, ok := current[id]
	if !ok {
		return nil, apperrors.PolicyNotFound(id)
	}
	copied := *p
	return &copied, nil
}

// List returns every registered policy, ordered by ID for a deterministic
// listing.
func (r *Registry) List() []*types.Policy {
	current := r.load()
	out := make([]*types.Policy, 0, len(current))
	for _, p := range current {
		copied := *p
		out = append(out, &copied)
	}
	sortPoliciesByID(out)
	return out
}

// Delete removes id from the registry, or reports policy_not_found if it
// was never registered.
func (r *Registry) Delete(id string) error {
	for {
		current := r.snapshot.Load()
		if _, exists := (*current)[id]; !exists {
			return apperrors.PolicyNotFound(id)
		}

		next := make(map[string]*types.Policy, len(*current))
		for k, v := range *current {
			if k != id {
				next[k] = v
			}
		}

		if r.snapshot.CompareAndSwap(current, &next) {
			return nil
		}
	}
}

// Resolve returns the policies named by ids, in the same order, failing
// with policy_not_found at the first id that isn't registered.
func (r *Registry) Resolve(ids []string) ([]*types.Policy, error) {
	current := r.load()
	out := make([]*types.Policy, 0, len(ids))
	for _, id := range ids {
		p, ok := current[id]
		if !ok {
			return nil, apperrors.PolicyNotFound(id)
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func sortPoliciesByID(policies []*types.Policy) {
	sort.Slice(policies, func(i, j int) bool { return policies[i].ID < policies[j].ID })
}
