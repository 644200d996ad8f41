package finops

import (
	"github.com/finopsguard/finopsguard/internal/types"
)

// CreatePolicy registers policy, stamping its audit timestamps. It fails
// with policy_exists if policy.ID is already registered, and with
// invalid_request unless exactly one of Budget or Expression is set.
func (c *Core) CreatePolicy(policy *types.Policy) error {
	return c.registry.Create(policy)
}

// GetPolicy returns the policy registered under id, or policy_not_found.
func (c *Core) GetPolicy(id string) (*types.Policy, error) {
	return c.registry.Get(id)
}

// ListPolicies returns every registered policy, ordered by id.
func (c *Core) ListPolicies() []*types.Policy {
	return c.registry.List()
}

// DeletePolicy removes id from the registry, or reports policy_not_found.
func (c *Core) DeletePolicy(id string) error {
	return c.registry.Delete(id)
}
