package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// Fingerprint is the cache key for one check request: a SHA-256 digest over
// a canonical serialization of everything that determines the result, so
// two requests that would produce the same analysis always collide on the
// same key regardless of field ordering in the caller's input.
type fingerprintInput struct {
	IACType     string   `json:"iac_type"`
	Payload     string   `json:"normalized_payload"`
	Environment string   `json:"environment"`
	PolicyIDs   []string `json:"policy_ids"`
	BudgetRules []string `json:"budget_rules"`
}

// Fingerprint computes the deterministic cache key described above.
// normalizedPayload is the decoded IaC source text (not the base64 the
// caller sent, whose padding and line breaks can vary per encoder);
// policyIDs and budgetRules are sorted so input order never changes the
// key.
func Fingerprint(iacType, normalizedPayload, environment string, policyIDs []string, budgetRules []string) string {
	sortedPolicies := append([]string(nil), policyIDs...)
	sort.Strings(sortedPolicies)
	sortedBudgets := append([]string(nil), budgetRules...)
	sort.Strings(sortedBudgets)

	input := fingerprintInput{
		IACType:     iacType,
		Payload:     normalizedPayload,
		Environment: environment,
		PolicyIDs:   sortedPolicies,
		BudgetRules: sortedBudgets,
	}

	// json.Marshal on a struct with fixed field order is deterministic,
	// which is what makes this a stable fingerprint across process restarts.
	encoded, err := json.Marshal(input)
	if err != nil {
		// Marshal of this struct can't fail; this branch only exists to
		// satisfy the compiler's error check.
		encoded = []byte(iacType + normalizedPayload + environment)
	}

	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
