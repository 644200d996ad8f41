package finops

import "encoding/json"

// resultPayload is the shape persisted into AnalysisRecord.ResultJSON: the
// full CostResult plus every policy evaluation and recommendation, so a
// caller can reconstruct the complete CheckResponse from history alone.
type resultPayload struct {
	Cost             interface{} `json:"cost"`
	PolicyEvaluations interface{} `json:"policy_evaluations,omitempty"`
	Recommendations  interface{} `json:"recommendations,omitempty"`
}

// marshalResult serializes a's cost, policy evaluations, and recommendations
// for storage. Marshal failure here would mean a broken CostResult type, so
// it degrades to an empty JSON object rather than failing the whole check.
func marshalResult(a *analysis) []byte {
	payload := resultPayload{
		Cost:              a.cost,
		PolicyEvaluations: a.policyEvals,
		Recommendations:   a.recommendations,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return []byte("{}")
	}
	return encoded
}
