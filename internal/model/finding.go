package model

// FindingLabel is one adapter's judgment about a claim
type FindingLabel string

const (
	LabelSupports     FindingLabel = "supports"     // Evidence supports the claim
	LabelRefutes      FindingLabel = "refutes"      // Evidence contradicts the claim
	LabelInsufficient FindingLabel = "insufficient" // No usable evidence either way
	LabelError        FindingLabel = "error"        // Adapter failed; excluded from voting
)

// Finding is the result of querying a single evidence source.
// A finding belongs to the aggregation call that requested it and
// is never shared across requests.
type Finding struct {
	AdapterID   string       `json:"adapter_id"`
	Label       FindingLabel `json:"label"`
	Explanation string       `json:"explanation,omitempty"` // Raw provider text is kept here on parse failure
	Confidence  float64      `json:"confidence"`            // In [0,1]
	Citations   []Citation   `json:"citations,omitempty"`
}

// Citation is a single cited source attached to a finding or verdict
type Citation struct {
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	CredibilityScore float64 `json:"credibility_score"` // Static source-level trust, not per-claim confidence
}

// ErrorFinding builds the finding an adapter failure degrades to
func ErrorFinding(adapterID, explanation string) Finding {
	return Finding{
		AdapterID:   adapterID,
		Label:       LabelError,
		Explanation: explanation,
		Confidence:  0,
	}
}
