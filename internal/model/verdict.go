package model

import "time"

// VerdictStatus is the final label shown to the user
type VerdictStatus string

const (
	StatusVerified     VerdictStatus = "verified"     // All voting findings support the claim
	StatusQuestionable VerdictStatus = "questionable" // No usable evidence either way
	StatusFalse        VerdictStatus = "false"        // All voting findings refute the claim
	StatusMixed        VerdictStatus = "mixed"        // Supporting and refuting findings conflict
)

// Verdict is the aggregated, client-facing fact-check result.
// Sources are deduplicated by URL and sorted by descending credibility.
type Verdict struct {
	Status           VerdictStatus `json:"status"`
	VerdictText      string        `json:"verdict"`
	Summary          string        `json:"summary"`
	Analysis         string        `json:"analysis"`
	ConfidenceScore  float64       `json:"confidence_score"` // Convex combination of voting findings
	Sources          []Citation    `json:"sources"`
	Education        string        `json:"education"`
	Timestamp        time.Time     `json:"timestamp"`
	ProcessingTimeMS int64         `json:"processing_time_ms"`
}
