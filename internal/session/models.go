package session

import "github.com/growthsignal/assessment-api/internal/scoring"

const (
	StatusInProgress = "in_progress"
	StatusFinalized  = "finalized"
)

// Session is one respondent's pass through an assessment. Responses map
// question ID to selected option IDs and stop accepting writes once the
// session is finalized.
type Session struct {
	ID           string              `json:"id"`
	AssessmentID string              `json:"assessment_id"`
	LeadID       string              `json:"lead_id"`
	Status       string              `json:"status"` // in_progress|finalized
	Responses    map[string][]string `json:"responses"`
	StartedAt    int64               `json:"started_at,omitempty"`
	FinalizedAt  int64               `json:"finalized_at,omitempty"`
}

// Result is the computed outcome of a finalized session. Written once at
// scoring time and read-only afterward; it is never recomputed in place.
type Result struct {
	SessionID    string                `json:"session_id"`
	AssessmentID string                `json:"assessment_id"`
	LeadID       string                `json:"lead_id"`
	OverallScore float64               `json:"overall_score"`
	Profile      scoring.Profile       `json:"profile"`
	Breakdown    []scoring.PillarScore `json:"breakdown"`
	CreatedAt    int64                 `json:"created_at,omitempty"`
}
