package session

import "context"

type ResultListOpts struct {
	AssessmentID string // filter by assessment
	LeadID       string // filter by lead/customer
	Limit        int
	Offset       int
}

// Store persists sessions and their computed results. Scoring itself happens
// in the Service over plain values; the store only reads and writes rows.
type Store interface {
	NewSession(ctx context.Context, assessmentID, leadID string) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
	// SaveResponses merges the supplied answers into the session. Finalized
	// sessions reject further writes.
	SaveResponses(ctx context.Context, id string, resp map[string][]string) (Session, error)
	// MarkFinalized flips the session to finalized and records its Result.
	MarkFinalized(ctx context.Context, id string, r Result) error

	GetResult(ctx context.Context, sessionID string) (Result, error)
	ListResults(ctx context.Context, opts ResultListOpts) ([]Result, error)
}
