package catalog

import "context"

type ListOpts struct {
	Q      string // name substring match
	Type   string // optional: growth_indicator|trackp|trackb
	Status string // optional: draft|published|archived
	Limit  int
	Offset int
}

// Store is the persistence boundary for the question catalog. Scoring never
// talks to it directly; the session service fetches a snapshot and hands
// plain values to the scorer.
type Store interface {
	PutAssessment(ctx context.Context, a Assessment) error
	GetAssessment(ctx context.Context, id string) (Assessment, error)
	ListAssessments(ctx context.Context, opts ListOpts) ([]Assessment, error)
	SetAssessmentStatus(ctx context.Context, id, status string) error

	PutPillar(ctx context.Context, p Pillar) error
	GetPillar(ctx context.Context, id string) (Pillar, error)
	ListPillars(ctx context.Context, assessmentID string) ([]Pillar, error)
	// DeletePillar cascades to the pillar's questions; callers must have
	// confirmed the cascade with the administrator.
	DeletePillar(ctx context.Context, id string) error

	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	ListQuestions(ctx context.Context, pillarID string) ([]Question, error)
	DeleteQuestion(ctx context.Context, id string) error

	// CreateResultProfile and UpdateResultProfile run the range validator
	// against the assessment's existing profiles before writing.
	CreateResultProfile(ctx context.Context, p ResultProfile) (ResultProfile, error)
	UpdateResultProfile(ctx context.Context, p ResultProfile) (ResultProfile, error)
	ListResultProfiles(ctx context.Context, assessmentID string) ([]ResultProfile, error)
	DeleteResultProfile(ctx context.Context, id string) error
}
