package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/growthsignal/assessment-api/internal/audit"
	"github.com/growthsignal/assessment-api/internal/catalog"
	"github.com/growthsignal/assessment-api/internal/scoring"
)

var (
	ErrNotPublished = errors.New("assessment is not published")
)

// Service drives the respondent flow: start a session against a published
// assessment, collect answers, and finalize. Finalization reads one snapshot
// of catalog + responses, runs the pure scoring core over it, and persists
// the Result exactly once.
type Service struct {
	catalog  catalog.Store
	sessions Store
	audit    *audit.Log
}

func NewService(cat catalog.Store, sess Store, log *audit.Log) *Service {
	return &Service{catalog: cat, sessions: sess, audit: log}
}

func (s *Service) Start(ctx context.Context, assessmentID, leadID string) (Session, error) {
	a, err := s.catalog.GetAssessment(ctx, assessmentID)
	if err != nil {
		return Session{}, err
	}
	if a.Status != catalog.StatusPublished {
		return Session{}, fmt.Errorf("assessment %s: %w", assessmentID, ErrNotPublished)
	}
	return s.sessions.NewSession(ctx, assessmentID, leadID)
}

func (s *Service) Answer(ctx context.Context, sessionID string, resp map[string][]string) (Session, error) {
	return s.sessions.SaveResponses(ctx, sessionID, resp)
}

func (s *Service) Get(ctx context.Context, sessionID string) (Session, error) {
	return s.sessions.GetSession(ctx, sessionID)
}

// Finalize scores and classifies the session. Refinalizing a finalized
// session returns the stored Result unchanged; Results are audit records and
// are never recomputed in place.
func (s *Service) Finalize(ctx context.Context, sessionID string) (Result, error) {
	sess, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if sess.Status == StatusFinalized {
		return s.sessions.GetResult(ctx, sessionID)
	}

	pillars, err := s.pillarInputs(ctx, sess.AssessmentID)
	if err != nil {
		return Result{}, err
	}

	breakdown := make([]scoring.PillarScore, 0, len(pillars))
	for _, p := range pillars {
		ps, err := scoring.ScorePillar(p, sess.Responses)
		if err != nil {
			if errors.Is(err, scoring.ErrPillarIncomplete) {
				// unanswered pillars stay out of the overall average
				continue
			}
			return Result{}, err
		}
		breakdown = append(breakdown, ps)
	}

	overall, err := scoring.Overall(breakdown)
	if err != nil {
		return Result{}, err
	}

	profiles, err := s.profileInputs(ctx, sess.AssessmentID)
	if err != nil {
		return Result{}, err
	}
	profile, err := scoring.Classify(overall, profiles)
	if err != nil {
		var gap *scoring.NoMatchingProfileError
		if errors.As(err, &gap) {
			// configuration defect: record it where admins will see it
			_ = s.audit.Append(ctx, audit.TypeScoringGap, sess.AssessmentID, map[string]interface{}{
				"session_id": sessionID,
				"score":      gap.Score,
			})
		}
		return Result{}, err
	}

	result := Result{
		SessionID:    sessionID,
		AssessmentID: sess.AssessmentID,
		LeadID:       sess.LeadID,
		OverallScore: overall,
		Profile:      profile,
		Breakdown:    breakdown,
	}
	if err := s.sessions.MarkFinalized(ctx, sessionID, result); err != nil {
		if errors.Is(err, ErrFinalized) {
			// lost a race with a concurrent finalize; the stored result wins
			return s.sessions.GetResult(ctx, sessionID)
		}
		return Result{}, err
	}
	_ = s.audit.Append(ctx, audit.TypeSessionFinalized, sessionID, map[string]interface{}{
		"assessment_id": sess.AssessmentID,
		"lead_id":       sess.LeadID,
		"overall_score": overall,
		"profile_key":   profile.Key,
	})
	return s.sessions.GetResult(ctx, sessionID)
}

func (s *Service) Result(ctx context.Context, sessionID string) (Result, error) {
	return s.sessions.GetResult(ctx, sessionID)
}

func (s *Service) ListResults(ctx context.Context, opts ResultListOpts) ([]Result, error) {
	return s.sessions.ListResults(ctx, opts)
}

// pillarInputs materializes the catalog snapshot the scorer consumes: every
// pillar of the assessment with its active questions and option values.
func (s *Service) pillarInputs(ctx context.Context, assessmentID string) ([]scoring.Pillar, error) {
	pillars, err := s.catalog.ListPillars(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Pillar, 0, len(pillars))
	for _, p := range pillars {
		questions, err := s.catalog.ListQuestions(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		sp := scoring.Pillar{ID: p.ID, Name: p.Name, Weight: p.Weight}
		for _, q := range questions {
			sq := scoring.Question{ID: q.ID, Type: q.Type, Active: q.IsActive}
			for _, o := range q.Options {
				sq.Options = append(sq.Options, scoring.Option{ID: o.ID, Score: o.ScoreValue})
			}
			sp.Questions = append(sp.Questions, sq)
		}
		out = append(out, sp)
	}
	return out, nil
}

func (s *Service) profileInputs(ctx context.Context, assessmentID string) ([]scoring.Profile, error) {
	profiles, err := s.catalog.ListResultProfiles(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	out := make([]scoring.Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, scoring.Profile{
			Key:         p.Key,
			Name:        p.Name,
			Description: p.Description,
			MinScore:    p.MinScore,
			MaxScore:    p.MaxScore,
		})
	}
	return out, nil
}
