package session

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/growthsignal/assessment-api/internal/catalog"
	"github.com/growthsignal/assessment-api/internal/scoring"
)

func seedCatalog(t *testing.T, cat catalog.Store) string {
	t.Helper()
	ctx := context.Background()

	if err := cat.PutAssessment(ctx, catalog.Assessment{
		ID: "asmt", Name: "Growth Indicator", Key: "growth-indicator",
		Type: catalog.TypeGrowthIndicator, Status: catalog.StatusPublished,
	}); err != nil {
		t.Fatal(err)
	}

	pillars := []catalog.Pillar{
		{ID: "leadership", AssessmentID: "asmt", Name: "Leadership", Weight: 2},
		{ID: "communication", AssessmentID: "asmt", Name: "Communication", Weight: 1},
	}
	for _, p := range pillars {
		if err := cat.PutPillar(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	opts := func(prefix string) []catalog.Option {
		return []catalog.Option{
			{ID: prefix + "-0", Text: "never", ScoreValue: 0},
			{ID: prefix + "-5", Text: "sometimes", ScoreValue: 5},
			{ID: prefix + "-10", Text: "always", ScoreValue: 10},
		}
	}
	questions := []catalog.Question{
		{ID: "q1", PillarID: "leadership", Text: "Sets direction", Type: catalog.QuestionMultipleChoice, IsActive: true, Options: opts("q1")},
		{ID: "q2", PillarID: "leadership", Text: "Develops people", Type: catalog.QuestionMultipleChoice, IsActive: true, Options: opts("q2")},
		{ID: "q3", PillarID: "communication", Text: "Shares context", Type: catalog.QuestionMultipleChoice, IsActive: true, Options: opts("q3")},
	}
	for _, q := range questions {
		if err := cat.PutQuestion(ctx, q); err != nil {
			t.Fatal(err)
		}
	}

	profiles := []catalog.ResultProfile{
		{ID: "rp1", AssessmentID: "asmt", Key: "needs_improvement", Name: "Needs improvement", MinScore: 0, MaxScore: 60},
		{ID: "rp2", AssessmentID: "asmt", Key: "good", Name: "Good", MinScore: 60, MaxScore: 85},
		{ID: "rp3", AssessmentID: "asmt", Key: "excellent", Name: "Excellent", MinScore: 85, MaxScore: 100},
	}
	for _, p := range profiles {
		if _, err := cat.CreateResultProfile(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	return "asmt"
}

func newTestService(t *testing.T) (*Service, catalog.Store) {
	t.Helper()
	cat := catalog.NewInMemoryStore()
	return NewService(cat, NewInMemoryStore(), nil), cat
}

func TestFinalizeScoresAndClassifies(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService(t)
	seedCatalog(t, cat)

	sess, err := svc.Start(ctx, "asmt", "lead-42")
	if err != nil {
		t.Fatal(err)
	}

	// Leadership: 10 and 5 → 75%; Communication: 5 → 50%
	if _, err := svc.Answer(ctx, sess.ID, map[string][]string{
		"q1": {"q1-10"},
		"q2": {"q2-5"},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Answer(ctx, sess.ID, map[string][]string{"q3": {"q3-5"}}); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Finalize(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}

	want := (75.0*2 + 50.0*1) / 3
	if math.Abs(res.OverallScore-want) > 1e-9 {
		t.Errorf("overall = %v, want %v", res.OverallScore, want)
	}
	if res.Profile.Key != "good" {
		t.Errorf("profile = %q, want good", res.Profile.Key)
	}
	if res.LeadID != "lead-42" {
		t.Errorf("lead = %q, want lead-42", res.LeadID)
	}
	if len(res.Breakdown) != 2 {
		t.Fatalf("breakdown has %d pillars, want 2", len(res.Breakdown))
	}
	byID := map[string]scoring.PillarScore{}
	for _, b := range res.Breakdown {
		byID[b.PillarID] = b
	}
	if p := byID["leadership"]; math.Abs(p.Percentage-75) > 1e-9 || p.Answered != 2 {
		t.Errorf("leadership = %+v, want 75%% over 2 answers", p)
	}
	if p := byID["communication"]; math.Abs(p.Percentage-50) > 1e-9 || p.Answered != 1 {
		t.Errorf("communication = %+v, want 50%% over 1 answer", p)
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService(t)
	seedCatalog(t, cat)

	sess, _ := svc.Start(ctx, "asmt", "lead-1")
	if _, err := svc.Answer(ctx, sess.ID, map[string][]string{"q1": {"q1-10"}}); err != nil {
		t.Fatal(err)
	}
	first, err := svc.Finalize(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Finalize(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first.OverallScore != second.OverallScore || first.Profile.Key != second.Profile.Key {
		t.Errorf("refinalize changed the result: %+v vs %+v", first, second)
	}
}

func TestAnswerAfterFinalizeRejected(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService(t)
	seedCatalog(t, cat)

	sess, _ := svc.Start(ctx, "asmt", "lead-1")
	if _, err := svc.Answer(ctx, sess.ID, map[string][]string{"q1": {"q1-10"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Finalize(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Answer(ctx, sess.ID, map[string][]string{"q2": {"q2-5"}}); !errors.Is(err, ErrFinalized) {
		t.Errorf("err = %v, want ErrFinalized", err)
	}
}

func TestStartRequiresPublishedAssessment(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService(t)
	seedCatalog(t, cat)
	if err := cat.SetAssessmentStatus(ctx, "asmt", catalog.StatusDraft); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Start(ctx, "asmt", "lead-1"); !errors.Is(err, ErrNotPublished) {
		t.Errorf("err = %v, want ErrNotPublished", err)
	}
}

func TestFinalizeEmptySession(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService(t)
	seedCatalog(t, cat)

	sess, _ := svc.Start(ctx, "asmt", "lead-1")
	if _, err := svc.Finalize(ctx, sess.ID); !errors.Is(err, scoring.ErrSessionEmpty) {
		t.Errorf("err = %v, want ErrSessionEmpty", err)
	}
	// failed finalize leaves the session open for more answers
	if _, err := svc.Answer(ctx, sess.ID, map[string][]string{"q1": {"q1-0"}}); err != nil {
		t.Errorf("session should still accept answers: %v", err)
	}
}

func TestFinalizeSurfacesProfileGap(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService(t)
	seedCatalog(t, cat)

	// carve a hole: drop the "good" bracket covering 60..85
	if err := cat.DeleteResultProfile(ctx, "rp2"); err != nil {
		t.Fatal(err)
	}

	sess, _ := svc.Start(ctx, "asmt", "lead-1")
	if _, err := svc.Answer(ctx, sess.ID, map[string][]string{
		"q1": {"q1-10"}, "q2": {"q2-5"}, "q3": {"q3-5"},
	}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Finalize(ctx, sess.ID)
	var gap *scoring.NoMatchingProfileError
	if !errors.As(err, &gap) {
		t.Fatalf("err = %v, want NoMatchingProfileError", err)
	}
	// the defect must not burn the session
	sess2, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sess2.Status != StatusInProgress {
		t.Errorf("session status = %q, want in_progress after failed classify", sess2.Status)
	}
}

func TestListResultsFilters(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService(t)
	seedCatalog(t, cat)

	for _, lead := range []string{"lead-a", "lead-b"} {
		sess, _ := svc.Start(ctx, "asmt", lead)
		if _, err := svc.Answer(ctx, sess.ID, map[string][]string{"q1": {"q1-10"}}); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.Finalize(ctx, sess.ID); err != nil {
			t.Fatal(err)
		}
	}

	all, err := svc.ListResults(ctx, ResultListOpts{AssessmentID: "asmt"})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d results, want 2", len(all))
	}
	mine, err := svc.ListResults(ctx, ResultListOpts{LeadID: "lead-a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].LeadID != "lead-a" {
		t.Errorf("lead filter returned %+v", mine)
	}
}
