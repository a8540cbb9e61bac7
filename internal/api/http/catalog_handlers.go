package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/growthsignal/assessment-api/internal/audit"
	"github.com/growthsignal/assessment-api/internal/catalog"
)

// GET /assessments?q=...&type=...&status=...&limit=50&offset=0
func ListAssessmentsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListAssessments(r.Context(), catalog.ListOpts{
			Q:      strings.TrimSpace(r.URL.Query().Get("q")),
			Type:   strings.TrimSpace(r.URL.Query().Get("type")),
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /assessments
func CreateAssessmentHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var a catalog.Assessment
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if a.Name == "" || a.Key == "" {
			http.Error(w, "name and key required", http.StatusBadRequest)
			return
		}
		switch a.Type {
		case catalog.TypeGrowthIndicator, catalog.TypeTrackP, catalog.TypeTrackB:
		default:
			http.Error(w, "unknown assessment type", http.StatusBadRequest)
			return
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Status == "" {
			a.Status = catalog.StatusDraft
		}
		if err := store.PutAssessment(r.Context(), a); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "assessment", a.ID)
		writeJSON(w, http.StatusCreated, a)
	}
}

// GET /assessments/{assessmentID}
func GetAssessmentHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// PATCH /assessments/{assessmentID}/status  { "status": "published" }
// Archiving goes through here too; assessments are never hard-deleted.
func SetAssessmentStatusHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		switch req.Status {
		case catalog.StatusDraft, catalog.StatusPublished, catalog.StatusArchived:
		default:
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}
		id := chi.URLParam(r, "assessmentID")
		if err := store.SetAssessmentStatus(r.Context(), id, req.Status); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "assessment_status", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /assessments/{assessmentID}/pillars
func ListPillarsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListPillars(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /assessments/{assessmentID}/pillars
func CreatePillarHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p catalog.Pillar
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		p.AssessmentID = chi.URLParam(r, "assessmentID")
		if _, err := store.GetAssessment(r.Context(), p.AssessmentID); err != nil {
			writeErr(w, err)
			return
		}
		if p.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		if p.Weight < 0 {
			http.Error(w, "weight must not be negative", http.StatusBadRequest)
			return
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if err := store.PutPillar(r.Context(), p); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "pillar", p.ID)
		writeJSON(w, http.StatusCreated, p)
	}
}

// PUT /pillars/{pillarID}
func UpdatePillarHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, err := store.GetPillar(r.Context(), chi.URLParam(r, "pillarID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		var p catalog.Pillar
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if p.Weight < 0 {
			http.Error(w, "weight must not be negative", http.StatusBadRequest)
			return
		}
		p.ID = cur.ID
		p.AssessmentID = cur.AssessmentID
		if err := store.PutPillar(r.Context(), p); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "pillar", p.ID)
		writeJSON(w, http.StatusOK, p)
	}
}

// DELETE /pillars/{pillarID}?cascade=true
// Deleting a pillar removes its questions; the admin UI asks for explicit
// confirmation, expressed here as the cascade flag.
func DeletePillarHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "pillarID")
		if r.URL.Query().Get("cascade") != "true" {
			qs, err := store.ListQuestions(r.Context(), id)
			if err != nil {
				writeErr(w, err)
				return
			}
			if len(qs) > 0 {
				http.Error(w, "pillar has questions; pass cascade=true to delete them too", http.StatusConflict)
				return
			}
		}
		if err := store.DeletePillar(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "pillar_deleted", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /pillars/{pillarID}/questions
func ListQuestionsHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuestions(r.Context(), chi.URLParam(r, "pillarID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /pillars/{pillarID}/questions
func CreateQuestionHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q catalog.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q.PillarID = chi.URLParam(r, "pillarID")
		if _, err := store.GetPillar(r.Context(), q.PillarID); err != nil {
			writeErr(w, err)
			return
		}
		if err := validateQuestion(&q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "question", q.ID)
		writeJSON(w, http.StatusCreated, q)
	}
}

// PUT /questions/{questionID}
func UpdateQuestionHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cur, err := store.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		var q catalog.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q.ID = cur.ID
		q.PillarID = cur.PillarID
		if err := validateQuestion(&q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "question", q.ID)
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /questions/{questionID}
func DeleteQuestionHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		if err := store.DeleteQuestion(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		logCatalogChange(r.Context(), log, "question_deleted", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func validateQuestion(q *catalog.Question) error {
	switch q.Type {
	case catalog.QuestionMultipleChoice, catalog.QuestionCheckbox, catalog.QuestionScale:
		if len(q.Options) < 2 {
			return errAtLeastTwoOptions
		}
	case catalog.QuestionText:
		// free text carries no options
	default:
		return errUnknownQuestionType
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for i := range q.Options {
		if q.Options[i].ID == "" {
			q.Options[i].ID = uuid.NewString()
		}
	}
	return nil
}

var (
	errAtLeastTwoOptions   = errors.New("choice questions need at least two options")
	errUnknownQuestionType = errors.New("unknown question type")
)

func logCatalogChange(ctx context.Context, log *audit.Log, kind, id string) {
	_ = log.Append(ctx, audit.TypeCatalogChanged, id, map[string]string{"kind": kind})
}
