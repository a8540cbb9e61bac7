package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/growthsignal/assessment-api/internal/audit"
	"github.com/growthsignal/assessment-api/internal/catalog"
)

// GET /assessments/{assessmentID}/profiles
func ListResultProfilesHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListResultProfiles(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /assessments/{assessmentID}/profiles
// Runs the range validator; rejected writes are logged so admins can audit
// repeated misconfiguration attempts.
func CreateResultProfileHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p catalog.ResultProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		p.AssessmentID = chi.URLParam(r, "assessmentID")
		if _, err := store.GetAssessment(r.Context(), p.AssessmentID); err != nil {
			writeErr(w, err)
			return
		}
		if p.Key == "" || p.Name == "" {
			http.Error(w, "key and name required", http.StatusBadRequest)
			return
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		created, err := store.CreateResultProfile(r.Context(), p)
		if err != nil {
			logProfileRejection(r, log, p, err)
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// PUT /assessments/{assessmentID}/profiles/{profileID}
// Key is immutable; only name, description and the range may change.
func UpdateResultProfileHandler(store catalog.Store, log *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p catalog.ResultProfile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		p.ID = chi.URLParam(r, "profileID")
		p.AssessmentID = chi.URLParam(r, "assessmentID")
		updated, err := store.UpdateResultProfile(r.Context(), p)
		if err != nil {
			logProfileRejection(r, log, p, err)
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DELETE /assessments/{assessmentID}/profiles/{profileID}
func DeleteResultProfileHandler(store catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteResultProfile(r.Context(), chi.URLParam(r, "profileID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func logProfileRejection(r *http.Request, log *audit.Log, p catalog.ResultProfile, err error) {
	var overlap *catalog.RangeOverlapError
	if errors.As(err, &overlap) || errors.Is(err, catalog.ErrInvalidRange) {
		_ = log.Append(r.Context(), audit.TypeProfileRejected, p.AssessmentID, map[string]interface{}{
			"key":       p.Key,
			"min_score": p.MinScore,
			"max_score": p.MaxScore,
			"reason":    err.Error(),
		})
	}
}
