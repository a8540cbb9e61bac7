package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/growthsignal/assessment-api/internal/auth/middleware"
	"github.com/growthsignal/assessment-api/internal/session"
)

// POST /sessions  { "assessment_id": "...", "lead_id": "..." }
// lead_id is an opaque token from the lead/customer system; when absent the
// authenticated subject is used.
func CreateSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AssessmentID string `json:"assessment_id"`
			LeadID       string `json:"lead_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.AssessmentID == "" {
			http.Error(w, "assessment_id required", http.StatusBadRequest)
			return
		}
		if req.LeadID == "" {
			req.LeadID = authmw.SubjectFromContext(r.Context())
		}
		sess, err := svc.Start(r.Context(), req.AssessmentID, req.LeadID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sess)
	}
}

// POST /sessions/{sessionID}/responses  { "<question_id>": ["<option_id>", ...], ... }
func SaveResponsesHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		var resp map[string][]string
		if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		sess, err := svc.Answer(r.Context(), sessionID, resp)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// POST /sessions/{sessionID}/finalize
func FinalizeSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Finalize(r.Context(), strings.TrimSpace(chi.URLParam(r, "sessionID")))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Get(r.Context(), strings.TrimSpace(chi.URLParam(r, "sessionID")))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}
