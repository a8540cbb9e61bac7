package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/growthsignal/assessment-api/internal/auth/middleware"
	"github.com/growthsignal/assessment-api/internal/rbac"
	"github.com/growthsignal/assessment-api/internal/session"
)

// GET /results?assessment_id=...&lead_id=...&limit=50&offset=0
// RBAC:
// - role with result:view-all can list any filters
// - role with result:view-own only sees its own results (lead_id is forced
//   to the authenticated subject)
func ListResultsHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		sub := authmw.SubjectFromContext(r.Context())

		assessmentID := strings.TrimSpace(r.URL.Query().Get("assessment_id"))
		leadID := strings.TrimSpace(r.URL.Query().Get("lead_id"))

		if role == "" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if role != "admin" && role != "staff" {
			leadID = sub
		}

		list, err := svc.ListResults(r.Context(), session.ResultListOpts{
			AssessmentID: assessmentID,
			LeadID:       leadID,
			Limit:        parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:       parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /sessions/{sessionID}/result
func GetResultHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Result(r.Context(), strings.TrimSpace(chi.URLParam(r, "sessionID")))
		if err != nil {
			writeErr(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		if role != "admin" && role != "staff" && res.LeadID != authmw.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
