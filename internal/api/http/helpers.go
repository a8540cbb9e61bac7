package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/growthsignal/assessment-api/internal/catalog"
	"github.com/growthsignal/assessment-api/internal/scoring"
	"github.com/growthsignal/assessment-api/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain error kinds to HTTP statuses. Validation failures and
// scoring preconditions are client-visible; everything else is a 500.
func writeErr(w http.ResponseWriter, err error) {
	var overlap *catalog.RangeOverlapError
	var gap *scoring.NoMatchingProfileError
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, session.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &overlap), errors.Is(err, catalog.ErrInvalidRange):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, session.ErrFinalized), errors.Is(err, session.ErrNotPublished):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, scoring.ErrSessionEmpty):
		http.Error(w, "no answered questions in session", http.StatusUnprocessableEntity)
	case errors.As(err, &gap):
		// admin-authored ranges leave a gap; actionable message, not a guess
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
