package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/growthsignal/assessment-api/internal/catalog"
)

func newProfileRouter(t *testing.T) (chi.Router, catalog.Store) {
	t.Helper()
	store := catalog.NewInMemoryStore()
	if err := store.PutAssessment(context.Background(), catalog.Assessment{
		ID: "asmt", Name: "Growth", Key: "growth", Type: catalog.TypeGrowthIndicator, Status: catalog.StatusDraft,
	}); err != nil {
		t.Fatal(err)
	}
	r := chi.NewRouter()
	r.Post("/assessments/{assessmentID}/profiles", CreateResultProfileHandler(store, nil))
	r.Put("/assessments/{assessmentID}/profiles/{profileID}", UpdateResultProfileHandler(store, nil))
	return r, store
}

func postJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProfileRejectsOverlap(t *testing.T) {
	r, _ := newProfileRouter(t)

	w := postJSON(t, r, "POST", "/assessments/asmt/profiles",
		`{"key":"good","name":"Good","min_score":60,"max_score":85}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: status %d, body %s", w.Code, w.Body.String())
	}

	// [50,90] intersects [60,85)
	w = postJSON(t, r, "POST", "/assessments/asmt/profiles",
		`{"key":"wide","name":"Wide","min_score":50,"max_score":90}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overlap create: status %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), "good") {
		t.Errorf("error body should name the conflicting profile: %s", w.Body.String())
	}
}

func TestCreateProfileRejectsInvalidRange(t *testing.T) {
	r, _ := newProfileRouter(t)
	w := postJSON(t, r, "POST", "/assessments/asmt/profiles",
		`{"key":"bad","name":"Bad","min_score":80,"max_score":40}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", w.Code)
	}
}

func TestUpdateProfileKeepsKey(t *testing.T) {
	r, store := newProfileRouter(t)

	w := postJSON(t, r, "POST", "/assessments/asmt/profiles",
		`{"id":"p1","key":"good","name":"Good","min_score":60,"max_score":85}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d", w.Code)
	}

	w = postJSON(t, r, "PUT", "/assessments/asmt/profiles/p1",
		`{"key":"renamed","name":"Solid","min_score":55,"max_score":85}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d, body %s", w.Code, w.Body.String())
	}
	var got catalog.ResultProfile
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Key != "good" {
		t.Errorf("key = %q; keys are immutable after creation", got.Key)
	}
	if got.MinScore != 55 || got.Name != "Solid" {
		t.Errorf("range/name not updated: %+v", got)
	}

	list, _ := store.ListResultProfiles(context.Background(), "asmt")
	if len(list) != 1 {
		t.Fatalf("profiles = %d, want 1", len(list))
	}
}
