package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/growthsignal/assessment-api/internal/api/http"
	"github.com/growthsignal/assessment-api/internal/audit"
	auth "github.com/growthsignal/assessment-api/internal/auth/middleware"
	"github.com/growthsignal/assessment-api/internal/catalog"
	"github.com/growthsignal/assessment-api/internal/config"
	"github.com/growthsignal/assessment-api/internal/db"
	"github.com/growthsignal/assessment-api/internal/rbac"
	"github.com/growthsignal/assessment-api/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	catalogStore := catalog.NewSQLStore(dbh, cfg.DBDriver)
	sessionStore := session.NewSQLStore(dbh, cfg.DBDriver)
	eventLog := audit.NewLog(dbh, cfg.SiteID)
	sessions := session.NewService(catalogStore, sessionStore, eventLog)

	// --- Auth (local JWT) ---
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh, cfg.AdminUser, cfg.AdminPassHash))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Catalog reads
		pr.With(rbac.Require("catalog:view")).
			Get("/assessments", api.ListAssessmentsHandler(catalogStore))
		pr.With(rbac.Require("catalog:view")).
			Get("/assessments/{assessmentID}", api.GetAssessmentHandler(catalogStore))
		pr.With(rbac.Require("catalog:view")).
			Get("/assessments/{assessmentID}/pillars", api.ListPillarsHandler(catalogStore))
		pr.With(rbac.Require("catalog:view")).
			Get("/pillars/{pillarID}/questions", api.ListQuestionsHandler(catalogStore))
		pr.With(rbac.Require("catalog:view")).
			Get("/assessments/{assessmentID}/profiles", api.ListResultProfilesHandler(catalogStore))

		// Catalog writes (staff/admin)
		pr.With(rbac.Require("catalog:edit")).
			Post("/assessments", api.CreateAssessmentHandler(catalogStore, eventLog))
		pr.With(rbac.Require("catalog:edit")).
			Patch("/assessments/{assessmentID}/status", api.SetAssessmentStatusHandler(catalogStore, eventLog))
		pr.With(rbac.Require("catalog:edit")).
			Post("/assessments/{assessmentID}/pillars", api.CreatePillarHandler(catalogStore, eventLog))
		pr.With(rbac.Require("catalog:edit")).
			Put("/pillars/{pillarID}", api.UpdatePillarHandler(catalogStore, eventLog))
		pr.With(rbac.Require("catalog:edit")).
			Delete("/pillars/{pillarID}", api.DeletePillarHandler(catalogStore, eventLog))
		pr.With(rbac.Require("catalog:edit")).
			Post("/pillars/{pillarID}/questions", api.CreateQuestionHandler(catalogStore, eventLog))
		pr.With(rbac.Require("catalog:edit")).
			Put("/questions/{questionID}", api.UpdateQuestionHandler(catalogStore, eventLog))
		pr.With(rbac.Require("catalog:edit")).
			Delete("/questions/{questionID}", api.DeleteQuestionHandler(catalogStore, eventLog))

		// Result profiles (validator-guarded writes)
		pr.With(rbac.Require("profile:edit")).
			Post("/assessments/{assessmentID}/profiles", api.CreateResultProfileHandler(catalogStore, eventLog))
		pr.With(rbac.Require("profile:edit")).
			Put("/assessments/{assessmentID}/profiles/{profileID}", api.UpdateResultProfileHandler(catalogStore, eventLog))
		pr.With(rbac.Require("profile:edit")).
			Delete("/assessments/{assessmentID}/profiles/{profileID}", api.DeleteResultProfileHandler(catalogStore))

		// Respondent flow
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.CreateSessionHandler(sessions))
		pr.With(rbac.Require("session:answer")).
			Post("/sessions/{sessionID}/responses", api.SaveResponsesHandler(sessions))
		pr.With(rbac.Require("session:finalize")).
			Post("/sessions/{sessionID}/finalize", api.FinalizeSessionHandler(sessions))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/sessions/{sessionID}", api.GetSessionHandler(sessions))

		// Results
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/results", api.ListResultsHandler(sessions))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/sessions/{sessionID}/result", api.GetResultHandler(sessions))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
