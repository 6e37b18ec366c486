// Package api implements the HTTP layer for the property risk survey
// service. Handlers are methods on *Server. Each handler file is responsible
// for one resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/email"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	stripeinternal "github.com/nyashahama/property-risk-survey-backend/internal/stripe"
	"github.com/nyashahama/property-risk-survey-backend/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is the public frontend origin, e.g. "https://app.example.com".
	BaseURL string

	// StripeWebhookSecret is the signing secret from the Stripe dashboard.
	StripeWebhookSecret string

	// AdminKey guards writes to the shared catalog (sector weightings).
	// Empty disables those writes.
	AdminKey string

	// Env is "production", "staging", or "development".
	Env string
}

// Store is the subset of *store.Store the handlers need for multi-step
// atomic writes.
type Store interface {
	CreateSurvey(ctx context.Context, p store.CreateSurveyParams) (db.SurveyReport, error)
	AttachPlanPaymentIntent(ctx context.Context, p store.AttachPlanPaymentIntentParams) (db.Organisation, error)
	ApplyPlanPurchase(ctx context.Context, stripePaymentIntent string) (db.Organisation, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads and writes.
	q db.Querier

	// store handles multi-step atomic writes.
	store Store

	// stripe creates PaymentIntents and verifies webhook signatures.
	stripe stripeinternal.Client

	// worker enqueues report jobs when a survey is issued.
	worker worker.Enqueuer

	// mailer sends plan receipts.
	mailer email.Sender

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	st Store,
	stripeClient stripeinternal.Client,
	enqueuer worker.Enqueuer,
	mailer email.Sender,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:      q,
		store:  st,
		stripe: stripeClient,
		worker: enqueuer,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Sign-up needs no auth and returns the organisation's API key once.
		r.Post("/organisations", s.handleCreateOrganisation)

		// Pure calculators: no auth, no persistence.
		r.Post("/score/combustibility", s.handleScoreCombustibility)
		r.Post("/score/sector", s.handleScoreSector)

		// Organisation-scoped routes require a valid X-Org-Key header.
		r.Group(func(r chi.Router) {
			r.Use(s.requireOrgKey)

			r.Get("/org", s.handleGetOrganisation)
			r.Patch("/org", s.handleUpdateOrganisation)

			r.Post("/surveys", s.handleCreateSurvey)
			r.Get("/surveys", s.handleListSurveys)
			r.Route("/surveys/{surveyID}", func(r chi.Router) {
				r.Use(s.requireOwnedSurvey)
				r.Get("/", s.handleGetSurvey)
				r.Put("/buildings", s.handlePutBuildings)
				r.Put("/modules", s.handleUpsertModules)
				r.Get("/score", s.handleGetSurveyScore)
				r.Post("/issue", s.handleIssueSurvey)
			})

			r.Get("/sector-weightings", s.handleListWeightings)
			r.Put("/sector-weightings/{sector}", s.handlePutWeighting)

			r.Post("/billing/checkout", s.handleCreateCheckout)
		})

		// Stripe webhook: signature verified inside the handler.
		r.Post("/webhooks/stripe", s.handleStripeWebhook)

		// Report access via opaque access token in the URL.
		r.Get("/report/{accessToken}", s.handleGetReport)
	})

	return r
}
