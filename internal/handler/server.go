// Package handler implements the HTTP handlers for the travel planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, plan.go) but all share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/backend/internal/domain"
	"github.com/pkordes/travel-planner/backend/spec"
)

// PlanServicer defines the business operations the plan handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type PlanServicer interface {
	Create(ctx context.Context, plan domain.Plan) (domain.Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error)
	List(ctx context.Context, status domain.PlanStatus, p domain.PaginationParams) ([]domain.Plan, int64, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.PlanUpdate) (domain.Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Server holds the dependencies shared by all HTTP handlers.
// The clock is injected so the computed plan status in responses is
// deterministic in tests; pass nil to use time.Now.
type Server struct {
	plans PlanServicer
	now   func() time.Time
}

// NewServer constructs the Server with all its dependencies.
func NewServer(plans PlanServicer, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	return &Server{plans: plans, now: now}
}

// Routes wires every endpoint onto a chi router. Mount the result at the
// root in main.go.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)

	r.Route("/api/travel-plans", func(r chi.Router) {
		r.Get("/", s.handleListPlans)
		r.Post("/", s.handleCreatePlan)
		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", s.handleGetPlan)
			r.Put("/", s.handleUpdatePlan)
			r.Delete("/", s.handleDeletePlan)
		})
	})

	return r
}

// handleOpenAPI serves the embedded OpenAPI document so the spec and the
// running code are always in sync.
func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
