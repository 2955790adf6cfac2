package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-planner/backend/internal/domain"
)

// createPlanRequest is the body of POST /api/travel-plans.
// The itinerary is optional; days supplied here are reconciled against the
// date range, so only dates inside [startDate, endDate] survive.
type createPlanRequest struct {
	Title     string                `json:"title"`
	Location  string                `json:"location"`
	StartDate *openapi_types.Date   `json:"startDate"`
	EndDate   *openapi_types.Date   `json:"endDate"`
	Itinerary []domain.ItineraryDay `json:"itinerary"`
}

// updatePlanRequest is the body of PUT /api/travel-plans/{planID}.
// Every field is optional; absent fields keep their stored values, which is
// what lets a favorite toggle send just {"isFavorite":true}.
type updatePlanRequest struct {
	Title      *string               `json:"title"`
	Location   *string               `json:"location"`
	StartDate  *openapi_types.Date   `json:"startDate"`
	EndDate    *openapi_types.Date   `json:"endDate"`
	Itinerary  []domain.ItineraryDay `json:"itinerary"`
	IsFavorite *bool                 `json:"isFavorite"`
}

// planResponse is the wire shape of a plan. Dates are "YYYY-MM-DD"; the
// status bucket is computed against the server clock at response time.
type planResponse struct {
	ID           uuid.UUID             `json:"id"`
	Title        string                `json:"title"`
	Location     string                `json:"location"`
	StartDate    openapi_types.Date    `json:"startDate"`
	EndDate      openapi_types.Date    `json:"endDate"`
	Itinerary    []domain.ItineraryDay `json:"itinerary"`
	IsFavorite   bool                  `json:"isFavorite"`
	Status       domain.PlanStatus     `json:"status"`
	LastModified time.Time             `json:"lastModified"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// listPlansResponse wraps a page of plans with pagination metadata.
type listPlansResponse struct {
	Data       []planResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// handleCreatePlan handles POST /api/travel-plans.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		respondJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body"))
		return
	}

	created, err := s.plans.Create(r.Context(), requestToPlan(req))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.planToResponse(created))
}

// handleListPlans handles GET /api/travel-plans.
// Supports ?page= and ?limit= (defaults: page=1, limit=50, max=200) and an
// optional ?status= filter (upcoming|ongoing|past).
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	status, ok := domain.ParseStatus(r.URL.Query().Get("status"))
	if !ok {
		respondJSON(w, http.StatusUnprocessableEntity,
			requestBody("status must be one of: upcoming, ongoing, past"))
		return
	}
	params := domain.NewPaginationParams(
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)

	plans, total, err := s.plans.List(r.Context(), status, params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	data := make([]planResponse, len(plans))
	for i, p := range plans {
		data[i] = s.planToResponse(p)
	}
	respondJSON(w, http.StatusOK, listPlansResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// handleGetPlan handles GET /api/travel-plans/{planID}.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	plan, err := s.plans.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.planToResponse(plan))
}

// handleUpdatePlan handles PUT /api/travel-plans/{planID}.
func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}

	var req updatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondJSON(w, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		respondJSON(w, http.StatusUnprocessableEntity, requestBody("invalid request body"))
		return
	}

	updated, err := s.plans.Update(r.Context(), id, requestToPlanUpdate(req))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.planToResponse(updated))
}

// handleDeletePlan handles DELETE /api/travel-plans/{planID}.
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	if err := s.plans.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// planID extracts and parses the {planID} path parameter. A malformed ID can
// never name an existing plan, so it is reported as not found.
func planID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "planID"))
	if err != nil {
		respondJSON(w, http.StatusNotFound, notFoundBody("plan not found"))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, returning nil when the
// parameter is absent or not a number.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

// requestToPlan converts a createPlanRequest body into a domain.Plan.
// Missing dates stay zero and are rejected by service validation.
func requestToPlan(req createPlanRequest) domain.Plan {
	p := domain.Plan{
		Title:     req.Title,
		Location:  req.Location,
		Itinerary: req.Itinerary,
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate.Time
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate.Time
	}
	return p
}

// requestToPlanUpdate converts an updatePlanRequest into the partial-update
// carrier, preserving the provided/absent distinction of every field.
func requestToPlanUpdate(req updatePlanRequest) domain.PlanUpdate {
	upd := domain.PlanUpdate{
		Title:      req.Title,
		Location:   req.Location,
		Itinerary:  req.Itinerary,
		IsFavorite: req.IsFavorite,
	}
	if req.StartDate != nil {
		sd := req.StartDate.Time
		upd.StartDate = &sd
	}
	if req.EndDate != nil {
		ed := req.EndDate.Time
		upd.EndDate = &ed
	}
	return upd
}

// planToResponse converts a domain.Plan into its wire shape.
func (s *Server) planToResponse(p domain.Plan) planResponse {
	itinerary := p.Itinerary
	if itinerary == nil {
		itinerary = []domain.ItineraryDay{}
	}
	return planResponse{
		ID:           p.ID,
		Title:        p.Title,
		Location:     p.Location,
		StartDate:    openapi_types.Date{Time: p.StartDate},
		EndDate:      openapi_types.Date{Time: p.EndDate},
		Itinerary:    itinerary,
		IsFavorite:   p.IsFavorite,
		Status:       p.Status(s.now()),
		LastModified: p.LastModified,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
