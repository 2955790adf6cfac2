// Package service contains the business logic for the travel planner API.
// Services validate inputs, enforce the itinerary invariants, and orchestrate
// repo calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/travel-planner/backend/internal/domain"
	"github.com/pkordes/travel-planner/backend/internal/repo"
)

// PlanService implements business logic for plan operations.
// The clock is injected so lastModified handling and status filtering are
// deterministic in tests; pass nil to use time.Now.
type PlanService struct {
	plans repo.PlanRepo
	now   func() time.Time
}

// NewPlanService constructs a PlanService backed by the provided PlanRepo.
func NewPlanService(plans repo.PlanRepo, now func() time.Time) *PlanService {
	if now == nil {
		now = time.Now
	}
	return &PlanService{plans: plans, now: now}
}

// Create validates and persists a new plan.
// The itinerary is derived from the date range before the write: any supplied
// days whose dates fall inside the range keep their events, every other date
// in the range gets an empty day. Returns domain.ErrValidation if input
// violates business rules.
func (s *PlanService) Create(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	if err := validatePlan(plan.Title, plan.Location, plan.StartDate, plan.EndDate); err != nil {
		return domain.Plan{}, err
	}
	plan.Title = strings.TrimSpace(plan.Title)
	plan.Location = strings.TrimSpace(plan.Location)
	plan.Itinerary = domain.Reconcile(plan.Itinerary, plan.StartDate, plan.EndDate)

	result, err := s.plans.Create(ctx, plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single plan by ID.
// Returns domain.ErrNotFound if no plan with that ID exists.
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	result, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of plans ordered by last modification, newest first.
// A non-empty status narrows the result to upcoming, ongoing, or past plans
// relative to the injected clock. Always returns a non-nil slice.
func (s *PlanService) List(ctx context.Context, status domain.PlanStatus, p domain.PaginationParams) ([]domain.Plan, int64, error) {
	plans, total, err := s.plans.ListPaged(ctx, status, s.now(), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PlanService.List: %w", err)
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	return plans, total, nil
}

// Update applies a partial update to an existing plan and persists the result
// with exactly one durable write.
//
// Merge rules:
//   - Provided fields replace current values; absent fields are untouched,
//     so a favorite toggle never has to carry the itinerary.
//   - The effective itinerary is reconciled against the effective date range
//     whenever the range changed or an itinerary was supplied; an untouched
//     range with no supplied itinerary keeps the stored days as-is.
//   - lastModified moves to "now" iff a tracked field actually differs from
//     its stored value. A no-op update still writes (refreshing updatedAt)
//     but carries the previous lastModified through unchanged.
//
// Returns domain.ErrNotFound if the plan does not exist and
// domain.ErrValidation if the merged record violates business rules.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, upd domain.PlanUpdate) (domain.Plan, error) {
	current, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}

	next := current
	if upd.Title != nil {
		next.Title = *upd.Title
	}
	if upd.Location != nil {
		next.Location = *upd.Location
	}
	if upd.StartDate != nil {
		next.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		next.EndDate = *upd.EndDate
	}
	if upd.IsFavorite != nil {
		next.IsFavorite = *upd.IsFavorite
	}

	if err := validatePlan(next.Title, next.Location, next.StartDate, next.EndDate); err != nil {
		return domain.Plan{}, err
	}
	next.Title = strings.TrimSpace(next.Title)
	next.Location = strings.TrimSpace(next.Location)

	rangeChanged := !domain.SameDate(next.StartDate, current.StartDate) ||
		!domain.SameDate(next.EndDate, current.EndDate)
	switch {
	case upd.Itinerary != nil:
		// The supplied itinerary is the new "previous" input: days inside
		// the range keep their events, the rest of the range is filled in.
		next.Itinerary = domain.Reconcile(upd.Itinerary, next.StartDate, next.EndDate)
	case rangeChanged:
		next.Itinerary = domain.Reconcile(current.Itinerary, next.StartDate, next.EndDate)
	}

	if planChanged(current, next) {
		next.LastModified = s.now()
	}

	result, err := s.plans.Update(ctx, next)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a plan by ID.
// Returns domain.ErrNotFound if no plan with that ID exists.
func (s *PlanService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	return nil
}

// validatePlan enforces business rules common to both Create and Update.
//   - Title and location must be non-empty (whitespace-only is rejected).
//   - Both dates are required and the end date must not precede the start
//     date; equal dates denote a single-day trip and are valid.
func validatePlan(title, location string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	}
	if start.IsZero() {
		return fmt.Errorf("%w: start date is required", domain.ErrValidation)
	}
	if end.IsZero() {
		return fmt.Errorf("%w: end date is required", domain.ErrValidation)
	}
	if domain.TruncateToDay(end).Before(domain.TruncateToDay(start)) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return nil
}

// planChanged reports whether any tracked field differs between the stored
// record and the merged candidate. lastModified and the store-managed
// timestamps are deliberately excluded.
func planChanged(current, next domain.Plan) bool {
	return current.Title != next.Title ||
		current.Location != next.Location ||
		!domain.SameDate(current.StartDate, next.StartDate) ||
		!domain.SameDate(current.EndDate, next.EndDate) ||
		current.IsFavorite != next.IsFavorite ||
		!domain.ItineraryEqual(current.Itinerary, next.Itinerary)
}
