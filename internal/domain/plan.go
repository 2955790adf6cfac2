package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan represents one travel plan from start to finish.
// A plan is the top-level aggregate; itinerary days belong to a plan.
//
// Invariants (enforced by the service layer before any write):
//   - Title and Location are non-empty after trimming whitespace.
//   - StartDate <= EndDate (equal dates denote a single-day trip).
//   - Itinerary holds exactly one day per calendar date in
//     [StartDate, EndDate], ascending, no gaps, no duplicates.
//   - LastModified moves forward whenever a tracked field actually changes,
//     and never on a no-op save.
type Plan struct {
	ID           uuid.UUID
	Title        string
	Location     string
	StartDate    time.Time
	EndDate      time.Time
	Itinerary    []ItineraryDay
	IsFavorite   bool
	LastModified time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PlanUpdate carries a partial update: nil fields are left untouched.
// A non-nil Itinerary is staged as the "previous" itinerary and reconciled
// against the effective date range before persisting, so favoriting a plan
// never requires re-submitting the full itinerary.
type PlanUpdate struct {
	Title      *string
	Location   *string
	StartDate  *time.Time
	EndDate    *time.Time
	Itinerary  []ItineraryDay
	IsFavorite *bool
}

// PlanStatus buckets a plan relative to a reference "today".
type PlanStatus string

const (
	StatusUpcoming PlanStatus = "upcoming"
	StatusOngoing  PlanStatus = "ongoing"
	StatusPast     PlanStatus = "past"
)

// Status classifies the plan against the given reference date.
// The caller supplies "today" explicitly (injected clock) so the
// classification is deterministic in tests. Comparison is by calendar date:
// a trip ending today is still ongoing.
func (p Plan) Status(today time.Time) PlanStatus {
	d := TruncateToDay(today)
	switch {
	case TruncateToDay(p.EndDate).Before(d):
		return StatusPast
	case TruncateToDay(p.StartDate).After(d):
		return StatusUpcoming
	default:
		return StatusOngoing
	}
}

// ParseStatus validates a status filter value. The empty string means "no
// filter" and is allowed.
func ParseStatus(s string) (PlanStatus, bool) {
	switch PlanStatus(s) {
	case "", StatusUpcoming, StatusOngoing, StatusPast:
		return PlanStatus(s), true
	}
	return "", false
}
