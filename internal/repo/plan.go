// Package repo contains all database access logic for the travel planner API.
// The plan store keeps each itinerary as a JSONB array of day sub-documents —
// days and events have no identity of their own, so there are no child rows.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-planner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlanRepo defines the persistence operations for travel plans.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type PlanRepo interface {
	// Create inserts a new plan and returns the persisted record (with
	// DB-generated id and timestamps populated).
	Create(ctx context.Context, plan domain.Plan) (domain.Plan, error)

	// GetByID retrieves a single plan by its UUID primary key.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error)

	// ListPaged returns one page of plans ordered by last_modified descending
	// (most recently edited first) plus the total match count. A non-empty
	// status narrows the result to plans in that bucket relative to today.
	ListPaged(ctx context.Context, status domain.PlanStatus, today time.Time, p domain.PaginationParams) ([]domain.Plan, int64, error)

	// Update overwrites the mutable fields of an existing plan and returns
	// the updated record. last_modified is taken from the given plan (the
	// service decides whether it moves); updated_at is always refreshed.
	// Returns domain.ErrNotFound if no plan with that ID exists.
	Update(ctx context.Context, plan domain.Plan) (domain.Plan, error)

	// Delete removes a plan by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgPlanRepo is the Postgres implementation of PlanRepo.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a PlanRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

const planColumns = `id, title, location, start_date, end_date, itinerary, is_favorite, last_modified, created_at, updated_at`

// Create inserts a new plan row and returns the full persisted record.
func (r *pgPlanRepo) Create(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	const q = `
		INSERT INTO plans (title, location, start_date, end_date, itinerary, is_favorite)
		VALUES (@title, @location, @start_date, @end_date, @itinerary, @is_favorite)
		RETURNING ` + planColumns

	itinerary, err := marshalItinerary(plan.Itinerary)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}

	args := pgx.NamedArgs{
		"title":       plan.Title,
		"location":    plan.Location,
		"start_date":  plan.StartDate,
		"end_date":    plan.EndDate,
		"itinerary":   itinerary,
		"is_favorite": plan.IsFavorite,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPlan(row)
	if err != nil {
		return domain.Plan{}, storeErr("repo.PlanRepo.Create", err)
	}
	return result, nil
}

// GetByID retrieves a plan by primary key.
func (r *pgPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	const q = `SELECT ` + planColumns + ` FROM plans WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Plan{}, fmt.Errorf("repo.PlanRepo.GetByID: %w", err)
		}
		return domain.Plan{}, storeErr("repo.PlanRepo.GetByID", err)
	}
	return result, nil
}

// ListPaged returns one page of plans ordered by last_modified descending.
// The status filter is evaluated in SQL against the caller-supplied "today"
// so the service's injected clock stays authoritative.
func (r *pgPlanRepo) ListPaged(ctx context.Context, status domain.PlanStatus, today time.Time, p domain.PaginationParams) ([]domain.Plan, int64, error) {
	where, args := statusWhere(status, today)
	args["limit"] = p.Limit
	args["offset"] = p.Offset()

	var total int64
	countQ := `SELECT count(*) FROM plans` + where
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, storeErr("repo.PlanRepo.ListPaged", err)
	}

	pageQ := `SELECT ` + planColumns + ` FROM plans` + where + `
		ORDER BY last_modified DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, pageQ, args)
	if err != nil {
		return nil, 0, storeErr("repo.PlanRepo.ListPaged", err)
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, 0, storeErr("repo.PlanRepo.ListPaged: scan", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("repo.PlanRepo.ListPaged: rows", err)
	}
	return plans, total, nil
}

// Update overwrites the mutable fields of a plan and returns the updated record.
func (r *pgPlanRepo) Update(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	const q = `
		UPDATE plans
		SET title         = @title,
		    location      = @location,
		    start_date    = @start_date,
		    end_date      = @end_date,
		    itinerary     = @itinerary,
		    is_favorite   = @is_favorite,
		    last_modified = @last_modified,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + planColumns

	itinerary, err := marshalItinerary(plan.Itinerary)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Update: %w", err)
	}

	args := pgx.NamedArgs{
		"id":            plan.ID,
		"title":         plan.Title,
		"location":      plan.Location,
		"start_date":    plan.StartDate,
		"end_date":      plan.EndDate,
		"itinerary":     itinerary,
		"is_favorite":   plan.IsFavorite,
		"last_modified": plan.LastModified,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Update: %w", err)
		}
		return domain.Plan{}, storeErr("repo.PlanRepo.Update", err)
	}
	return result, nil
}

// Delete removes a plan by primary key.
func (r *pgPlanRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM plans WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return storeErr("repo.PlanRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// statusWhere builds the WHERE clause for a status filter. Comparisons use
// the calendar date of "today"; a trip ending today is still ongoing.
func statusWhere(status domain.PlanStatus, today time.Time) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	switch status {
	case domain.StatusPast:
		args["today"] = domain.TruncateToDay(today)
		return ` WHERE end_date < @today`, args
	case domain.StatusOngoing:
		args["today"] = domain.TruncateToDay(today)
		return ` WHERE start_date <= @today AND end_date >= @today`, args
	case domain.StatusUpcoming:
		args["today"] = domain.TruncateToDay(today)
		return ` WHERE start_date > @today`, args
	default:
		return ``, args
	}
}

// marshalItinerary encodes the itinerary for the JSONB column, normalizing
// nil to an empty array so the column never holds SQL NULL or JSON null.
func marshalItinerary(days []domain.ItineraryDay) ([]byte, error) {
	if days == nil {
		days = []domain.ItineraryDay{}
	}
	return json.Marshal(days)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanPlan to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPlan maps a single database row into a domain.Plan.
// It handles the UUID, date, and JSONB itinerary conversions.
func scanPlan(s scanner) (domain.Plan, error) {
	var (
		p         domain.Plan
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		itinerary []byte
	)

	err := s.Scan(&id, &p.Title, &p.Location, &startDate, &endDate, &itinerary,
		&p.IsFavorite, &p.LastModified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.StartDate = startDate.Time
	p.EndDate = endDate.Time
	if err := json.Unmarshal(itinerary, &p.Itinerary); err != nil {
		return domain.Plan{}, fmt.Errorf("decode itinerary: %w", err)
	}
	return p, nil
}

// storeErr wraps a database failure so callers can match ErrStoreUnavailable
// with errors.Is while the original cause stays readable in the message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
