package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventdesk/internal/model"
)

const eventColumns = `id, user_id, name, description, start_date, end_date, location,
	capacity, is_published, image_path, created_at, updated_at`

var eventSortColumns = map[string]string{
	"name":       "name",
	"start_date": "start_date",
	"location":   "location",
	"created_at": "created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.UserID, &e.Name, &e.Description, &e.StartDate, &e.EndDate,
		&e.Location, &e.Capacity, &e.IsPublished, &e.ImagePath,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (user_id, name, description, start_date, end_date, location, capacity, is_published, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		e.UserID, e.Name, e.Description, e.StartDate, e.EndDate,
		e.Location, e.Capacity, e.IsPublished, e.ImagePath,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return e.ID, nil
}

func (r *repository) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	e, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

// UpdateEvent applies a partial update. Column names are whitelisted here so
// handler-level maps cannot reach arbitrary columns.
func (r *repository) UpdateEvent(ctx context.Context, id int64, updates map[string]any) error {
	allowed := []string{"name", "description", "start_date", "end_date", "location", "capacity", "is_published", "image_path"}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]any, 0, len(updates)+1)
	for _, col := range allowed {
		val, ok := updates[col]
		if !ok {
			continue
		}
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *repository) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *repository) ListEvents(ctx context.Context, f EventFilter) ([]model.Event, int64, error) {
	conditions := []string{"TRUE"}
	args := []any{}

	if f.PublishedOnly {
		conditions = append(conditions, "is_published = TRUE")
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", n, n, n))
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", len(args)))
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		conditions = append(conditions, fmt.Sprintf("start_date <= $%d", len(args)))
	}
	if f.AvailableOnly {
		conditions = append(conditions, `(capacity IS NULL OR capacity > (
			SELECT COUNT(*) FROM registrations
			WHERE registrations.event_id = events.id AND registrations.status IN ('pending', 'confirmed')))`)
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM events WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	sortCol, ok := eventSortColumns[f.SortBy]
	if !ok {
		sortCol = "start_date"
	}
	order := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		order = "DESC"
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		eventColumns, where, sortCol, order, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}

	return events, total, rows.Err()
}

func (r *repository) CountConfirmedRegistrations(ctx context.Context, eventID int64) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed'`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count confirmed registrations: %w", err)
	}

	return count, nil
}

// GetEventStatistics returns the raw counts; the check-in rate is derived in
// the service layer. The registration count covers confirmed rows only.
func (r *repository) GetEventStatistics(ctx context.Context, eventID int64) (*model.EventStatistics, error) {
	var stats model.EventStatistics

	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed'`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&stats.RegistrationCount); err != nil {
		return nil, fmt.Errorf("failed to count confirmed registrations: %w", err)
	}

	query = `SELECT COUNT(*) FROM check_ins WHERE event_id = $1`
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&stats.CheckedInCount); err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	return &stats, nil
}
