package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventdesk/internal/model"
)

const checkInColumns = `id, registration_id, event_id, checked_by_user_id, checked_in_at, notes, created_at, updated_at`

func scanCheckIn(row rowScanner) (*model.CheckIn, error) {
	var ci model.CheckIn
	err := row.Scan(
		&ci.ID, &ci.RegistrationID, &ci.EventID, &ci.CheckedByUserID,
		&ci.CheckedInAt, &ci.Notes, &ci.CreatedAt, &ci.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ci, nil
}

// CreateCheckInTx inserts the check-in record. The unique constraint on
// registration_id serializes concurrent check-ins for the same registration;
// a violation means somebody else won the race and maps to ErrAlreadyCheckedIn.
func (r *repository) CreateCheckInTx(ctx context.Context, ci *model.CheckIn) (int64, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	query := `
		INSERT INTO check_ins (registration_id, event_id, checked_by_user_id, checked_in_at, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(ctx, query,
		ci.RegistrationID, ci.EventID, ci.CheckedByUserID, ci.CheckedInAt, ci.Notes,
	).Scan(&ci.ID, &ci.CreatedAt, &ci.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err, "") {
			return 0, ErrAlreadyCheckedIn
		}
		return 0, fmt.Errorf("failed to create check-in: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit check-in transaction: %w", err)
	}

	return ci.ID, nil
}

func (r *repository) GetCheckInByID(ctx context.Context, id int64) (*model.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE id = $1`

	ci, err := scanCheckIn(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckInNotFound
		}
		return nil, fmt.Errorf("failed to get check-in: %w", err)
	}

	return ci, nil
}

func (r *repository) GetCheckInByRegistrationID(ctx context.Context, registrationID int64) (*model.CheckIn, error) {
	query := `SELECT ` + checkInColumns + ` FROM check_ins WHERE registration_id = $1`

	ci, err := scanCheckIn(r.db.QueryRowContext(ctx, query, registrationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckInNotFound
		}
		return nil, fmt.Errorf("failed to get check-in by registration: %w", err)
	}

	return ci, nil
}

func (r *repository) ListCheckIns(ctx context.Context, eventID int64, day *time.Time, limit, offset int) ([]model.CheckIn, int64, error) {
	where := `event_id = $1`
	args := []any{eventID}
	if day != nil {
		args = append(args, *day)
		where += ` AND checked_in_at::date = $2::date`
	}

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM check_ins WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count check-ins: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM check_ins
		WHERE %s
		ORDER BY checked_in_at DESC
		LIMIT $%d OFFSET $%d
	`, checkInColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var checkIns []model.CheckIn
	for rows.Next() {
		ci, err := scanCheckIn(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan check-in: %w", err)
		}
		checkIns = append(checkIns, *ci)
	}

	return checkIns, total, rows.Err()
}

func (r *repository) DeleteCheckIn(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM check_ins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete check-in: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCheckInNotFound
	}

	return nil
}
