package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventdesk/internal/model"
)

const registrationColumns = `id, event_id, user_id, invited_by, invited_email, status, comments,
	confirmed_at, cancelled_at, registration_code, created_at, updated_at`

// capacityExceeded applies the booking arithmetic: the caller's own seat plus
// one per guest, on top of the registrations already holding seats. A NULL
// capacity never fills.
func capacityExceeded(capacity sql.NullInt64, activeCount int64, guestCount int) bool {
	if !capacity.Valid {
		return false
	}
	return activeCount+1+int64(guestCount) > capacity.Int64
}

// transitionTimestamps reports which edge timestamps move on a status
// transition: confirmed_at only on the edge into confirmed, cancelled_at only
// on the edge into cancelled. A same-status rewrite moves neither.
func transitionTimestamps(current, next string) (setConfirmed, setCancelled bool) {
	if current == next {
		return false, false
	}
	return next == model.StatusConfirmed, next == model.StatusCancelled
}

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.UserID, &reg.InvitedBy, &reg.InvitedEmail,
		&reg.Status, &reg.Comments, &reg.ConfirmedAt, &reg.CancelledAt,
		&reg.RegistrationCode, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// CreateRegistrationsTx performs the whole registration workflow in one
// transaction: the event row is locked FOR UPDATE so the capacity check and the
// inserts are serialized against concurrent registrations for the same event.
// reg is the self-registration and is populated in place; the returned slice
// holds the guest registrations created for guestEmails.
func (r *repository) CreateRegistrationsTx(ctx context.Context, reg *model.Registration, guestEmails []string) ([]model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	var capacity sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, reg.EventID,
	).Scan(&capacity)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	if capacity.Valid {
		var count int64
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM registrations
			WHERE event_id = $1 AND status IN ('pending', 'confirmed')
		`, reg.EventID).Scan(&count)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to count registrations: %w", err)
		}

		if capacityExceeded(capacity, count, len(guestEmails)) {
			_ = tx.Rollback()
			return nil, ErrCapacityExceeded
		}
	}

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND invited_by IS NULL
	`, reg.EventID, reg.UserID).Scan(&existing)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to check duplicate registration: %w", err)
	}
	if existing > 0 {
		_ = tx.Rollback()
		return nil, ErrAlreadyRegistered
	}

	insert := `
		INSERT INTO registrations (event_id, user_id, invited_by, invited_email, status, comments, registration_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	code, err := freshCode(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	reg.Status = model.StatusPending
	reg.RegistrationCode = code
	err = tx.QueryRowContext(ctx, insert,
		reg.EventID, reg.UserID, nil, nil, reg.Status, reg.Comments, reg.RegistrationCode,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		_ = tx.Rollback()
		if isUniqueViolation(err, "ux_registrations_event_user") {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	guests := make([]model.Registration, 0, len(guestEmails))
	for _, email := range guestEmails {
		// Best-effort match against an existing account; guests without one
		// are stored with a NULL user reference until they sign up.
		var guestUserID *int64
		var id int64
		err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
		switch {
		case err == nil:
			guestUserID = &id
		case errors.Is(err, sql.ErrNoRows):
		default:
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to look up guest user: %w", err)
		}

		guestCode, err := freshCode(ctx, tx)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}

		guestEmail := email
		guest := model.Registration{
			EventID:          reg.EventID,
			UserID:           guestUserID,
			InvitedBy:        reg.UserID,
			InvitedEmail:     &guestEmail,
			Status:           model.StatusPending,
			RegistrationCode: guestCode,
		}
		err = tx.QueryRowContext(ctx, insert,
			guest.EventID, guest.UserID, guest.InvitedBy, guest.InvitedEmail,
			guest.Status, guest.Comments, guest.RegistrationCode,
		).Scan(&guest.ID, &guest.CreatedAt, &guest.UpdatedAt)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("failed to create guest registration: %w", err)
		}

		guests = append(guests, guest)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return guests, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return reg, nil
}

// GetRegistrationForUser scopes the lookup to the owning participant, so a
// foreign registration surfaces as not-found rather than forbidden.
func (r *repository) GetRegistrationForUser(ctx context.Context, id, userID int64) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 AND user_id = $2`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	return reg, nil
}

// GetRegistrationByCode resolves a registration by (event, code); scoping by
// event keeps codes from other events from resolving here.
func (r *repository) GetRegistrationByCode(ctx context.Context, eventID int64, code string) (*model.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND registration_code = $2`

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query, eventID, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get registration by code: %w", err)
	}

	return reg, nil
}

func (r *repository) ListRegistrationsByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Registration, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}

	return regs, total, rows.Err()
}

func (r *repository) ListEventRegistrations(ctx context.Context, eventID int64, status string, limit, offset int) ([]model.Registration, int64, error) {
	where := `event_id = $1`
	args := []any{eventID}
	if status != "" {
		args = append(args, status)
		where += ` AND status = $2`
	}

	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE `+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count registrations: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM registrations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, registrationColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list event registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}

	return regs, total, rows.Err()
}

// CancelRegistrationTx cancels the caller's own registration. Cancelling an
// already-cancelled registration is a no-op that preserves cancelled_at.
func (r *repository) CancelRegistrationTx(ctx context.Context, id, userID int64) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 AND user_id = $2 FOR UPDATE`
	reg, err := scanRegistration(tx.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to select registration for cancellation: %w", err)
	}

	if _, setCancelled := transitionTimestamps(reg.Status, model.StatusCancelled); !setCancelled {
		_ = tx.Rollback()
		return reg, nil
	}

	update := `
		UPDATE registrations
		SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + registrationColumns

	reg, err = scanRegistration(tx.QueryRowContext(ctx, update, id))
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to cancel registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation transaction: %w", err)
	}

	return reg, nil
}

// UpdateRegistrationStatusTx transitions a registration's status.
// confirmed_at/cancelled_at move only on the edge into that status; rewriting
// the current status leaves both timestamps untouched.
func (r *repository) UpdateRegistrationStatusTx(ctx context.Context, id int64, newStatus string) (*model.Registration, error) {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 FOR UPDATE`
	reg, err := scanRegistration(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to select registration for status update: %w", err)
	}

	if reg.Status == newStatus {
		_ = tx.Rollback()
		return reg, nil
	}

	setConfirmed, setCancelled := transitionTimestamps(reg.Status, newStatus)
	update := `
		UPDATE registrations
		SET status = $1,
		    confirmed_at = CASE WHEN $2 THEN NOW() ELSE confirmed_at END,
		    cancelled_at = CASE WHEN $3 THEN NOW() ELSE cancelled_at END,
		    updated_at = NOW()
		WHERE id = $4
		RETURNING ` + registrationColumns

	reg, err = scanRegistration(tx.QueryRowContext(ctx, update, newStatus, setConfirmed, setCancelled, id))
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to update registration status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update transaction: %w", err)
	}

	return reg, nil
}
