package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventdesk/internal/model"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already taken")
	ErrEventNotFound        = errors.New("event not found")
	ErrCapacityExceeded     = errors.New("event capacity exceeded")
	ErrAlreadyRegistered    = errors.New("already registered for event")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrInvalidCode          = errors.New("invalid registration code")
	ErrAlreadyCheckedIn     = errors.New("registration already checked in")
	ErrCheckInNotFound      = errors.New("check-in not found")
)

type EventFilter struct {
	PublishedOnly bool
	Search        string
	DateFrom      *time.Time
	DateTo        *time.Time
	AvailableOnly bool
	SortBy        string
	SortOrder     string
	Limit         int
	Offset        int
}

type Repository interface {
	CreateUser(ctx context.Context, u *model.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	UpdateEvent(ctx context.Context, id int64, updates map[string]any) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEvents(ctx context.Context, f EventFilter) ([]model.Event, int64, error)
	CountConfirmedRegistrations(ctx context.Context, eventID int64) (int, error)
	GetEventStatistics(ctx context.Context, eventID int64) (*model.EventStatistics, error)

	CreateRegistrationsTx(ctx context.Context, reg *model.Registration, guestEmails []string) ([]model.Registration, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetRegistrationForUser(ctx context.Context, id, userID int64) (*model.Registration, error)
	GetRegistrationByCode(ctx context.Context, eventID int64, code string) (*model.Registration, error)
	ListRegistrationsByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Registration, int64, error)
	ListEventRegistrations(ctx context.Context, eventID int64, status string, limit, offset int) ([]model.Registration, int64, error)
	CancelRegistrationTx(ctx context.Context, id, userID int64) (*model.Registration, error)
	UpdateRegistrationStatusTx(ctx context.Context, id int64, newStatus string) (*model.Registration, error)

	CreateCheckInTx(ctx context.Context, ci *model.CheckIn) (int64, error)
	GetCheckInByID(ctx context.Context, id int64) (*model.CheckIn, error)
	GetCheckInByRegistrationID(ctx context.Context, registrationID int64) (*model.CheckIn, error)
	ListCheckIns(ctx context.Context, eventID int64, day *time.Time, limit, offset int) ([]model.CheckIn, int64, error)
	DeleteCheckIn(ctx context.Context, id int64) error

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.down.sql"))
	if err != nil {
		return fmt.Errorf("failed to read rollback files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read rollback file %s: %w", file, err)
		}

		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations rolled back successfully from %s", migrationsDir)
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
