package model

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	RoleAdmin       = "admin"
	RoleParticipant = "participant"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Password     string    `db:"password" json:"-"`
	Role         string    `db:"role" json:"role"`
	Organization *string   `db:"organization" json:"organization,omitempty"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Event struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	Location    string    `db:"location" json:"location"`
	Capacity    *int      `db:"capacity" json:"capacity,omitempty"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	ImagePath   *string   `db:"image_path" json:"image_path,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Registration struct {
	ID               int64      `db:"id" json:"id"`
	EventID          int64      `db:"event_id" json:"event_id"`
	UserID           *int64     `db:"user_id" json:"user_id,omitempty"`
	InvitedBy        *int64     `db:"invited_by" json:"invited_by,omitempty"`
	InvitedEmail     *string    `db:"invited_email" json:"invited_email,omitempty"`
	Status           string     `db:"status" json:"status"`
	Comments         *string    `db:"comments" json:"comments,omitempty"`
	ConfirmedAt      *time.Time `db:"confirmed_at" json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	RegistrationCode string     `db:"registration_code" json:"registration_code"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

func (r *Registration) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// IsGuest reports whether the row was created through a guest invitation
// rather than by the participant themselves.
func (r *Registration) IsGuest() bool {
	return r.InvitedBy != nil
}

type CheckIn struct {
	ID              int64     `db:"id" json:"id"`
	RegistrationID  int64     `db:"registration_id" json:"registration_id"`
	EventID         int64     `db:"event_id" json:"event_id"`
	CheckedByUserID int64     `db:"checked_by_user_id" json:"checked_by_user_id"`
	CheckedInAt     time.Time `db:"checked_in_at" json:"checked_in_at"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// NewCheckIn is the single place a check-in record is built. checked_in_at is
// populated here, before persistence, so the timestamp is an explicit input to
// the insert rather than a store-level side effect.
func NewCheckIn(registrationID, eventID, checkedBy int64, notes *string) *CheckIn {
	return &CheckIn{
		RegistrationID:  registrationID,
		EventID:         eventID,
		CheckedByUserID: checkedBy,
		CheckedInAt:     time.Now(),
		Notes:           notes,
	}
}

type EventStatistics struct {
	RegistrationCount int     `json:"registration_count"`
	CheckedInCount    int     `json:"checked_in_count"`
	CheckInRate       float64 `json:"check_in_rate"`
}
