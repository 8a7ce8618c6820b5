package dto

import "time"

// MaxGuestInvites caps the guest_emails list on registration creation.
const MaxGuestInvites = 45

type RegisterRequest struct {
	Name         string  `json:"name" validate:"required,min=2,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	Role         string  `json:"role" validate:"omitempty,oneof=admin participant"`
	Organization *string `json:"organization" validate:"omitempty,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateEventRequest struct {
	Name        string    `json:"name" form:"name" validate:"required,max=255"`
	Description *string   `json:"description" form:"description"`
	StartDate   time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02T15:04:05Z07:00" validate:"required,future"`
	EndDate     time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02T15:04:05Z07:00" validate:"required"`
	Location    string    `json:"location" form:"location" validate:"required,max=255"`
	Capacity    *int      `json:"capacity" form:"capacity" validate:"omitempty,positive"`
	IsPublished *bool     `json:"is_published" form:"is_published"`
}

type UpdateEventRequest struct {
	Name        *string    `json:"name" form:"name" validate:"omitempty,max=255"`
	Description *string    `json:"description" form:"description"`
	StartDate   *time.Time `json:"start_date" form:"start_date" time_format:"2006-01-02T15:04:05Z07:00"`
	EndDate     *time.Time `json:"end_date" form:"end_date" time_format:"2006-01-02T15:04:05Z07:00"`
	Location    *string    `json:"location" form:"location" validate:"omitempty,max=255"`
	Capacity    *int       `json:"capacity" form:"capacity" validate:"omitempty,positive"`
	IsPublished *bool      `json:"is_published" form:"is_published"`
}

type CreateRegistrationRequest struct {
	EventID  int64   `json:"event_id" validate:"required"`
	Comments *string `json:"comments" validate:"omitempty,max=1000"`
	// The max here mirrors MaxGuestInvites; struct tags cannot reference
	// consts, so the handler re-checks the length against the const.
	GuestEmails []string `json:"guest_emails" validate:"omitempty,max=45,unique,dive,email,max=255"`
}

type UpdateRegistrationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type CreateCheckInRequest struct {
	RegistrationID int64   `json:"registration_id" validate:"required"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
}

type CheckInByCodeRequest struct {
	EventID          int64   `json:"event_id" validate:"required"`
	RegistrationCode string  `json:"registration_code" validate:"required,max=36"`
	Notes            *string `json:"notes" validate:"omitempty,max=1000"`
}
