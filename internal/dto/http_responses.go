package dto

import (
	"eventdesk/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"
)

// Error bodies are always {"message": ...} with an optional "error" detail;
// success bodies wrap their payload under a named key.

type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	User *model.User `json:"user"`
}

type AuthResponse struct {
	Message     string      `json:"message"`
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

// EventPayload decorates an event with its confirmed-participant count for
// list and detail views.
type EventPayload struct {
	*model.Event
	ParticipantCount int `json:"participant_count"`
}

type EventResponse struct {
	Message string        `json:"message,omitempty"`
	Event   *EventPayload `json:"event"`
}

type EventListResponse struct {
	Events []EventPayload `json:"events"`
	Meta   Meta           `json:"meta"`
}

type RegistrationCreatedResponse struct {
	Message            string               `json:"message"`
	Registration       *model.Registration  `json:"registration"`
	GuestRegistrations []model.Registration `json:"guest_registrations"`
}

type RegistrationResponse struct {
	Message      string              `json:"message,omitempty"`
	Registration *model.Registration `json:"registration"`
}

type RegistrationListResponse struct {
	Registrations []model.Registration `json:"registrations"`
	Meta          Meta                 `json:"meta"`
}

type ParticipantListResponse struct {
	Event         *model.Event         `json:"event"`
	Registrations []model.Registration `json:"registrations"`
	Meta          Meta                 `json:"meta"`
}

type CheckInResponse struct {
	Message string         `json:"message,omitempty"`
	CheckIn *model.CheckIn `json:"check_in"`
}

type CheckInListResponse struct {
	Event    *model.Event    `json:"event"`
	CheckIns []model.CheckIn `json:"check_ins"`
	Meta     Meta            `json:"meta"`
}

type StatisticsResponse struct {
	Event      *model.Event           `json:"event"`
	Statistics *model.EventStatistics `json:"statistics"`
}

func JsonError(c *ginext.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func JsonErrorDetail(c *ginext.Context, status int, message string, err error) {
	c.JSON(status, gin.H{"message": message, "error": err.Error()})
}

func ForbiddenError(c *ginext.Context) {
	JsonError(c, 403, "You do not have permission to perform this action.")
}

func UnauthorizedError(c *ginext.Context) {
	JsonError(c, 401, "Authentication required.")
}

func EventNotFoundError(c *ginext.Context) {
	JsonError(c, 404, "Event not found.")
}

func RegistrationNotFoundError(c *ginext.Context) {
	JsonError(c, 404, "Registration not found.")
}

func CheckInNotFoundError(c *ginext.Context) {
	JsonError(c, 404, "Check-in not found.")
}

func InvalidCodeError(c *ginext.Context) {
	JsonError(c, 404, "Invalid registration code.")
}

func CapacityExceededError(c *ginext.Context) {
	JsonError(c, 422, "The event has reached its capacity.")
}

func AlreadyRegisteredError(c *ginext.Context) {
	JsonError(c, 422, "You are already registered for this event.")
}

func CancelledRegistrationError(c *ginext.Context) {
	JsonError(c, 422, "A cancelled registration cannot be checked in.")
}

func AlreadyCheckedInError(c *ginext.Context, existing *model.CheckIn) {
	c.JSON(422, gin.H{
		"message":  "This participant is already checked in.",
		"check_in": existing,
	})
}

func InternalError(c *ginext.Context, err error) {
	JsonErrorDetail(c, 500, "An unexpected error occurred.", err)
}
