package dto

// Message types carried over the notification exchange. The worker resolves
// the registration and event fresh from the store before mailing, so payloads
// stay minimal.
const (
	NotificationRegistrationPending = "registration_pending"
	NotificationGuestInvitation     = "guest_invitation"
	NotificationPendingReminder     = "pending_reminder"
)

type NotificationMessage struct {
	Type           string `json:"type"`
	RegistrationID int64  `json:"registration_id"`
	EventID        int64  `json:"event_id"`
}
