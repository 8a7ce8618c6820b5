package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Mailer struct {
	host     string
	port     string
	from     string
	password string
	log      *zerolog.Logger
}

func New(host, port, from, password string, log *zerolog.Logger) *Mailer {
	return &Mailer{host: host, port: port, from: from, password: password, log: log}
}

func (m *Mailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, to, subject, body,
	)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", to, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// SendRegistrationPending notifies a participant that their registration was
// received and carries the registration code used for check-in at the door.
func (m *Mailer) SendRegistrationPending(to, eventName, code string) error {
	subject := fmt.Sprintf("Registration received: %s", eventName)
	body := fmt.Sprintf(
		"Hello,\n\nYour registration for \"%s\" has been received and is pending confirmation.\n\nYour registration code is %s. Present it at the entrance to check in.",
		eventName, code,
	)
	return m.send(to, subject, body)
}

// SendGuestInvitation tells an invited guest they have a seat reserved.
func (m *Mailer) SendGuestInvitation(to, eventName, inviterName, code string) error {
	subject := fmt.Sprintf("You are invited: %s", eventName)
	body := fmt.Sprintf(
		"Hello,\n\n%s has reserved a seat for you at \"%s\".\n\nYour registration code is %s. Present it at the entrance to check in.",
		inviterName, eventName, code,
	)
	return m.send(to, subject, body)
}

// SendPendingReminder nudges a participant whose registration is still
// pending some time after it was created.
func (m *Mailer) SendPendingReminder(to, eventName string) error {
	subject := fmt.Sprintf("Reminder: your registration for %s is still pending", eventName)
	body := fmt.Sprintf(
		"Hello,\n\nYour registration for \"%s\" has not been confirmed yet. Please contact the organizer if you believe this is an error.",
		eventName,
	)
	return m.send(to, subject, body)
}
