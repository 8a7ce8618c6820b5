package consumerWorker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wb-go/wbf/zlog"

	"eventdesk/internal/dto"
	"eventdesk/internal/mailer"
	"eventdesk/internal/model"
	"eventdesk/internal/rabbit"
	"eventdesk/internal/repo"
)

// Reader drains the notification queue and turns messages into emails.
// Registrations are reloaded from the store before mailing so a registration
// cancelled after publish is silently skipped. Mail delivery is best-effort;
// a failed send is logged and the message dropped rather than redelivered
// forever.
type Reader struct {
	rmq    *rabbit.Client
	repo   repo.Repository
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, mail *mailer.Mailer) *Reader {
	return &Reader{
		rmq:  rmq,
		repo: repo,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.NotificationMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().Err(err).Msgf("failed to unmarshal message: %s", string(body))
				return err
			}

			if err := r.handle(cctx, msg); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("type", msg.Type).
					Int64("registration_id", msg.RegistrationID).
					Msg("notification not delivered")
			}
			// Mail failures are not worth requeueing; ack either way.
			return nil
		}

		if err := r.rmq.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Reader) handle(ctx context.Context, msg dto.NotificationMessage) error {
	reg, err := r.repo.GetRegistrationByID(ctx, msg.RegistrationID)
	if err != nil {
		return fmt.Errorf("load registration: %w", err)
	}
	if reg.IsCancelled() {
		zlog.Logger.Debug().
			Int64("registration_id", reg.ID).
			Msg("registration cancelled since publish, skipping notification")
		return nil
	}

	event, err := r.repo.GetEventByID(ctx, reg.EventID)
	if err != nil {
		return fmt.Errorf("load event: %w", err)
	}

	to, err := r.recipient(ctx, reg)
	if err != nil {
		return err
	}

	switch msg.Type {
	case dto.NotificationRegistrationPending:
		return r.mail.SendRegistrationPending(to, event.Name, reg.RegistrationCode)

	case dto.NotificationGuestInvitation:
		inviterName := "An event organizer"
		if reg.InvitedBy != nil {
			if inviter, err := r.repo.GetUserByID(ctx, *reg.InvitedBy); err == nil {
				inviterName = inviter.Name
			}
		}
		return r.mail.SendGuestInvitation(to, event.Name, inviterName, reg.RegistrationCode)

	case dto.NotificationPendingReminder:
		if reg.Status != model.StatusPending {
			return nil
		}
		return r.mail.SendPendingReminder(to, event.Name)

	default:
		return fmt.Errorf("unknown notification type %q", msg.Type)
	}
}

func (r *Reader) recipient(ctx context.Context, reg *model.Registration) (string, error) {
	if reg.InvitedEmail != nil {
		return *reg.InvitedEmail, nil
	}
	if reg.UserID != nil {
		user, err := r.repo.GetUserByID(ctx, *reg.UserID)
		if err != nil {
			return "", fmt.Errorf("load recipient: %w", err)
		}
		return user.Email, nil
	}
	return "", fmt.Errorf("registration %d has no reachable recipient", reg.ID)
}
