package service

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventdesk/cmd/middleware"
	"eventdesk/internal/auth"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/rabbit"
	"eventdesk/internal/repo"
	"eventdesk/internal/storage"
)

type Service interface {
	Register(ctx *ginext.Context)
	Login(ctx *ginext.Context)
	CurrentUser(ctx *ginext.Context)

	ListEvents(ctx *ginext.Context)
	CreateEvent(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)

	CreateRegistration(ctx *ginext.Context)
	ListMyRegistrations(ctx *ginext.Context)
	GetRegistration(ctx *ginext.Context)
	CancelRegistration(ctx *ginext.Context)
	ListParticipants(ctx *ginext.Context)
	UpdateRegistrationStatus(ctx *ginext.Context)

	CreateCheckIn(ctx *ginext.Context)
	CheckInByCode(ctx *ginext.Context)
	ListCheckIns(ctx *ginext.Context)
	DeleteCheckIn(ctx *ginext.Context)
	GetCheckInStatistics(ctx *ginext.Context)
}

type service struct {
	repo          repo.Repository
	log           *zerolog.Logger
	rbt           *rabbit.Client
	tokens        *auth.Manager
	images        *storage.ImageStore
	reminderDelay time.Duration
}

func NewService(
	repository repo.Repository,
	logger *zerolog.Logger,
	rbt *rabbit.Client,
	tokens *auth.Manager,
	images *storage.ImageStore,
	reminderDelay time.Duration,
) Service {
	return &service{
		repo:          repository,
		log:           logger,
		rbt:           rbt,
		tokens:        tokens,
		images:        images,
		reminderDelay: reminderDelay,
	}
}

// mustUser pulls the authenticated user id out of the request context. Routes
// behind the Authenticate middleware always have one; a miss means the route
// is wired wrong.
func (s *service) mustUser(ctx *ginext.Context) (int64, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		dto.UnauthorizedError(ctx)
		return 0, false
	}
	return userID, true
}

func parseIDParam(ctx *ginext.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		dto.JsonError(ctx, 422, "Invalid id parameter.")
		return 0, false
	}
	return id, true
}

// ownedEvent loads an event and verifies the acting admin owns it, writing
// the error response on failure.
func (s *service) ownedEvent(ctx *ginext.Context, eventID, adminID int64) (*model.Event, bool) {
	event, err := s.repo.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		if err == repo.ErrEventNotFound {
			dto.EventNotFoundError(ctx)
		} else {
			s.log.Error().Err(err).Int64("event_id", eventID).Msg("failed to load event")
			dto.InternalError(ctx, err)
		}
		return nil, false
	}
	if event.UserID != adminID {
		dto.ForbiddenError(ctx)
		return nil, false
	}
	return event, true
}

// publishNotification hands a message to the notification exchange. Delivery
// is best-effort and never fails the request that triggered it.
func (s *service) publishNotification(msgType string, reg *model.Registration, delay time.Duration) {
	if s.rbt == nil {
		return
	}

	payload, err := json.Marshal(dto.NotificationMessage{
		Type:           msgType,
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal notification message")
		return
	}

	if err := s.rbt.Publish(payload, int(delay.Seconds())); err != nil {
		s.log.Warn().
			Err(err).
			Str("type", msgType).
			Int64("registration_id", reg.ID).
			Msg("failed to publish notification")
	}
}
