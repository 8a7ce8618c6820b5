package service

import (
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repo"
	"eventdesk/pkg/validator"
)

func (s *service) CreateRegistration(ctx *ginext.Context) {
	userID, ok := s.mustUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if len(req.GuestEmails) > dto.MaxGuestInvites {
		dto.JsonError(ctx, http.StatusUnprocessableEntity,
			fmt.Sprintf("A registration may invite at most %d guests.", dto.MaxGuestInvites))
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}

	reg := &model.Registration{
		EventID:  req.EventID,
		UserID:   &userID,
		Comments: req.Comments,
	}

	guests, err := s.repo.CreateRegistrationsTx(ctx.Request.Context(), reg, req.GuestEmails)
	if err != nil {
		switch err {
		case repo.ErrEventNotFound:
			dto.EventNotFoundError(ctx)
		case repo.ErrCapacityExceeded:
			dto.CapacityExceededError(ctx)
		case repo.ErrAlreadyRegistered:
			dto.AlreadyRegisteredError(ctx)
		default:
			s.log.Error().Err(err).Int64("event_id", req.EventID).Msg("failed to create registration")
			dto.InternalError(ctx, err)
		}
		return
	}

	s.publishNotification(dto.NotificationRegistrationPending, reg, 0)
	if s.reminderDelay > 0 {
		s.publishNotification(dto.NotificationPendingReminder, reg, s.reminderDelay)
	}
	for i := range guests {
		s.publishNotification(dto.NotificationGuestInvitation, &guests[i], 0)
	}

	ctx.JSON(http.StatusCreated, dto.RegistrationCreatedResponse{
		Message:            "Successfully registered for the event.",
		Registration:       reg,
		GuestRegistrations: guests,
	})
}

func (s *service) ListMyRegistrations(ctx *ginext.Context) {
	userID, ok := s.mustUser(ctx)
	if !ok {
		return
	}
	params := dto.ParseListParams(ctx, 10)

	regs, total, err := s.repo.ListRegistrationsByUser(ctx.Request.Context(), userID, params.PerPage, params.Offset())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list registrations")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RegistrationListResponse{
		Registrations: regs,
		Meta:          dto.Meta{Page: params.Page, PerPage: params.PerPage, Total: total},
	})
}

func (s *service) GetRegistration(ctx *ginext.Context) {
	userID, ok := s.mustUser(ctx)
	if !ok {
		return
	}
	regID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	reg, err := s.repo.GetRegistrationForUser(ctx.Request.Context(), regID, userID)
	if err != nil {
		if err == repo.ErrRegistrationNotFound {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to load registration")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RegistrationResponse{Registration: reg})
}

func (s *service) CancelRegistration(ctx *ginext.Context) {
	userID, ok := s.mustUser(ctx)
	if !ok {
		return
	}
	regID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	reg, err := s.repo.CancelRegistrationTx(ctx.Request.Context(), regID, userID)
	if err != nil {
		if err == repo.ErrRegistrationNotFound {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to cancel registration")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RegistrationResponse{
		Message:      "Registration cancelled.",
		Registration: reg,
	})
}

func (s *service) ListParticipants(ctx *ginext.Context) {
	adminID, ok := s.mustUser(ctx)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(ctx)
	if !ok {
		return
	}
	event, ok := s.ownedEvent(ctx, eventID, adminID)
	if !ok {
		return
	}

	status := ctx.Query("status")
	switch status {
	case "", model.StatusPending, model.StatusConfirmed, model.StatusCancelled:
	default:
		dto.JsonError(ctx, http.StatusUnprocessableEntity, "status must be one of pending, confirmed, cancelled.")
		return
	}

	params := dto.ParseListParams(ctx, 15)

	regs, total, err := s.repo.ListEventRegistrations(ctx.Request.Context(), eventID, status, params.PerPage, params.Offset())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list participants")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ParticipantListResponse{
		Event:         event,
		Registrations: regs,
		Meta:          dto.Meta{Page: params.Page, PerPage: params.PerPage, Total: total},
	})
}

func (s *service) UpdateRegistrationStatus(ctx *ginext.Context) {
	adminID, ok := s.mustUser(ctx)
	if !ok {
		return
	}
	regID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateRegistrationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}

	reg, err := s.repo.GetRegistrationByID(ctx.Request.Context(), regID)
	if err != nil {
		if err == repo.ErrRegistrationNotFound {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to load registration")
		dto.InternalError(ctx, err)
		return
	}
	if _, ok := s.ownedEvent(ctx, reg.EventID, adminID); !ok {
		return
	}

	updated, err := s.repo.UpdateRegistrationStatusTx(ctx.Request.Context(), regID, req.Status)
	if err != nil {
		if err == repo.ErrRegistrationNotFound {
			dto.RegistrationNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update registration status")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RegistrationResponse{
		Message:      "Registration status updated.",
		Registration: updated,
	})
}
