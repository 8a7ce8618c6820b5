package service

import (
	"math"
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repo"
	"eventdesk/pkg/validator"
)

func (s *service) CreateCheckIn(ctx *ginext.Context) {
	adminID, ok := s.mustUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateCheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}

	reg, err := s.repo.GetRegistrationByID(ctx.Request.Context(), req.RegistrationID)
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

	s.completeCheckIn(ctx, reg, adminID, req.Notes)
}

func (s *service) CheckInByCode(ctx *ginext.Context) {
	adminID, ok := s.mustUser(ctx)
	if !ok {
		return
	}

	var req dto.CheckInByCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}

	event, ok := s.ownedEvent(ctx, req.EventID, adminID)
	if !ok {
		return
	}

	reg, err := s.repo.GetRegistrationByCode(ctx.Request.Context(), event.ID, req.RegistrationCode)
	if err != nil {
		if err == repo.ErrInvalidCode {
			dto.InvalidCodeError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to load registration by code")
		dto.InternalError(ctx, err)
		return
	}

	s.completeCheckIn(ctx, reg, adminID, req.Notes)
}

// completeCheckIn enforces the shared check-in rules once a registration has
// been resolved and authorization has passed: cancelled registrations are
// rejected and each registration checks in at most once.
func (s *service) completeCheckIn(ctx *ginext.Context, reg *model.Registration, adminID int64, notes *string) {
	if reg.IsCancelled() {
		dto.CancelledRegistrationError(ctx)
		return
	}

	existing, err := s.repo.GetCheckInByRegistrationID(ctx.Request.Context(), reg.ID)
	if err == nil {
		dto.AlreadyCheckedInError(ctx, existing)
		return
	}
	if err != repo.ErrCheckInNotFound {
		s.log.Error().Err(err).Msg("failed to look up existing check-in")
		dto.InternalError(ctx, err)
		return
	}

	ci := model.NewCheckIn(reg.ID, reg.EventID, adminID, notes)
	if _, err := s.repo.CreateCheckInTx(ctx.Request.Context(), ci); err != nil {
		if err == repo.ErrAlreadyCheckedIn {
			// Lost the race to a concurrent check-in; report the winner.
			existing, lookupErr := s.repo.GetCheckInByRegistrationID(ctx.Request.Context(), reg.ID)
			if lookupErr != nil {
				existing = nil
			}
			dto.AlreadyCheckedInError(ctx, existing)
			return
		}
		s.log.Error().Err(err).Int64("registration_id", reg.ID).Msg("failed to create check-in")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CheckInResponse{
		Message: "Check-in completed.",
		CheckIn: ci,
	})
}

func (s *service) ListCheckIns(ctx *ginext.Context) {
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

	var day *time.Time
	if raw := ctx.Query("date"); raw != "" {
		t, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			dto.JsonError(ctx, http.StatusUnprocessableEntity, "date must be formatted as YYYY-MM-DD.")
			return
		}
		day = &t
	}

	params := dto.ParseListParams(ctx, 20)

	checkIns, total, err := s.repo.ListCheckIns(ctx.Request.Context(), eventID, day, params.PerPage, params.Offset())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list check-ins")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CheckInListResponse{
		Event:    event,
		CheckIns: checkIns,
		Meta:     dto.Meta{Page: params.Page, PerPage: params.PerPage, Total: total},
	})
}

func (s *service) DeleteCheckIn(ctx *ginext.Context) {
	adminID, ok := s.mustUser(ctx)
	if !ok {
		return
	}
	checkInID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	ci, err := s.repo.GetCheckInByID(ctx.Request.Context(), checkInID)
	if err != nil {
		if err == repo.ErrCheckInNotFound {
			dto.CheckInNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to load check-in")
		dto.InternalError(ctx, err)
		return
	}
	if _, ok := s.ownedEvent(ctx, ci.EventID, adminID); !ok {
		return
	}

	if err := s.repo.DeleteCheckIn(ctx.Request.Context(), checkInID); err != nil {
		if err == repo.ErrCheckInNotFound {
			dto.CheckInNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete check-in")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Check-in deleted."})
}

func (s *service) GetCheckInStatistics(ctx *ginext.Context) {
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

	stats, err := s.repo.GetEventStatistics(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load event statistics")
		dto.InternalError(ctx, err)
		return
	}

	// Rate is over confirmed registrations only; no confirmations means 0.
	if stats.RegistrationCount > 0 {
		rate := float64(stats.CheckedInCount) / float64(stats.RegistrationCount) * 100
		stats.CheckInRate = math.Round(rate*100) / 100
	}

	ctx.JSON(http.StatusOK, dto.StatisticsResponse{
		Event:      event,
		Statistics: stats,
	})
}
