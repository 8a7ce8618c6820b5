package service

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/cmd/middleware"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repo"
	"eventdesk/pkg/validator"
)

const dateOnlyLayout = "2006-01-02"

func (s *service) ListEvents(ctx *ginext.Context) {
	params := dto.ParseListParams(ctx, 10)

	filter := repo.EventFilter{
		PublishedOnly: !middleware.IsAdmin(ctx),
		Search:        ctx.Query("search"),
		AvailableOnly: ctx.Query("available_only") == "true" || ctx.Query("available_only") == "1",
		SortBy:        ctx.DefaultQuery("sort_by", "start_date"),
		SortOrder:     ctx.DefaultQuery("sort_dir", "asc"),
		Limit:         params.PerPage,
		Offset:        params.Offset(),
	}
	if raw := ctx.Query("date_from"); raw != "" {
		t, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			dto.JsonError(ctx, http.StatusUnprocessableEntity, "date_from must be formatted as YYYY-MM-DD.")
			return
		}
		filter.DateFrom = &t
	}
	if raw := ctx.Query("date_to"); raw != "" {
		t, err := time.Parse(dateOnlyLayout, raw)
		if err != nil {
			dto.JsonError(ctx, http.StatusUnprocessableEntity, "date_to must be formatted as YYYY-MM-DD.")
			return
		}
		filter.DateTo = &t
	}

	events, total, err := s.repo.ListEvents(ctx.Request.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalError(ctx, err)
		return
	}

	payloads := make([]dto.EventPayload, 0, len(events))
	for i := range events {
		count, err := s.repo.CountConfirmedRegistrations(ctx.Request.Context(), events[i].ID)
		if err != nil {
			s.log.Error().Err(err).Int64("event_id", events[i].ID).Msg("failed to count registrations")
			dto.InternalError(ctx, err)
			return
		}
		payloads = append(payloads, dto.EventPayload{Event: &events[i], ParticipantCount: count})
	}

	ctx.JSON(http.StatusOK, dto.EventListResponse{
		Events: payloads,
		Meta:   dto.Meta{Page: params.Page, PerPage: params.PerPage, Total: total},
	})
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	adminID, ok := s.mustUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.EndDate.Before(req.StartDate) {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, "end_date must not be before start_date.")
		return
	}

	event := &model.Event{
		UserID:      adminID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Capacity:    req.Capacity,
	}
	if req.IsPublished != nil {
		event.IsPublished = *req.IsPublished
	}

	if file, err := ctx.FormFile("image"); err == nil {
		path, err := s.images.Save(file)
		if err != nil {
			dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
			return
		}
		event.ImagePath = &path
	}

	if _, err := s.repo.CreateEvent(ctx.Request.Context(), event); err != nil {
		s.log.Error().Err(err).Msg("failed to create event")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.EventResponse{
		Message: "Event created.",
		Event:   &dto.EventPayload{Event: event},
	})
}

func (s *service) GetEvent(ctx *ginext.Context) {
	eventID, ok := parseIDParam(ctx)
	if !ok {
		return
	}

	event, err := s.repo.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		if err == repo.ErrEventNotFound {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to load event")
		dto.InternalError(ctx, err)
		return
	}

	// Drafts are visible only to their owner and to admins.
	if !event.IsPublished {
		userID, authed := middleware.UserID(ctx)
		if !middleware.IsAdmin(ctx) && (!authed || userID != event.UserID) {
			dto.ForbiddenError(ctx)
			return
		}
	}

	count, err := s.repo.CountConfirmedRegistrations(ctx.Request.Context(), event.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EventResponse{
		Event: &dto.EventPayload{Event: event, ParticipantCount: count},
	})
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
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

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}

	start, end := event.StartDate, event.EndDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if end.Before(start) {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, "end_date must not be before start_date.")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	var oldImage string
	if file, err := ctx.FormFile("image"); err == nil {
		path, err := s.images.Save(file)
		if err != nil {
			dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
			return
		}
		updates["image_path"] = path
		if event.ImagePath != nil {
			oldImage = *event.ImagePath
		}
	}

	if len(updates) == 0 {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, "Nothing to update.")
		return
	}

	if err := s.repo.UpdateEvent(ctx.Request.Context(), eventID, updates); err != nil {
		if err == repo.ErrEventNotFound {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update event")
		dto.InternalError(ctx, err)
		return
	}
	if oldImage != "" {
		if err := s.images.Delete(oldImage); err != nil {
			s.log.Warn().Err(err).Str("image", oldImage).Msg("failed to remove replaced image")
		}
	}

	updated, err := s.repo.GetEventByID(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to reload event")
		dto.InternalError(ctx, err)
		return
	}
	count, err := s.repo.CountConfirmedRegistrations(ctx.Request.Context(), eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count registrations")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.EventResponse{
		Message: "Event updated.",
		Event:   &dto.EventPayload{Event: updated, ParticipantCount: count},
	})
}

func (s *service) DeleteEvent(ctx *ginext.Context) {
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

	if err := s.repo.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if err == repo.ErrEventNotFound {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete event")
		dto.InternalError(ctx, err)
		return
	}

	if event.ImagePath != nil {
		if err := s.images.Delete(*event.ImagePath); err != nil {
			s.log.Warn().Err(err).Str("image", *event.ImagePath).Msg("failed to remove event image")
		}
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Event deleted."})
}
