package service

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/auth"
	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repo"
	"eventdesk/pkg/validator"
)

func (s *service) Register(ctx *ginext.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleParticipant
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to hash password")
		dto.InternalError(ctx, err)
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Password:     hash,
		Role:         role,
		Organization: req.Organization,
		Phone:        req.Phone,
	}
	if _, err := s.repo.CreateUser(ctx.Request.Context(), user); err != nil {
		if err == repo.ErrEmailTaken {
			dto.JsonError(ctx, http.StatusUnprocessableEntity, "The email address is already registered.")
			return
		}
		s.log.Error().Err(err).Msg("failed to create user")
		dto.InternalError(ctx, err)
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue token")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AuthResponse{
		Message:     "Account created.",
		User:        user,
		AccessToken: token,
	})
}

// CurrentUser returns the authenticated caller's account. Tokens carry only
// id and role, so the profile is loaded fresh from the store.
func (s *service) CurrentUser(ctx *ginext.Context) {
	userID, ok := s.mustUser(ctx)
	if !ok {
		return
	}

	user, err := s.repo.GetUserByID(ctx.Request.Context(), userID)
	if err != nil {
		if err == repo.ErrUserNotFound {
			dto.UnauthorizedError(ctx)
			return
		}
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to load user")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UserResponse{User: user})
}

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.JsonErrorDetail(ctx, http.StatusUnprocessableEntity, "Invalid request body.", err)
		return
	}
	if err := validator.Validate(ctx.Request.Context(), req); err != nil {
		dto.JsonError(ctx, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := s.repo.GetUserByEmail(ctx.Request.Context(), req.Email)
	if err != nil {
		if err == repo.ErrUserNotFound {
			dto.JsonError(ctx, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		s.log.Error().Err(err).Msg("failed to load user")
		dto.InternalError(ctx, err)
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		dto.JsonError(ctx, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to issue token")
		dto.InternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Message:     "Logged in.",
		User:        user,
		AccessToken: token,
	})
}
