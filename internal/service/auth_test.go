package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repo"
)

func TestCurrentUser(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("GetUserByID", mock.Anything, int64(42)).
		Return(&model.User{ID: 42, Name: "Dana", Email: "dana@example.com", Role: model.RoleParticipant}, nil)

	c, w := testContext(t, http.MethodGet, "/v1/user", nil)
	asParticipant(c, 42)

	s.CurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)
	user := decodeBody(t, w)["user"].(map[string]any)
	assert.Equal(t, "dana@example.com", user["email"])
	assert.Equal(t, model.RoleParticipant, user["role"])
	assert.NotContains(t, user, "password")
}

func TestCurrentUser_Unauthenticated(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	c, w := testContext(t, http.MethodGet, "/v1/user", nil)

	s.CurrentUser(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	repoMock.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestRegister_UnknownRoleRejected(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	c, w := testContext(t, http.MethodPost, "/v1/register", dto.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "correct-horse",
		Role:     "superuser",
	})

	s.Register(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	repoMock.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("CreateUser", mock.Anything, mock.Anything).
		Return(int64(0), repo.ErrEmailTaken)

	c, w := testContext(t, http.MethodPost, "/v1/register", dto.RegisterRequest{
		Name:     "Dana",
		Email:    "dana@example.com",
		Password: "correct-horse",
	})

	s.Register(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The email address is already registered.", decodeBody(t, w)["message"])
}
