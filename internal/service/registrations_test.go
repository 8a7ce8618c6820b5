package service

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/dto"
	"eventdesk/internal/model"
	"eventdesk/internal/repo"
)

func TestCreateRegistration_Success(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("CreateRegistrationsTx", mock.Anything, mock.Anything, []string{"guest@example.com"}).
		Run(func(args mock.Arguments) {
			reg := args.Get(1).(*model.Registration)
			reg.ID = 10
			reg.Status = model.StatusPending
			reg.RegistrationCode = "AB12CD34"
		}).
		Return([]model.Registration{
			{ID: 11, EventID: 5, InvitedBy: int64Ptr(10), InvitedEmail: strPtr("guest@example.com"), Status: model.StatusPending},
		}, nil)

	c, w := testContext(t, http.MethodPost, "/v1/registrations", dto.CreateRegistrationRequest{
		EventID:     5,
		GuestEmails: []string{"guest@example.com"},
	})
	asParticipant(c, 42)

	s.CreateRegistration(c)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Successfully registered for the event.", body["message"])
	reg := body["registration"].(map[string]any)
	assert.Equal(t, "AB12CD34", reg["registration_code"])
	assert.Equal(t, model.StatusPending, reg["status"])
	assert.Len(t, body["guest_registrations"], 1)
	repoMock.AssertExpectations(t)
}

func TestCreateRegistration_CapacityExceeded(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("CreateRegistrationsTx", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repo.ErrCapacityExceeded)

	c, w := testContext(t, http.MethodPost, "/v1/registrations", dto.CreateRegistrationRequest{EventID: 5})
	asParticipant(c, 42)

	s.CreateRegistration(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The event has reached its capacity.", decodeBody(t, w)["message"])
}

func TestCreateRegistration_Duplicate(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("CreateRegistrationsTx", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repo.ErrAlreadyRegistered)

	c, w := testContext(t, http.MethodPost, "/v1/registrations", dto.CreateRegistrationRequest{EventID: 5})
	asParticipant(c, 42)

	s.CreateRegistration(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "You are already registered for this event.", decodeBody(t, w)["message"])
}

func TestCreateRegistration_TooManyGuests(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	guests := make([]string, dto.MaxGuestInvites+1)
	for i := range guests {
		guests[i] = fmt.Sprintf("guest%d@example.com", i)
	}

	c, w := testContext(t, http.MethodPost, "/v1/registrations", dto.CreateRegistrationRequest{
		EventID:     5,
		GuestEmails: guests,
	})
	asParticipant(c, 42)

	s.CreateRegistration(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t,
		fmt.Sprintf("A registration may invite at most %d guests.", dto.MaxGuestInvites),
		decodeBody(t, w)["message"])
	repoMock.AssertNotCalled(t, "CreateRegistrationsTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRegistration_EventNotFound(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("CreateRegistrationsTx", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, repo.ErrEventNotFound)

	c, w := testContext(t, http.MethodPost, "/v1/registrations", dto.CreateRegistrationRequest{EventID: 999})
	asParticipant(c, 42)

	s.CreateRegistration(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelRegistration_Idempotent(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	cancelledAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cancelled := &model.Registration{
		ID:          7,
		EventID:     5,
		UserID:      int64Ptr(42),
		Status:      model.StatusCancelled,
		CancelledAt: &cancelledAt,
	}
	repoMock.On("CancelRegistrationTx", mock.Anything, int64(7), int64(42)).Return(cancelled, nil).Twice()

	for i := 0; i < 2; i++ {
		c, w := testContext(t, http.MethodPost, "/v1/registrations/7/cancel", nil)
		setIDParam(c, 7)
		asParticipant(c, 42)

		s.CancelRegistration(c)

		require.Equal(t, http.StatusOK, w.Code)
		reg := decodeBody(t, w)["registration"].(map[string]any)
		assert.Equal(t, model.StatusCancelled, reg["status"])
		assert.Equal(t, cancelledAt.Format(time.RFC3339), reg["cancelled_at"])
	}
	repoMock.AssertExpectations(t)
}

func TestGetRegistration_NotFound(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("GetRegistrationForUser", mock.Anything, int64(7), int64(42)).
		Return(nil, repo.ErrRegistrationNotFound)

	c, w := testContext(t, http.MethodGet, "/v1/registrations/7", nil)
	setIDParam(c, 7)
	asParticipant(c, 42)

	s.GetRegistration(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Registration not found.", decodeBody(t, w)["message"])
}

func TestUpdateRegistrationStatus_OwnerConfirms(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("GetRegistrationByID", mock.Anything, int64(7)).
		Return(&model.Registration{ID: 7, EventID: 5, Status: model.StatusPending}, nil)
	repoMock.On("GetEventByID", mock.Anything, int64(5)).
		Return(&model.Event{ID: 5, UserID: 1}, nil)
	confirmedAt := time.Now().UTC()
	repoMock.On("UpdateRegistrationStatusTx", mock.Anything, int64(7), model.StatusConfirmed).
		Return(&model.Registration{ID: 7, EventID: 5, Status: model.StatusConfirmed, ConfirmedAt: &confirmedAt}, nil)

	c, w := testContext(t, http.MethodPatch, "/v1/registrations/7/status", dto.UpdateRegistrationStatusRequest{
		Status: model.StatusConfirmed,
	})
	setIDParam(c, 7)
	asAdmin(c, 1)

	s.UpdateRegistrationStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	reg := decodeBody(t, w)["registration"].(map[string]any)
	assert.Equal(t, model.StatusConfirmed, reg["status"])
	assert.NotEmpty(t, reg["confirmed_at"])
}

func TestUpdateRegistrationStatus_NotOwner(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("GetRegistrationByID", mock.Anything, int64(7)).
		Return(&model.Registration{ID: 7, EventID: 5, Status: model.StatusPending}, nil)
	repoMock.On("GetEventByID", mock.Anything, int64(5)).
		Return(&model.Event{ID: 5, UserID: 99}, nil)

	c, w := testContext(t, http.MethodPatch, "/v1/registrations/7/status", dto.UpdateRegistrationStatusRequest{
		Status: model.StatusConfirmed,
	})
	setIDParam(c, 7)
	asAdmin(c, 1)

	s.UpdateRegistrationStatus(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	repoMock.AssertNotCalled(t, "UpdateRegistrationStatusTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestListMyRegistrations(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("ListRegistrationsByUser", mock.Anything, int64(42), 10, 0).
		Return([]model.Registration{{ID: 1}, {ID: 2}}, int64(2), nil)

	c, w := testContext(t, http.MethodGet, "/v1/registrations", nil)
	asParticipant(c, 42)

	s.ListMyRegistrations(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["registrations"], 2)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(2), meta["total"])
}
