package service

import (
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

func TestGetEvent_DraftForbiddenForAnonymous(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("GetEventByID", mock.Anything, int64(5)).
		Return(&model.Event{ID: 5, UserID: 1, IsPublished: false}, nil)

	c, w := testContext(t, http.MethodGet, "/v1/events/5", nil)
	setIDParam(c, 5)

	s.GetEvent(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetEvent_DraftVisibleToOwner(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("GetEventByID", mock.Anything, int64(5)).
		Return(&model.Event{ID: 5, UserID: 1, IsPublished: false}, nil)
	repoMock.On("CountConfirmedRegistrations", mock.Anything, int64(5)).Return(2, nil)

	c, w := testContext(t, http.MethodGet, "/v1/events/5", nil)
	setIDParam(c, 5)
	asAdmin(c, 1)

	s.GetEvent(c)

	require.Equal(t, http.StatusOK, w.Code)
	event := decodeBody(t, w)["event"].(map[string]any)
	assert.Equal(t, float64(2), event["participant_count"])
}

func TestListEvents_AnonymousSeesPublishedOnly(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("ListEvents", mock.Anything, mock.MatchedBy(func(f repo.EventFilter) bool {
		return f.PublishedOnly
	})).Return([]model.Event{{ID: 5, IsPublished: true}}, int64(1), nil)
	repoMock.On("CountConfirmedRegistrations", mock.Anything, int64(5)).Return(0, nil)

	c, w := testContext(t, http.MethodGet, "/v1/events", nil)

	s.ListEvents(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["events"], 1)
	repoMock.AssertExpectations(t)
}

func TestListEvents_AdminSeesDrafts(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("ListEvents", mock.Anything, mock.MatchedBy(func(f repo.EventFilter) bool {
		return !f.PublishedOnly
	})).Return([]model.Event{}, int64(0), nil)

	c, w := testContext(t, http.MethodGet, "/v1/events", nil)
	asAdmin(c, 1)

	s.ListEvents(c)

	require.Equal(t, http.StatusOK, w.Code)
	repoMock.AssertExpectations(t)
}

func TestCreateEvent_PastStartDateRejected(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	c, w := testContext(t, http.MethodPost, "/v1/events", dto.CreateEventRequest{
		Name:      "Retro Conf",
		Location:  "Hall B",
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
	})
	asAdmin(c, 1)

	s.CreateEvent(c)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	repoMock.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
}

func TestDeleteEvent_NotOwner(t *testing.T) {
	repoMock := new(mockRepo)
	s := newTestService(repoMock)

	repoMock.On("GetEventByID", mock.Anything, int64(5)).
		Return(&model.Event{ID: 5, UserID: 99}, nil)

	c, w := testContext(t, http.MethodDelete, "/v1/events/5", nil)
	setIDParam(c, 5)
	asAdmin(c, 1)

	s.DeleteEvent(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	repoMock.AssertNotCalled(t, "DeleteEvent", mock.Anything, mock.Anything)
}
