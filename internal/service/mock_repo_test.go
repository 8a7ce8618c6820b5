package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"eventdesk/internal/model"
	"eventdesk/internal/repo"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	args := m.Called(ctx, id)
	if e := args.Get(0); e != nil {
		return e.(*model.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) UpdateEvent(ctx context.Context, id int64, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *mockRepo) DeleteEvent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) ListEvents(ctx context.Context, f repo.EventFilter) ([]model.Event, int64, error) {
	args := m.Called(ctx, f)
	if evs := args.Get(0); evs != nil {
		return evs.([]model.Event), args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) CountConfirmedRegistrations(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) GetEventStatistics(ctx context.Context, eventID int64) (*model.EventStatistics, error) {
	args := m.Called(ctx, eventID)
	if st := args.Get(0); st != nil {
		return st.(*model.EventStatistics), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CreateRegistrationsTx(ctx context.Context, reg *model.Registration, guestEmails []string) ([]model.Registration, error) {
	args := m.Called(ctx, reg, guestEmails)
	if guests := args.Get(0); guests != nil {
		return guests.([]model.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*model.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetRegistrationForUser(ctx context.Context, id, userID int64) (*model.Registration, error) {
	args := m.Called(ctx, id, userID)
	if r := args.Get(0); r != nil {
		return r.(*model.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetRegistrationByCode(ctx context.Context, eventID int64, code string) (*model.Registration, error) {
	args := m.Called(ctx, eventID, code)
	if r := args.Get(0); r != nil {
		return r.(*model.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListRegistrationsByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Registration, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if regs := args.Get(0); regs != nil {
		return regs.([]model.Registration), args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) ListEventRegistrations(ctx context.Context, eventID int64, status string, limit, offset int) ([]model.Registration, int64, error) {
	args := m.Called(ctx, eventID, status, limit, offset)
	if regs := args.Get(0); regs != nil {
		return regs.([]model.Registration), args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) CancelRegistrationTx(ctx context.Context, id, userID int64) (*model.Registration, error) {
	args := m.Called(ctx, id, userID)
	if r := args.Get(0); r != nil {
		return r.(*model.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) UpdateRegistrationStatusTx(ctx context.Context, id int64, newStatus string) (*model.Registration, error) {
	args := m.Called(ctx, id, newStatus)
	if r := args.Get(0); r != nil {
		return r.(*model.Registration), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) CreateCheckInTx(ctx context.Context, ci *model.CheckIn) (int64, error) {
	args := m.Called(ctx, ci)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) GetCheckInByID(ctx context.Context, id int64) (*model.CheckIn, error) {
	args := m.Called(ctx, id)
	if ci := args.Get(0); ci != nil {
		return ci.(*model.CheckIn), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) GetCheckInByRegistrationID(ctx context.Context, registrationID int64) (*model.CheckIn, error) {
	args := m.Called(ctx, registrationID)
	if ci := args.Get(0); ci != nil {
		return ci.(*model.CheckIn), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListCheckIns(ctx context.Context, eventID int64, day *time.Time, limit, offset int) ([]model.CheckIn, int64, error) {
	args := m.Called(ctx, eventID, day, limit, offset)
	if cis := args.Get(0); cis != nil {
		return cis.([]model.CheckIn), args.Get(1).(int64), args.Error(2)
	}
	return nil, args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) DeleteCheckIn(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) MigrateUp(migrationsDir string) error {
	args := m.Called(migrationsDir)
	return args.Error(0)
}

func (m *mockRepo) MigrateDown(migrationsDir string) error {
	args := m.Called(migrationsDir)
	return args.Error(0)
}
