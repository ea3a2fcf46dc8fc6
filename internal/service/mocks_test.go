package service

import (
	"context"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"github.com/stretchr/testify/mock"
)

// Shared testify mocks for the repository interfaces.

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) GetByEmailOrUserName(ctx context.Context, identifier string) (*model.User, error) {
	args := m.Called(ctx, identifier)
	if v, ok := args.Get(0).(*model.User); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) UserNameExists(ctx context.Context, userName string) (bool, error) {
	args := m.Called(ctx, userName)
	return args.Bool(0), args.Error(1)
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockNoteRepo struct{ mock.Mock }

func (m *mockNoteRepo) Create(ctx context.Context, note *model.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *mockNoteRepo) GetByID(ctx context.Context, userID, id string) (*model.Note, error) {
	args := m.Called(ctx, userID, id)
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNoteRepo) GetAnyByID(ctx context.Context, id string) (*model.Note, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Note); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNoteRepo) List(ctx context.Context, userID string, f repo.NoteListFilter) ([]model.Note, int64, error) {
	args := m.Called(ctx, userID, f)
	var notes []model.Note
	if v, ok := args.Get(0).([]model.Note); ok {
		notes = v
	}
	return notes, args.Get(1).(int64), args.Error(2)
}
func (m *mockNoteRepo) Update(ctx context.Context, note *model.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *mockNoteRepo) SetSummary(ctx context.Context, id, summary string) error {
	args := m.Called(ctx, id, summary)
	return args.Error(0)
}

var _ repo.NoteRepository = (*mockNoteRepo)(nil)

type mockReminderRepo struct{ mock.Mock }

func (m *mockReminderRepo) Create(ctx context.Context, rem *model.Reminder) error {
	args := m.Called(ctx, rem)
	return args.Error(0)
}
func (m *mockReminderRepo) GetByNoteID(ctx context.Context, userID, noteID string) (*model.Reminder, error) {
	args := m.Called(ctx, userID, noteID)
	if v, ok := args.Get(0).(*model.Reminder); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReminderRepo) Update(ctx context.Context, rem *model.Reminder) error {
	args := m.Called(ctx, rem)
	return args.Error(0)
}
func (m *mockReminderRepo) DeleteByNoteID(ctx context.Context, userID, noteID string) error {
	args := m.Called(ctx, userID, noteID)
	return args.Error(0)
}
func (m *mockReminderRepo) DueBefore(ctx context.Context, t time.Time) ([]model.Reminder, error) {
	args := m.Called(ctx, t)
	if v, ok := args.Get(0).([]model.Reminder); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockReminderRepo) MarkCompleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repo.ReminderRepository = (*mockReminderRepo)(nil)

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
func (m *mockNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if v, ok := args.Get(0).([]model.Notification); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ repo.NotificationRepository = (*mockNotificationRepo)(nil)

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Upsert(ctx context.Context, userID, token, platform string) error {
	args := m.Called(ctx, userID, token, platform)
	return args.Error(0)
}
func (m *mockTokenRepo) ListByUser(ctx context.Context, userID string) ([]model.DeviceToken, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.DeviceToken); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

var _ repo.DeviceTokenRepository = (*mockTokenRepo)(nil)
