package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notesapp/internal/config"
	"notesapp/internal/handlers"
	"notesapp/internal/middleware"
	"notesapp/internal/model"
	"notesapp/internal/repo"
	"notesapp/internal/service"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Local light mocks

type hMockUserRepo struct{ mock.Mock }

func (m *hMockUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) GetByEmailOrUserName(ctx context.Context, identifier string) (*model.User, error) {
	args := m.Called(ctx, identifier)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *hMockUserRepo) UserNameExists(ctx context.Context, userName string) (bool, error) {
	args := m.Called(ctx, userName)
	return args.Bool(0), args.Error(1)
}
func (m *hMockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

var _ repo.UserRepository = (*hMockUserRepo)(nil)

type hMockNoteRepo struct{ mock.Mock }

func (m *hMockNoteRepo) Create(ctx context.Context, note *model.Note) error {
	return m.Called(ctx, note).Error(0)
}
func (m *hMockNoteRepo) GetByID(ctx context.Context, userID, id string) (*model.Note, error) {
	args := m.Called(ctx, userID, id)
	if n, ok := args.Get(0).(*model.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockNoteRepo) GetAnyByID(ctx context.Context, id string) (*model.Note, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*model.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockNoteRepo) List(ctx context.Context, userID string, f repo.NoteListFilter) ([]model.Note, int64, error) {
	args := m.Called(ctx, userID, f)
	var notes []model.Note
	if v, ok := args.Get(0).([]model.Note); ok {
		notes = v
	}
	return notes, args.Get(1).(int64), args.Error(2)
}
func (m *hMockNoteRepo) Update(ctx context.Context, note *model.Note) error {
	return m.Called(ctx, note).Error(0)
}
func (m *hMockNoteRepo) SetSummary(ctx context.Context, id, summary string) error {
	return m.Called(ctx, id, summary).Error(0)
}

var _ repo.NoteRepository = (*hMockNoteRepo)(nil)

type hMockReminderRepo struct{ mock.Mock }

func (m *hMockReminderRepo) Create(ctx context.Context, rem *model.Reminder) error {
	return m.Called(ctx, rem).Error(0)
}
func (m *hMockReminderRepo) GetByNoteID(ctx context.Context, userID, noteID string) (*model.Reminder, error) {
	args := m.Called(ctx, userID, noteID)
	if r, ok := args.Get(0).(*model.Reminder); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockReminderRepo) Update(ctx context.Context, rem *model.Reminder) error {
	return m.Called(ctx, rem).Error(0)
}
func (m *hMockReminderRepo) DeleteByNoteID(ctx context.Context, userID, noteID string) error {
	return m.Called(ctx, userID, noteID).Error(0)
}
func (m *hMockReminderRepo) DueBefore(ctx context.Context, t time.Time) ([]model.Reminder, error) {
	args := m.Called(ctx, t)
	if v, ok := args.Get(0).([]model.Reminder); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockReminderRepo) MarkCompleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.ReminderRepository = (*hMockReminderRepo)(nil)

type hMockNotificationRepo struct{ mock.Mock }

func (m *hMockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *hMockNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if v, ok := args.Get(0).([]model.Notification); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockNotificationRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *hMockNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}
func (m *hMockNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

var _ repo.NotificationRepository = (*hMockNotificationRepo)(nil)

type hMockTokenRepo struct{ mock.Mock }

func (m *hMockTokenRepo) Upsert(ctx context.Context, userID, token, platform string) error {
	return m.Called(ctx, userID, token, platform).Error(0)
}
func (m *hMockTokenRepo) ListByUser(ctx context.Context, userID string) ([]model.DeviceToken, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.DeviceToken); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *hMockTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

var _ repo.DeviceTokenRepository = (*hMockTokenRepo)(nil)

// testServer bundles the router with its mocks.
type testServer struct {
	router  http.Handler
	users   *hMockUserRepo
	notes   *hMockNoteRepo
	rems    *hMockReminderRepo
	notifs  *hMockNotificationRepo
	tokens  *hMockTokenRepo
	cfg     *config.Config
	baseURL string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		users:  new(hMockUserRepo),
		notes:  new(hMockNoteRepo),
		rems:   new(hMockReminderRepo),
		notifs: new(hMockNotificationRepo),
		tokens: new(hMockTokenRepo),
		cfg:    &config.Config{AuthSecret: "test-secret"},
	}

	logger := zap.NewNop().Sugar()
	access := service.NewAccessManager(ts.users)
	authService := service.NewAuthService(ts.users, ts.tokens)
	userService := service.NewUserService(ts.users, access, "")
	noteService := service.NewNoteService(ts.notes, ts.users, ts.rems, access, nil, logger)
	reminderService := service.NewReminderService(ts.rems, ts.notes)
	notificationService := service.NewNotificationService(ts.notifs)

	h := handlers.NewHandler(authService, userService, noteService, reminderService, notificationService, nil, logger, ts.cfg)
	ts.router = h.Router
	return ts
}

func (ts *testServer) bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.BuildJWT(userID, ts.cfg.AuthSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

// do sends a JSON request through the router and decodes the envelope.
func (ts *testServer) do(t *testing.T, method, path, auth string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	var envelope map[string]any
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	}
	return rr.Code, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	d, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "envelope has no data object: %v", envelope)
	return d
}
