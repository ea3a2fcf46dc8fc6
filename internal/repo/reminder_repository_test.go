package repo

import (
	"context"
	"testing"
	"time"

	"notesapp/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReminder(t *testing.T, r ReminderRepository, userID string, at time.Time, mutate func(*model.Reminder)) *model.Reminder {
	t.Helper()
	rem := &model.Reminder{
		ID:       uuid.NewString(),
		UserID:   userID,
		NoteID:   uuid.NewString(),
		Title:    "reminder",
		RemindAt: at,
		Channels: model.ReminderInApp,
	}
	if mutate != nil {
		mutate(rem)
	}
	require.NoError(t, r.Create(context.Background(), rem))
	return rem
}

func TestReminderRepository_GetByNoteID(t *testing.T) {
	r := NewReminderRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.NewString()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rem := seedReminder(t, r, userID, at, nil)

	got, err := r.GetByNoteID(ctx, userID, rem.NoteID)
	require.NoError(t, err)
	assert.Equal(t, rem.ID, got.ID)

	_, err = r.GetByNoteID(ctx, uuid.NewString(), rem.NoteID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReminderRepository_DueBefore(t *testing.T) {
	r := NewReminderRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.NewString()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	past := seedReminder(t, r, userID, now.Add(-time.Minute), nil)
	seedReminder(t, r, userID, now.Add(time.Hour), nil)
	seedReminder(t, r, userID, now.Add(-time.Hour), func(rem *model.Reminder) { rem.IsCompleted = true })
	seedReminder(t, r, userID, now.Add(-time.Hour), func(rem *model.Reminder) { rem.IsCancelled = true })

	due, err := r.DueBefore(ctx, now)
	require.NoError(t, err)
	ids := make([]string, 0, len(due))
	for _, d := range due {
		if d.UserID == userID {
			ids = append(ids, d.ID)
		}
	}
	assert.Equal(t, []string{past.ID}, ids)
}

func TestReminderRepository_MarkCompleted(t *testing.T) {
	r := NewReminderRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.NewString()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rem := seedReminder(t, r, userID, now.Add(-time.Minute), nil)
	require.NoError(t, r.MarkCompleted(ctx, rem.ID))

	got, err := r.GetByNoteID(ctx, userID, rem.NoteID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
}

func TestReminderRepository_DeleteByNoteID(t *testing.T) {
	r := NewReminderRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.NewString()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rem := seedReminder(t, r, userID, now, nil)
	require.NoError(t, r.DeleteByNoteID(ctx, userID, rem.NoteID))

	_, err := r.GetByNoteID(ctx, userID, rem.NoteID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNotificationRepository_Feed(t *testing.T) {
	r := NewNotificationRepository(newTestDB(t))
	ctx := context.Background()
	userID := uuid.NewString()

	for i := 0; i < 3; i++ {
		require.NoError(t, r.Create(ctx, &model.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     "Reminder",
			Type:      "Reminder",
			CreatedAt: time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC),
		}))
	}

	list, err := r.ListByUser(ctx, userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Newest first.
	assert.True(t, list[0].CreatedAt.After(list[2].CreatedAt))

	n, err := r.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, r.MarkRead(ctx, userID, list[0].ID))
	n, err = r.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, r.MarkAllRead(ctx, userID))
	n, err = r.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeviceTokenRepository_UpsertReassignsToken(t *testing.T) {
	r := NewDeviceTokenRepository(newTestDB(t))
	ctx := context.Background()
	first, second := uuid.NewString(), uuid.NewString()
	token := "fcm-" + uuid.NewString()

	require.NoError(t, r.Upsert(ctx, first, token, "android"))
	require.NoError(t, r.Upsert(ctx, second, token, "ios"))

	gone, err := r.ListByUser(ctx, first)
	require.NoError(t, err)
	assert.Empty(t, gone)

	got, err := r.ListByUser(ctx, second)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ios", got[0].Platform)

	require.NoError(t, r.DeleteByToken(ctx, token))
	got, err = r.ListByUser(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, got)
}
