package service

import (
	"context"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"github.com/google/uuid"
)

// NotificationService manages the in-app notification feed.
type NotificationService struct {
	notifications repo.NotificationRepository
	now           func() time.Time
}

// NewNotificationService wires the notification service.
func NewNotificationService(notifications repo.NotificationRepository) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateNotification appends a feed entry for the user.
func (s *NotificationService) CreateNotification(ctx context.Context, userID, title, message, typ, noteID, noteTitle string) error {
	return s.notifications.Create(ctx, &model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		NoteID:    noteID,
		NoteTitle: noteTitle,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: s.now(),
	})
}

// List returns one page of the feed, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.notifications.ListByUser(ctx, userID, limit, offset)
}

// UnreadCount returns the badge counter.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

// MarkRead marks one entry as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.notifications.MarkRead(ctx, userID, id)
}

// MarkAllRead clears the whole badge.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}
