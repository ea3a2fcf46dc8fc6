package handlers

import (
	"net/http"
	"strconv"
	"time"

	"notesapp/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NotificationHandler serves the in-app notification feed.
type NotificationHandler struct {
	notifications *service.NotificationService
	logger        *zap.SugaredLogger
}

// NewNotificationHandler creates the notification handler.
func NewNotificationHandler(notifications *service.NotificationService, logger *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

type notificationDTO struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId,omitempty"`
	NoteTitle string    `json:"noteTitle,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns one page of the feed, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := h.notifications.List(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]notificationDTO, 0, len(list))
	for _, n := range list {
		items = append(items, notificationDTO{
			ID:        n.ID,
			NoteID:    n.NoteID,
			NoteTitle: n.NoteTitle,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	writeOK(w, "notifications fetched successfully", items)
}

// UnreadCount returns the badge counter.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	count, err := h.notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "unread count fetched", map[string]int64{"count": count})
}

// MarkRead marks one entry as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "notification marked as read", nil)
}

// MarkAllRead clears the whole badge.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.notifications.MarkAllRead(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "all notifications marked as read", nil)
}
