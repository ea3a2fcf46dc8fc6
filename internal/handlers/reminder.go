package handlers

import (
	"net/http"
	"time"

	"notesapp/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReminderHandler serves the per-note reminder endpoints.
type ReminderHandler struct {
	reminders *service.ReminderService
	logger    *zap.SugaredLogger
}

// NewReminderHandler creates the reminder handler.
func NewReminderHandler(reminders *service.ReminderService, logger *zap.SugaredLogger) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, logger: logger}
}

type reminderDTO struct {
	ID          string    `json:"id"`
	NoteID      string    `json:"noteId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	RemindAt    time.Time `json:"remindAt"`
	Channels    int       `json:"channels"`
	IsCompleted bool      `json:"isCompleted"`
}

// Set creates or replaces the reminder of one note.
func (h *ReminderHandler) Set(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		NoteID      string    `json:"noteId"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		RemindAt    time.Time `json:"remindAt"`
		Channels    int       `json:"channels"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := h.reminders.Set(r.Context(), userID, service.SetReminderRequest{
		NoteID:      req.NoteID,
		Title:       req.Title,
		Description: req.Description,
		RemindAt:    req.RemindAt,
		Channels:    req.Channels,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "reminder set successfully", map[string]string{"reminderId": id})
}

// Get returns the reminder of one note.
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	rem, err := h.reminders.Get(r.Context(), userID, chi.URLParam(r, "noteId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "reminder fetched successfully", reminderDTO{
		ID:          rem.ID,
		NoteID:      rem.NoteID,
		Title:       rem.Title,
		Description: rem.Description,
		RemindAt:    rem.RemindAt,
		Channels:    rem.Channels,
		IsCompleted: rem.IsCompleted,
	})
}

// Delete removes the reminder of one note.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.reminders.Delete(r.Context(), userID, chi.URLParam(r, "noteId")); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "reminder deleted successfully", nil)
}
