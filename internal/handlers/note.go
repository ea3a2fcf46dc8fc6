package handlers

import (
	"net/http"
	"strconv"
	"time"

	"notesapp/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NoteHandler serves note CRUD plus the lock/unlock and summary endpoints.
type NoteHandler struct {
	notes  *service.NoteService
	logger *zap.SugaredLogger
}

// NewNoteHandler creates the note handler.
func NewNoteHandler(notes *service.NoteService, logger *zap.SugaredLogger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

type noteRequest struct {
	Title               string `json:"title"`
	Content             string `json:"content"`
	BackgroundColor     string `json:"backgroundColor"`
	FilePath            string `json:"filePath"`
	ImagePath           string `json:"imagePath"`
	IsPasswordProtected *bool  `json:"isPasswordProtected"`
	Password            string `json:"password"`
}

type noteDetailDTO struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Content             string     `json:"content"`
	BackgroundColor     string     `json:"backgroundColor,omitempty"`
	Summary             string     `json:"summary,omitempty"`
	FilePath            string     `json:"filePath,omitempty"`
	ImagePath           string     `json:"imagePath,omitempty"`
	IsPasswordProtected bool       `json:"isPasswordProtected"`
	IsLockedByTime      bool       `json:"isLockedByTime"`
	ReminderAt          *time.Time `json:"reminderAt,omitempty"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type noteListItemDTO struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Content             string    `json:"content,omitempty"`
	BackgroundColor     string    `json:"backgroundColor,omitempty"`
	Summary             string    `json:"summary,omitempty"`
	IsPasswordProtected bool      `json:"isPasswordProtected"`
	IsReminderSet       bool      `json:"isReminderSet"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type noteListDTO struct {
	Items      []noteListItemDTO `json:"items"`
	PageNumber int               `json:"pageNumber"`
	PageSize   int               `json:"pageSize"`
	TotalCount int64             `json:"totalCount"`
	HasMore    bool              `json:"hasMore"`
}

// Create stores a new note.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	protected := req.IsPasswordProtected != nil && *req.IsPasswordProtected
	noteID, err := h.notes.Create(r.Context(), userID, service.CreateNoteRequest{
		Title:               req.Title,
		Content:             req.Content,
		BackgroundColor:     req.BackgroundColor,
		FilePath:            req.FilePath,
		ImagePath:           req.ImagePath,
		IsPasswordProtected: protected,
		Password:            req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "note created successfully", map[string]string{"noteId": noteID})
}

// GetByID returns the detail view; locked protected notes are denied.
func (h *NoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	note, err := h.notes.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeOK(w, "note fetched successfully", noteDetailDTO{
		ID:                  note.ID,
		Title:               note.Title,
		Content:             note.Content,
		BackgroundColor:     note.BackgroundColor,
		Summary:             note.Summary,
		FilePath:            note.FilePath,
		ImagePath:           note.ImagePath,
		IsPasswordProtected: note.IsPasswordProtected,
		IsLockedByTime:      note.IsLockedByTime,
		ReminderAt:          note.ReminderAt,
		UpdatedAt:           note.UpdatedAt,
	})
}

// List returns one page of the user's notes.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	pageNumber, _ := strconv.Atoi(q.Get("pageNumber"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize == 0 {
		pageSize = 20
	}

	list, err := h.notes.List(r.Context(), userID, q.Get("search"), pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	items := make([]noteListItemDTO, 0, len(list.Items))
	for _, it := range list.Items {
		items = append(items, noteListItemDTO{
			ID:                  it.ID,
			Title:               it.Title,
			Content:             it.Content,
			BackgroundColor:     it.BackgroundColor,
			Summary:             it.Summary,
			IsPasswordProtected: it.IsPasswordProtected,
			IsReminderSet:       it.IsReminderSet,
			UpdatedAt:           it.UpdatedAt,
		})
	}

	writeOK(w, "notes fetched successfully", noteListDTO{
		Items:      items,
		PageNumber: list.PageNumber,
		PageSize:   list.PageSize,
		TotalCount: list.TotalCount,
		HasMore:    list.HasMore,
	})
}

// Update edits a note.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.notes.Update(r.Context(), userID, chi.URLParam(r, "id"), service.UpdateNoteRequest{
		Title:               req.Title,
		Content:             req.Content,
		BackgroundColor:     req.BackgroundColor,
		FilePath:            req.FilePath,
		ImagePath:           req.ImagePath,
		IsPasswordProtected: req.IsPasswordProtected,
		Password:            req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "note updated successfully", nil)
}

// Delete soft-deletes a note.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.notes.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "note deleted successfully", nil)
}

// Unlock opens the user-wide unlock window through one protected note.
func (h *NoteHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Password      string `json:"password"`
		UnlockMinutes int    `json:"unlockMinutes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.notes.Unlock(r.Context(), userID, chi.URLParam(r, "id"), req.Password, req.UnlockMinutes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "protected notes unlocked", nil)
}

// Lock toggles one note's protection flag.
func (h *NoteHandler) Lock(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		IsPasswordProtected bool   `json:"isPasswordProtected"`
		Password            string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.notes.SetProtection(r.Context(), userID, chi.URLParam(r, "id"), req.IsPasswordProtected, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.IsPasswordProtected {
		writeOK(w, "note locked successfully", nil)
	} else {
		writeOK(w, "note unlocked successfully", nil)
	}
}

// LockAll clears the unlock window, relocking every protected note.
func (h *NoteHandler) LockAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.notes.LockAll(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, "protected notes locked", nil)
}

// GenerateSummary queues summarization and polls briefly for the result.
func (h *NoteHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	noteID := chi.URLParam(r, "id")

	if err := h.notes.RequestSummary(r.Context(), userID, noteID); err != nil {
		writeError(w, err)
		return
	}

	// Short poll so fast generations return synchronously.
	for i := 0; i < 6; i++ {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(500 * time.Millisecond):
		}
		summary, err := h.notes.GetSummary(r.Context(), userID, noteID)
		if err != nil {
			writeError(w, err)
			return
		}
		if summary != "" {
			writeOK(w, "summary generated", map[string]string{"summary": summary})
			return
		}
	}

	writeJSON(w, http.StatusAccepted, response{
		Success: true,
		Message: "summary is being generated",
		Data:    map[string]string{"status": "pending"},
	})
}
