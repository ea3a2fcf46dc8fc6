package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Input caps applied before storing.
const (
	maxTitleLen   = 200
	maxContentLen = 10000
)

// SummaryPublisher hands a note off to the AI summary queue.
type SummaryPublisher interface {
	PublishSummaryRequest(ctx context.Context, noteID, content string) error
}

// NoteService implements note CRUD on top of the access manager. Every
// operation that touches protected content goes through Authorize, which in
// turn expires the window first.
type NoteService struct {
	notes     repo.NoteRepository
	users     repo.UserRepository
	reminders repo.ReminderRepository
	access    *AccessManager
	publisher SummaryPublisher
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewNoteService wires the note service. publisher may be nil when the
// summary pipeline is disabled.
func NewNoteService(
	notes repo.NoteRepository,
	users repo.UserRepository,
	reminders repo.ReminderRepository,
	access *AccessManager,
	publisher SummaryPublisher,
	logger *zap.SugaredLogger,
) *NoteService {
	return &NoteService{
		notes:     notes,
		users:     users,
		reminders: reminders,
		access:    access,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateNoteRequest carries sanitized-on-write note fields.
type CreateNoteRequest struct {
	Title               string
	Content             string
	BackgroundColor     string
	FilePath            string
	ImagePath           string
	IsPasswordProtected bool
	Password            string
}

// UpdateNoteRequest mirrors CreateNoteRequest; nil IsPasswordProtected means
// "leave the flag as is".
type UpdateNoteRequest struct {
	Title               string
	Content             string
	BackgroundColor     string
	FilePath            string
	ImagePath           string
	IsPasswordProtected *bool
	Password            string
}

// NoteDetail is the detail-view projection. IsLockedByTime is advisory: it
// reports whether the user's protected notes are currently locked.
type NoteDetail struct {
	ID                  string
	Title               string
	Content             string
	BackgroundColor     string
	Summary             string
	FilePath            string
	ImagePath           string
	IsPasswordProtected bool
	IsLockedByTime      bool
	ReminderAt          *time.Time
	UpdatedAt           time.Time
}

// NoteListItem is the list-view projection. Content of protected notes is
// always suppressed here, unlocked or not; only the detail view shows it.
type NoteListItem struct {
	ID                  string
	Title               string
	Content             string
	BackgroundColor     string
	Summary             string
	IsPasswordProtected bool
	IsReminderSet       bool
	UpdatedAt           time.Time
}

// NoteList is one page of the owner's notes.
type NoteList struct {
	Items      []NoteListItem
	PageNumber int
	PageSize   int
	TotalCount int64
	HasMore    bool
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}

func (s *NoteService) getUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *NoteService) getNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	n, err := s.notes.GetByID(ctx, userID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: note", ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

// Create stores a new note and returns its id. Creating a protected note
// follows the first-lock bootstrap rules of the access manager.
func (s *NoteService) Create(ctx context.Context, userID string, req CreateNoteRequest) (string, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}

	note := &model.Note{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           truncate(req.Title, maxTitleLen),
		Content:         truncate(req.Content, maxContentLen),
		BackgroundColor: req.BackgroundColor,
		FilePath:        req.FilePath,
		ImagePath:       req.ImagePath,
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}

	if req.IsPasswordProtected {
		note, _, err = s.access.SetProtection(ctx, note, user, true, req.Password)
		if err != nil {
			return "", err
		}
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return "", err
	}
	return note.ID, nil
}

// GetByID returns the detail view. A locked protected note is denied
// outright with ErrUnauthorized; list views stay available for it.
func (s *NoteService) GetByID(ctx context.Context, userID, noteID string) (*NoteDetail, error) {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	allowed, locked, _, err := s.access.Authorize(ctx, note, user)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: protected note is locked, unlock first", ErrUnauthorized)
	}

	return &NoteDetail{
		ID:                  note.ID,
		Title:               note.Title,
		Content:             note.Content,
		BackgroundColor:     note.BackgroundColor,
		Summary:             note.Summary,
		FilePath:            note.FilePath,
		ImagePath:           note.ImagePath,
		IsPasswordProtected: note.IsPasswordProtected,
		IsLockedByTime:      locked,
		ReminderAt:          note.ReminderAt,
		UpdatedAt:           note.UpdatedAt,
	}, nil
}

// List returns a page of the user's notes ordered by last update.
func (s *NoteService) List(ctx context.Context, userID, search string, pageNumber, pageSize int) (*NoteList, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	// Listing observes the user record, so the lazy expiry still runs.
	if user, err := s.getUser(ctx, userID); err == nil {
		if _, err := s.access.ExpireIfNeeded(ctx, user); err != nil {
			return nil, err
		}
	}

	notes, total, err := s.notes.List(ctx, userID, repo.NoteListFilter{
		Search:     search,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]NoteListItem, 0, len(notes))
	for _, n := range notes {
		content := n.Content
		if n.IsPasswordProtected {
			// List views never carry protected content, even inside an
			// open unlock window.
			content = ""
		}
		items = append(items, NoteListItem{
			ID:                  n.ID,
			Title:               n.Title,
			Content:             content,
			BackgroundColor:     n.BackgroundColor,
			Summary:             n.Summary,
			IsPasswordProtected: n.IsPasswordProtected,
			IsReminderSet:       n.ReminderAt != nil,
			UpdatedAt:           n.UpdatedAt,
		})
	}

	return &NoteList{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
		HasMore:    int64(pageNumber)*int64(pageSize) < total,
	}, nil
}

// Update edits the note; a locked protected note cannot be edited. The
// protection flag may be toggled in the same call, subject to the same
// transition rules as LockNote.
func (s *NoteService) Update(ctx context.Context, userID, noteID string, req UpdateNoteRequest) error {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	allowed, _, user, err := s.access.Authorize(ctx, note, user)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: protected note is locked, unlock to edit", ErrUnauthorized)
	}

	if req.IsPasswordProtected != nil {
		note, _, err = s.access.SetProtection(ctx, note, user, *req.IsPasswordProtected, req.Password)
		if err != nil {
			return err
		}
	}

	note.Title = truncate(req.Title, maxTitleLen)
	note.Content = truncate(req.Content, maxContentLen)
	note.BackgroundColor = req.BackgroundColor
	note.FilePath = req.FilePath
	note.ImagePath = req.ImagePath
	note.UpdatedAt = s.now()

	return s.notes.Update(ctx, note)
}

// Delete soft-deletes the note and drops its reminder. A locked protected
// note cannot be deleted.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	allowed, _, _, err := s.access.Authorize(ctx, note, user)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: protected note is locked, unlock to delete", ErrUnauthorized)
	}

	if err := s.reminders.DeleteByNoteID(ctx, userID, noteID); err != nil {
		s.logger.Warnw("Delete: reminder cleanup failed", "note_id", noteID, "error", err)
	}

	note.IsDeleted = true
	note.UpdatedAt = s.now()
	return s.notes.Update(ctx, note)
}

// SetProtection toggles the protection flag of one note.
func (s *NoteService) SetProtection(ctx context.Context, userID, noteID string, wantProtected bool, password string) error {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	note, _, err = s.access.SetProtection(ctx, note, user, wantProtected, password)
	if err != nil {
		return err
	}
	return s.notes.Update(ctx, note)
}

// Unlock opens the user's unlock window via a protected note. The note id
// anchors the request; the window it opens is user-wide.
func (s *NoteService) Unlock(ctx context.Context, userID, noteID, password string, minutes int) error {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	if !note.IsPasswordProtected {
		return fmt.Errorf("%w: this note is not password protected", ErrValidation)
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.access.Unlock(ctx, user, password, minutes)
	return err
}

// LockAll relocks every protected note of the user immediately.
func (s *NoteService) LockAll(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.access.Lock(ctx, user)
	return err
}

// RequestSummary queues the note for AI summarization unless the stored
// summary is still fresh. The caller is expected to poll GetSummary.
func (s *NoteService) RequestSummary(ctx context.Context, userID, noteID string) error {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(note.Content) == "" {
		return fmt.Errorf("%w: cannot generate summary for empty note", ErrValidation)
	}
	if note.SummaryUpdatedAt != nil && !note.UpdatedAt.After(*note.SummaryUpdatedAt) {
		// Unchanged since the last summary, nothing to regenerate.
		return nil
	}
	if s.publisher == nil {
		return fmt.Errorf("%w: summary generation is not available", ErrValidation)
	}

	// Clear the old summary so polling can detect the new one arriving.
	note.Summary = ""
	note.UpdatedAt = s.now()
	if err := s.notes.Update(ctx, note); err != nil {
		return err
	}

	return s.publisher.PublishSummaryRequest(ctx, note.ID, note.Content)
}

// GetSummary returns the note's current summary, empty while one is pending.
func (s *NoteService) GetSummary(ctx context.Context, userID, noteID string) (string, error) {
	note, err := s.getNote(ctx, userID, noteID)
	if err != nil {
		return "", err
	}
	return note.Summary, nil
}
