package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderService maintains the one-reminder-per-note schedule. Actual
// dispatch happens in the scheduler package.
type ReminderService struct {
	reminders repo.ReminderRepository
	notes     repo.NoteRepository
	now       func() time.Time
}

// NewReminderService wires the reminder service.
func NewReminderService(reminders repo.ReminderRepository, notes repo.NoteRepository) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		notes:     notes,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetReminderRequest upserts the reminder of one note. Channels is a bitmask
// of model.Reminder* flags; zero means all channels.
type SetReminderRequest struct {
	NoteID      string
	Title       string
	Description string
	RemindAt    time.Time
	Channels    int
}

// Set creates or replaces the note's reminder and stamps the note's
// ReminderAt so list views can flag it.
func (s *ReminderService) Set(ctx context.Context, userID string, req SetReminderRequest) (string, error) {
	if !req.RemindAt.After(s.now()) {
		return "", fmt.Errorf("%w: reminder time cannot be in the past", ErrValidation)
	}
	if req.Title == "" {
		return "", fmt.Errorf("%w: reminder title is required", ErrValidation)
	}

	note, err := s.notes.GetByID(ctx, userID, req.NoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: note", ErrNotFound)
		}
		return "", err
	}

	channels := req.Channels
	if channels == 0 {
		channels = model.ReminderInApp | model.ReminderEmail | model.ReminderPush
	}
	remindAt := req.RemindAt.UTC()

	rem, err := s.reminders.GetByNoteID(ctx, userID, req.NoteID)
	switch {
	case err == nil:
		rem.Title = req.Title
		rem.Description = req.Description
		rem.RemindAt = remindAt
		rem.Channels = channels
		rem.IsCompleted = false
		rem.IsCancelled = false
		rem.UpdatedAt = s.now()
		if err := s.reminders.Update(ctx, rem); err != nil {
			return "", err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rem = &model.Reminder{
			ID:          uuid.NewString(),
			UserID:      userID,
			NoteID:      req.NoteID,
			Title:       req.Title,
			Description: req.Description,
			RemindAt:    remindAt,
			Channels:    channels,
			CreatedAt:   s.now(),
			UpdatedAt:   s.now(),
		}
		if err := s.reminders.Create(ctx, rem); err != nil {
			return "", err
		}
	default:
		return "", err
	}

	note.ReminderAt = &remindAt
	note.UpdatedAt = s.now()
	if err := s.notes.Update(ctx, note); err != nil {
		return "", err
	}
	return rem.ID, nil
}

// Get returns the note's reminder.
func (s *ReminderService) Get(ctx context.Context, userID, noteID string) (*model.Reminder, error) {
	rem, err := s.reminders.GetByNoteID(ctx, userID, noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reminder", ErrNotFound)
		}
		return nil, err
	}
	return rem, nil
}

// Delete removes the note's reminder and clears the note's ReminderAt.
func (s *ReminderService) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := s.reminders.GetByNoteID(ctx, userID, noteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reminder", ErrNotFound)
		}
		return err
	}
	if err := s.reminders.DeleteByNoteID(ctx, userID, noteID); err != nil {
		return err
	}

	if note, err := s.notes.GetByID(ctx, userID, noteID); err == nil {
		note.ReminderAt = nil
		note.UpdatedAt = s.now()
		if err := s.notes.Update(ctx, note); err != nil {
			return err
		}
	}
	return nil
}
