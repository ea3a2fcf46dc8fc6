package repo

import (
	"context"
	"time"

	"notesapp/internal/model"

	"gorm.io/gorm"
)

// ReminderRepository is the data-access contract for reminders.
type ReminderRepository interface {
	Create(ctx context.Context, rem *model.Reminder) error
	GetByNoteID(ctx context.Context, userID, noteID string) (*model.Reminder, error)
	Update(ctx context.Context, rem *model.Reminder) error
	DeleteByNoteID(ctx context.Context, userID, noteID string) error

	// DueBefore returns reminders ready for dispatch: remind_at <= t,
	// not completed and not cancelled.
	DueBefore(ctx context.Context, t time.Time) ([]model.Reminder, error)

	MarkCompleted(ctx context.Context, id string) error
}

type reminderRepo struct {
	db *gorm.DB
}

// NewReminderRepository creates the gorm-backed reminder repository.
func NewReminderRepository(db *gorm.DB) ReminderRepository {
	return &reminderRepo{db: db}
}

func (r *reminderRepo) Create(ctx context.Context, rem *model.Reminder) error {
	return r.db.WithContext(ctx).Create(rem).Error
}

func (r *reminderRepo) GetByNoteID(ctx context.Context, userID, noteID string) (*model.Reminder, error) {
	var rem model.Reminder
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND note_id = ?", userID, noteID).
		First(&rem).Error
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

func (r *reminderRepo) Update(ctx context.Context, rem *model.Reminder) error {
	return r.db.WithContext(ctx).Save(rem).Error
}

func (r *reminderRepo) DeleteByNoteID(ctx context.Context, userID, noteID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND note_id = ?", userID, noteID).
		Delete(&model.Reminder{}).Error
}

func (r *reminderRepo) DueBefore(ctx context.Context, t time.Time) ([]model.Reminder, error) {
	var due []model.Reminder
	err := r.db.WithContext(ctx).
		Where("remind_at <= ? AND is_completed = ? AND is_cancelled = ?", t, false, false).
		Order("remind_at").
		Find(&due).Error
	if err != nil {
		return nil, err
	}
	return due, nil
}

func (r *reminderRepo) MarkCompleted(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ?", id).
		Update("is_completed", true).Error
}
