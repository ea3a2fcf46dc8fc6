package repo

import (
	"context"
	"strings"
	"time"

	"notesapp/internal/model"

	"gorm.io/gorm"
)

// NoteListFilter narrows and pages the owner-scoped note listing.
type NoteListFilter struct {
	Search     string
	PageNumber int
	PageSize   int
}

// NoteRepository is the data-access contract for notes. Owner-scoped lookups
// exclude soft-deleted rows; a foreign or missing note is indistinguishable
// from an absent one.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error

	// GetByID returns the user's note or gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, userID, id string) (*model.Note, error)

	// GetAnyByID looks up by note id alone; used by the summary consumer,
	// which has no acting user.
	GetAnyByID(ctx context.Context, id string) (*model.Note, error)

	// List returns one page ordered by updated_at desc plus the total count.
	List(ctx context.Context, userID string, f NoteListFilter) ([]model.Note, int64, error)

	Update(ctx context.Context, note *model.Note) error

	// SetSummary stores an arrived summary and stamps SummaryUpdatedAt.
	SetSummary(ctx context.Context, id, summary string) error
}

type noteRepo struct {
	db *gorm.DB
}

// NewNoteRepository creates the gorm-backed note repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepo{db: db}
}

func (r *noteRepo) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepo) GetByID(ctx context.Context, userID, id string) (*model.Note, error) {
	var n model.Note
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) GetAnyByID(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepo) List(ctx context.Context, userID string, f NoteListFilter) ([]model.Note, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Note{}).
		Where("user_id = ? AND is_deleted = ?", userID, false)

	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notes []model.Note
	err := q.Order("updated_at DESC").
		Offset((f.PageNumber - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *noteRepo) Update(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *noteRepo) SetSummary(ctx context.Context, id, summary string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.Note{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"summary":            summary,
			"summary_updated_at": now,
			"updated_at":         now,
		}).Error
}
