package repo

import (
	"context"
	"strings"

	"notesapp/internal/model"

	"gorm.io/gorm"
)

// UserRepository is the data-access contract for users. All lookups exclude
// soft-deleted accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByEmailOrUserName matches the identifier against email first,
	// then username.
	GetByEmailOrUserName(ctx context.Context, identifier string) (*model.User, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	UserNameExists(ctx context.Context, userName string) (bool, error)

	Update(ctx context.Context, user *model.User) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository creates the gorm-backed user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByEmailOrUserName(ctx context.Context, identifier string) (*model.User, error) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	var u model.User
	err := r.db.WithContext(ctx).
		Where("(email = ? OR user_name = ?) AND is_deleted = ?", ident, ident, false).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND is_deleted = ?", strings.ToLower(email), false).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) UserNameExists(ctx context.Context, userName string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_name = ? AND is_deleted = ?", strings.ToLower(userName), false).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	// Save writes all fields, so cleared window pointers persist as NULL.
	return r.db.WithContext(ctx).Save(user).Error
}
