package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"gorm.io/gorm"
)

// UserService covers profile operations and delegates common-password
// changes to the access manager.
type UserService struct {
	users     repo.UserRepository
	access    *AccessManager
	s3BaseURL string
	now       func() time.Time
}

// NewUserService wires the user service. s3BaseURL prefixes stored profile
// image keys in responses.
func NewUserService(users repo.UserRepository, access *AccessManager, s3BaseURL string) *UserService {
	return &UserService{
		users:     users,
		access:    access,
		s3BaseURL: s3BaseURL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Profile is the user-facing account projection.
type Profile struct {
	UserID            string
	FirstName         string
	LastName          string
	UserName          string
	Email             string
	IsGuest           bool
	ProfileImageURL   string
	HasCommonPassword bool
}

func (s *UserService) getUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

// GetProfile returns the current user's profile.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	imageURL := user.ProfileImagePath
	if imageURL != "" && !strings.HasPrefix(imageURL, "http") {
		imageURL = s.s3BaseURL + imageURL
	}

	return &Profile{
		UserID:            user.ID,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		UserName:          user.UserName,
		Email:             user.Email,
		IsGuest:           user.IsGuest,
		ProfileImageURL:   imageURL,
		HasCommonPassword: user.CommonPasswordHash != nil && *user.CommonPasswordHash != "",
	}, nil
}

// UpdateProfileRequest carries editable profile fields. An empty
// ProfileImagePath leaves the stored image untouched.
type UpdateProfileRequest struct {
	FirstName        string
	LastName         string
	UserName         string
	ProfileImagePath string
}

// UpdateProfile edits names and the profile image.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	firstName, err := validateName("first name", req.FirstName, maxNameLen)
	if err != nil {
		return err
	}
	lastName, err := validateName("last name", req.LastName, maxNameLen)
	if err != nil {
		return err
	}
	userName, err := validateName("username", req.UserName, maxUserNameLen)
	if err != nil {
		return err
	}
	userName = strings.ToLower(userName)

	if userName != user.UserName {
		taken, err := s.users.UserNameExists(ctx, userName)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: username already taken", ErrConflict)
		}
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.UserName = userName
	if req.ProfileImagePath != "" {
		user.ProfileImagePath = req.ProfileImagePath
	}
	user.UpdatedAt = s.now()

	return s.users.Update(ctx, user)
}

// Delete soft-deletes the account. Notes stay in place but become
// unreachable, since every lookup excludes deleted owners.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.IsDeleted = true
	user.UpdatedAt = s.now()
	return s.users.Update(ctx, user)
}

// ChangeCommonPassword rotates the shared unlock password for protected
// notes.
func (s *UserService) ChangeCommonPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.access.ChangeCommonPassword(ctx, user, oldPassword, newPassword)
	return err
}

// UnlockStatus reports whether protected notes are unlocked and for how many
// more seconds. The lazy expiry runs first.
func (s *UserService) UnlockStatus(ctx context.Context, userID string) (unlocked bool, remainingSeconds int, err error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	user, err = s.access.ExpireIfNeeded(ctx, user)
	if err != nil {
		return false, 0, err
	}
	if !s.access.IsUnlocked(user) {
		return false, 0, nil
	}
	rem := int(user.AccessibleTill.Sub(s.now()).Seconds())
	if rem < 0 {
		rem = 0
	}
	return true, rem, nil
}
