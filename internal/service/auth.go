package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxNameLen     = 50
	maxUserNameLen = 20
	minPasswordLen = 8

	defaultProfileImage = "profile-images/default.png"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// AuthService handles registration, login and guest accounts. The login
// password is unrelated to the common password gating protected notes.
type AuthService struct {
	users  repo.UserRepository
	tokens repo.DeviceTokenRepository
	now    func() time.Time
}

// NewAuthService wires the auth service.
func NewAuthService(users repo.UserRepository, tokens repo.DeviceTokenRepository) *AuthService {
	return &AuthService{users: users, tokens: tokens, now: func() time.Time { return time.Now().UTC() }}
}

// RegisterRequest carries the signup form. FcmToken/Platform are optional
// and register a push device in the same call.
type RegisterRequest struct {
	FirstName string
	LastName  string
	UserName  string
	Email     string
	Password  string
	FcmToken  string
	Platform  string
}

func validateName(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
	}
	if len(v) > max {
		return "", fmt.Errorf("%w: %s cannot exceed %d characters", ErrValidation, field, max)
	}
	if htmlTagRe.MatchString(v) {
		return "", fmt.Errorf("%w: %s cannot contain HTML tags", ErrValidation, field)
	}
	return v, nil
}

func validatePassword(p string) error {
	if len(p) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

// Register creates a full account and returns it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	firstName, err := validateName("first name", req.FirstName, maxNameLen)
	if err != nil {
		return nil, err
	}
	lastName, err := validateName("last name", req.LastName, maxNameLen)
	if err != nil {
		return nil, err
	}
	userName, err := validateName("username", req.UserName, maxUserNameLen)
	if err != nil {
		return nil, err
	}
	userName = strings.ToLower(userName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if taken, err := s.users.EmailExists(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if taken, err := s.users.UserNameExists(ctx, userName); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:               uuid.NewString(),
		FirstName:        firstName,
		LastName:         lastName,
		UserName:         userName,
		Email:            email,
		PasswordHash:     string(hash),
		ProfileImagePath: defaultProfileImage,
		CreatedAt:        s.now(),
		UpdatedAt:        s.now(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.registerDevice(ctx, user.ID, req.FcmToken, req.Platform)
	return user, nil
}

// Login verifies email-or-username plus password. Deleted accounts and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password, fcmToken, platform string) (*model.User, error) {
	user, err := s.users.GetByEmailOrUserName(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, err
	}
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	s.registerDevice(ctx, user.ID, fcmToken, platform)
	return user, nil
}

// GuestLogin creates an ephemeral credential-less account. Guests cannot
// protect notes and convert to full accounts via ConvertGuest.
func (s *AuthService) GuestLogin(ctx context.Context) (*model.User, error) {
	user := &model.User{
		ID:               uuid.NewString(),
		IsGuest:          true,
		ProfileImagePath: defaultProfileImage,
		CreatedAt:        s.now(),
		UpdatedAt:        s.now(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ConvertGuestRequest upgrades a guest to a full account in place, keeping
// the guest's notes.
type ConvertGuestRequest struct {
	FirstName string
	LastName  string
	UserName  string
	Email     string
	Password  string
}

// ConvertGuest upgrades the guest account identified by userID.
func (s *AuthService) ConvertGuest(ctx context.Context, userID string, req ConvertGuestRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	if !user.IsGuest {
		return nil, fmt.Errorf("%w: account is not a guest", ErrValidation)
	}

	firstName, err := validateName("first name", req.FirstName, maxNameLen)
	if err != nil {
		return nil, err
	}
	lastName, err := validateName("last name", req.LastName, maxNameLen)
	if err != nil {
		return nil, err
	}
	userName, err := validateName("username", req.UserName, maxUserNameLen)
	if err != nil {
		return nil, err
	}
	userName = strings.ToLower(userName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	if taken, err := s.users.EmailExists(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if taken, err := s.users.UserNameExists(ctx, userName); err != nil {
		return nil, err
	} else if taken {
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.UserName = userName
	user.Email = email
	user.PasswordHash = string(hash)
	user.IsGuest = false
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword rotates the login password. Does not touch the common
// password for protected notes.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}
	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return fmt.Errorf("%w: old password is incorrect", ErrUnauthorized)
	}
	if newPassword == oldPassword {
		return fmt.Errorf("%w: new password must differ from the old one", ErrValidation)
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now()
	return s.users.Update(ctx, user)
}

// RegisterDevice registers a push token for the user.
func (s *AuthService) RegisterDevice(ctx context.Context, userID, token, platform string) error {
	return s.tokens.Upsert(ctx, userID, token, platform)
}

// registerDevice best-effort registers a push token; a failure never blocks
// the auth flow.
func (s *AuthService) registerDevice(ctx context.Context, userID, token, platform string) {
	if token == "" || platform == "" {
		return
	}
	_ = s.tokens.Upsert(ctx, userID, token, platform)
}
