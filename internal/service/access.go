package service

import (
	"context"
	"fmt"
	"time"

	"notesapp/internal/model"
	"notesapp/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

// Unlock window bounds in minutes. Requests outside the range are clamped,
// not rejected.
const (
	minUnlockMinutes = 1
	maxUnlockMinutes = 60
)

// AccessManager owns the per-user unlock window and the common password that
// gates all of a user's protected notes. It is the only component that writes
// User.CommonPasswordHash and User.AccessibleFrom/AccessibleTill, so the
// "expire before check" invariant lives in exactly one place.
type AccessManager struct {
	users repo.UserRepository
	now   func() time.Time
}

// NewAccessManager creates the manager. The wall clock is UTC.
func NewAccessManager(users repo.UserRepository) *AccessManager {
	return &AccessManager{users: users, now: func() time.Time { return time.Now().UTC() }}
}

// ExpireIfNeeded lazily clears a lapsed unlock window and persists the clear.
// Must run before any check that reads the window: the stored fields may
// describe a window that lapsed since the record was last read. Idempotent.
func (a *AccessManager) ExpireIfNeeded(ctx context.Context, user *model.User) (*model.User, error) {
	if user.AccessibleTill == nil || !a.now().After(*user.AccessibleTill) {
		return user, nil
	}
	user.AccessibleFrom = nil
	user.AccessibleTill = nil
	user.UpdatedAt = a.now()
	if err := a.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IsUnlocked reports whether the window covers the current instant.
// Call ExpireIfNeeded first.
func (a *AccessManager) IsUnlocked(user *model.User) bool {
	if user.AccessibleFrom == nil || user.AccessibleTill == nil {
		return false
	}
	now := a.now()
	return !now.Before(*user.AccessibleFrom) && !now.After(*user.AccessibleTill)
}

// Unlock verifies the common password and opens a fresh window of the
// requested minutes, clamped to [1, 60]. Each call resets the window from
// now; it never extends the previous one.
func (a *AccessManager) Unlock(ctx context.Context, user *model.User, password string, minutes int) (*model.User, error) {
	if user.CommonPasswordHash == nil || *user.CommonPasswordHash == "" {
		return nil, fmt.Errorf("%w: no password has been set up for protected notes", ErrValidation)
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.CommonPasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: incorrect password", ErrUnauthorized)
	}

	if minutes < minUnlockMinutes {
		minutes = minUnlockMinutes
	}
	if minutes > maxUnlockMinutes {
		minutes = maxUnlockMinutes
	}

	now := a.now()
	till := now.Add(time.Duration(minutes) * time.Minute)
	user.AccessibleFrom = &now
	user.AccessibleTill = &till
	user.UpdatedAt = now
	if err := a.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Lock clears the window unconditionally, relocking every protected note at
// once. Idempotent; independent of lazy expiry.
func (a *AccessManager) Lock(ctx context.Context, user *model.User) (*model.User, error) {
	if user.AccessibleFrom == nil && user.AccessibleTill == nil {
		return user, nil
	}
	user.AccessibleFrom = nil
	user.AccessibleTill = nil
	user.UpdatedAt = a.now()
	if err := a.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authorize decides whether the note may be read or mutated right now.
// locked is an advisory flag for the response; allowed is the decision.
func (a *AccessManager) Authorize(ctx context.Context, note *model.Note, user *model.User) (allowed, locked bool, _ *model.User, err error) {
	user, err = a.ExpireIfNeeded(ctx, user)
	if err != nil {
		return false, false, nil, err
	}
	if !note.IsPasswordProtected {
		return true, false, user, nil
	}
	locked = !a.IsUnlocked(user)
	return !locked, locked, user, nil
}

// SetProtection toggles a note's protection flag, bootstrapping the common
// password on the first lock. Only the flag change is gated here; reading or
// editing protected content stays subject to the unlock window. The mutated
// note is returned unsaved; persisting it is the caller's job. The user
// record is persisted here when the common password gets set.
func (a *AccessManager) SetProtection(ctx context.Context, note *model.Note, user *model.User, wantProtected bool, password string) (*model.Note, *model.User, error) {
	if wantProtected == note.IsPasswordProtected {
		return note, user, nil
	}

	if wantProtected {
		if user.IsGuest {
			return nil, nil, fmt.Errorf("%w: guest users cannot password protect notes", ErrValidation)
		}
		if user.CommonPasswordHash == nil || *user.CommonPasswordHash == "" {
			if password == "" {
				return nil, nil, fmt.Errorf("%w: password required to lock for the first time", ErrValidation)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return nil, nil, err
			}
			h := string(hash)
			user.CommonPasswordHash = &h
			user.UpdatedAt = a.now()
			if err := a.users.Update(ctx, user); err != nil {
				return nil, nil, err
			}
		}
		// An existing hash is reused; any supplied password is ignored.
	}

	note.IsPasswordProtected = wantProtected
	note.UpdatedAt = a.now()
	return note, user, nil
}

// ChangeCommonPassword rotates the shared unlock password. It is independent
// of the login password; changing one never affects the other.
func (a *AccessManager) ChangeCommonPassword(ctx context.Context, user *model.User, oldPassword, newPassword string) (*model.User, error) {
	if user.CommonPasswordHash == nil || *user.CommonPasswordHash == "" {
		return nil, fmt.Errorf("%w: common password not set", ErrValidation)
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.CommonPasswordHash), []byte(oldPassword)) != nil {
		return nil, fmt.Errorf("%w: old password is incorrect", ErrUnauthorized)
	}
	if newPassword == oldPassword {
		return nil, fmt.Errorf("%w: new password must differ from the old one", ErrValidation)
	}
	if len(newPassword) < 8 {
		return nil, fmt.Errorf("%w: new password must be at least 8 characters", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	h := string(hash)
	user.CommonPasswordHash = &h
	user.UpdatedAt = a.now()
	if err := a.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
