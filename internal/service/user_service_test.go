package service

import (
	"context"
	"testing"
	"time"

	"notesapp/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(users *mockUserRepo, now time.Time) *UserService {
	access := NewAccessManager(users)
	access.now = func() time.Time { return now }
	svc := NewUserService(users, access, "https://cdn.example.com/")
	svc.now = func() time.Time { return now }
	return svc
}

func TestUserService_GetProfile(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("prefixes stored image keys", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		hash := "some-hash"
		ur.On("GetByID", mock.Anything, "u1").Return(&model.User{
			ID:                 "u1",
			UserName:           "ada",
			ProfileImagePath:   "profile-images/u1.png",
			CommonPasswordHash: &hash,
		}, nil).Once()

		p, err := svc.GetProfile(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/profile-images/u1.png", p.ProfileImageURL)
		assert.True(t, p.HasCommonPassword)
	})

	t.Run("absolute image urls pass through", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		ur.On("GetByID", mock.Anything, "u1").Return(&model.User{
			ID:               "u1",
			ProfileImagePath: "https://elsewhere.example.com/pic.png",
		}, nil).Once()

		p, err := svc.GetProfile(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "https://elsewhere.example.com/pic.png", p.ProfileImageURL)
		assert.False(t, p.HasCommonPassword)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("renames and keeps image when empty", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		user := &model.User{ID: "u1", UserName: "ada", ProfileImagePath: "profile-images/u1.png"}
		ur.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
		ur.On("UserNameExists", mock.Anything, "love").Return(false, nil).Once()
		ur.On("Update", mock.Anything, user).Return(nil).Once()

		err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{
			FirstName: "Ada", LastName: "Lovelace", UserName: "Love",
		})
		require.NoError(t, err)
		assert.Equal(t, "love", user.UserName)
		assert.Equal(t, "profile-images/u1.png", user.ProfileImagePath)
	})

	t.Run("username conflict", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		ur.On("GetByID", mock.Anything, "u1").Return(&model.User{ID: "u1", UserName: "ada"}, nil).Once()
		ur.On("UserNameExists", mock.Anything, "taken").Return(true, nil).Once()

		err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{
			FirstName: "Ada", LastName: "L", UserName: "taken",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unchanged username skips the lookup", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		user := &model.User{ID: "u1", UserName: "ada"}
		ur.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
		ur.On("Update", mock.Anything, user).Return(nil).Once()

		err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{
			FirstName: "Ada", LastName: "L", UserName: "ada",
		})
		require.NoError(t, err)
		ur.AssertNotCalled(t, "UserNameExists")
	})
}

func TestUserService_Delete(t *testing.T) {
	ur := new(mockUserRepo)
	svc := newUserService(ur, time.Now().UTC())
	user := &model.User{ID: "u1"}
	ur.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
	ur.On("Update", mock.Anything, user).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.True(t, user.IsDeleted)
}

func TestUserService_UnlockStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("open window reports remaining seconds", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		from := now.Add(-time.Minute)
		till := now.Add(90 * time.Second)
		ur.On("GetByID", mock.Anything, "u1").Return(&model.User{
			ID: "u1", AccessibleFrom: &from, AccessibleTill: &till,
		}, nil).Once()

		unlocked, remaining, err := svc.UnlockStatus(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, unlocked)
		assert.Equal(t, 90, remaining)
	})

	t.Run("lapsed window expires lazily", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		from := now.Add(-time.Hour)
		till := now.Add(-30 * time.Minute)
		user := &model.User{ID: "u1", AccessibleFrom: &from, AccessibleTill: &till}
		ur.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
		ur.On("Update", mock.Anything, user).Return(nil).Once()

		unlocked, remaining, err := svc.UnlockStatus(context.Background(), "u1")
		require.NoError(t, err)
		assert.False(t, unlocked)
		assert.Zero(t, remaining)
		assert.Nil(t, user.AccessibleTill)
		ur.AssertExpectations(t)
	})

	t.Run("no window at all", func(t *testing.T) {
		ur := new(mockUserRepo)
		svc := newUserService(ur, now)
		ur.On("GetByID", mock.Anything, "u1").Return(&model.User{ID: "u1"}, nil).Once()

		unlocked, remaining, err := svc.UnlockStatus(context.Background(), "u1")
		require.NoError(t, err)
		assert.False(t, unlocked)
		assert.Zero(t, remaining)
	})
}
