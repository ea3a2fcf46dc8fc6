package repo

import (
	"context"
	"testing"
	"time"

	"notesapp/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, r UserRepository, mutate func(*model.User)) *model.User {
	t.Helper()
	id := uuid.NewString()
	u := &model.User{
		ID:       id,
		UserName: "user-" + id[:8],
		Email:    id[:8] + "@example.com",
	}
	if mutate != nil {
		mutate(u)
	}
	created, err := r.Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func TestUserRepository_GetByID(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, nil)
	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.UserName, got.UserName)

	_, err = r.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_SoftDeletedExcluded(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, nil)
	u.IsDeleted = true
	require.NoError(t, r.Update(ctx, u))

	_, err := r.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = r.GetByEmailOrUserName(ctx, u.Email)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	taken, err := r.EmailExists(ctx, u.Email)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_GetByEmailOrUserName(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, nil)

	byEmail, err := r.GetByEmailOrUserName(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := r.GetByEmailOrUserName(ctx, u.UserName)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	// The identifier is normalized before matching.
	upper, err := r.GetByEmailOrUserName(ctx, "  "+u.Email+"  ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, upper.ID)
}

// Clearing the unlock window must survive a round-trip: the cleared pointers
// have to come back as NULL, not as the stale previous values.
func TestUserRepository_UpdatePersistsClearedWindow(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	till := from.Add(10 * time.Minute)
	hash := "bcrypt-hash"
	u := seedUser(t, r, func(u *model.User) {
		u.CommonPasswordHash = &hash
		u.AccessibleFrom = &from
		u.AccessibleTill = &till
	})

	u.AccessibleFrom = nil
	u.AccessibleTill = nil
	require.NoError(t, r.Update(ctx, u))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AccessibleFrom)
	assert.Nil(t, got.AccessibleTill)
	require.NotNil(t, got.CommonPasswordHash)
	assert.Equal(t, hash, *got.CommonPasswordHash)
}

func TestUserRepository_Exists(t *testing.T) {
	r := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := seedUser(t, r, nil)

	taken, err := r.EmailExists(ctx, u.Email)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.UserNameExists(ctx, u.UserName)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = r.UserNameExists(ctx, "nobody-"+uuid.NewString()[:8])
	require.NoError(t, err)
	assert.False(t, taken)
}
