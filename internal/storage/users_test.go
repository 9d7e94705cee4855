package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/farm-manager/internal/models"
)

func TestStorage_CreateAndGetUser(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, models.User{
		Username:     "alice",
		PasswordHash: "hash",
		Role:         models.RoleUser,
		Email:        "alice@example.com",
		DisplayName:  "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	u, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.DisplayName)
	assert.False(t, u.HasTwoFA())
	assert.False(t, u.CreatedAt.IsZero())
}

func TestStorage_CreateUser_Duplicate(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, models.User{Username: "bob", PasswordHash: "h", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.User{Username: "bob", PasswordHash: "other", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrUserExists)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertUser_UniqueViolationMapped(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, err := insertUser(ctx, s.DB, models.User{Username: "carol", PasswordHash: "h", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = insertUser(ctx, s.DB, models.User{Username: "carol", PasswordHash: "h", Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestStorage_GetUserByUsername_NotFound(t *testing.T) {
	s := setupTestStorage(t)

	u, err := s.GetUserByUsername(context.Background(), "ghost")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_GetUserByUsername_CanceledContext(t *testing.T) {
	s := setupTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetUserByUsername(ctx, "admin")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStorage_SetTwoFactorSecret(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, models.User{Username: "dave", PasswordHash: "h", Role: models.RoleUser})
	require.NoError(t, err)

	require.NoError(t, s.SetTwoFactorSecret(ctx, "dave", "JBSWY3DPEHPK3PXP"))

	u, err := s.GetUserByUsername(ctx, "dave")
	require.NoError(t, err)
	assert.True(t, u.HasTwoFA())
	assert.Equal(t, "JBSWY3DPEHPK3PXP", u.TwoFASecret)

	err = s.SetTwoFactorSecret(ctx, "nobody", "X")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
