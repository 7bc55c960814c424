package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ruturaj-007/video-platform-api/internal/models"
	"github.com/Ruturaj-007/video-platform-api/internal/storage"
)

func seedUser(t *testing.T, repo *UserRepository) *models.User {
	t.Helper()

	user, err := repo.CreateUser(context.Background(), &models.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		AvatarURL:    "https://cdn.example.com/a.png",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	repo := NewUserRepository(zap.NewNop().Sugar())
	seedUser(t, repo)

	_, err := repo.CreateUser(context.Background(), &models.User{
		ID:       "user-2",
		Username: "alice",
		Email:    "different@example.com",
	})
	require.ErrorIs(t, err, storage.ErrUserExists)
}

func TestGetUserByUsernameOrEmail(t *testing.T) {
	repo := NewUserRepository(zap.NewNop().Sugar())
	seedUser(t, repo)

	byUsername, err := repo.GetUserByUsernameOrEmail(context.Background(), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byUsername.ID)

	byEmail, err := repo.GetUserByUsernameOrEmail(context.Background(), "", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID)

	_, err = repo.GetUserByUsernameOrEmail(context.Background(), "", "")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestSetAndClearRefreshToken(t *testing.T) {
	repo := NewUserRepository(zap.NewNop().Sugar())
	seedUser(t, repo)

	token := "refresh-token"
	require.NoError(t, repo.SetRefreshToken(context.Background(), "user-1", &token))

	user, err := repo.GetUserByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, user.RefreshToken.Valid)
	assert.Equal(t, token, user.RefreshToken.String)

	require.NoError(t, repo.SetRefreshToken(context.Background(), "user-1", nil))
	user, err = repo.GetUserByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, user.RefreshToken.Valid)

	require.ErrorIs(t, repo.SetRefreshToken(context.Background(), "missing", &token), storage.ErrUserNotFound)
}

func TestRotateRefreshTokenIsConditional(t *testing.T) {
	repo := NewUserRepository(zap.NewNop().Sugar())
	seedUser(t, repo)

	old := "old-token"
	require.NoError(t, repo.SetRefreshToken(context.Background(), "user-1", &old))

	// Wrong expected value never overwrites.
	err := repo.RotateRefreshToken(context.Background(), "user-1", "not-the-stored-one", "new-token")
	require.ErrorIs(t, err, storage.ErrTokenMismatch)

	require.NoError(t, repo.RotateRefreshToken(context.Background(), "user-1", "old-token", "new-token"))

	user, err := repo.GetUserByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "new-token", user.RefreshToken.String)

	// The displaced value can never rotate again.
	err = repo.RotateRefreshToken(context.Background(), "user-1", "old-token", "another")
	require.ErrorIs(t, err, storage.ErrTokenMismatch)
}

func TestRotateRefreshTokenClearedSession(t *testing.T) {
	repo := NewUserRepository(zap.NewNop().Sugar())
	seedUser(t, repo)

	err := repo.RotateRefreshToken(context.Background(), "user-1", "anything", "new-token")
	require.ErrorIs(t, err, storage.ErrTokenMismatch)
}
