package memory

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ruturaj-007/video-platform-api/internal/models"
	"github.com/Ruturaj-007/video-platform-api/internal/storage"
)

// UserRepository is a mutex-guarded in-memory implementation of
// storage.UserRepository, used in tests and local development.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	log   *zap.SugaredLogger
}

func NewUserRepository(log *zap.SugaredLogger) *UserRepository {
	return &UserRepository{
		users: make(map[string]models.User),
		log:   log,
	}
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, storage.ErrUserExists
		}
	}

	stored := *user
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.users[stored.ID] = stored
	m.log.Debugw("User created", "userID", stored.ID, "username", stored.Username)

	return &stored, nil
}

func (m *UserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &user, nil
}

func (m *UserRepository) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if (username != "" && u.Username == username) || (email != "" && u.Email == email) {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *UserRepository) SetRefreshToken(ctx context.Context, userID string, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}

	user.RefreshToken.Valid = token != nil
	if token != nil {
		user.RefreshToken.String = *token
	} else {
		user.RefreshToken.String = ""
	}
	user.UpdatedAt = time.Now()
	m.users[userID] = user

	return nil
}

// RotateRefreshToken compares and swaps under the write lock, mirroring the
// conditional UPDATE of the postgres implementation.
func (m *UserRepository) RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return storage.ErrTokenMismatch
	}
	if !user.RefreshToken.Valid || user.RefreshToken.String != oldToken {
		m.log.Debugw("Refresh token mismatch", "userID", userID)
		return storage.ErrTokenMismatch
	}

	user.RefreshToken.String = newToken
	user.UpdatedAt = time.Now()
	m.users[userID] = user

	return nil
}
