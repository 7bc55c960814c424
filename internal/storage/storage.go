package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Ruturaj-007/video-platform-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user does not exist")
	ErrUserExists   = errors.New("user already exists with this username or email")

	// ErrTokenMismatch is returned by RotateRefreshToken when the stored
	// refresh token no longer equals the presented one: it was rotated away,
	// cleared by logout, or overwritten by a competing login.
	ErrTokenMismatch = errors.New("refresh token is expired or used")
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UserRepository is the store of truth for user records and the single
// outstanding refresh token per user.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)

	// SetRefreshToken overwrites the stored refresh token unconditionally.
	// A nil token clears it (logout).
	SetRefreshToken(ctx context.Context, userID string, token *string) error

	// RotateRefreshToken replaces oldToken with newToken in one conditional
	// write. The equality check and the overwrite are a single store call so
	// that of two concurrent refreshes racing on the same stale token at most
	// one can win.
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error
}
