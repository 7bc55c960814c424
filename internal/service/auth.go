package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ruturaj-007/video-platform-api/internal/models"
	"github.com/Ruturaj-007/video-platform-api/internal/storage"
)

// AuthService orchestrates the session lifecycle: registration, login,
// logout and refresh rotation. The user record in storage is the source of
// truth for the single outstanding refresh token per user; nothing is cached
// here.
type AuthService struct {
	storage  storage.UserRepository
	tokens   *TokenService
	uploader MediaUploader
	log      *zap.SugaredLogger
}

func NewAuthService(st storage.UserRepository, tokens *TokenService, uploader MediaUploader, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		storage:  st,
		tokens:   tokens,
		uploader: uploader,
		log:      log,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Username string
	Password string

	// Local paths of files already staged by the transport layer. AvatarPath
	// is required, CoverImagePath may be empty.
	AvatarPath     string
	CoverImagePath string
}

// Register validates the input, checks for duplicates before any upload
// happens, pushes the staged images to the media sink and creates the user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.PublicUser, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := strings.TrimSpace(in.Email)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	password := strings.TrimSpace(in.Password)

	if fullName == "" || email == "" || username == "" || password == "" {
		return nil, ErrFieldsRequired
	}
	if in.AvatarPath == "" {
		return nil, ErrAvatarRequired
	}

	// Duplicate check first, so a taken username never costs an upload.
	if _, err := s.storage.GetUserByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, storage.ErrUserExists
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	avatarURL, err := s.uploader.Upload(ctx, in.AvatarPath)
	if err != nil {
		s.log.Errorw("avatar upload failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	coverImageURL := ""
	if in.CoverImagePath != "" {
		coverImageURL, err = s.uploader.Upload(ctx, in.CoverImagePath)
		if err != nil {
			s.log.Errorw("cover image upload failed", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
		}
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		PasswordHash:  passwordHash,
	}

	created, err := s.storage.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Infow("user registered", "userID", created.ID, "username", created.Username)
	return created.Public(), nil
}

// Login verifies credentials, mints a token pair and persists the refresh
// token, displacing any previous session for the user.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.PublicUser, *models.TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.TrimSpace(req.Email)

	if username == "" && email == "" {
		return nil, nil, ErrIdentifierRequired
	}

	user, err := s.storage.GetUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, nil, err
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		s.log.Infow("login failed: wrong password", "userID", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.storage.SetRefreshToken(ctx, user.ID, &pair.RefreshToken); err != nil {
		return nil, nil, fmt.Errorf("persist refresh token: %w", err)
	}

	s.log.Infow("user logged in", "userID", user.ID)
	return user.Public(), pair, nil
}

// Logout clears the stored refresh token. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.storage.SetRefreshToken(ctx, userID, nil); err != nil {
		return err
	}
	s.log.Infow("user logged out", "userID", userID)
	return nil
}

// Refresh rotates a refresh token: each one is valid for exactly one
// successful refresh. All failure modes collapse into the token-invalid kind
// so the response does not leak which check failed.
func (s *AuthService) Refresh(ctx context.Context, incoming string) (*models.TokenPair, error) {
	if incoming == "" {
		return nil, ErrUnauthorized
	}

	userID, err := s.tokens.VerifyRefreshToken(incoming)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("load user for refresh: %w", err)
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}

	// Equality check and overwrite are one conditional store write; of two
	// concurrent refreshes racing on the same stale token at most one wins.
	if err := s.storage.RotateRefreshToken(ctx, user.ID, incoming, pair.RefreshToken); err != nil {
		if errors.Is(err, storage.ErrTokenMismatch) {
			s.log.Infow("refresh token reuse detected", "userID", user.ID)
			return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	return pair, nil
}

// VerifyAccess validates an access token and resolves its subject to a live
// user record, for protected routes.
func (s *AuthService) VerifyAccess(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("load user for access check: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*models.TokenPair, error) {
	now := time.Now()

	access, err := s.tokens.CreateAccessToken(user, now)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.CreateRefreshToken(user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
