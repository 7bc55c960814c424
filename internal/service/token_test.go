package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruturaj-007/video-platform-api/internal/models"
	"github.com/Ruturaj-007/video-platform-api/internal/util"
)

func newTestTokenService(accessTTL, refreshTTL time.Duration) *TokenService {
	return NewTokenService(&util.TokenConfig{
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       "11111111-2222-3333-4444-555555555555",
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService(15*time.Minute, 240*time.Hour)
	user := testUser()

	token, err := ts.CreateAccessToken(user, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.FullName, claims.FullName)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService(15*time.Minute, 240*time.Hour)

	token, err := ts.CreateRefreshToken("user-42", time.Now())
	require.NoError(t, err)

	subject, err := ts.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
	ts := newTestTokenService(15*time.Minute, 240*time.Hour)
	user := testUser()
	now := time.Now()

	access, err := ts.CreateAccessToken(user, now)
	require.NoError(t, err)
	refresh, err := ts.CreateRefreshToken(user.ID, now)
	require.NoError(t, err)

	_, err = ts.VerifyRefreshToken(access)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ts.VerifyAccessToken(refresh)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokensFailVerification(t *testing.T) {
	// Negative TTLs put the expiry well past the verifier's leeway.
	ts := newTestTokenService(-time.Minute, -time.Minute)
	user := testUser()
	now := time.Now()

	access, err := ts.CreateAccessToken(user, now)
	require.NoError(t, err)
	refresh, err := ts.CreateRefreshToken(user.ID, now)
	require.NoError(t, err)

	_, err = ts.VerifyAccessToken(access)
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = ts.VerifyRefreshToken(refresh)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestMalformedTokensFailWithTypedError(t *testing.T) {
	ts := newTestTokenService(15*time.Minute, 240*time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := ts.VerifyRefreshToken(token)
		require.Error(t, err, "token %q", token)
		require.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestTamperedTokenFailsVerification(t *testing.T) {
	ts := newTestTokenService(15*time.Minute, 240*time.Hour)

	token, err := ts.CreateRefreshToken("user-42", time.Now())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ts.VerifyRefreshToken(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokensMintedTogetherAreDistinct(t *testing.T) {
	ts := newTestTokenService(15*time.Minute, 240*time.Hour)
	now := time.Now()

	first, err := ts.CreateRefreshToken("user-42", now)
	require.NoError(t, err)
	second, err := ts.CreateRefreshToken("user-42", now)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
