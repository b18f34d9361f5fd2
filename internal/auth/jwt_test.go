// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/syxphajm/artzone-sub000/internal/config"
	"github.com/syxphajm/artzone-sub000/internal/core"
)

func testJWTManager(t *testing.T, expire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  expire,
		RefreshTokenExpire: 168 * time.Hour,
		Issuer:             "artzone",
		Audience:           "artzone-api",
	})
	require.NoError(t, err)
	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testJWTManager(t, 15*time.Minute)

	claims := AccessTokenClaims{
		UserID:       "user-1",
		Role:         "artist",
		TokenVersion: 3,
	}

	token, err := manager.CreateAccessToken(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := manager.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-1", verified.UserID)
	require.Equal(t, "artist", verified.Role)
	require.Equal(t, 3, verified.TokenVersion)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	manager := testJWTManager(t, 15*time.Minute)

	_, err := manager.VerifyAccessToken(context.Background(), "not.a.token")
	require.Error(t, err)
}

func TestVerifyAccessTokenRejectsExpired(t *testing.T) {
	manager := testJWTManager(t, -1*time.Minute)

	token, err := manager.CreateAccessToken(AccessTokenClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyAccessTokenRejectsForeignKey(t *testing.T) {
	issuer := testJWTManager(t, 15*time.Minute)
	verifier := testJWTManager(t, 15*time.Minute)

	token, err := issuer.CreateAccessToken(AccessTokenClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), token)
	require.Error(t, err)
}

func TestRefreshTokenHashRoundTrip(t *testing.T) {
	manager := testJWTManager(t, 15*time.Minute)

	data, err := manager.CreateRefreshToken("user-1", "")
	require.NoError(t, err)
	require.NotEmpty(t, data.Token)
	require.NotEmpty(t, data.FamilyID)
	require.NotEqual(t, data.Token, data.Hash)

	require.True(t, manager.VerifyRefreshTokenHash(data.Token, data.Hash))
	require.False(t, manager.VerifyRefreshTokenHash("tampered", data.Hash))

	// Rotation inside a family keeps the family id.
	rotated, err := manager.CreateRefreshToken("user-1", data.FamilyID)
	require.NoError(t, err)
	require.Equal(t, data.FamilyID, rotated.FamilyID)
}
