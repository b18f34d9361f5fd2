// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type fakeTokenRepository struct {
	byID   map[string]*RefreshToken
	byHash map[string]*RefreshToken
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{
		byID:   map[string]*RefreshToken{},
		byHash: map[string]*RefreshToken{},
	}
}

func (f *fakeTokenRepository) Create(
	_ context.Context,
	token *RefreshToken,
) error {
	token.CreatedAt = time.Now()
	f.byID[token.ID] = token
	f.byHash[token.TokenHash] = token
	return nil
}

func (f *fakeTokenRepository) FindByHash(
	_ context.Context,
	hash string,
) (*RefreshToken, error) {
	if t, ok := f.byHash[hash]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
}

func (f *fakeTokenRepository) FindByID(
	_ context.Context,
	id string,
) (*RefreshToken, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
}

func (f *fakeTokenRepository) MarkAsUsed(
	_ context.Context,
	id, replacedByID string,
) error {
	t, ok := f.byID[id]
	if !ok || t.IsUsed {
		return fmt.Errorf("mark refresh token as used: %w", core.ErrNotFound)
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &replacedByID
	return nil
}

func (f *fakeTokenRepository) RevokeByID(_ context.Context, id string) error {
	t, ok := f.byID[id]
	if !ok || t.RevokedAt != nil {
		return fmt.Errorf("revoke refresh token: %w", core.ErrNotFound)
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (f *fakeTokenRepository) RevokeByFamilyID(
	_ context.Context,
	familyID string,
) error {
	now := time.Now()
	for _, t := range f.byID {
		if t.FamilyID == familyID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepository) RevokeAllForUser(
	_ context.Context,
	userID string,
) error {
	now := time.Now()
	for _, t := range f.byID {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenRepository) GetActiveSessionsForUser(
	_ context.Context,
	userID string,
) ([]RefreshToken, error) {
	var out []RefreshToken
	for _, t := range f.byID {
		if t.UserID == userID && t.IsValid() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTokenRepository) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, t := range f.byID {
		if t.IsExpired() {
			delete(f.byHash, t.TokenHash)
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeUserProvider struct {
	users map[string]*UserInfo // keyed by email
}

func (f *fakeUserProvider) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUserProvider) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (f *fakeUserProvider) Create(
	_ context.Context,
	email, passwordHash, name, phone, role string,
) (*UserInfo, error) {
	if _, ok := f.users[email]; ok {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	u := &UserInfo{
		ID:           "user-" + name,
		Email:        email,
		Name:         name,
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         role,
	}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserProvider) IncrementTokenVersion(
	_ context.Context,
	userID string,
) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.TokenVersion++
			return nil
		}
	}
	return fmt.Errorf("increment token version: %w", core.ErrNotFound)
}

func (f *fakeUserProvider) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return fmt.Errorf("update password: %w", core.ErrNotFound)
}

func seededAuthService(t *testing.T) (*Service, *fakeTokenRepository) {
	t.Helper()

	hash, err := core.HashPassword("open sesame")
	require.NoError(t, err)

	users := &fakeUserProvider{users: map[string]*UserInfo{
		"buyer@example.com": {
			ID:           "user-1",
			Email:        "buyer@example.com",
			Name:         "Buyer One",
			PasswordHash: hash,
			Role:         "buyer",
		},
	}}

	repo := newFakeTokenRepository()
	svc := NewService(repo, testJWTManager(t, 15*time.Minute), users, nil)
	return svc, repo
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _ := seededAuthService(t)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "open sesame",
	}, "go-test", "127.0.0.1")
	require.NoError(t, err)

	require.Equal(t, "user-1", resp.User.ID)
	require.Equal(t, "buyer", resp.User.Role)
	require.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotEmpty(t, resp.Tokens.RefreshToken)
	require.Equal(t, "Bearer", resp.Tokens.TokenType)
	require.Equal(t, int(15*time.Minute/time.Second), resp.Tokens.ExpiresIn)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := seededAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "not it",
	}, "go-test", "127.0.0.1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := seededAuthService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever!",
	}, "go-test", "127.0.0.1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesWithinFamily(t *testing.T) {
	svc, repo := seededAuthService(t)

	first, err := svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "open sesame",
	}, "go-test", "127.0.0.1")
	require.NoError(t, err)

	second, err := svc.Refresh(
		context.Background(),
		first.Tokens.RefreshToken,
		"go-test", "127.0.0.1",
	)
	require.NoError(t, err)
	require.NotEqual(t,
		first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	// both stored tokens share a family
	old := repo.byHash[core.HashToken(first.Tokens.RefreshToken)]
	fresh := repo.byHash[core.HashToken(second.Tokens.RefreshToken)]
	require.Equal(t, old.FamilyID, fresh.FamilyID)
	require.True(t, old.IsUsed)
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	svc, repo := seededAuthService(t)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "open sesame",
	}, "go-test", "127.0.0.1")
	require.NoError(t, err)

	rotated, err := svc.Refresh(
		context.Background(),
		login.Tokens.RefreshToken,
		"go-test", "127.0.0.1",
	)
	require.NoError(t, err)

	// presenting the consumed token again is treated as theft
	_, err = svc.Refresh(
		context.Background(),
		login.Tokens.RefreshToken,
		"go-test", "127.0.0.1",
	)
	require.ErrorIs(t, err, ErrTokenReuse)

	// the rotated sibling is dead too
	current := repo.byHash[core.HashToken(rotated.Tokens.RefreshToken)]
	require.True(t, current.IsRevoked())
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	svc, _ := seededAuthService(t)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "open sesame",
	}, "go-test", "127.0.0.1")
	require.NoError(t, err)

	err = svc.Logout(
		context.Background(),
		login.Tokens.RefreshToken,
		"someone-else",
	)
	require.True(t, errors.Is(err, core.ErrForbidden))
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, repo := seededAuthService(t)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "open sesame",
	}, "go-test", "127.0.0.1")
	require.NoError(t, err)

	err = svc.ChangePassword(
		context.Background(),
		"user-1",
		"open sesame",
		"brand new passphrase",
	)
	require.NoError(t, err)

	stored := repo.byHash[core.HashToken(login.Tokens.RefreshToken)]
	require.True(t, stored.IsRevoked())

	// access tokens minted before the change carry the old version
	err = svc.ValidateTokenVersion(context.Background(), "user-1", 0)
	require.ErrorIs(t, err, core.ErrTokenRevoked)
	require.NoError(t, svc.ValidateTokenVersion(context.Background(), "user-1", 1))

	// old password no longer works
	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "buyer@example.com",
		Password: "open sesame",
	}, "go-test", "127.0.0.1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
