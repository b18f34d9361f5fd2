// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type fakeUserRepository struct {
	users    map[string]*User
	byEmail  map[string]string
	cascades []string
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		users:   make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	f.users[user.ID] = user
	f.byEmail[user.Email] = user.ID
	return nil
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return user, nil
}

func (f *fakeUserRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return f.users[id], nil
}

func (f *fakeUserRepository) Update(_ context.Context, user *User) error {
	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepository) IncrementTokenVersion(_ context.Context, id string) error {
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	user.TokenVersion++
	return nil
}

func (f *fakeUserRepository) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	users := []User{}
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, len(users), nil
}

func (f *fakeUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepository) DeleteCascade(_ context.Context, id string) error {
	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.byEmail, user.Email)
	delete(f.users, id)
	f.cascades = append(f.cascades, id)
	return nil
}

type fakeArtistProvider struct {
	ensured []string
}

func (f *fakeArtistProvider) EnsureProfile(_ context.Context, userID string) error {
	f.ensured = append(f.ensured, userID)
	return nil
}

func TestCreateBuyer(t *testing.T) {
	repo := newFakeUserRepository()
	artists := &fakeArtistProvider{}
	svc := NewService(repo, artists)

	info, err := svc.Create(
		context.Background(),
		"Buyer@Example.com", "hash", "Ann Buyer", "555-0101", "buyer",
	)
	require.NoError(t, err)
	require.Equal(t, "buyer@example.com", info.Email)
	require.Equal(t, "buyer", info.Role)
	require.Empty(t, artists.ensured, "buyers get no artist profile")
}

func TestCreateArtistEnsuresProfile(t *testing.T) {
	repo := newFakeUserRepository()
	artists := &fakeArtistProvider{}
	svc := NewService(repo, artists)

	info, err := svc.Create(
		context.Background(),
		"artist@example.com", "hash", "Bea Painter", "", "artist",
	)
	require.NoError(t, err)
	require.Equal(t, "artist", info.Role)
	require.Equal(t, []string{info.ID}, artists.ensured)
}

func TestCreateRejectsAdminRole(t *testing.T) {
	svc := NewService(newFakeUserRepository(), &fakeArtistProvider{})

	_, err := svc.Create(
		context.Background(),
		"boss@example.com", "hash", "Boss", "", "admin",
	)
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeUserRepository(), &fakeArtistProvider{})

	_, err := svc.Create(
		context.Background(),
		"who@example.com", "hash", "Who", "", "superuser",
	)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepository(), &fakeArtistProvider{})

	_, err := svc.Create(
		context.Background(),
		"dup@example.com", "hash", "First", "", "buyer",
	)
	require.NoError(t, err)

	_, err = svc.Create(
		context.Background(),
		"dup@example.com", "hash", "Second", "", "buyer",
	)
	require.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestDeleteAccount(t *testing.T) {
	repo := newFakeUserRepository()
	svc := NewService(repo, &fakeArtistProvider{})

	info, err := svc.Create(
		context.Background(),
		"gone@example.com", "hash", "Gone", "", "buyer",
	)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), info.ID))
	require.Equal(t, []string{info.ID}, repo.cascades)

	err = svc.DeleteAccount(context.Background(), info.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestDeleteAccountProtectsAdmins(t *testing.T) {
	repo := newFakeUserRepository()
	svc := NewService(repo, &fakeArtistProvider{})

	admin := &User{ID: "admin-1", Email: "root@example.com", Role: RoleAdmin}
	repo.users[admin.ID] = admin
	repo.byEmail[admin.Email] = admin.ID

	err := svc.DeleteAccount(context.Background(), admin.ID)
	require.ErrorIs(t, err, core.ErrForbidden)
	require.Empty(t, repo.cascades)
}

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{
		"admin":  RoleAdmin,
		"buyer":  RoleBuyer,
		"artist": RoleArtist,
	} {
		role, err := ParseRole(raw)
		require.NoError(t, err)
		require.Equal(t, want, role)
	}

	_, err := ParseRole("")
	require.Error(t, err)
	_, err = ParseRole("Buyer")
	require.Error(t, err)
}
