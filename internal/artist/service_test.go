// AngelaMos | 2026
// service_test.go

package artist

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type fakeArtistRepository struct {
	byID     map[string]*Artist
	byUserID map[string]*Artist
	creates  int
	names    map[string]string
}

func newFakeArtistRepository() *fakeArtistRepository {
	return &fakeArtistRepository{
		byID:     make(map[string]*Artist),
		byUserID: make(map[string]*Artist),
		names:    make(map[string]string),
	}
}

func (f *fakeArtistRepository) Create(_ context.Context, artist *Artist) error {
	f.creates++
	f.byID[artist.ID] = artist
	f.byUserID[artist.UserID] = artist
	return nil
}

func (f *fakeArtistRepository) GetByID(_ context.Context, id string) (*Artist, error) {
	artist, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get artist: %w", core.ErrNotFound)
	}
	return artist, nil
}

func (f *fakeArtistRepository) GetByUserID(_ context.Context, userID string) (*Artist, error) {
	artist, ok := f.byUserID[userID]
	if !ok {
		return nil, fmt.Errorf("get artist: %w", core.ErrNotFound)
	}
	return artist, nil
}

func (f *fakeArtistRepository) Update(_ context.Context, artist *Artist) error {
	if _, ok := f.byID[artist.ID]; !ok {
		return fmt.Errorf("update artist: %w", core.ErrNotFound)
	}
	f.byID[artist.ID] = artist
	f.byUserID[artist.UserID] = artist
	return nil
}

func (f *fakeArtistRepository) NameForArtist(_ context.Context, id string) (string, error) {
	name, ok := f.names[id]
	if !ok {
		return "", fmt.Errorf("artist name: %w", core.ErrNotFound)
	}
	return name, nil
}

func TestEnsureProfileIdempotent(t *testing.T) {
	repo := newFakeArtistRepository()
	svc := NewService(repo)

	require.NoError(t, svc.EnsureProfile(context.Background(), "user-1"))
	require.NoError(t, svc.EnsureProfile(context.Background(), "user-1"))
	require.Equal(t, 1, repo.creates)
}

func TestProfileForUserLazyCreate(t *testing.T) {
	repo := newFakeArtistRepository()
	svc := NewService(repo)

	artist, err := svc.ProfileForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", artist.UserID)
	require.NotEmpty(t, artist.ID)
	require.Equal(t, 1, repo.creates)

	again, err := svc.ProfileForUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, artist.ID, again.ID)
	require.Equal(t, 1, repo.creates)
}

func TestUpdateForUser(t *testing.T) {
	repo := newFakeArtistRepository()
	svc := NewService(repo)

	bio := "Oil painter working out of a converted barn."
	updated, err := svc.UpdateForUser(context.Background(), "user-1", UpdateArtistRequest{
		Bio: &bio,
	})
	require.NoError(t, err)
	require.Equal(t, bio, updated.Bio)
	require.Empty(t, updated.Statement)

	statement := "I paint what the tide leaves behind."
	updated, err = svc.UpdateForUser(context.Background(), "user-1", UpdateArtistRequest{
		Statement: &statement,
	})
	require.NoError(t, err)
	require.Equal(t, bio, updated.Bio, "unset fields keep their value")
	require.Equal(t, statement, updated.Statement)
}

func TestGetWithName(t *testing.T) {
	repo := newFakeArtistRepository()
	svc := NewService(repo)

	profile, err := svc.ProfileForUser(context.Background(), "user-1")
	require.NoError(t, err)
	repo.names[profile.ID] = "Bea Painter"

	artist, name, err := svc.Get(context.Background(), profile.ID)
	require.NoError(t, err)
	require.Equal(t, profile.ID, artist.ID)
	require.Equal(t, "Bea Painter", name)

	_, _, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}
