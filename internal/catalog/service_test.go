// AngelaMos | 2026
// service_test.go

package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syxphajm/artzone-sub000/internal/artist"
	"github.com/syxphajm/artzone-sub000/internal/core"
)

type fakeCatalogRepository struct {
	artworks   map[string]*ArtworkRow
	categories map[int]string
}

func newFakeCatalogRepository() *fakeCatalogRepository {
	return &fakeCatalogRepository{
		artworks:   make(map[string]*ArtworkRow),
		categories: map[int]string{1: "Painting", 2: "Sculpture"},
	}
}

func (f *fakeCatalogRepository) Create(_ context.Context, artwork *Artwork) error {
	f.artworks[artwork.ID] = &ArtworkRow{Artwork: *artwork}
	return nil
}

func (f *fakeCatalogRepository) GetByID(_ context.Context, id string) (*ArtworkRow, error) {
	row, ok := f.artworks[id]
	if !ok {
		return nil, fmt.Errorf("get artwork: %w", core.ErrNotFound)
	}
	return row, nil
}

func (f *fakeCatalogRepository) Update(_ context.Context, artwork *Artwork) error {
	row, ok := f.artworks[artwork.ID]
	if !ok || row.ArtistID != artwork.ArtistID {
		return fmt.Errorf("update artwork: %w", core.ErrNotFound)
	}
	row.Artwork = *artwork
	return nil
}

func (f *fakeCatalogRepository) Delete(_ context.Context, id, artistID string) error {
	row, ok := f.artworks[id]
	if !ok || row.ArtistID != artistID {
		return fmt.Errorf("delete artwork: %w", core.ErrNotFound)
	}
	delete(f.artworks, id)
	return nil
}

func (f *fakeCatalogRepository) ListApproved(
	_ context.Context,
	_ ListArtworksParams,
) ([]ArtworkRow, int, error) {
	rows := []ArtworkRow{}
	for _, row := range f.artworks {
		if row.Status == StatusApproved {
			rows = append(rows, *row)
		}
	}
	return rows, len(rows), nil
}

func (f *fakeCatalogRepository) ListByArtist(
	_ context.Context,
	artistID string,
	_ ListArtworksParams,
) ([]ArtworkRow, int, error) {
	rows := []ArtworkRow{}
	for _, row := range f.artworks {
		if row.ArtistID == artistID {
			rows = append(rows, *row)
		}
	}
	return rows, len(rows), nil
}

func (f *fakeCatalogRepository) ListByStatus(
	_ context.Context,
	status ArtworkStatus,
	_ ListArtworksParams,
) ([]ArtworkRow, int, error) {
	rows := []ArtworkRow{}
	for _, row := range f.artworks {
		if row.Status == status {
			rows = append(rows, *row)
		}
	}
	return rows, len(rows), nil
}

func (f *fakeCatalogRepository) SetStatus(
	_ context.Context,
	id string,
	status ArtworkStatus,
) error {
	row, ok := f.artworks[id]
	if !ok {
		return fmt.Errorf("set artwork status: %w", core.ErrNotFound)
	}
	row.Status = status
	return nil
}

func (f *fakeCatalogRepository) ListCategories(_ context.Context) ([]Category, error) {
	categories := []Category{}
	for id, name := range f.categories {
		categories = append(categories, Category{ID: id, Name: name})
	}
	return categories, nil
}

func (f *fakeCatalogRepository) CategoryExists(_ context.Context, id int) (bool, error) {
	_, ok := f.categories[id]
	return ok, nil
}

type fakeArtistDirectory struct {
	profiles map[string]string
}

func (f *fakeArtistDirectory) ProfileForUser(
	_ context.Context,
	userID string,
) (*artist.Artist, error) {
	artistID, ok := f.profiles[userID]
	if !ok {
		artistID = "artist-for-" + userID
		f.profiles[userID] = artistID
	}
	return &artist.Artist{ID: artistID, UserID: userID}, nil
}

func newTestService() (*Service, *fakeCatalogRepository, *fakeArtistDirectory) {
	repo := newFakeCatalogRepository()
	artists := &fakeArtistDirectory{profiles: make(map[string]string)}
	return NewService(repo, artists), repo, artists
}

func validArtworkRequest() CreateArtworkRequest {
	return CreateArtworkRequest{
		Title:  "Sunset over the Harbor",
		Price:  "450.00",
		Images: []string{"https://cdn.example.com/sunset.jpg"},
	}
}

func TestCreateArtworkStartsPending(t *testing.T) {
	svc, repo, _ := newTestService()

	req := validArtworkRequest()
	artwork, err := svc.Create(context.Background(), "user-1", req)
	require.NoError(t, err)

	require.Equal(t, StatusPending, artwork.Status)
	require.Equal(t, "artist-for-user-1", artwork.ArtistID)
	require.Equal(t, "450", artwork.Price.String())
	require.Len(t, repo.artworks, 1)
}

func TestCreateArtworkRejectsBadPrice(t *testing.T) {
	svc, _, _ := newTestService()

	for _, price := range []string{"", "abc", "0", "-5.00"} {
		req := validArtworkRequest()
		req.Price = price

		_, err := svc.Create(context.Background(), "user-1", req)
		require.ErrorIs(t, err, core.ErrInvalidInput, "price %q", price)
	}
}

func TestCreateArtworkRejectsUnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()

	badCategory := 99
	req := validArtworkRequest()
	req.CategoryID = &badCategory

	_, err := svc.Create(context.Background(), "user-1", req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestUpdateArtworkResetsModeration(t *testing.T) {
	svc, repo, _ := newTestService()

	artwork, err := svc.Create(context.Background(), "user-1", validArtworkRequest())
	require.NoError(t, err)

	repo.artworks[artwork.ID].Status = StatusApproved

	newTitle := "Sunset, Revisited"
	updated, err := svc.Update(context.Background(), "user-1", artwork.ID, UpdateArtworkRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, updated.Status)
	require.Equal(t, newTitle, updated.Title)
}

func TestUpdateArtworkMasksOtherArtists(t *testing.T) {
	svc, _, _ := newTestService()

	artwork, err := svc.Create(context.Background(), "user-1", validArtworkRequest())
	require.NoError(t, err)

	newTitle := "Hijacked"
	_, err = svc.Update(context.Background(), "user-2", artwork.ID, UpdateArtworkRequest{
		Title: &newTitle,
	})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestGetArtworkVisibility(t *testing.T) {
	svc, _, _ := newTestService()

	artwork, err := svc.Create(context.Background(), "user-1", validArtworkRequest())
	require.NoError(t, err)

	// Pending work is hidden from anonymous viewers and other users.
	_, err = svc.Get(context.Background(), artwork.ID, "", false)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Get(context.Background(), artwork.ID, "user-2", false)
	require.ErrorIs(t, err, core.ErrNotFound)

	// The owner and admins can see it.
	_, err = svc.Get(context.Background(), artwork.ID, "user-1", false)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), artwork.ID, "", true)
	require.NoError(t, err)
}

func TestModerateArtwork(t *testing.T) {
	svc, repo, _ := newTestService()

	artwork, err := svc.Create(context.Background(), "user-1", validArtworkRequest())
	require.NoError(t, err)

	row, err := svc.Moderate(context.Background(), artwork.ID, int(StatusApproved))
	require.NoError(t, err)
	require.Equal(t, StatusApproved, row.Status)
	require.Equal(t, StatusApproved, repo.artworks[artwork.ID].Status)

	_, err = svc.Moderate(context.Background(), artwork.ID, 5)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestBrowseOnlyApproved(t *testing.T) {
	svc, repo, _ := newTestService()

	first, err := svc.Create(context.Background(), "user-1", validArtworkRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "user-1", validArtworkRequest())
	require.NoError(t, err)

	repo.artworks[first.ID].Status = StatusApproved

	rows, total, err := svc.Browse(context.Background(), ListArtworksParams{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, rows, 1)
	require.Equal(t, first.ID, rows[0].ID)
}
