// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syxphajm/artzone-sub000/internal/artist"
	"github.com/syxphajm/artzone-sub000/internal/core"
)

// ArtistDirectory resolves the artist profile behind a user account,
// creating one lazily on first use. Satisfied by artist.Service.
type ArtistDirectory interface {
	ProfileForUser(ctx context.Context, userID string) (*artist.Artist, error)
}

type Service struct {
	repo    Repository
	artists ArtistDirectory
}

func NewService(repo Repository, artists ArtistDirectory) *Service {
	return &Service{repo: repo, artists: artists}
}

// Browse lists approved artworks for the public storefront.
func (s *Service) Browse(
	ctx context.Context,
	params ListArtworksParams,
) ([]ArtworkRow, int, error) {
	params.Normalize()
	return s.repo.ListApproved(ctx, params)
}

// Get returns a single artwork. Pieces still in moderation are only
// visible to the owning artist and to admins; everyone else sees the
// same not-found as a nonexistent id.
func (s *Service) Get(
	ctx context.Context,
	id, viewerUserID string,
	isAdmin bool,
) (*ArtworkRow, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if row.IsApproved() || isAdmin {
		return row, nil
	}

	if viewerUserID != "" {
		profile, err := s.artists.ProfileForUser(ctx, viewerUserID)
		if err == nil && profile.ID == row.ArtistID {
			return row, nil
		}
	}

	return nil, fmt.Errorf("get artwork: %w", core.ErrNotFound)
}

// ListMine lists every artwork owned by the calling artist, regardless
// of moderation status.
func (s *Service) ListMine(
	ctx context.Context,
	userID string,
	params ListArtworksParams,
) ([]ArtworkRow, int, error) {
	params.Normalize()

	profile, err := s.artists.ProfileForUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.ListByArtist(ctx, profile.ID, params)
}

// Create uploads a new artwork. Every upload starts in moderation
// regardless of what the caller sends.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateArtworkRequest,
) (*Artwork, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	profile, err := s.artists.ProfileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	artwork := &Artwork{
		ID:          uuid.New().String(),
		ArtistID:    profile.ID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       price,
		Dimensions:  req.Dimensions,
		Material:    req.Material,
		Status:      StatusPending,
	}
	artwork.SetImages(req.Images)

	if err := s.repo.Create(ctx, artwork); err != nil {
		return nil, err
	}

	return artwork, nil
}

// Update edits an owned artwork. Any edit sends the piece back through
// moderation.
func (s *Service) Update(
	ctx context.Context,
	userID, artworkID string,
	req UpdateArtworkRequest,
) (*Artwork, error) {
	profile, err := s.artists.ProfileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if row.ArtistID != profile.ID {
		return nil, fmt.Errorf("update artwork: %w", core.ErrNotFound)
	}

	artwork := row.Artwork

	if req.Title != nil {
		artwork.Title = *req.Title
	}
	if req.Description != nil {
		artwork.Description = *req.Description
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		artwork.Price = price
	}
	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		artwork.CategoryID = req.CategoryID
	}
	if req.Images != nil {
		artwork.SetImages(req.Images)
	}
	if req.Dimensions != nil {
		artwork.Dimensions = *req.Dimensions
	}
	if req.Material != nil {
		artwork.Material = *req.Material
	}

	artwork.Status = StatusPending

	if err := s.repo.Update(ctx, &artwork); err != nil {
		return nil, err
	}

	return &artwork, nil
}

func (s *Service) Delete(ctx context.Context, userID, artworkID string) error {
	profile, err := s.artists.ProfileForUser(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, artworkID, profile.ID)
}

// ListByStatus lists artworks in one moderation state for the admin
// review queue.
func (s *Service) ListByStatus(
	ctx context.Context,
	status ArtworkStatus,
	params ListArtworksParams,
) ([]ArtworkRow, int, error) {
	params.Normalize()
	return s.repo.ListByStatus(ctx, status, params)
}

// Moderate sets an artwork's moderation status.
func (s *Service) Moderate(
	ctx context.Context,
	artworkID string,
	status int,
) (*ArtworkRow, error) {
	st := ArtworkStatus(status)
	if !st.Valid() {
		return nil, fmt.Errorf("moderate artwork: %w", core.ErrInvalidInput)
	}

	if err := s.repo.SetStatus(ctx, artworkID, st); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, artworkID)
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) checkCategory(ctx context.Context, id int) error {
	exists, err := s.repo.CategoryExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("category %d: %w", id, core.ErrInvalidInput)
	}
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse price: %w", core.ErrInvalidInput)
	}
	if price.IsNegative() || price.IsZero() {
		return decimal.Zero, fmt.Errorf("price must be positive: %w", core.ErrInvalidInput)
	}
	return price.Round(2), nil
}
