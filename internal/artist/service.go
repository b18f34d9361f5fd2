// AngelaMos | 2026
// service.go

package artist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureProfile creates an empty artist profile for the user if one does
// not exist yet. Safe to call repeatedly.
func (s *Service) EnsureProfile(ctx context.Context, userID string) error {
	_, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return err
	}

	artist := &Artist{
		ID:     uuid.New().String(),
		UserID: userID,
	}

	if err := s.repo.Create(ctx, artist); err != nil {
		return fmt.Errorf("ensure artist profile: %w", err)
	}

	return nil
}

// ProfileForUser returns the caller's artist profile, creating it lazily.
func (s *Service) ProfileForUser(
	ctx context.Context,
	userID string,
) (*Artist, error) {
	artist, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return artist, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	if err := s.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id string) (*Artist, string, error) {
	artist, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	name, err := s.repo.NameForArtist(ctx, id)
	if err != nil {
		return nil, "", err
	}

	return artist, name, nil
}

func (s *Service) UpdateForUser(
	ctx context.Context,
	userID string,
	req UpdateArtistRequest,
) (*Artist, error) {
	artist, err := s.ProfileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		artist.Bio = *req.Bio
	}
	if req.Statement != nil {
		artist.Statement = *req.Statement
	}

	if err := s.repo.Update(ctx, artist); err != nil {
		return nil, err
	}

	return artist, nil
}
