// AngelaMos | 2026
// repository.go

package artist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, artist *Artist) error
	GetByID(ctx context.Context, id string) (*Artist, error)
	GetByUserID(ctx context.Context, userID string) (*Artist, error)
	Update(ctx context.Context, artist *Artist) error
	NameForArtist(ctx context.Context, id string) (string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, artist *Artist) error {
	query := `
		INSERT INTO artists (id, user_id, bio, statement)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &artist.CreatedAt, query,
		artist.ID,
		artist.UserID,
		artist.Bio,
		artist.Statement,
	)
	if err != nil {
		return fmt.Errorf("create artist: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Artist, error) {
	query := `
		SELECT id, user_id, bio, statement, created_at
		FROM artists
		WHERE id = $1`

	var artist Artist
	err := r.db.GetContext(ctx, &artist, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get artist: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artist: %w", err)
	}

	return &artist, nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*Artist, error) {
	query := `
		SELECT id, user_id, bio, statement, created_at
		FROM artists
		WHERE user_id = $1`

	var artist Artist
	err := r.db.GetContext(ctx, &artist, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get artist by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artist by user: %w", err)
	}

	return &artist, nil
}

func (r *repository) Update(ctx context.Context, artist *Artist) error {
	query := `
		UPDATE artists
		SET bio = $2, statement = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		artist.ID,
		artist.Bio,
		artist.Statement,
	)
	if err != nil {
		return fmt.Errorf("update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update artist: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update artist: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) NameForArtist(
	ctx context.Context,
	id string,
) (string, error) {
	query := `
		SELECT u.name
		FROM artists a
		JOIN users u ON u.id = a.user_id
		WHERE a.id = $1`

	var name string
	err := r.db.GetContext(ctx, &name, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("artist name: %w", core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("artist name: %w", err)
	}

	return name, nil
}
