// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type Repository interface {
	Create(ctx context.Context, artwork *Artwork) error
	GetByID(ctx context.Context, id string) (*ArtworkRow, error)
	Update(ctx context.Context, artwork *Artwork) error
	Delete(ctx context.Context, id, artistID string) error
	ListApproved(ctx context.Context, params ListArtworksParams) ([]ArtworkRow, int, error)
	ListByArtist(ctx context.Context, artistID string, params ListArtworksParams) ([]ArtworkRow, int, error)
	ListByStatus(ctx context.Context, status ArtworkStatus, params ListArtworksParams) ([]ArtworkRow, int, error)
	SetStatus(ctx context.Context, id string, status ArtworkStatus) error
	ListCategories(ctx context.Context) ([]Category, error)
	CategoryExists(ctx context.Context, id int) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const artworkColumns = `
	a.id, a.artist_id, a.category_id, a.title, a.description, a.price,
	a.images, a.dimensions, a.material, a.status, a.uploaded_at,
	u.name AS artist_name, c.name AS category_name`

const artworkJoins = `
	FROM artworks a
	JOIN artists ar ON ar.id = a.artist_id
	JOIN users u ON u.id = ar.user_id
	LEFT JOIN categories c ON c.id = a.category_id`

func (r *repository) Create(ctx context.Context, artwork *Artwork) error {
	query := `
		INSERT INTO artworks (id, artist_id, category_id, title, description,
		                      price, images, dimensions, material, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING uploaded_at`

	err := r.db.GetContext(ctx, &artwork.UploadedAt, query,
		artwork.ID,
		artwork.ArtistID,
		artwork.CategoryID,
		artwork.Title,
		artwork.Description,
		artwork.Price,
		artwork.ImagesRaw,
		artwork.Dimensions,
		artwork.Material,
		artwork.Status,
	)
	if err != nil {
		return fmt.Errorf("create artwork: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*ArtworkRow, error) {
	query := `SELECT` + artworkColumns + artworkJoins + `
		WHERE a.id = $1`

	var row ArtworkRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get artwork: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artwork: %w", err)
	}

	return &row, nil
}

func (r *repository) Update(ctx context.Context, artwork *Artwork) error {
	query := `
		UPDATE artworks
		SET category_id = $1, title = $2, description = $3, price = $4,
		    images = $5, dimensions = $6, material = $7, status = $8
		WHERE id = $9 AND artist_id = $10`

	result, err := r.db.ExecContext(ctx, query,
		artwork.CategoryID,
		artwork.Title,
		artwork.Description,
		artwork.Price,
		artwork.ImagesRaw,
		artwork.Dimensions,
		artwork.Material,
		artwork.Status,
		artwork.ID,
		artwork.ArtistID,
	)
	if err != nil {
		return fmt.Errorf("update artwork: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update artwork: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update artwork: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id, artistID string) error {
	query := `DELETE FROM artworks WHERE id = $1 AND artist_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, artistID)
	if err != nil {
		return fmt.Errorf("delete artwork: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete artwork: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete artwork: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListApproved(
	ctx context.Context,
	params ListArtworksParams,
) ([]ArtworkRow, int, error) {
	conditions := []string{"a.status = $1"}
	args := []any{StatusApproved}

	if params.CategoryID > 0 {
		args = append(args, params.CategoryID)
		conditions = append(conditions, fmt.Sprintf("a.category_id = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		conditions = append(conditions, fmt.Sprintf("a.title ILIKE $%d", len(args)))
	}

	return r.list(ctx, strings.Join(conditions, " AND "), args, params)
}

func (r *repository) ListByArtist(
	ctx context.Context,
	artistID string,
	params ListArtworksParams,
) ([]ArtworkRow, int, error) {
	return r.list(ctx, "a.artist_id = $1", []any{artistID}, params)
}

func (r *repository) ListByStatus(
	ctx context.Context,
	status ArtworkStatus,
	params ListArtworksParams,
) ([]ArtworkRow, int, error) {
	return r.list(ctx, "a.status = $1", []any{status}, params)
}

func (r *repository) list(
	ctx context.Context,
	where string,
	args []any,
	params ListArtworksParams,
) ([]ArtworkRow, int, error) {
	countQuery := `SELECT COUNT(*)` + artworkJoins + ` WHERE ` + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count artworks: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT%s%s WHERE %s ORDER BY a.uploaded_at DESC LIMIT $%d OFFSET $%d`,
		artworkColumns, artworkJoins, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.PageSize, params.Offset())

	rows := []ArtworkRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list artworks: %w", err)
	}

	return rows, total, nil
}

func (r *repository) SetStatus(
	ctx context.Context,
	id string,
	status ArtworkStatus,
) error {
	query := `UPDATE artworks SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set artwork status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set artwork status: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set artwork status: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name FROM categories ORDER BY name`

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) CategoryExists(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}

	return exists, nil
}
