// AngelaMos | 2026
// dto.go

package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateArtworkRequest struct {
	Title       string   `json:"title"                 validate:"required,min=1,max=200"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=4000"`
	Price       string   `json:"price"                 validate:"required"`
	CategoryID  *int     `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Images      []string `json:"images"                validate:"required,min=1,max=10,dive,url"`
	Dimensions  string   `json:"dimensions,omitempty"  validate:"omitempty,max=100"`
	Material    string   `json:"material,omitempty"    validate:"omitempty,max=100"`
}

type UpdateArtworkRequest struct {
	Title       *string  `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=4000"`
	Price       *string  `json:"price,omitempty"`
	CategoryID  *int     `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Images      []string `json:"images,omitempty"      validate:"omitempty,min=1,max=10,dive,url"`
	Dimensions  *string  `json:"dimensions,omitempty"  validate:"omitempty,max=100"`
	Material    *string  `json:"material,omitempty"    validate:"omitempty,max=100"`
}

type ModerateArtworkRequest struct {
	Status int `json:"status" validate:"min=0,max=2"`
}

type ListArtworksParams struct {
	Page       int
	PageSize   int
	CategoryID int
	Search     string
}

func (p *ListArtworksParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListArtworksParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type ArtworkResponse struct {
	ID           string          `json:"id"`
	ArtistID     string          `json:"artist_id"`
	ArtistName   string          `json:"artist_name,omitempty"`
	CategoryID   *int            `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Images       []string        `json:"images"`
	PrimaryImage string          `json:"primary_image,omitempty"`
	Dimensions   string          `json:"dimensions,omitempty"`
	Material     string          `json:"material,omitempty"`
	Status       int             `json:"status"`
	StatusLabel  string          `json:"status_label"`
	UploadedAt   time.Time       `json:"uploaded_at"`
}

// ArtworkRow carries the joined artist and category names alongside the
// artwork itself for list and detail queries.
type ArtworkRow struct {
	Artwork
	ArtistName   string  `db:"artist_name"`
	CategoryName *string `db:"category_name"`
}

func (r *ArtworkRow) ToResponse() ArtworkResponse {
	resp := ArtworkResponse{
		ID:           r.ID,
		ArtistID:     r.ArtistID,
		ArtistName:   r.ArtistName,
		CategoryID:   r.CategoryID,
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		Images:       r.Artwork.Images(),
		PrimaryImage: r.PrimaryImage(),
		Dimensions:   r.Dimensions,
		Material:     r.Material,
		Status:       int(r.Status),
		StatusLabel:  r.Status.String(),
		UploadedAt:   r.UploadedAt,
	}
	if r.CategoryName != nil {
		resp.CategoryName = *r.CategoryName
	}
	return resp
}

// ToArtworkResponse converts a bare artwork, without the joined artist
// and category names. Used right after create and update.
func ToArtworkResponse(a *Artwork) ArtworkResponse {
	return ArtworkResponse{
		ID:           a.ID,
		ArtistID:     a.ArtistID,
		CategoryID:   a.CategoryID,
		Title:        a.Title,
		Description:  a.Description,
		Price:        a.Price,
		Images:       a.Images(),
		PrimaryImage: a.PrimaryImage(),
		Dimensions:   a.Dimensions,
		Material:     a.Material,
		Status:       int(a.Status),
		StatusLabel:  a.Status.String(),
		UploadedAt:   a.UploadedAt,
	}
}

func ToArtworkResponseList(rows []ArtworkRow) []ArtworkResponse {
	out := make([]ArtworkResponse, len(rows))
	for i := range rows {
		out[i] = rows[i].ToResponse()
	}
	return out
}
