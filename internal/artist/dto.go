// AngelaMos | 2026
// dto.go

package artist

import (
	"time"
)

type UpdateArtistRequest struct {
	Bio       *string `json:"bio,omitempty"       validate:"omitempty,max=2000"`
	Statement *string `json:"statement,omitempty" validate:"omitempty,max=4000"`
}

type ArtistResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Statement string    `json:"statement,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToArtistResponse(a *Artist, name string) ArtistResponse {
	return ArtistResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      name,
		Bio:       a.Bio,
		Statement: a.Statement,
		CreatedAt: a.CreatedAt,
	}
}
