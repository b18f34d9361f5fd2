// AngelaMos | 2026
// entity.go

package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ArtworkStatus tracks a piece through moderation.
type ArtworkStatus int

const (
	StatusPending  ArtworkStatus = 0
	StatusApproved ArtworkStatus = 1
	StatusRejected ArtworkStatus = 2
)

func (s ArtworkStatus) Valid() bool {
	return s >= StatusPending && s <= StatusRejected
}

func (s ArtworkStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// imageSeparator joins the image URL list into the single images column.
// Raw semicolons are not valid in URLs, so no escaping is needed.
const imageSeparator = ";"

func JoinImages(images []string) string {
	clean := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img != "" {
			clean = append(clean, img)
		}
	}
	return strings.Join(clean, imageSeparator)
}

func SplitImages(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, imageSeparator)
}

type Artwork struct {
	ID          string          `db:"id"          json:"id"`
	ArtistID    string          `db:"artist_id"   json:"artist_id"`
	CategoryID  *int            `db:"category_id" json:"category_id,omitempty"`
	Title       string          `db:"title"       json:"title"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price"       json:"price"`
	ImagesRaw   string          `db:"images"      json:"-"`
	Dimensions  string          `db:"dimensions"  json:"dimensions"`
	Material    string          `db:"material"    json:"material"`
	Status      ArtworkStatus   `db:"status"      json:"status"`
	UploadedAt  time.Time       `db:"uploaded_at" json:"uploaded_at"`
}

func (a *Artwork) Images() []string {
	return SplitImages(a.ImagesRaw)
}

func (a *Artwork) SetImages(images []string) {
	a.ImagesRaw = JoinImages(images)
}

// PrimaryImage returns the first image URL, used as the listing thumbnail.
func (a *Artwork) PrimaryImage() string {
	images := a.Images()
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

func (a *Artwork) IsApproved() bool {
	return a.Status == StatusApproved
}

type Category struct {
	ID   int    `db:"id"   json:"id"`
	Name string `db:"name" json:"name"`
}
