// AngelaMos | 2026
// entity.go

package artist

import (
	"time"
)

// Artist is the 1:1 extension profile of a user with the artist role.
// It is created lazily: at registration, or on first artwork upload.
type Artist struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Bio       string    `db:"bio"`
	Statement string    `db:"statement"`
	CreatedAt time.Time `db:"created_at"`
}
