// AngelaMos | 2026
// schema.go

package core

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Bootstrap creates the marketplace tables if they do not exist yet.
// The schema is intentionally idempotent rather than versioned: each
// statement is a no-op once the table is in place.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL,
			phone         TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'buyer',
			avatar_url    TEXT NOT NULL DEFAULT '',
			token_version INTEGER NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash     TEXT NOT NULL UNIQUE,
			family_id      TEXT NOT NULL,
			expires_at     TIMESTAMPTZ NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_used        BOOLEAN NOT NULL DEFAULT FALSE,
			used_at        TIMESTAMPTZ,
			revoked_at     TIMESTAMPTZ,
			replaced_by_id TEXT,
			user_agent     TEXT NOT NULL DEFAULT '',
			ip_address     TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS artists (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL UNIQUE REFERENCES users(id),
			bio        TEXT NOT NULL DEFAULT '',
			statement  TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id   SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS artworks (
			id          TEXT PRIMARY KEY,
			artist_id   TEXT NOT NULL REFERENCES artists(id),
			category_id INTEGER REFERENCES categories(id),
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       NUMERIC(12,2) NOT NULL,
			images      TEXT NOT NULL DEFAULT '',
			dimensions  TEXT NOT NULL DEFAULT '',
			material    TEXT NOT NULL DEFAULT '',
			status      INTEGER NOT NULL DEFAULT 0,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id           TEXT PRIMARY KEY,
			users_id     TEXT NOT NULL REFERENCES users(id),
			order_date   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			total_amount NUMERIC(12,2) NOT NULL,
			status       INTEGER NOT NULL DEFAULT 0,
			phone        TEXT NOT NULL,
			address      TEXT NOT NULL,
			note         TEXT NOT NULL DEFAULT '',
			code         TEXT NOT NULL DEFAULT '',
			version      INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS order_details (
			id          TEXT PRIMARY KEY,
			orders_id   TEXT NOT NULL REFERENCES orders(id),
			artworks_id TEXT NOT NULL,
			line_no     INTEGER NOT NULL DEFAULT 0,
			quantity    INTEGER NOT NULL CHECK (quantity > 0),
			price       NUMERIC(12,2) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_artist ON artworks(artist_id)`,
		`CREATE INDEX IF NOT EXISTS idx_artworks_status ON artworks(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_users ON orders(users_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_details_order ON order_details(orders_id)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	seed := `
		INSERT INTO categories (name)
		VALUES ('Painting'), ('Sculpture'), ('Photography'), ('Digital'), ('Mixed Media')
		ON CONFLICT (name) DO NOTHING`

	if _, err := db.ExecContext(ctx, seed); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}

	return nil
}
