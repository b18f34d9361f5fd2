// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

// Overview aggregates the counters shown on the admin dashboard.
// Status codes follow the catalog and order packages: artworks are
// pending 0 / approved 1 / rejected 2, orders are pending 0 /
// processing 1 / delivered 2 / canceled 3.
type Overview struct {
	TotalUsers       int             `db:"total_users"   json:"total_users"`
	TotalArtists     int             `db:"total_artists" json:"total_artists"`
	PendingArtworks  int             `db:"pending_artworks"  json:"pending_artworks"`
	ApprovedArtworks int             `db:"approved_artworks" json:"approved_artworks"`
	RejectedArtworks int             `db:"rejected_artworks" json:"rejected_artworks"`
	PendingOrders    int             `db:"pending_orders"    json:"pending_orders"`
	ProcessingOrders int             `db:"processing_orders" json:"processing_orders"`
	DeliveredOrders  int             `db:"delivered_orders"  json:"delivered_orders"`
	CanceledOrders   int             `db:"canceled_orders"   json:"canceled_orders"`
	DeliveredRevenue decimal.Decimal `db:"delivered_revenue" json:"delivered_revenue"`
}

type Repository interface {
	Overview(ctx context.Context) (*Overview, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Overview(ctx context.Context) (*Overview, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM artists) AS total_artists,
			(SELECT COUNT(*) FROM artworks WHERE status = 0)
				AS pending_artworks,
			(SELECT COUNT(*) FROM artworks WHERE status = 1)
				AS approved_artworks,
			(SELECT COUNT(*) FROM artworks WHERE status = 2)
				AS rejected_artworks,
			(SELECT COUNT(*) FROM orders WHERE status = 0)
				AS pending_orders,
			(SELECT COUNT(*) FROM orders WHERE status = 1)
				AS processing_orders,
			(SELECT COUNT(*) FROM orders WHERE status = 2)
				AS delivered_orders,
			(SELECT COUNT(*) FROM orders WHERE status = 3)
				AS canceled_orders,
			(SELECT COALESCE(SUM(total_amount), 0)
				FROM orders WHERE status = 2) AS delivered_revenue`

	var overview Overview
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("load marketplace overview: %w", err)
	}
	return &overview, nil
}
