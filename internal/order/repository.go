// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

// OrderItemInput is a checkout line before pricing. The authoritative
// price comes from the catalog inside the creation transaction, never
// from the client.
type OrderItemInput struct {
	ArtworkID string
	Quantity  int
}

type Repository interface {
	CreateOrder(ctx context.Context, order *Order, items []OrderItemInput, clientTotal decimal.Decimal) error
	GetByID(ctx context.Context, id, userID string) (*OrderRow, []DetailRow, error)
	ListForUser(ctx context.Context, userID string, params ListOrdersParams) ([]OrderRow, int, error)
	ListAll(ctx context.Context, params ListOrdersParams) ([]OrderRow, int, error)
	CancelOrder(ctx context.Context, id, userID string) error
	UpdateStatus(ctx context.Context, id string, next OrderStatus, expectedVersion int) (*Order, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type artworkSnapshot struct {
	ID     string          `db:"id"`
	Price  decimal.Decimal `db:"price"`
	Status int             `db:"status"`
}

// CreateOrder inserts the order and every line item in one transaction.
// Artworks are locked FOR SHARE while their prices are read so a
// concurrent delete or price edit cannot slip between the read and the
// insert. The total is recomputed from the locked prices; a client total
// that disagrees fails the whole transaction.
func (r *repository) CreateOrder(
	ctx context.Context,
	order *Order,
	items []OrderItemInput,
	clientTotal decimal.Decimal,
) error {
	const approvedStatus = 1

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		total := decimal.Zero
		details := make([]OrderDetail, 0, len(items))

		for lineNo, item := range items {
			var snap artworkSnapshot
			err := tx.GetContext(ctx, &snap,
				`SELECT id, price, status FROM artworks WHERE id = $1 FOR SHARE`,
				item.ArtworkID,
			)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("artwork %s: %w", item.ArtworkID, core.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("load artwork %s: %w", item.ArtworkID, err)
			}

			if snap.Status != approvedStatus {
				return fmt.Errorf(
					"artwork %s is not available for purchase: %w",
					item.ArtworkID, core.ErrInvalidInput,
				)
			}

			qty := decimal.NewFromInt(int64(item.Quantity))
			total = total.Add(snap.Price.Mul(qty))

			details = append(details, OrderDetail{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ArtworkID: item.ArtworkID,
				LineNo:    lineNo,
				Quantity:  item.Quantity,
				Price:     snap.Price,
			})
		}

		if !total.Equal(clientTotal) {
			return fmt.Errorf(
				"total amount mismatch: expected %s: %w",
				total.StringFixed(2), core.ErrInvalidInput,
			)
		}
		order.TotalAmount = total

		err := tx.GetContext(ctx, order,
			`INSERT INTO orders (id, users_id, total_amount, status, phone, address, note, code)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING order_date, version`,
			order.ID,
			order.UserID,
			order.TotalAmount,
			order.Status,
			order.Phone,
			order.Address,
			order.Note,
			order.Code,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, detail := range details {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO order_details (id, orders_id, artworks_id, line_no, quantity, price)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				detail.ID,
				detail.OrderID,
				detail.ArtworkID,
				detail.LineNo,
				detail.Quantity,
				detail.Price,
			)
			if err != nil {
				return fmt.Errorf("insert order detail: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

const orderColumns = `
	o.id, o.users_id, o.order_date, o.total_amount, o.status,
	o.phone, o.address, o.note, o.code, o.version,
	u.name AS buyer_name,
	(SELECT COUNT(*) FROM order_details d WHERE d.orders_id = o.id) AS item_count`

const orderJoins = `
	FROM orders o
	JOIN users u ON u.id = o.users_id`

// GetByID fetches an order with its line items. A non-empty userID
// restricts the lookup to that buyer's orders; another buyer's order id
// comes back as not found, not forbidden.
func (r *repository) GetByID(
	ctx context.Context,
	id, userID string,
) (*OrderRow, []DetailRow, error) {
	conditions := []string{"o.id = $1"}
	args := []any{id}
	if userID != "" {
		conditions = append(conditions, "o.users_id = $2")
		args = append(args, userID)
	}

	query := `SELECT` + orderColumns + orderJoins + `
		WHERE ` + strings.Join(conditions, " AND ")

	var row OrderRow
	err := r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get order: %w", err)
	}

	detailQuery := `
		SELECT d.id, d.orders_id, d.artworks_id, d.line_no, d.quantity, d.price,
		       a.title, a.images, u.name AS artist_name
		FROM order_details d
		LEFT JOIN artworks a ON a.id = d.artworks_id
		LEFT JOIN artists ar ON ar.id = a.artist_id
		LEFT JOIN users u ON u.id = ar.user_id
		WHERE d.orders_id = $1
		ORDER BY d.line_no`

	details := []DetailRow{}
	if err := r.db.SelectContext(ctx, &details, detailQuery, id); err != nil {
		return nil, nil, fmt.Errorf("get order details: %w", err)
	}

	return &row, details, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
	params ListOrdersParams,
) ([]OrderRow, int, error) {
	conditions := []string{"o.users_id = $1"}
	args := []any{userID}
	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}

	return r.list(ctx, strings.Join(conditions, " AND "), args, params)
}

func (r *repository) ListAll(
	ctx context.Context,
	params ListOrdersParams,
) ([]OrderRow, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	if params.Status != nil {
		args = append(args, *params.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}

	return r.list(ctx, strings.Join(conditions, " AND "), args, params)
}

func (r *repository) list(
	ctx context.Context,
	where string,
	args []any,
	params ListOrdersParams,
) ([]OrderRow, int, error) {
	countQuery := `SELECT COUNT(*)` + orderJoins + ` WHERE ` + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT%s%s WHERE %s ORDER BY o.order_date DESC LIMIT $%d OFFSET $%d`,
		orderColumns, orderJoins, where, len(args)+1, len(args)+2,
	)
	args = append(args, params.PageSize, params.Offset())

	rows := []OrderRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return rows, total, nil
}

// CancelOrder removes a pending order and its line items. The order row
// is locked first so a concurrent fulfillment update cannot race the
// delete. Only the owning buyer's pending orders qualify.
func (r *repository) CancelOrder(ctx context.Context, id, userID string) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var status OrderStatus
		err := tx.GetContext(ctx, &status,
			`SELECT status FROM orders WHERE id = $1 AND users_id = $2 FOR UPDATE`,
			id, userID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		if status != StatusPending {
			return fmt.Errorf(
				"only pending orders can be canceled: %w", core.ErrInvalidState,
			)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM order_details WHERE orders_id = $1`, id,
		); err != nil {
			return fmt.Errorf("delete order details: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM orders WHERE id = $1`, id,
		); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}

	return nil
}

// UpdateStatus advances fulfillment with optimistic concurrency. The row
// is locked, the caller's version is compared against the stored one,
// and the transition is checked against the lifecycle table before the
// update bumps the version.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	next OrderStatus,
	expectedVersion int,
) (*Order, error) {
	var updated Order

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current struct {
			Status  OrderStatus `db:"status"`
			Version int         `db:"version"`
		}
		err := tx.GetContext(ctx, &current,
			`SELECT status, version FROM orders WHERE id = $1 FOR UPDATE`, id,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock order: %w", err)
		}

		if current.Version != expectedVersion {
			return fmt.Errorf(
				"order was modified concurrently: %w", core.ErrConflict,
			)
		}

		if !current.Status.CanTransitionTo(next) {
			return fmt.Errorf(
				"cannot move order from %s to %s: %w",
				current.Status, next, core.ErrInvalidState,
			)
		}

		err = tx.GetContext(ctx, &updated,
			`UPDATE orders
			 SET status = $1, version = version + 1
			 WHERE id = $2 AND version = $3
			 RETURNING id, users_id, order_date, total_amount, status,
			           phone, address, note, code, version`,
			next, id, expectedVersion,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf(
				"order was modified concurrently: %w", core.ErrConflict,
			)
		}
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	return &updated, nil
}
