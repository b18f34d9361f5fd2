// AngelaMos | 2026
// entity.go

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus walks an order through fulfillment. Pending orders may be
// canceled by the buyer; Delivered and Canceled are terminal.
type OrderStatus int

const (
	StatusPending    OrderStatus = 0
	StatusProcessing OrderStatus = 1
	StatusDelivered  OrderStatus = 2
	StatusCanceled   OrderStatus = 3
)

func (s OrderStatus) Valid() bool {
	return s >= StatusPending && s <= StatusCanceled
}

func (s OrderStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusDelivered:
		return "delivered"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCanceled},
	StatusProcessing: {StatusDelivered, StatusCanceled},
	StatusDelivered:  {},
	StatusCanceled:   {},
}

// CanTransitionTo reports whether fulfillment may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

type Order struct {
	ID          string          `db:"id"           json:"id"`
	UserID      string          `db:"users_id"     json:"user_id"`
	OrderDate   time.Time       `db:"order_date"   json:"order_date"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status      OrderStatus     `db:"status"       json:"status"`
	Phone       string          `db:"phone"        json:"phone"`
	Address     string          `db:"address"      json:"address"`
	Note        string          `db:"note"         json:"note"`
	Code        string          `db:"code"         json:"code"`
	Version     int             `db:"version"      json:"version"`
}

// OrderDetail is a frozen line item. Price and the artwork reference are
// captured at checkout and never follow later catalog edits or deletes.
// LineNo preserves the checkout sequence the buyer submitted.
type OrderDetail struct {
	ID        string          `db:"id"          json:"id"`
	OrderID   string          `db:"orders_id"   json:"order_id"`
	ArtworkID string          `db:"artworks_id" json:"artwork_id"`
	LineNo    int             `db:"line_no"     json:"line_no"`
	Quantity  int             `db:"quantity"    json:"quantity"`
	Price     decimal.Decimal `db:"price"       json:"price"`
}

// LineTotal is the detail's contribution to the order total.
func (d *OrderDetail) LineTotal() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
