// AngelaMos | 2026
// dto.go

package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ArtworkID string `json:"artwork_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity"   validate:"required,min=1,max=100"`
}

type CreateOrderRequest struct {
	Items       []OrderItemRequest `json:"items"          validate:"required,min=1,max=50,dive"`
	TotalAmount string             `json:"total_amount"   validate:"required"`
	Phone       string             `json:"phone"          validate:"required,max=32"`
	Address     string             `json:"address"        validate:"required,max=500"`
	Note        string             `json:"note,omitempty" validate:"omitempty,max=1000"`
	Code        string             `json:"code,omitempty" validate:"omitempty,max=32"`
}

// UpdateOrderStatusRequest moves an order through fulfillment. Version
// is the version the caller last read; a stale value is rejected.
type UpdateOrderStatusRequest struct {
	Status  int `json:"status"  validate:"min=0,max=3"`
	Version int `json:"version" validate:"min=0"`
}

type ListOrdersParams struct {
	Page     int
	PageSize int
	Status   *OrderStatus
}

func (p *ListOrdersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListOrdersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type OrderItemResponse struct {
	ID           string          `json:"id"`
	ArtworkID    string          `json:"artwork_id"`
	Title        string          `json:"title"`
	PrimaryImage string          `json:"primary_image,omitempty"`
	ArtistName   string          `json:"artist_name,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	BuyerName   string              `json:"buyer_name,omitempty"`
	Code        string              `json:"code"`
	OrderDate   time.Time           `json:"order_date"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      int                 `json:"status"`
	StatusLabel string              `json:"status_label"`
	Phone       string              `json:"phone"`
	Address     string              `json:"address"`
	Note        string              `json:"note,omitempty"`
	Version     int                 `json:"version"`
	ItemCount   int                 `json:"item_count"`
	Items       []OrderItemResponse `json:"items,omitempty"`
}

// OrderRow joins the buyer's name and the line item count onto the order
// for list queries.
type OrderRow struct {
	Order
	BuyerName string `db:"buyer_name"`
	ItemCount int    `db:"item_count"`
}

// DetailRow enriches a line item with the current catalog metadata. The
// joins are LEFT joins: the artwork may have been deleted since checkout,
// in which case only the frozen snapshot remains.
type DetailRow struct {
	OrderDetail
	Title      *string `db:"title"`
	Images     *string `db:"images"`
	ArtistName *string `db:"artist_name"`
}

func (d *DetailRow) ToResponse() OrderItemResponse {
	resp := OrderItemResponse{
		ID:        d.ID,
		ArtworkID: d.ArtworkID,
		Title:     "(no longer available)",
		Quantity:  d.Quantity,
		Price:     d.Price,
		LineTotal: d.LineTotal(),
	}
	if d.Title != nil {
		resp.Title = *d.Title
	}
	if d.Images != nil && *d.Images != "" {
		resp.PrimaryImage, _, _ = strings.Cut(*d.Images, ";")
	}
	if d.ArtistName != nil {
		resp.ArtistName = *d.ArtistName
	}
	return resp
}

func ToOrderResponse(row *OrderRow, details []DetailRow) OrderResponse {
	resp := OrderResponse{
		ID:          row.ID,
		UserID:      row.UserID,
		BuyerName:   row.BuyerName,
		Code:        row.Code,
		OrderDate:   row.OrderDate,
		TotalAmount: row.TotalAmount,
		Status:      int(row.Status),
		StatusLabel: row.Status.String(),
		Phone:       row.Phone,
		Address:     row.Address,
		Note:        row.Note,
		Version:     row.Version,
		ItemCount:   row.ItemCount,
	}
	if details != nil {
		resp.Items = make([]OrderItemResponse, len(details))
		for i := range details {
			resp.Items[i] = details[i].ToResponse()
		}
		resp.ItemCount = len(details)
	}
	return resp
}

func ToOrderResponseList(rows []OrderRow) []OrderResponse {
	out := make([]OrderResponse, len(rows))
	for i := range rows {
		out[i] = ToOrderResponse(&rows[i], nil)
	}
	return out
}
