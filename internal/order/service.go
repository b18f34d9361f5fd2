// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create places an order for the calling buyer. Duplicate artwork lines
// are rejected up front; pricing, availability and the total check all
// happen inside the repository transaction.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateOrderRequest,
) (*OrderRow, []DetailRow, error) {
	clientTotal, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return nil, nil, fmt.Errorf("parse total amount: %w", core.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(req.Items))
	items := make([]OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		if seen[item.ArtworkID] {
			return nil, nil, fmt.Errorf(
				"duplicate artwork %s in order: %w",
				item.ArtworkID, core.ErrInvalidInput,
			)
		}
		seen[item.ArtworkID] = true
		items = append(items, OrderItemInput{
			ArtworkID: item.ArtworkID,
			Quantity:  item.Quantity,
		})
	}

	// A caller-supplied code is kept as-is for receipts; otherwise one
	// is minted. Neither is a uniqueness key.
	code := req.Code
	if code == "" {
		code = newOrderCode()
	}

	order := &Order{
		ID:      uuid.New().String(),
		UserID:  userID,
		Status:  StatusPending,
		Phone:   req.Phone,
		Address: req.Address,
		Note:    req.Note,
		Code:    code,
	}

	if err := s.repo.CreateOrder(ctx, order, items, clientTotal); err != nil {
		return nil, nil, err
	}

	return s.repo.GetByID(ctx, order.ID, userID)
}

// Get returns an order with its line items. Buyers only see their own
// orders; admins see any.
func (s *Service) Get(
	ctx context.Context,
	orderID, userID string,
	isAdmin bool,
) (*OrderRow, []DetailRow, error) {
	if isAdmin {
		userID = ""
	}
	return s.repo.GetByID(ctx, orderID, userID)
}

func (s *Service) ListMine(
	ctx context.Context,
	userID string,
	params ListOrdersParams,
) ([]OrderRow, int, error) {
	params.Normalize()
	return s.repo.ListForUser(ctx, userID, params)
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListOrdersParams,
) ([]OrderRow, int, error) {
	params.Normalize()
	return s.repo.ListAll(ctx, params)
}

// Cancel removes the caller's pending order entirely. Orders that have
// entered fulfillment cannot be canceled by the buyer.
func (s *Service) Cancel(ctx context.Context, orderID, userID string) error {
	return s.repo.CancelOrder(ctx, orderID, userID)
}

// UpdateStatus moves an order through fulfillment on behalf of an admin.
func (s *Service) UpdateStatus(
	ctx context.Context,
	orderID string,
	req UpdateOrderStatusRequest,
) (*Order, error) {
	next := OrderStatus(req.Status)
	if !next.Valid() {
		return nil, fmt.Errorf("invalid order status %d: %w", req.Status, core.ErrInvalidInput)
	}

	return s.repo.UpdateStatus(ctx, orderID, next, req.Version)
}

// newOrderCode mints a short human-readable reference for receipts and
// support lookups. Uniqueness is probabilistic; the order id stays the
// real key.
func newOrderCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "AZ-" + strings.ToUpper(uuid.New().String()[:8])
	}
	return "AZ-" + strings.ToUpper(hex.EncodeToString(buf))
}
