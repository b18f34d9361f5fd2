// AngelaMos | 2026
// service_test.go

package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/syxphajm/artzone-sub000/internal/core"
)

type fakeRepository struct {
	orders   map[string]*OrderRow
	details  map[string][]DetailRow
	catalog  map[string]fakeArtwork
	canceled []string
}

type fakeArtwork struct {
	price    decimal.Decimal
	approved bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders:  make(map[string]*OrderRow),
		details: make(map[string][]DetailRow),
		catalog: make(map[string]fakeArtwork),
	}
}

func (f *fakeRepository) CreateOrder(
	_ context.Context,
	order *Order,
	items []OrderItemInput,
	clientTotal decimal.Decimal,
) error {
	total := decimal.Zero
	details := make([]DetailRow, 0, len(items))

	for _, item := range items {
		art, ok := f.catalog[item.ArtworkID]
		if !ok {
			return fmt.Errorf("artwork %s: %w", item.ArtworkID, core.ErrNotFound)
		}
		if !art.approved {
			return fmt.Errorf(
				"artwork %s is not available for purchase: %w",
				item.ArtworkID, core.ErrInvalidInput,
			)
		}
		total = total.Add(art.price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		details = append(details, DetailRow{
			OrderDetail: OrderDetail{
				ID:        fmt.Sprintf("detail-%d", len(details)),
				OrderID:   order.ID,
				ArtworkID: item.ArtworkID,
				Quantity:  item.Quantity,
				Price:     art.price,
			},
		})
	}

	if !total.Equal(clientTotal) {
		return fmt.Errorf("total amount mismatch: %w", core.ErrInvalidInput)
	}

	order.TotalAmount = total
	f.orders[order.ID] = &OrderRow{Order: *order, ItemCount: len(details)}
	f.details[order.ID] = details
	return nil
}

func (f *fakeRepository) GetByID(
	_ context.Context,
	id, userID string,
) (*OrderRow, []DetailRow, error) {
	row, ok := f.orders[id]
	if !ok || (userID != "" && row.UserID != userID) {
		return nil, nil, fmt.Errorf("get order: %w", core.ErrNotFound)
	}
	return row, f.details[id], nil
}

func (f *fakeRepository) ListForUser(
	_ context.Context,
	userID string,
	_ ListOrdersParams,
) ([]OrderRow, int, error) {
	rows := []OrderRow{}
	for _, row := range f.orders {
		if row.UserID == userID {
			rows = append(rows, *row)
		}
	}
	return rows, len(rows), nil
}

func (f *fakeRepository) ListAll(
	_ context.Context,
	_ ListOrdersParams,
) ([]OrderRow, int, error) {
	rows := []OrderRow{}
	for _, row := range f.orders {
		rows = append(rows, *row)
	}
	return rows, len(rows), nil
}

func (f *fakeRepository) CancelOrder(_ context.Context, id, userID string) error {
	row, ok := f.orders[id]
	if !ok || row.UserID != userID {
		return fmt.Errorf("cancel order: %w", core.ErrNotFound)
	}
	if row.Status != StatusPending {
		return fmt.Errorf("only pending orders can be canceled: %w", core.ErrInvalidState)
	}
	delete(f.orders, id)
	delete(f.details, id)
	f.canceled = append(f.canceled, id)
	return nil
}

func (f *fakeRepository) UpdateStatus(
	_ context.Context,
	id string,
	next OrderStatus,
	expectedVersion int,
) (*Order, error) {
	row, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("update status: %w", core.ErrNotFound)
	}
	if row.Version != expectedVersion {
		return nil, fmt.Errorf("order was modified concurrently: %w", core.ErrConflict)
	}
	if !row.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf(
			"cannot move order from %s to %s: %w",
			row.Status, next, core.ErrInvalidState,
		)
	}
	row.Status = next
	row.Version++
	return &row.Order, nil
}

func validCreateRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Items: []OrderItemRequest{
			{ArtworkID: "art-1", Quantity: 2},
			{ArtworkID: "art-2", Quantity: 1},
		},
		TotalAmount: "350.00",
		Phone:       "555-0100",
		Address:     "12 Gallery Row",
	}
}

func seededService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	repo.catalog["art-1"] = fakeArtwork{
		price:    decimal.RequireFromString("100.00"),
		approved: true,
	}
	repo.catalog["art-2"] = fakeArtwork{
		price:    decimal.RequireFromString("150.00"),
		approved: true,
	}
	return NewService(repo), repo
}

func TestCreateOrder(t *testing.T) {
	svc, repo := seededService()

	row, details, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	require.Equal(t, "buyer-1", row.UserID)
	require.Equal(t, StatusPending, row.Status)
	require.True(t, row.TotalAmount.Equal(decimal.RequireFromString("350.00")))
	require.NotEmpty(t, row.Code)
	require.Len(t, details, 2)
	require.Len(t, repo.orders, 1)
}

func TestCreateOrderTotalMismatch(t *testing.T) {
	svc, repo := seededService()

	req := validCreateRequest()
	req.TotalAmount = "1.00"

	_, _, err := svc.Create(context.Background(), "buyer-1", req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	require.Empty(t, repo.orders)
}

func TestCreateOrderUnparsableTotal(t *testing.T) {
	svc, _ := seededService()

	req := validCreateRequest()
	req.TotalAmount = "not-a-number"

	_, _, err := svc.Create(context.Background(), "buyer-1", req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestCreateOrderDuplicateArtwork(t *testing.T) {
	svc, repo := seededService()

	req := validCreateRequest()
	req.Items = []OrderItemRequest{
		{ArtworkID: "art-1", Quantity: 1},
		{ArtworkID: "art-1", Quantity: 2},
	}

	_, _, err := svc.Create(context.Background(), "buyer-1", req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	require.Empty(t, repo.orders)
}

func TestCreateOrderUnknownArtwork(t *testing.T) {
	svc, repo := seededService()

	req := validCreateRequest()
	req.Items = append(req.Items, OrderItemRequest{ArtworkID: "art-999", Quantity: 1})

	_, _, err := svc.Create(context.Background(), "buyer-1", req)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.Empty(t, repo.orders, "no partial order may survive a failed item")
}

func TestCreateOrderUnapprovedArtwork(t *testing.T) {
	svc, repo := seededService()
	repo.catalog["art-3"] = fakeArtwork{
		price:    decimal.RequireFromString("60.00"),
		approved: false,
	}

	req := validCreateRequest()
	req.Items = []OrderItemRequest{{ArtworkID: "art-3", Quantity: 1}}
	req.TotalAmount = "60.00"

	_, _, err := svc.Create(context.Background(), "buyer-1", req)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	require.Empty(t, repo.orders)
}

func TestGetOrderOwnership(t *testing.T) {
	svc, _ := seededService()

	row, _, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	_, _, err = svc.Get(context.Background(), row.ID, "buyer-1", false)
	require.NoError(t, err)

	// Another buyer sees not-found, not forbidden.
	_, _, err = svc.Get(context.Background(), row.ID, "buyer-2", false)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, _, err = svc.Get(context.Background(), row.ID, "admin-1", true)
	require.NoError(t, err)
}

func TestCancelOrder(t *testing.T) {
	svc, repo := seededService()

	row, _, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), row.ID, "buyer-1"))
	require.Empty(t, repo.orders)
	require.Empty(t, repo.details)
}

func TestCancelOrderWrongOwner(t *testing.T) {
	svc, _ := seededService()

	row, _, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), row.ID, "buyer-2")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestCancelOrderNotPending(t *testing.T) {
	svc, repo := seededService()

	row, _, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	repo.orders[row.ID].Status = StatusProcessing

	err = svc.Cancel(context.Background(), row.ID, "buyer-1")
	require.ErrorIs(t, err, core.ErrInvalidState)
	require.Len(t, repo.orders, 1)
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := seededService()

	row, _, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), row.ID, UpdateOrderStatusRequest{
		Status:  int(StatusProcessing),
		Version: 0,
	})
	require.NoError(t, err)
	require.Equal(t, StatusProcessing, updated.Status)
	require.Equal(t, 1, updated.Version)
}

func TestUpdateStatusStaleVersion(t *testing.T) {
	svc, _ := seededService()

	row, _, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), row.ID, UpdateOrderStatusRequest{
		Status:  int(StatusProcessing),
		Version: 0,
	})
	require.NoError(t, err)

	// Replaying the same version must fail after the first update bumped it.
	_, err = svc.UpdateStatus(context.Background(), row.ID, UpdateOrderStatusRequest{
		Status:  int(StatusCanceled),
		Version: 0,
	})
	require.ErrorIs(t, err, core.ErrConflict)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	svc, _ := seededService()

	row, _, err := svc.Create(context.Background(), "buyer-1", validCreateRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), row.ID, UpdateOrderStatusRequest{
		Status:  int(StatusDelivered),
		Version: 0,
	})
	require.ErrorIs(t, err, core.ErrInvalidState)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	svc, _ := seededService()

	_, err := svc.UpdateStatus(context.Background(), "order-1", UpdateOrderStatusRequest{
		Status:  7,
		Version: 0,
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}
