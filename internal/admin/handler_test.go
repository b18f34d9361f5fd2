// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	overview Overview
}

func (f *fakeRepository) Overview(_ context.Context) (*Overview, error) {
	o := f.overview
	return &o, nil
}

func testRouter(repo Repository) chi.Router {
	h := NewHandler(HandlerConfig{Repo: repo})

	r := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	h.RegisterRoutes(r, passthrough, passthrough)
	return r
}

func TestMarketplaceOverview(t *testing.T) {
	repo := &fakeRepository{overview: Overview{
		TotalUsers:       12,
		TotalArtists:     4,
		PendingArtworks:  3,
		ApprovedArtworks: 20,
		PendingOrders:    2,
		DeliveredOrders:  9,
		DeliveredRevenue: decimal.RequireFromString("1234.50"),
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats/marketplace", nil)
	testRouter(repo).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool     `json:"success"`
		Data    Overview `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.Equal(t, 12, envelope.Data.TotalUsers)
	require.Equal(t, 3, envelope.Data.PendingArtworks)
	require.True(t,
		envelope.Data.DeliveredRevenue.Equal(
			decimal.RequireFromString("1234.50")))
}

func TestRuntimeStats(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats/runtime", nil)
	testRouter(&fakeRepository{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool         `json:"success"`
		Data    RuntimeStats `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.GoVersion)
	require.Positive(t, envelope.Data.NumCPU)
}
