package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarnov/go-pos/internal/api/middleware"
	"github.com/skarnov/go-pos/internal/auth"
	"github.com/skarnov/go-pos/internal/cart"
	"github.com/skarnov/go-pos/internal/checkout"
	"github.com/skarnov/go-pos/internal/infrastructure/store"
	"github.com/skarnov/go-pos/internal/pricing"
)

// fakeProducts implements ProductSource over a fixed map
type fakeProducts struct {
	products map[string]*store.Product
}

func (f *fakeProducts) Get(_ context.Context, id string) (*store.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

// fakeRates implements RatesSource
type fakeRates struct {
	settings map[string]string
	err      error
}

func (f *fakeRates) All(_ context.Context) (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings, nil
}

// fakeRecorder implements checkout.SaleRecorder
type fakeRecorder struct {
	recorded *checkout.Sale
	err      error
}

func (f *fakeRecorder) RecordSale(_ context.Context, sale checkout.Sale) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.recorded = &sale
	return "sale-1", "INV-000001", nil
}

type cartFixture struct {
	handlers *CartHandlers
	checkout *CheckoutHandlers
	carts    *cart.Service
	slot     *cart.MemorySlot
	recorder *fakeRecorder
	router   chi.Router
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	slot := cart.NewMemorySlot()
	carts := cart.NewService(slot)
	products := &fakeProducts{products: map[string]*store.Product{
		"p1": {ID: "p1", Name: "Coffee", SalePrice: 12.75},
		"p2": {ID: "p2", Name: "Beans", SalePrice: 6.00},
	}}
	rates := &fakeRates{settings: map[string]string{
		"vat_percentage": "0.5",
		"tax_percentage": "0.7",
	}}
	recorder := &fakeRecorder{}
	submitter := checkout.NewSubmitter(carts, recorder, nil)

	f := &cartFixture{
		handlers: NewCartHandlers(carts, products, rates),
		checkout: NewCheckoutHandlers(submitter, rates),
		carts:    carts,
		slot:     slot,
		recorder: recorder,
	}

	r := chi.NewRouter()
	r.Get("/api/cart", f.handlers.Get)
	r.Delete("/api/cart", f.handlers.Clear)
	r.Get("/api/cart/summary", f.handlers.Summary)
	r.Post("/api/cart/items", f.handlers.AddItem)
	r.Patch("/api/cart/items/{productID}", f.handlers.UpdateQuantity)
	r.Delete("/api/cart/items/{productID}", f.handlers.RemoveItem)
	r.Post("/api/checkout", f.checkout.Submit)
	f.router = r

	return f
}

func (f *cartFixture) do(t *testing.T, method, target, body, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, &auth.Claims{
		UserID: userID,
		Role:   "cashier",
	})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var resp cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ============================================================
// Cart endpoints
// ============================================================

func TestCartHandlers_GetEmptyCart(t *testing.T) {
	f := newCartFixture(t)

	rec := f.do(t, http.MethodGet, "/api/cart", "", "user-1")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	assert.Empty(t, resp.Lines)
	assert.Equal(t, 0, resp.ItemCount)
}

func TestCartHandlers_AddItemSnapshotsProduct(t *testing.T) {
	f := newCartFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCart(t, rec)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "p1", resp.Lines[0].ProductID)
	assert.Equal(t, "Coffee", resp.Lines[0].Name)
	assert.Equal(t, "12.75", resp.Lines[0].SalePrice)
	assert.Equal(t, 1, resp.Lines[0].Quantity)
}

func TestCartHandlers_AddItemTwiceIncrementsQuantity(t *testing.T) {
	f := newCartFixture(t)

	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")
	rec := f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	resp := decodeCart(t, rec)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.Equal(t, 2, resp.ItemCount)
}

func TestCartHandlers_AddItemUnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"nope"}`, "user-1")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandlers_AddItemMissingProductID(t *testing.T) {
	f := newCartFixture(t)

	rec := f.do(t, http.MethodPost, "/api/cart/items", `{}`, "user-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandlers_UpdateQuantity(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	rec := f.do(t, http.MethodPatch, "/api/cart/items/p1", `{"quantity":5}`, "user-1")

	resp := decodeCart(t, rec)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 5, resp.Lines[0].Quantity)
}

func TestCartHandlers_UpdateQuantityBelowOneIsNoOp(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	rec := f.do(t, http.MethodPatch, "/api/cart/items/p1", `{"quantity":0}`, "user-1")

	resp := decodeCart(t, rec)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 1, resp.Lines[0].Quantity)
}

func TestCartHandlers_RemoveItem(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p2"}`, "user-1")

	rec := f.do(t, http.MethodDelete, "/api/cart/items/p1", "", "user-1")

	resp := decodeCart(t, rec)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "p2", resp.Lines[0].ProductID)
}

func TestCartHandlers_ClearDeletesSlot(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")
	require.True(t, f.slot.Has("user-1"))

	rec := f.do(t, http.MethodDelete, "/api/cart", "", "user-1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.slot.Has("user-1"))
}

func TestCartHandlers_CartsAreIsolatedPerUser(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	rec := f.do(t, http.MethodGet, "/api/cart", "", "user-2")

	resp := decodeCart(t, rec)
	assert.Empty(t, resp.Lines)
}

// ============================================================
// Cart summary
// ============================================================

func TestCartHandlers_SummaryWithDiscount(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	rec := f.do(t, http.MethodGet, "/api/cart/summary?discount=10", "", "user-1")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp pricing.DisplayBreakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "25.50", resp.Subtotal)
	assert.Equal(t, "0.13", resp.VAT)
	assert.Equal(t, "0.18", resp.Tax)
	assert.Equal(t, "2.55", resp.Discount)
	assert.Equal(t, "23.26", resp.Total)
}

func TestCartHandlers_SummaryInvalidDiscount(t *testing.T) {
	f := newCartFixture(t)

	rec := f.do(t, http.MethodGet, "/api/cart/summary?discount=120", "", "user-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartHandlers_SummaryUsesDefaultRatesWhenSettingsUnreadable(t *testing.T) {
	f := newCartFixture(t)
	f.handlers.rates = &fakeRates{err: errors.New("db down")}
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p2"}`, "user-1")

	rec := f.do(t, http.MethodGet, "/api/cart/summary", "", "user-1")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp pricing.DisplayBreakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "6.00", resp.Subtotal)
	assert.Equal(t, "0.03", resp.VAT)
	assert.Equal(t, "0.04", resp.Tax)
}

// ============================================================
// Checkout
// ============================================================

func TestCheckoutHandlers_Submit(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	rec := f.do(t, http.MethodPost, "/api/checkout", `{"discount":10,"customer_id":"c-9"}`, "user-1")

	require.Equal(t, http.StatusCreated, rec.Code)
	var receipt checkout.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "sale-1", receipt.SaleID)
	assert.Equal(t, "INV-000001", receipt.InvoiceNo)
	assert.Equal(t, "23.26", receipt.Breakdown.Total)

	require.NotNil(t, f.recorder.recorded)
	assert.Equal(t, "c-9", f.recorder.recorded.CustomerID)
	assert.Equal(t, "user-1", f.recorder.recorded.CashierID)

	// cart is cleared once the sale is durable
	assert.Empty(t, f.carts.Get(context.Background(), "user-1"))
	assert.False(t, f.slot.Has("user-1"))
}

func TestCheckoutHandlers_SubmitEmptyCart(t *testing.T) {
	f := newCartFixture(t)

	rec := f.do(t, http.MethodPost, "/api/checkout", `{}`, "user-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandlers_SubmitInvalidDiscount(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")

	rec := f.do(t, http.MethodPost, "/api/checkout", `{"discount":"abc"}`, "user-1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandlers_SubmitRecorderFailureKeepsCart(t *testing.T) {
	f := newCartFixture(t)
	f.do(t, http.MethodPost, "/api/cart/items", `{"product_id":"p1"}`, "user-1")
	f.recorder.err = errors.New("db down")

	rec := f.do(t, http.MethodPost, "/api/checkout", `{}`, "user-1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, f.carts.Get(context.Background(), "user-1"), 1)
}
