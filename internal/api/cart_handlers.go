package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skarnov/go-pos/internal/cart"
	"github.com/skarnov/go-pos/internal/checkout"
	"github.com/skarnov/go-pos/internal/infrastructure/store"
	"github.com/skarnov/go-pos/internal/money"
	"github.com/skarnov/go-pos/internal/pricing"
	"github.com/skarnov/go-pos/internal/api/middleware"
)

// ProductSource resolves the product snapshot captured into a cart line.
type ProductSource interface {
	Get(ctx context.Context, id string) (*store.Product, error)
}

// RatesSource supplies the settings the pricing rates derive from.
type RatesSource interface {
	All(ctx context.Context) (map[string]string, error)
}

type CartHandlers struct {
	carts    *cart.Service
	products ProductSource
	rates    RatesSource
}

func NewCartHandlers(carts *cart.Service, products ProductSource, rates RatesSource) *CartHandlers {
	return &CartHandlers{carts: carts, products: products, rates: rates}
}

type cartResponse struct {
	Lines     []cart.Line `json:"lines"`
	ItemCount int         `json:"item_count"`
}

func newCartResponse(lines []cart.Line) cartResponse {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	return cartResponse{Lines: lines, ItemCount: count}
}

func (h *CartHandlers) Get(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserID(r.Context())
	respondJSON(w, http.StatusOK, newCartResponse(h.carts.Get(r.Context(), owner)))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

// AddItem snapshots the product into the cart line. The line keeps the
// name and price as they were at add time.
func (h *CartHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondJSONError(w, "product_id is required", http.StatusBadRequest)
		return
	}

	product, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	lines, err := h.carts.AddItem(r.Context(), middleware.GetUserID(r.Context()), cart.Product{
		ID:        product.ID,
		Name:      product.Name,
		SalePrice: money.Format(product.SalePrice),
		Image:     product.Image,
	})
	if err != nil {
		respondJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(lines))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandlers) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	owner := middleware.GetUserID(r.Context())
	lines := h.carts.UpdateQuantity(r.Context(), owner, chi.URLParam(r, "productID"), req.Quantity)
	respondJSON(w, http.StatusOK, newCartResponse(lines))
}

func (h *CartHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	owner := middleware.GetUserID(r.Context())
	lines := h.carts.RemoveItem(r.Context(), owner, chi.URLParam(r, "productID"))
	respondJSON(w, http.StatusOK, newCartResponse(lines))
}

func (h *CartHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(r.Context(), middleware.GetUserID(r.Context()))
	respondJSON(w, http.StatusOK, newCartResponse(nil))
}

// Summary prices the current cart without touching it, so the client can
// preview the totals while the cashier adjusts the discount.
func (h *CartHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	discount := 0.0
	if raw := r.URL.Query().Get("discount"); raw != "" {
		parsed, err := money.Parse(raw)
		if err != nil || parsed < 0 || parsed > 100 {
			respondJSONError(w, "invalid discount", http.StatusBadRequest)
			return
		}
		discount = parsed
	}

	owner := middleware.GetUserID(r.Context())
	lines := h.carts.Get(r.Context(), owner)
	breakdown := pricing.Compute(lines, loadRates(r.Context(), h.rates), discount)
	respondJSON(w, http.StatusOK, breakdown.Display())
}

// loadRates falls back to the default rates when settings are unreadable;
// a pricing preview should render rather than error.
func loadRates(ctx context.Context, source RatesSource) pricing.Rates {
	settings, err := source.All(ctx)
	if err != nil {
		log.Printf("[Cart] Falling back to default rates: %v", err)
		return pricing.Rates{VAT: pricing.DefaultVATRate, Tax: pricing.DefaultTaxRate}
	}
	return pricing.RatesFrom(settings["vat_percentage"], settings["tax_percentage"])
}

type CheckoutHandlers struct {
	submitter *checkout.Submitter
	rates     RatesSource
}

func NewCheckoutHandlers(submitter *checkout.Submitter, rates RatesSource) *CheckoutHandlers {
	return &CheckoutHandlers{submitter: submitter, rates: rates}
}

type checkoutRequest struct {
	Discount   any    `json:"discount"`
	CustomerID string `json:"customer_id"`
}

func (h *CheckoutHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	discount := 0.0
	if req.Discount != nil {
		parsed, err := money.Parse(req.Discount)
		if err != nil {
			respondJSONError(w, "invalid discount", http.StatusBadRequest)
			return
		}
		discount = parsed
	}

	owner := middleware.GetUserID(r.Context())
	receipt, err := h.submitter.Submit(r.Context(), owner, checkout.Request{
		DiscountPercent: discount,
		CustomerID:      req.CustomerID,
		Rates:           loadRates(r.Context(), h.rates),
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrCheckoutInFlight):
			respondJSONError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrInvalidDiscount),
			errors.Is(err, checkout.ErrInvalidLinePrice):
			respondJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("[Checkout] Submit failed for %s: %v", owner, err)
			respondJSONError(w, "checkout failed", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}
