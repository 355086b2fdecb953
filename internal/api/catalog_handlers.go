package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skarnov/go-pos/internal/infrastructure/store"
	"github.com/skarnov/go-pos/internal/money"
)

// CatalogHandlers serves the product, category, and stock screens.
type CatalogHandlers struct {
	products   *store.ProductRepo
	categories *store.CategoryRepo
	stocks     *store.StockRepo
}

func NewCatalogHandlers(products *store.ProductRepo, categories *store.CategoryRepo, stocks *store.StockRepo) *CatalogHandlers {
	return &CatalogHandlers{products: products, categories: categories, stocks: stocks}
}

// Category Handlers

type categoryRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (h *CatalogHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondJSONError(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}

	category, err := h.categories.Create(r.Context(), req.Name, req.Status)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (h *CatalogHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *CatalogHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Status); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category updated"})
}

func (h *CatalogHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// Product Handlers

// productRequest accepts the price as either a number or a formatted
// string; the money parser normalizes it.
type productRequest struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	SalePrice  any    `json:"sale_price"`
	Image      string `json:"image"`
	Status     string `json:"status"`
}

func (h *CatalogHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondJSONError(w, "name is required", http.StatusBadRequest)
		return
	}
	price, err := money.Parse(req.SalePrice)
	if err != nil {
		respondJSONError(w, "invalid sale_price", http.StatusBadRequest)
		return
	}

	product, err := h.products.Create(r.Context(), &store.Product{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		SalePrice:  price,
		Image:      req.Image,
		Status:     req.Status,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}
	price, err := money.Parse(req.SalePrice)
	if err != nil {
		respondJSONError(w, "invalid sale_price", http.StatusBadRequest)
		return
	}

	err = h.products.Update(r.Context(), &store.Product{
		ID:         chi.URLParam(r, "id"),
		CategoryID: req.CategoryID,
		Name:       req.Name,
		SalePrice:  price,
		Image:      req.Image,
		Status:     req.Status,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
}

func (h *CatalogHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// Stock Handlers

type stockRequest struct {
	ProductID   string `json:"product_id"`
	BuyPrice    any    `json:"buy_price"`
	SalePrice   any    `json:"sale_price"`
	InQuantity  int    `json:"in_quantity"`
	OutQuantity int    `json:"out_quantity"`
}

func (h *CatalogHandlers) stockFromRequest(w http.ResponseWriter, r *http.Request) (*store.Stock, bool) {
	var req stockRequest
	if !decodeBody(w, r, &req) {
		return nil, false
	}
	if req.ProductID == "" {
		respondJSONError(w, "product_id is required", http.StatusBadRequest)
		return nil, false
	}
	if req.InQuantity < 0 || req.OutQuantity < 0 {
		respondJSONError(w, "quantities must not be negative", http.StatusBadRequest)
		return nil, false
	}
	buyPrice, err := money.Parse(req.BuyPrice)
	if err != nil {
		respondJSONError(w, "invalid buy_price", http.StatusBadRequest)
		return nil, false
	}
	salePrice, err := money.Parse(req.SalePrice)
	if err != nil {
		respondJSONError(w, "invalid sale_price", http.StatusBadRequest)
		return nil, false
	}
	return &store.Stock{
		ProductID:   req.ProductID,
		BuyPrice:    buyPrice,
		SalePrice:   salePrice,
		InQuantity:  req.InQuantity,
		OutQuantity: req.OutQuantity,
	}, true
}

func (h *CatalogHandlers) CreateStock(w http.ResponseWriter, r *http.Request) {
	stock, ok := h.stockFromRequest(w, r)
	if !ok {
		return
	}

	created, err := h.stocks.Create(r.Context(), stock)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *CatalogHandlers) ListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stocks.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stocks)
}

func (h *CatalogHandlers) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := h.stocks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (h *CatalogHandlers) UpdateStock(w http.ResponseWriter, r *http.Request) {
	stock, ok := h.stockFromRequest(w, r)
	if !ok {
		return
	}
	stock.ID = chi.URLParam(r, "id")

	if err := h.stocks.Update(r.Context(), stock); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "stock updated"})
}

func (h *CatalogHandlers) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.stocks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "stock deleted"})
}
