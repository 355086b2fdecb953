package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skarnov/go-pos/internal/infrastructure/store"
)

type SaleHandlers struct {
	sales   *store.SaleRepo
	reports *store.ReportRepo
}

func NewSaleHandlers(sales *store.SaleRepo, reports *store.ReportRepo) *SaleHandlers {
	return &SaleHandlers{sales: sales, reports: reports}
}

func (h *SaleHandlers) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *SaleHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sale, err := h.sales.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *SaleHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.Summary(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *SaleHandlers) Monthly(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2100 {
			respondJSONError(w, "invalid year", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	figures, err := h.reports.Monthly(r.Context(), year)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, figures)
}
