package api

import (
	"net/http"

	"github.com/skarnov/go-pos/internal/infrastructure/store"
	"github.com/skarnov/go-pos/internal/money"
)

type SettingsHandlers struct {
	settings *store.SettingsRepo
}

func NewSettingsHandlers(settings *store.SettingsRepo) *SettingsHandlers {
	return &SettingsHandlers{settings: settings}
}

func (h *SettingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.All(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

type settingsRequest struct {
	VATPercentage any    `json:"vat_percentage"`
	TaxPercentage any    `json:"tax_percentage"`
	Currency      string `json:"currency"`
}

// Update overwrites the pricing settings. Percentages are stored as the
// strings they parsed from so the settings table stays human-readable.
func (h *SettingsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.VATPercentage != nil {
		vat, err := money.Parse(req.VATPercentage)
		if err != nil || vat < 0 {
			respondJSONError(w, "invalid vat_percentage", http.StatusBadRequest)
			return
		}
		if err := h.settings.Set(r.Context(), "vat_percentage", money.Format(vat)); err != nil {
			respondStoreError(w, err)
			return
		}
	}
	if req.TaxPercentage != nil {
		tax, err := money.Parse(req.TaxPercentage)
		if err != nil || tax < 0 {
			respondJSONError(w, "invalid tax_percentage", http.StatusBadRequest)
			return
		}
		if err := h.settings.Set(r.Context(), "tax_percentage", money.Format(tax)); err != nil {
			respondStoreError(w, err)
			return
		}
	}
	if req.Currency != "" {
		if err := h.settings.Set(r.Context(), "currency", req.Currency); err != nil {
			respondStoreError(w, err)
			return
		}
	}

	settings, err := h.settings.All(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
