package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skarnov/go-pos/internal/infrastructure/store"
	"github.com/skarnov/go-pos/internal/money"
)

// LedgerHandlers drives both the income and expense screens; the router
// mounts one instance per table.
type LedgerHandlers struct {
	entries *store.LedgerRepo
	kind    string
}

func NewIncomeHandlers(entries *store.LedgerRepo) *LedgerHandlers {
	return &LedgerHandlers{entries: entries, kind: "income"}
}

func NewExpenseHandlers(entries *store.LedgerRepo) *LedgerHandlers {
	return &LedgerHandlers{entries: entries, kind: "expense"}
}

type ledgerRequest struct {
	Description string `json:"description"`
	Amount      any    `json:"amount"`
	IncurredOn  string `json:"incurred_on"`
}

func (h *LedgerHandlers) entryFromRequest(w http.ResponseWriter, r *http.Request) (*store.LedgerEntry, bool) {
	var req ledgerRequest
	if !decodeBody(w, r, &req) {
		return nil, false
	}
	if req.Description == "" {
		respondJSONError(w, "description is required", http.StatusBadRequest)
		return nil, false
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		respondJSONError(w, "invalid amount", http.StatusBadRequest)
		return nil, false
	}

	entry := &store.LedgerEntry{
		Description: req.Description,
		Amount:      amount,
	}
	if req.IncurredOn != "" {
		on, err := time.Parse("2006-01-02", req.IncurredOn)
		if err != nil {
			respondJSONError(w, "invalid incurred_on, expected YYYY-MM-DD", http.StatusBadRequest)
			return nil, false
		}
		entry.IncurredOn = on
	}
	return entry, true
}

func (h *LedgerHandlers) Create(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	created, err := h.entries.Create(r.Context(), entry)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *LedgerHandlers) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.entries.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *LedgerHandlers) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (h *LedgerHandlers) Update(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}
	entry.ID = chi.URLParam(r, "id")

	if err := h.entries.Update(r.Context(), entry); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": h.kind + " updated"})
}

func (h *LedgerHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.entries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": h.kind + " deleted"})
}
