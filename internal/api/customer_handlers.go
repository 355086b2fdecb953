package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skarnov/go-pos/internal/infrastructure/store"
)

type CustomerHandlers struct {
	customers *store.CustomerRepo
}

func NewCustomerHandlers(customers *store.CustomerRepo) *CustomerHandlers {
	return &CustomerHandlers{customers: customers}
}

type customerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
}

func (h *CustomerHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondJSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	customer, err := h.customers.Create(r.Context(), &store.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Mobile:  req.Mobile,
		Address: req.Address,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandlers) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandlers) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.customers.Update(r.Context(), &store.Customer{
		ID:      chi.URLParam(r, "id"),
		Name:    req.Name,
		Email:   req.Email,
		Mobile:  req.Mobile,
		Address: req.Address,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "customer updated"})
}

func (h *CustomerHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}
