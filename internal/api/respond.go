// Package api is the HTTP surface of the POS: auth, the CRUD screens,
// the cart, checkout, and reporting.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skarnov/go-pos/internal/infrastructure/store"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps repository errors onto status codes.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondJSONError(w, "not found", http.StatusNotFound)
		return
	}
	respondJSONError(w, err.Error(), http.StatusInternalServerError)
}

// decodeJSONQuiet decodes without writing an error response; for bodies
// that are optional.
func decodeJSONQuiet(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
