// Package cart implements the POS shopping cart: an ordered list of line
// items per owner, persisted to a single slot after every mutation.
// In-memory state is authoritative for the session; the slot is best-effort
// so a storage hiccup never loses the cashier's work.
package cart

import (
	"context"
	"errors"
	"log"
)

var (
	ErrInvalidProduct = errors.New("product id is required")
)

// Product is the snapshot of product fields the cart copies at add time.
// SalePrice stays in its formatted string form; pricing parses it.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SalePrice string `json:"sale_price"`
	Image     string `json:"image,omitempty"`
}

// Line is one cart entry, uniquely keyed by product id.
// Quantity is always >= 1.
type Line struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SalePrice string `json:"sale_price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Slot is the persistence port for a cart. Load returns (nil, nil) when no
// entry exists for the owner. Save overwrites the whole slot; Clear removes
// it. Implementations do not interpret the lines.
type Slot interface {
	Load(ctx context.Context, owner string) ([]Line, error)
	Save(ctx context.Context, owner string, lines []Line) error
	Clear(ctx context.Context, owner string) error
}

// Service mutates carts through their slot. Each operation loads the
// owner's lines, applies the change, and persists the result. An empty
// cart deletes its slot entry instead of storing an empty list.
type Service struct {
	slot Slot
}

func NewService(slot Slot) *Service {
	return &Service{slot: slot}
}

// Get returns the owner's cart lines. A missing or corrupt slot entry
// rehydrates as an empty cart, never an error.
func (s *Service) Get(ctx context.Context, owner string) []Line {
	lines, err := s.slot.Load(ctx, owner)
	if err != nil {
		log.Printf("[Cart] Discarding unreadable cart for %s: %v", owner, err)
		return nil
	}
	return lines
}

// AddItem adds a product to the cart. If a line for the product already
// exists its quantity is incremented by 1; otherwise a new line with
// quantity 1 is appended, preserving insertion order.
func (s *Service) AddItem(ctx context.Context, owner string, p Product) ([]Line, error) {
	if p.ID == "" {
		return nil, ErrInvalidProduct
	}

	lines := s.Get(ctx, owner)
	found := false
	for i := range lines {
		if lines[i].ProductID == p.ID {
			lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			SalePrice: p.SalePrice,
			Image:     p.Image,
			Quantity:  1,
		})
	}

	s.persist(ctx, owner, lines)
	return lines, nil
}

// RemoveItem removes the line for the product. Removing an absent product
// is a no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, owner, productID string) []Line {
	lines := s.Get(ctx, owner)
	for i := range lines {
		if lines[i].ProductID == productID {
			lines = append(lines[:i], lines[i+1:]...)
			s.persist(ctx, owner, lines)
			return lines
		}
	}
	return lines
}

// UpdateQuantity replaces the line's quantity. Quantities below 1 are
// rejected silently; a line can never reach zero or negative quantity,
// only RemoveItem deletes it.
func (s *Service) UpdateQuantity(ctx context.Context, owner, productID string, quantity int) []Line {
	lines := s.Get(ctx, owner)
	if quantity < 1 {
		return lines
	}
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			s.persist(ctx, owner, lines)
			break
		}
	}
	return lines
}

// Clear empties the cart and removes its slot entry. Clearing an already
// empty cart only ensures the entry is absent.
func (s *Service) Clear(ctx context.Context, owner string) {
	if err := s.slot.Clear(ctx, owner); err != nil {
		log.Printf("[Cart] Failed to clear slot for %s: %v", owner, err)
	}
}

// TotalItemCount sums all line quantities, for display badges.
func (s *Service) TotalItemCount(ctx context.Context, owner string) int {
	total := 0
	for _, line := range s.Get(ctx, owner) {
		total += line.Quantity
	}
	return total
}

// persist writes the lines back to the slot, deleting the entry when the
// cart went empty. Write failures are logged and swallowed: the returned
// in-memory lines remain the source of truth for this session.
func (s *Service) persist(ctx context.Context, owner string, lines []Line) {
	var err error
	if len(lines) == 0 {
		err = s.slot.Clear(ctx, owner)
	} else {
		err = s.slot.Save(ctx, owner, lines)
	}
	if err != nil {
		log.Printf("[Cart] Failed to persist cart for %s: %v", owner, err)
	}
}
