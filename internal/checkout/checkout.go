// Package checkout turns a cart into a recorded sale. The submitter owns
// the one piece of coordination the POS needs: a per-owner in-flight
// guard, so a double-click on the pay button can never record the same
// sale twice.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/skarnov/go-pos/internal/cart"
	"github.com/skarnov/go-pos/internal/money"
	"github.com/skarnov/go-pos/internal/pricing"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutInFlight = errors.New("checkout already in progress")
	ErrInvalidLinePrice = errors.New("cart line has an invalid price")
	ErrInvalidDiscount  = errors.New("discount must be between 0 and 100")
)

// SaleItem is one line of the sale payload, with the unit price resolved
// to a number.
type SaleItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Sale is the payload handed to the recorder.
type Sale struct {
	Items      []SaleItem `json:"items"`
	Subtotal   float64    `json:"subtotal"`
	VAT        float64    `json:"vat"`
	Tax        float64    `json:"tax"`
	Discount   float64    `json:"discount"`
	Total      float64    `json:"totalAmount"`
	CustomerID string     `json:"customer_id,omitempty"`
	CashierID  string     `json:"cashier_id,omitempty"`
}

// Receipt is what the recorder returns for a stored sale.
type Receipt struct {
	SaleID    string                   `json:"sale_id"`
	InvoiceNo string                   `json:"invoice_no"`
	Breakdown pricing.DisplayBreakdown `json:"breakdown"`
	Items     []SaleItem               `json:"items"`
}

// SaleRecorder persists a sale and returns its identifiers.
type SaleRecorder interface {
	RecordSale(ctx context.Context, sale Sale) (saleID, invoiceNo string, err error)
}

// Publisher announces a completed sale. Publishing is best-effort; a
// broker outage must not fail a checkout that is already recorded.
type Publisher interface {
	SaleCompleted(ctx context.Context, saleID string, sale Sale)
}

// Request carries the checkout parameters alongside the owner's cart.
type Request struct {
	DiscountPercent float64
	CustomerID      string
	Rates           pricing.Rates
}

// Submitter coordinates checkout: load cart, price it, record the sale,
// then clear the cart. The cart slot is only touched after the recorder
// succeeds, so a failed submission loses nothing and can be retried.
type Submitter struct {
	carts     *cart.Service
	recorder  SaleRecorder
	publisher Publisher

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewSubmitter(carts *cart.Service, recorder SaleRecorder, publisher Publisher) *Submitter {
	return &Submitter{
		carts:     carts,
		recorder:  recorder,
		publisher: publisher,
		inFlight:  make(map[string]struct{}),
	}
}

// Submit records a sale for the owner's cart. A second concurrent call
// for the same owner fails fast with ErrCheckoutInFlight instead of
// double-submitting. On any failure the cart is left untouched.
func (s *Submitter) Submit(ctx context.Context, owner string, req Request) (*Receipt, error) {
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return nil, ErrInvalidDiscount
	}

	if !s.begin(owner) {
		return nil, ErrCheckoutInFlight
	}
	defer s.end(owner)

	lines := s.carts.Get(ctx, owner)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	breakdown := pricing.Compute(lines, req.Rates, req.DiscountPercent)

	sale, err := buildSale(lines, breakdown, req.CustomerID, owner)
	if err != nil {
		return nil, err
	}

	saleID, invoiceNo, err := s.recorder.RecordSale(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}

	// The sale is durable; everything below is cleanup and fan-out.
	s.carts.Clear(ctx, owner)
	if s.publisher != nil {
		s.publisher.SaleCompleted(ctx, saleID, sale)
	}

	return &Receipt{
		SaleID:    saleID,
		InvoiceNo: invoiceNo,
		Breakdown: breakdown.Display(),
		Items:     sale.Items,
	}, nil
}

// buildSale resolves each line's stored price to a number. Unlike a
// rendering path, a persisted receipt tolerates no bad prices: one
// unparseable line rejects the whole submission.
func buildSale(lines []cart.Line, b pricing.Breakdown, customerID, cashierID string) (Sale, error) {
	items := make([]SaleItem, 0, len(lines))
	for _, line := range lines {
		price, err := money.Parse(line.SalePrice)
		if err != nil {
			log.Printf("[Checkout] Rejecting sale: bad price %q on product %s", line.SalePrice, line.ProductID)
			return Sale{}, fmt.Errorf("%w: product %s", ErrInvalidLinePrice, line.ProductID)
		}
		items = append(items, SaleItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     price,
		})
	}

	return Sale{
		Items:      items,
		Subtotal:   b.Subtotal,
		VAT:        b.VAT,
		Tax:        b.Tax,
		Discount:   b.Discount,
		Total:      b.Total,
		CustomerID: customerID,
		CashierID:  cashierID,
	}, nil
}

func (s *Submitter) begin(owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[owner]; busy {
		return false
	}
	s.inFlight[owner] = struct{}{}
	return true
}

func (s *Submitter) end(owner string) {
	s.mu.Lock()
	delete(s.inFlight, owner)
	s.mu.Unlock()
}
