// Package pricing derives the checkout totals from cart contents and the
// configured VAT/tax rates. Compute is pure: no I/O, no mutation, safe to
// call on every cart change.
package pricing

import (
	"log"

	"github.com/skarnov/go-pos/internal/cart"
	"github.com/skarnov/go-pos/internal/money"
)

// Fallback rates used when the settings source has no value.
const (
	DefaultVATRate = 0.5
	DefaultTaxRate = 0.7
)

// Rates holds the VAT and tax percentages applied to the cart subtotal.
type Rates struct {
	VAT float64 `json:"vat"`
	Tax float64 `json:"tax"`
}

// RatesFrom coerces loosely typed rate settings (strings or numbers,
// possibly absent) into Rates, applying the documented fallbacks.
func RatesFrom(vat, tax any) Rates {
	return Rates{
		VAT: money.Coerce(vat, DefaultVATRate),
		Tax: money.Coerce(tax, DefaultTaxRate),
	}
}

// Breakdown is the derived pricing for a cart. Every field is rounded to
// 2 decimal places; Total is the sum of the rounded components, so the
// figures a customer sees always add up.
type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// DisplayBreakdown is Breakdown with every amount formatted to exactly
// 2 decimal places for rendering.
type DisplayBreakdown struct {
	Subtotal string `json:"subtotal"`
	VAT      string `json:"vat"`
	Tax      string `json:"tax"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// Compute derives the pricing breakdown for the given cart lines.
//
//	subtotal = Σ price(line) * quantity
//	vat      = subtotal * rates.VAT / 100
//	tax      = subtotal * rates.Tax / 100
//	discount = subtotal * discountPercent / 100
//	total    = subtotal + vat + tax - discount
//
// Each component is rounded to 2 decimals before the total is summed.
// A line whose stored price no longer parses contributes 0 and is logged;
// a corrupt row must not poison the whole breakdown. A discount large
// enough to drive the total negative passes through unclamped; clamping
// is a presentation decision, not a pricing one.
func Compute(lines []cart.Line, rates Rates, discountPercent float64) Breakdown {
	var subtotal float64
	for _, line := range lines {
		price, err := money.Parse(line.SalePrice)
		if err != nil {
			log.Printf("[Pricing] Unparseable price %q for product %s: %v", line.SalePrice, line.ProductID, err)
			continue
		}
		subtotal += price * float64(line.Quantity)
	}

	b := Breakdown{
		Subtotal: money.Round(subtotal),
		VAT:      money.Round(subtotal * rates.VAT / 100),
		Tax:      money.Round(subtotal * rates.Tax / 100),
		Discount: money.Round(subtotal * discountPercent / 100),
	}
	b.Total = money.Round(b.Subtotal + b.VAT + b.Tax - b.Discount)
	return b
}

// Display formats every component for rendering.
func (b Breakdown) Display() DisplayBreakdown {
	return DisplayBreakdown{
		Subtotal: money.Format(b.Subtotal),
		VAT:      money.Format(b.VAT),
		Tax:      money.Format(b.Tax),
		Discount: money.Format(b.Discount),
		Total:    money.Format(b.Total),
	}
}
