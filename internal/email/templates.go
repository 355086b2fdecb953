package email

import (
	"fmt"
	"strings"

	"github.com/skarnov/go-pos/internal/money"
)

// ReceiptItem is one line of a receipt email.
type ReceiptItem struct {
	Name     string
	Quantity int
	Price    float64
}

// Receipt carries the figures printed in the email body. Currency is the
// display symbol from settings.
type Receipt struct {
	InvoiceNo string
	Customer  string
	Items     []ReceiptItem
	Subtotal  float64
	VAT       float64
	Tax       float64
	Discount  float64
	Total     float64
	Currency  string
}

// BuildReceiptBody builds the HTML body for a receipt email.
func BuildReceiptBody(r Receipt) string {
	cur := r.Currency
	if cur == "" {
		cur = "$"
	}

	var itemsHTML strings.Builder
	for _, item := range r.Items {
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 8px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%s%s</td>
				<td style="padding: 8px; border-bottom: 1px solid #eee; text-align: right;">%s%s</td>
			</tr>`,
			item.Name,
			item.Quantity,
			cur, money.Format(item.Price),
			cur, money.Format(item.Price*float64(item.Quantity)),
		))
	}

	greeting := "Thank you for your purchase."
	if r.Customer != "" {
		greeting = fmt.Sprintf("Dear %s, thank you for your purchase.", r.Customer)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333;">
	<h2>Receipt for Invoice %s</h2>
	<p>%s</p>
	<table style="border-collapse: collapse; width: 100%%;">
		<tr>
			<th style="padding: 8px; text-align: left;">Item</th>
			<th style="padding: 8px;">Qty</th>
			<th style="padding: 8px; text-align: right;">Price</th>
			<th style="padding: 8px; text-align: right;">Amount</th>
		</tr>
		%s
	</table>
	<table style="margin-top: 16px; margin-left: auto;">
		<tr><td style="padding: 4px 12px;">Subtotal</td><td style="text-align: right;">%s%s</td></tr>
		<tr><td style="padding: 4px 12px;">VAT</td><td style="text-align: right;">%s%s</td></tr>
		<tr><td style="padding: 4px 12px;">Tax</td><td style="text-align: right;">%s%s</td></tr>
		<tr><td style="padding: 4px 12px;">Discount</td><td style="text-align: right;">-%s%s</td></tr>
		<tr><td style="padding: 4px 12px;"><strong>Total</strong></td><td style="text-align: right;"><strong>%s%s</strong></td></tr>
	</table>
</body>
</html>`,
		r.InvoiceNo,
		greeting,
		itemsHTML.String(),
		cur, money.Format(r.Subtotal),
		cur, money.Format(r.VAT),
		cur, money.Format(r.Tax),
		cur, money.Format(r.Discount),
		cur, money.Format(r.Total),
	)
}
