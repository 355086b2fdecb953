// Package notification turns sale.completed events into receipt emails.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/skarnov/go-pos/internal/email"
	"github.com/skarnov/go-pos/internal/events"
	"github.com/skarnov/go-pos/internal/infrastructure/store"
)

// Handler processes sale events from Kafka.
type Handler struct {
	emailService *email.Service
	sales        *store.SaleRepo
	customers    *store.CustomerRepo
	settings     *store.SettingsRepo
}

func NewHandler(emailSvc *email.Service, sales *store.SaleRepo, customers *store.CustomerRepo, settings *store.SettingsRepo) *Handler {
	return &Handler{
		emailService: emailSvc,
		sales:        sales,
		customers:    customers,
		settings:     settings,
	}
}

// HandleEvent processes one event from Kafka. Walk-in sales (no customer)
// and customers without an email address are skipped silently; returning
// an error is reserved for undecodable payloads.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event events.SaleCompleted
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}
	if event.Type != events.TypeSaleCompleted {
		return nil
	}
	return h.handleSaleCompleted(ctx, event)
}

func (h *Handler) handleSaleCompleted(ctx context.Context, event events.SaleCompleted) error {
	log.Printf("[Notifier] Processing %s for sale %s", events.TypeSaleCompleted, event.SaleID)

	if event.CustomerID == "" {
		log.Printf("[Notifier] Sale %s has no customer, skipping receipt", event.SaleID)
		return nil
	}

	customer, err := h.customers.Get(ctx, event.CustomerID)
	if err != nil {
		log.Printf("[Notifier] Customer %s not found for sale %s: %v", event.CustomerID, event.SaleID, err)
		return nil
	}
	if customer.Email == "" {
		log.Printf("[Notifier] Customer %s has no email, skipping receipt", customer.ID)
		return nil
	}

	// The stored sale is authoritative for the invoice number and totals.
	sale, err := h.sales.Get(ctx, event.SaleID)
	if err != nil {
		log.Printf("[Notifier] Sale %s not found: %v", event.SaleID, err)
		return nil
	}

	currency := "$"
	if v, err := h.settings.Get(ctx, "currency"); err == nil {
		currency = v
	}

	items := make([]email.ReceiptItem, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = email.ReceiptItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	receipt := email.Receipt{
		InvoiceNo: sale.InvoiceNo,
		Customer:  customer.Name,
		Items:     items,
		Subtotal:  sale.Subtotal,
		VAT:       sale.VAT,
		Tax:       sale.Tax,
		Discount:  sale.Discount,
		Total:     sale.Total,
		Currency:  currency,
	}

	if err := h.emailService.SendReceipt(customer.Email, receipt); err != nil {
		log.Printf("[Notifier] Failed to email receipt for sale %s: %v", event.SaleID, err)
		return nil
	}

	log.Printf("[Notifier] Receipt for invoice %s sent to %s", sale.InvoiceNo, customer.Email)
	return nil
}
