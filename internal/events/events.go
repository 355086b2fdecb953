// Package events defines the sale event stream shared by the API and the
// notifier.
package events

import (
	"context"
	"log"
	"time"

	"github.com/skarnov/go-pos/internal/checkout"
	"github.com/skarnov/go-pos/internal/infrastructure/kafka"
)

const (
	DefaultTopic      = "pos-sales"
	TypeSaleCompleted = "sale.completed"
)

// SaleCompleted is published after a sale is durably recorded. It carries
// everything the notifier needs except the customer's email address,
// which it resolves itself.
type SaleCompleted struct {
	Type       string              `json:"type"`
	SaleID     string              `json:"sale_id"`
	CustomerID string              `json:"customer_id,omitempty"`
	CashierID  string              `json:"cashier_id,omitempty"`
	Items      []checkout.SaleItem `json:"items"`
	Subtotal   float64             `json:"subtotal"`
	VAT        float64             `json:"vat"`
	Tax        float64             `json:"tax"`
	Discount   float64             `json:"discount"`
	Total      float64             `json:"total"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// Publisher writes sale events to Kafka. Implements checkout.Publisher.
type Publisher struct {
	producer *kafka.Producer
}

func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{producer: producer}
}

// SaleCompleted publishes the event, best-effort. The sale is already
// recorded when this runs; a broker outage is logged, never surfaced.
func (p *Publisher) SaleCompleted(ctx context.Context, saleID string, sale checkout.Sale) {
	event := SaleCompleted{
		Type:       TypeSaleCompleted,
		SaleID:     saleID,
		CustomerID: sale.CustomerID,
		CashierID:  sale.CashierID,
		Items:      sale.Items,
		Subtotal:   sale.Subtotal,
		VAT:        sale.VAT,
		Tax:        sale.Tax,
		Discount:   sale.Discount,
		Total:      sale.Total,
		OccurredAt: time.Now(),
	}

	if err := p.producer.Publish(ctx, saleID, event); err != nil {
		log.Printf("[Events] Failed to publish %s for sale %s: %v", TypeSaleCompleted, saleID, err)
	}
}
