package store

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product carries the remaining stock quantity computed from its stock
// lots; it is not a column.
type Product struct {
	ID           string    `json:"id"`
	CategoryID   string    `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	Name         string    `json:"name"`
	SalePrice    float64   `json:"sale_price"`
	Image        string    `json:"image,omitempty"`
	Status       string    `json:"status"`
	Remaining    int       `json:"remaining"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Stock is a dated lot of inventory for a product. Remaining quantity is
// in_quantity - out_quantity; sales consume lots oldest-first.
type Stock struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	BuyPrice    float64   `json:"buy_price"`
	SalePrice   float64   `json:"sale_price"`
	InQuantity  int       `json:"in_quantity"`
	OutQuantity int       `json:"out_quantity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Sale struct {
	ID         string     `json:"id"`
	InvoiceNo  string     `json:"invoice_no"`
	CustomerID string     `json:"customer_id,omitempty"`
	CashierID  string     `json:"cashier_id,omitempty"`
	Subtotal   float64    `json:"subtotal"`
	VAT        float64    `json:"vat"`
	Tax        float64    `json:"tax"`
	Discount   float64    `json:"discount"`
	Total      float64    `json:"total"`
	Items      []SaleItem `json:"items,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type SaleItem struct {
	ID        string  `json:"id"`
	SaleID    string  `json:"sale_id"`
	ProductID string  `json:"product_id,omitempty"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// LedgerEntry is a manual income or expense row; the two screens share
// one shape.
type LedgerEntry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	IncurredOn  time.Time `json:"incurred_on"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
