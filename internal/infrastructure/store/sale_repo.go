package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/skarnov/go-pos/internal/checkout"
)

type SaleRepo struct {
	db *sql.DB
}

func NewSaleRepo(db *sql.DB) *SaleRepo {
	return &SaleRepo{db: db}
}

// RecordSale stores a checkout payload as a sale: header row, item rows,
// and FIFO stock consumption, all in one transaction. Implements
// checkout.SaleRecorder.
func (r *SaleRepo) RecordSale(ctx context.Context, sale checkout.Sale) (string, string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", "", err
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval('invoice_seq')`).Scan(&seq); err != nil {
		return "", "", fmt.Errorf("next invoice number: %w", err)
	}
	saleID := uuid.New().String()
	invoiceNo := fmt.Sprintf("INV-%06d", seq)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, invoice_no, customer_id, cashier_id, subtotal, vat, tax, discount, total, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10)
	`, saleID, invoiceNo, sale.CustomerID, sale.CashierID,
		sale.Subtotal, sale.VAT, sale.Tax, sale.Discount, sale.Total, time.Now())
	if err != nil {
		return "", "", fmt.Errorf("insert sale: %w", err)
	}

	for _, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, name, quantity, price)
			VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)
		`, uuid.New().String(), saleID, item.ProductID, item.Name, item.Quantity, item.Price)
		if err != nil {
			return "", "", fmt.Errorf("insert sale item: %w", err)
		}

		if err := consumeStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return "", "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", "", err
	}
	return saleID, invoiceNo, nil
}

// consumeStock walks the product's stock lots oldest-first and records the
// sold quantity against them. A shortfall is logged, not an error: the
// till never refuses a sale the cashier is holding in their hand.
func consumeStock(ctx context.Context, tx *sql.Tx, productID string, quantity int) error {
	if productID == "" {
		return nil
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, in_quantity - out_quantity
		FROM stocks
		WHERE product_id = $1 AND in_quantity - out_quantity > 0
		ORDER BY created_at
		FOR UPDATE
	`, productID)
	if err != nil {
		return fmt.Errorf("lock stock lots: %w", err)
	}

	type lot struct {
		id        string
		available int
	}
	var lots []lot
	for rows.Next() {
		var l lot
		if err := rows.Scan(&l.id, &l.available); err != nil {
			rows.Close()
			return err
		}
		lots = append(lots, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	remaining := quantity
	for _, l := range lots {
		if remaining == 0 {
			break
		}
		take := l.available
		if take > remaining {
			take = remaining
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE stocks SET out_quantity = out_quantity + $2, updated_at = $3 WHERE id = $1
		`, l.id, take, time.Now())
		if err != nil {
			return fmt.Errorf("consume stock lot: %w", err)
		}
		remaining -= take
	}

	if remaining > 0 {
		log.Printf("[Store] Stock shortfall for product %s: %d sold beyond recorded lots", productID, remaining)
	}
	return nil
}

func (r *SaleRepo) Get(ctx context.Context, id string) (*Sale, error) {
	var s Sale
	err := r.db.QueryRowContext(ctx, `
		SELECT id, invoice_no, COALESCE(customer_id::text, ''), COALESCE(cashier_id::text, ''),
		       subtotal, vat, tax, discount, total, created_at
		FROM sales WHERE id = $1
	`, id).Scan(&s.ID, &s.InvoiceNo, &s.CustomerID, &s.CashierID,
		&s.Subtotal, &s.VAT, &s.Tax, &s.Discount, &s.Total, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) List(ctx context.Context) ([]Sale, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_no, COALESCE(customer_id::text, ''), COALESCE(cashier_id::text, ''),
		       subtotal, vat, tax, discount, total, created_at
		FROM sales ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]Sale, 0)
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.InvoiceNo, &s.CustomerID, &s.CashierID,
			&s.Subtotal, &s.VAT, &s.Tax, &s.Discount, &s.Total, &s.CreatedAt); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *SaleRepo) itemsFor(ctx context.Context, saleID string) ([]SaleItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sale_id, COALESCE(product_id::text, ''), name, quantity, price
		FROM sale_items WHERE sale_id = $1
	`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]SaleItem, 0)
	for rows.Next() {
		var it SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Name, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
