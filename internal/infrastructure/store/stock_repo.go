package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type StockRepo struct {
	db *sql.DB
}

func NewStockRepo(db *sql.DB) *StockRepo {
	return &StockRepo{db: db}
}

func (r *StockRepo) Create(ctx context.Context, s *Stock) (*Stock, error) {
	now := time.Now()
	s.ID = uuid.New().String()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stocks (id, product_id, buy_price, sale_price, in_quantity, out_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.ID, s.ProductID, s.BuyPrice, s.SalePrice, s.InQuantity, s.OutQuantity, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StockRepo) Update(ctx context.Context, s *Stock) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stocks
		SET buy_price = $2, sale_price = $3, in_quantity = $4, out_quantity = $5, updated_at = $6
		WHERE id = $1
	`, s.ID, s.BuyPrice, s.SalePrice, s.InQuantity, s.OutQuantity, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *StockRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stocks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *StockRepo) Get(ctx context.Context, id string) (*Stock, error) {
	var s Stock
	err := r.db.QueryRowContext(ctx, `
		SELECT st.id, st.product_id, COALESCE(p.name, ''), st.buy_price, st.sale_price,
		       st.in_quantity, st.out_quantity, st.created_at, st.updated_at
		FROM stocks st LEFT JOIN products p ON p.id = st.product_id
		WHERE st.id = $1
	`, id).Scan(&s.ID, &s.ProductID, &s.ProductName, &s.BuyPrice, &s.SalePrice,
		&s.InQuantity, &s.OutQuantity, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) List(ctx context.Context) ([]Stock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT st.id, st.product_id, COALESCE(p.name, ''), st.buy_price, st.sale_price,
		       st.in_quantity, st.out_quantity, st.created_at, st.updated_at
		FROM stocks st LEFT JOIN products p ON p.id = st.product_id
		ORDER BY st.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stocks := make([]Stock, 0)
	for rows.Next() {
		var s Stock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ProductName, &s.BuyPrice, &s.SalePrice,
			&s.InQuantity, &s.OutQuantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}
