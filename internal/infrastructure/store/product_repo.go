package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `
	p.id, COALESCE(p.category_id::text, ''), COALESCE(c.name, ''),
	p.name, p.sale_price, p.image, p.status,
	COALESCE((SELECT SUM(s.in_quantity - s.out_quantity) FROM stocks s WHERE s.product_id = p.id), 0),
	p.created_at, p.updated_at`

func (r *ProductRepo) Create(ctx context.Context, p *Product) (*Product, error) {
	now := time.Now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = "active"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, category_id, name, sale_price, image, status, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.CategoryID, p.Name, p.SalePrice, p.Image, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = NULLIF($2, '')::uuid, name = $3, sale_price = $4, image = $5, status = $6, updated_at = $7
		WHERE id = $1
	`, p.ID, p.CategoryID, p.Name, p.SalePrice, p.Image, p.Status, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)
	return scanProduct(row)
}

func (r *ProductRepo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.SalePrice,
		&p.Image, &p.Status, &p.Remaining, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
