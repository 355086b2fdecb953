package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type CustomerRepo struct {
	db *sql.DB
}

func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Create(ctx context.Context, c *Customer) (*Customer, error) {
	now := time.Now()
	c.ID = uuid.New().String()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, mobile, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Name, c.Email, c.Mobile, c.Address, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET name = $2, email = $3, mobile = $4, address = $5, updated_at = $6
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.Mobile, c.Address, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CustomerRepo) Get(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, mobile, address, created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Mobile, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, mobile, address, created_at, updated_at
		FROM customers ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Mobile, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
