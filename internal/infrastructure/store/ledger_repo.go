package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// LedgerRepo serves both the incomes and expenses tables; the two screens
// are the same shape over different rows.
type LedgerRepo struct {
	db    *sql.DB
	table string
}

func NewIncomeRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db, table: "incomes"}
}

func NewExpenseRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db, table: "expenses"}
}

func (r *LedgerRepo) Create(ctx context.Context, e *LedgerEntry) (*LedgerEntry, error) {
	now := time.Now()
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.IncurredOn.IsZero() {
		e.IncurredOn = now
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO `+r.table+` (id, description, amount, incurred_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.ID, e.Description, e.Amount, e.IncurredOn, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *LedgerRepo) Update(ctx context.Context, e *LedgerEntry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE `+r.table+` SET description = $2, amount = $3, incurred_on = $4, updated_at = $5
		WHERE id = $1
	`, e.ID, e.Description, e.Amount, e.IncurredOn, time.Now())
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *LedgerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *LedgerRepo) Get(ctx context.Context, id string) (*LedgerEntry, error) {
	var e LedgerEntry
	err := r.db.QueryRowContext(ctx, `
		SELECT id, description, amount, incurred_on, created_at, updated_at
		FROM `+r.table+` WHERE id = $1
	`, id).Scan(&e.ID, &e.Description, &e.Amount, &e.IncurredOn, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *LedgerRepo) List(ctx context.Context) ([]LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount, incurred_on, created_at, updated_at
		FROM `+r.table+` ORDER BY incurred_on DESC, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]LedgerEntry, 0)
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.IncurredOn, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
