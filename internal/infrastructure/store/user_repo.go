package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash, name, role string) (*User, error) {
	u := &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM users WHERE email = $1
	`, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, role, created_at
		FROM users WHERE id = $1
	`, id))
}

func (r *UserRepo) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
