package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethub/server/internal/domain/accounts"
	"github.com/tickethub/server/internal/domain/users"
)

var _ accounts.Repository = (*AccountRepository)(nil)

// AccountRepository covers registration: the base user insert plus the role
// row, optionally inside one transaction via WithTx.
type AccountRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *AccountRepository) CreateUser(ctx context.Context, params users.CreateParams) (*users.User, error) {
	userRepo := &UserRepository{pool: r.pool, tx: r.tx}
	return userRepo.Create(ctx, params)
}

func (r *AccountRepository) CreatePartner(ctx context.Context, params accounts.CreatePartnerParams) (*accounts.Partner, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO partners (user_id, company_name)
VALUES ($1, $2)
RETURNING id, user_id, company_name, created_at
`, params.UserID, params.CompanyName)

	var partner accounts.Partner
	if err := row.Scan(&partner.ID, &partner.UserID, &partner.CompanyName, &partner.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert partner: %w", err)
	}
	return &partner, nil
}

func (r *AccountRepository) CreateCustomer(ctx context.Context, params accounts.CreateCustomerParams) (*accounts.Customer, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO customers (user_id, address, phone)
VALUES ($1, $2, $3)
RETURNING id, user_id, address, phone, created_at
`, params.UserID, params.Address, params.Phone)

	var customer accounts.Customer
	if err := row.Scan(&customer.ID, &customer.UserID, &customer.Address, &customer.Phone, &customer.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	return &customer, nil
}

func (r *AccountRepository) PartnerByUserID(ctx context.Context, userID int64) (*accounts.Partner, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, user_id, company_name, created_at
  FROM partners
 WHERE user_id = $1
 ORDER BY id
 LIMIT 1
`, userID)

	var partner accounts.Partner
	if err := row.Scan(&partner.ID, &partner.UserID, &partner.CompanyName, &partner.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrPartnerNotFound
		}
		return nil, fmt.Errorf("select partner by user: %w", err)
	}
	return &partner, nil
}

func (r *AccountRepository) WithTx(ctx context.Context, fn func(ctx context.Context, repo accounts.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &AccountRepository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *AccountRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
