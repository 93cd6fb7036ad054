package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethub/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

type UserRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *UserRepository) Create(ctx context.Context, params users.CreateParams) (*users.User, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO users (name, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, name, email, password_hash, created_at
`, params.Name, params.Email, params.PasswordHash)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, name, email, password_hash, created_at
  FROM users
 WHERE email = $1
`, email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*users.User, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT id, name, email, password_hash, created_at
  FROM users
 WHERE id = $1
`, id)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var user users.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
