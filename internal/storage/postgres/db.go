package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethub/server/internal/config"
)

// NewPool builds a pgx connection pool from configuration. Handlers share
// this pool; no request ever opens its own connection.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolCfg.MinConns = int32(cfg.MinConnections)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}

type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Users() *UserRepository {
	return &UserRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Accounts() *AccountRepository {
	return &AccountRepository{pool: r.pool, tx: r.tx}
}

func (r *Repository) Events() *EventRepository {
	return &EventRepository{pool: r.pool, tx: r.tx}
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *Repository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
