package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is the root identity record. Both partners and customers extend it
// via a user_id foreign key.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type CreateParams struct {
	Name         string
	Email        string
	PasswordHash string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}
