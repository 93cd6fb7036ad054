package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/tickethub/server/internal/domain/users"
)

var ErrPartnerNotFound = errors.New("partner not found")

// Partner is a user role permitted to create and own events.
type Partner struct {
	ID          int64
	UserID      int64
	Name        string
	CompanyName string
	CreatedAt   time.Time
}

// Customer is a registration-only user role with no event permissions.
type Customer struct {
	ID        int64
	UserID    int64
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
}

type CreatePartnerParams struct {
	UserID      int64
	CompanyName string
}

type CreateCustomerParams struct {
	UserID  int64
	Address string
	Phone   string
}

// Repository bundles the storage operations registration needs. WithTx runs
// the callback against a transaction-scoped Repository; the user insert and
// the role insert must commit or roll back together.
type Repository interface {
	CreateUser(ctx context.Context, params users.CreateParams) (*users.User, error)
	CreatePartner(ctx context.Context, params CreatePartnerParams) (*Partner, error)
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error)
	PartnerByUserID(ctx context.Context, userID int64) (*Partner, error)
	WithTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
