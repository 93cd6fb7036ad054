package accounts

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tickethub/server/internal/auth"
	"github.com/tickethub/server/internal/domain/users"
)

// Service handles partner and customer registration. Both roles share the
// same base-identity creation; only the role row differs.
type Service struct {
	repo      Repository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:      repo,
		validator: validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

type RegisterPartnerParams struct {
	Name        string `validate:"required,min=1,max=200"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=4,max=72"`
	CompanyName string `validate:"required,min=1,max=200"`
}

type RegisterCustomerParams struct {
	Name     string `validate:"required,min=1,max=200"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=4,max=72"`
	Address  string `validate:"required,min=1,max=500"`
	Phone    string `validate:"required,min=1,max=40"`
}

func (s *Service) RegisterPartner(ctx context.Context, params RegisterPartnerParams) (*Partner, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	var partner *Partner
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		user, err := s.createIdentity(ctx, repo, params.Name, params.Email, params.Password)
		if err != nil {
			return err
		}

		partner, err = repo.CreatePartner(ctx, CreatePartnerParams{
			UserID:      user.ID,
			CompanyName: s.sanitizer.Sanitize(params.CompanyName),
		})
		if err != nil {
			return fmt.Errorf("create partner: %w", err)
		}
		partner.Name = user.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *Service) RegisterCustomer(ctx context.Context, params RegisterCustomerParams) (*Customer, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, err
	}

	var customer *Customer
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		user, err := s.createIdentity(ctx, repo, params.Name, params.Email, params.Password)
		if err != nil {
			return err
		}

		customer, err = repo.CreateCustomer(ctx, CreateCustomerParams{
			UserID:  user.ID,
			Address: s.sanitizer.Sanitize(params.Address),
			Phone:   s.sanitizer.Sanitize(params.Phone),
		})
		if err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		customer.Name = user.Name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// createIdentity inserts the base user row shared by every role.
func (s *Service) createIdentity(ctx context.Context, repo Repository, name, email, password string) (*users.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := repo.CreateUser(ctx, users.CreateParams{
		Name:         s.sanitizer.Sanitize(name),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// PartnerForUser resolves the partner profile owned by a user, if any.
func (s *Service) PartnerForUser(ctx context.Context, userID int64) (*Partner, error) {
	return s.repo.PartnerByUserID(ctx, userID)
}
