package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	dateparser "github.com/markusmobius/go-dateparser"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tickethub/server/internal/domain/accounts"
)

// PartnerDirectory resolves the partner profile owned by a user id.
// Satisfied by the accounts repository.
type PartnerDirectory interface {
	PartnerByUserID(ctx context.Context, userID int64) (*accounts.Partner, error)
}

type Service struct {
	repo      Repository
	partners  PartnerDirectory
	validator *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewService(repo Repository, partners PartnerDirectory) *Service {
	return &Service{
		repo:      repo,
		partners:  partners,
		validator: validator.New(),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

type CreateInput struct {
	Name        string `validate:"required,min=1,max=200"`
	Description string `validate:"max=2000"`
	Date        string `validate:"required"`
	Location    string `validate:"required,min=1,max=500"`
}

// CreateForUser inserts an event owned by the caller's partner profile.
// Users without a partner profile get ErrNotPartner.
func (s *Service) CreateForUser(ctx context.Context, userID int64, input CreateInput) (*Event, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}

	partner, err := s.resolvePartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.Create(ctx, CreateParams{
		PartnerID:   partner.ID,
		Name:        s.sanitizer.Sanitize(input.Name),
		Description: s.sanitizer.Sanitize(input.Description),
		Date:        date,
		Location:    s.sanitizer.Sanitize(input.Location),
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// ListForUser returns the caller's own events.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Event, error) {
	partner, err := s.resolvePartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByPartner(ctx, partner.ID)
	if err != nil {
		return nil, fmt.Errorf("list partner events: %w", err)
	}
	return items, nil
}

// GetForUser returns one of the caller's events by id, or ErrNotFound when
// the event does not exist or belongs to another partner.
func (s *Service) GetForUser(ctx context.Context, userID, eventID int64) (*Event, error) {
	partner, err := s.resolvePartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	event, err := s.repo.GetForPartner(ctx, partner.ID, eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get partner event: %w", err)
	}
	return event, nil
}

// List returns every event, unfiltered.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *Service) resolvePartner(ctx context.Context, userID int64) (*accounts.Partner, error) {
	partner, err := s.partners.PartnerByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, accounts.ErrPartnerNotFound) {
			return nil, ErrNotPartner
		}
		return nil, fmt.Errorf("resolve partner: %w", err)
	}
	return partner, nil
}

// DateError reports an unparseable event date.
type DateError struct {
	Value string
}

func (e DateError) Error() string {
	return fmt.Sprintf("unparseable date %q", e.Value)
}

// ParseDate accepts RFC 3339 first and falls back to tolerant natural-format
// parsing for client convenience ("2025-12-31 20:00", "Dec 31 2025").
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, DateError{Value: raw}
	}

	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return parsed, nil
	}

	parsed, err := dateparser.Parse(nil, trimmed)
	if err != nil || parsed.Time.IsZero() {
		return time.Time{}, DateError{Value: raw}
	}
	return parsed.Time, nil
}
