package events

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("event not found")
	ErrNotPartner = errors.New("user has no partner profile")
)

// Event is owned by exactly one partner.
type Event struct {
	ID          int64
	PartnerID   int64
	Name        string
	Description string
	Date        time.Time
	Location    string
	CreatedAt   time.Time
}

type CreateParams struct {
	PartnerID   int64
	Name        string
	Description string
	Date        time.Time
	Location    string
}

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Event, error)
	ListByPartner(ctx context.Context, partnerID int64) ([]Event, error)
	GetForPartner(ctx context.Context, partnerID, eventID int64) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
}
