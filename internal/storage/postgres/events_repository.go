package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tickethub/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

const eventColumns = "id, partner_id, name, description, date, location, created_at"

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
INSERT INTO events (partner_id, name, description, date, location)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+eventColumns+`
`, params.PartnerID, params.Name, params.Description, params.Date, params.Location)

	event, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) ListByPartner(ctx context.Context, partnerID int64) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE partner_id = $1
 ORDER BY id
`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("select partner events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepository) GetForPartner(ctx context.Context, partnerID, eventID int64) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE partner_id = $1 AND id = $2
`, partnerID, eventID)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("select partner event: %w", err)
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*events.Event, error) {
	row := r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id)

	event, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("select event: %w", err)
	}
	return event, nil
}

func scanEvent(row pgx.Row) (*events.Event, error) {
	var event events.Event
	err := row.Scan(
		&event.ID,
		&event.PartnerID,
		&event.Name,
		&event.Description,
		&event.Date,
		&event.Location,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func collectEvents(rows pgx.Rows) ([]events.Event, error) {
	items := make([]events.Event, 0)
	for rows.Next() {
		var event events.Event
		err := rows.Scan(
			&event.ID,
			&event.PartnerID,
			&event.Name,
			&event.Description,
			&event.Date,
			&event.Location,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return items, nil
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}
