package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tickethub/server/internal/domain/accounts"
)

type stubEventsRepo struct {
	events []Event
	nextID int64
}

func (s *stubEventsRepo) Create(_ context.Context, params CreateParams) (*Event, error) {
	s.nextID++
	event := Event{
		ID:          s.nextID,
		PartnerID:   params.PartnerID,
		Name:        params.Name,
		Description: params.Description,
		Date:        params.Date,
		Location:    params.Location,
		CreatedAt:   time.Now(),
	}
	s.events = append(s.events, event)
	return &event, nil
}

func (s *stubEventsRepo) ListByPartner(_ context.Context, partnerID int64) ([]Event, error) {
	items := make([]Event, 0)
	for _, e := range s.events {
		if e.PartnerID == partnerID {
			items = append(items, e)
		}
	}
	return items, nil
}

func (s *stubEventsRepo) GetForPartner(_ context.Context, partnerID, eventID int64) (*Event, error) {
	for _, e := range s.events {
		if e.PartnerID == partnerID && e.ID == eventID {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubEventsRepo) List(_ context.Context) ([]Event, error) {
	return append(make([]Event, 0, len(s.events)), s.events...), nil
}

func (s *stubEventsRepo) GetByID(_ context.Context, id int64) (*Event, error) {
	for _, e := range s.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

type stubPartners struct {
	byUser map[int64]*accounts.Partner
}

func (s stubPartners) PartnerByUserID(_ context.Context, userID int64) (*accounts.Partner, error) {
	if partner, ok := s.byUser[userID]; ok {
		return partner, nil
	}
	return nil, accounts.ErrPartnerNotFound
}

func newTestService() (*Service, *stubEventsRepo) {
	repo := &stubEventsRepo{}
	partners := stubPartners{byUser: map[int64]*accounts.Partner{
		1: {ID: 10, UserID: 1},
		2: {ID: 20, UserID: 2},
	}}
	return NewService(repo, partners), repo
}

func TestCreateForUser(t *testing.T) {
	svc, _ := newTestService()

	event, err := svc.CreateForUser(context.Background(), 1, CreateInput{
		Name:        "Launch Party",
		Description: "Open bar",
		Date:        "2026-12-31T20:00:00Z",
		Location:    "Warehouse 12",
	})
	require.NoError(t, err)
	require.Equal(t, int64(10), event.PartnerID)
	require.Equal(t, "Launch Party", event.Name)
	require.Equal(t, 2026, event.Date.Year())
}

func TestCreateForUserWithoutPartnerProfile(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateForUser(context.Background(), 99, CreateInput{
		Name: "Launch Party", Date: "2026-12-31T20:00:00Z", Location: "Warehouse 12",
	})
	require.ErrorIs(t, err, ErrNotPartner)
}

func TestCreateForUserBadDate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateForUser(context.Background(), 1, CreateInput{
		Name: "Launch Party", Date: "not a date at all xyzzy", Location: "Warehouse 12",
	})
	var dateErr DateError
	require.ErrorAs(t, err, &dateErr)
}

func TestListForUserSeesOnlyOwnEvents(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateForUser(context.Background(), 1, CreateInput{
		Name: "Mine", Date: "2026-06-01T19:00:00Z", Location: "Hall A",
	})
	require.NoError(t, err)
	_, err = svc.CreateForUser(context.Background(), 2, CreateInput{
		Name: "Theirs", Date: "2026-06-02T19:00:00Z", Location: "Hall B",
	})
	require.NoError(t, err)

	mine, err := svc.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Mine", mine[0].Name)

	theirs, err := svc.ListForUser(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	require.Equal(t, "Theirs", theirs[0].Name)
}

func TestListForUserWithoutPartnerProfile(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ListForUser(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotPartner)
}

func TestGetForUserFiltersByOwner(t *testing.T) {
	svc, _ := newTestService()

	event, err := svc.CreateForUser(context.Background(), 1, CreateInput{
		Name: "Mine", Date: "2026-06-01T19:00:00Z", Location: "Hall A",
	})
	require.NoError(t, err)

	found, err := svc.GetForUser(context.Background(), 1, event.ID)
	require.NoError(t, err)
	require.Equal(t, event.ID, found.ID)

	// Another partner cannot see it, even by id.
	_, err = svc.GetForUser(context.Background(), 2, event.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListPublicEmpty(t *testing.T) {
	svc, _ := newTestService()

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestGetByIDNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByID(context.Background(), 12345)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseDateFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"rfc3339", "2026-12-31T20:00:00Z", true},
		{"date only", "2026-12-31", true},
		{"date and time", "2026-12-31 20:00", true},
		{"garbage", "not a date at all xyzzy", false},
		{"empty", "  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseDate(tt.raw)
			if tt.ok {
				require.NoError(t, err)
				require.False(t, parsed.IsZero())
			} else {
				require.Error(t, err)
			}
		})
	}
}
