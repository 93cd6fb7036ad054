package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tickethub/server/internal/api/middleware"
	"github.com/tickethub/server/internal/api/problem"
	"github.com/tickethub/server/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type createEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

type eventResponse struct {
	ID          int64     `json:"id"`
	PartnerID   int64     `json:"partner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEventResponse(event *events.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		PartnerID:   event.PartnerID,
		Name:        event.Name,
		Description: event.Description,
		Date:        event.Date,
		Location:    event.Location,
		CreatedAt:   event.CreatedAt,
	}
}

func toEventResponses(items []events.Event) []eventResponse {
	responses := make([]eventResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toEventResponse(&items[i]))
	}
	return responses
}

// Create inserts an event owned by the caller's partner profile.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "No token provided", nil, h.Env)
		return
	}

	var input createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.CreateForUser(r.Context(), user.ID, events.CreateInput{
		Name:        input.Name,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
	})
	if err != nil {
		h.writeCreateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

// ListOwn returns every event owned by the caller's partner profile.
func (h *EventsHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "No token provided", nil, h.Env)
		return
	}

	items, err := h.Service.ListForUser(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, events.ErrNotPartner) {
			problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Not authorized", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(items))
}

// GetOwn returns one of the caller's events. Events owned by other partners
// are indistinguishable from missing ones.
func (h *EventsHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "No token provided", nil, h.Env)
		return
	}

	eventID, err := pathID(r, "id")
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.GetForUser(r.Context(), user.ID, eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotPartner) {
			problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Not authorized", err, h.Env)
			return
		}
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// ListPublic returns the full catalog without authentication.
func (h *EventsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	items, err := h.Service.List(r.Context())
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(items))
}

// GetPublic returns any event by id without authentication.
func (h *EventsHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	eventID, err := pathID(r, "id")
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, events.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Event not found", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventsHandler) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env,
			problem.WithErrors(validationDetails(validationErrs)))
		return
	}
	var dateErr events.DateError
	if errors.As(err, &dateErr) {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env)
		return
	}
	if errors.Is(err, events.ErrNotPartner) {
		problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Not authorized", err, h.Env)
		return
	}
	problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
}
