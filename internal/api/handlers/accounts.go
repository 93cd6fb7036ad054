package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tickethub/server/internal/api/problem"
	"github.com/tickethub/server/internal/domain/accounts"
	"github.com/tickethub/server/internal/domain/users"
)

type AccountsHandler struct {
	Service *accounts.Service
	Env     string
}

func NewAccountsHandler(service *accounts.Service, env string) *AccountsHandler {
	return &AccountsHandler{Service: service, Env: env}
}

type registerPartnerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

type registerCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type partnerResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type customerResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *AccountsHandler) RegisterPartner(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	var input registerPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env)
		return
	}

	partner, err := h.Service.RegisterPartner(r.Context(), accounts.RegisterPartnerParams{
		Name:        input.Name,
		Email:       input.Email,
		Password:    input.Password,
		CompanyName: input.CompanyName,
	})
	if err != nil {
		h.writeRegistrationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, partnerResponse{
		ID:          partner.ID,
		UserID:      partner.UserID,
		Name:        partner.Name,
		CompanyName: partner.CompanyName,
		CreatedAt:   partner.CreatedAt,
	})
}

func (h *AccountsHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Service == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	var input registerCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env)
		return
	}

	customer, err := h.Service.RegisterCustomer(r.Context(), accounts.RegisterCustomerParams{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Address:  input.Address,
		Phone:    input.Phone,
	})
	if err != nil {
		h.writeRegistrationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, customerResponse{
		ID:        customer.ID,
		UserID:    customer.UserID,
		Name:      customer.Name,
		Address:   customer.Address,
		Phone:     customer.Phone,
		CreatedAt: customer.CreatedAt,
	})
}

// writeRegistrationError maps the shared registration failure modes for both
// roles to one response shape each.
func (h *AccountsHandler) writeRegistrationError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env,
			problem.WithErrors(validationDetails(validationErrs)))
		return
	}
	if errors.Is(err, users.ErrEmailTaken) {
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Email already registered", err, h.Env)
		return
	}
	problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
}
