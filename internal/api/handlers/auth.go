package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tickethub/server/internal/api/problem"
	"github.com/tickethub/server/internal/auth"
	"github.com/tickethub/server/internal/domain/users"
	"github.com/tickethub/server/internal/metrics"
)

type AuthHandler struct {
	Users  *users.Service
	Tokens *auth.TokenManager
	Env    string
}

func NewAuthHandler(service *users.Service, tokens *auth.TokenManager, env string) *AuthHandler {
	return &AuthHandler{Users: service, Tokens: tokens, Env: env}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Users == nil || h.Tokens == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, h.Env)
		return
	}

	var input loginRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request", err, h.Env)
		return
	}

	user, err := h.Users.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid credentials", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	token, _, err := h.Tokens.Generate(user.ID, user.Email)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
