package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tickethub/server/internal/auth"
	"github.com/tickethub/server/internal/domain/users"
)

type stubUserRepo struct {
	byEmail map[string]*users.User
}

func (s *stubUserRepo) Create(_ context.Context, params users.CreateParams) (*users.User, error) {
	return nil, users.ErrEmailTaken
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, users.ErrNotFound
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, users.ErrNotFound
}

func newAuthHandler(t *testing.T) (*AuthHandler, *auth.TokenManager) {
	t.Helper()
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)

	repo := &stubUserRepo{byEmail: map[string]*users.User{
		"partner@example.com": {ID: 7, Name: "Pat", Email: "partner@example.com", PasswordHash: hash},
	}}
	tokens := auth.NewTokenManager("test-secret", time.Hour, "tickethub")
	return NewAuthHandler(users.NewService(repo), tokens, "test"), tokens
}

func TestLoginSuccess(t *testing.T) {
	handler, tokens := newAuthHandler(t)

	body := `{"email":"partner@example.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.NotEmpty(t, payload["token"])

	claims, err := tokens.Validate(payload["token"])
	require.NoError(t, err)
	require.Equal(t, "partner@example.com", claims.Email)
	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(7), userID)
}

func TestLoginWrongPassword(t *testing.T) {
	handler, _ := newAuthHandler(t)

	body := `{"email":"partner@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))
	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.Equal(t, "Invalid credentials", payload["title"])
}

func TestLoginUnknownEmail(t *testing.T) {
	handler, _ := newAuthHandler(t)

	body := `{"email":"nobody@example.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	var payload map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.Equal(t, "Invalid credentials", payload["title"])
}

func TestLoginMalformedBody(t *testing.T) {
	handler, _ := newAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{not json"))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}
