package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	tokens map[string]*model.Identity
}

func (r *testResolver) Parse(token string) (*model.Identity, error) {
	id, ok := r.tokens[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return id, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{tokens: map[string]*model.Identity{"token": {UserID: "u1", Username: "amani"}}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFromContext(r.Context())
		require.NotNil(t, id)
		require.Equal(t, "u1", id.UserID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Anonymous(t *testing.T) {
	resolver := &testResolver{}

	called := false
	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Nil(t, IdentityFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	resolver := &testResolver{}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, apperr.KindUnauthorized, body.Error.Kind)
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, StatusFor(apperr.KindUnauthorized))
	require.Equal(t, http.StatusForbidden, StatusFor(apperr.KindForbidden))
	require.Equal(t, http.StatusNotFound, StatusFor(apperr.KindNotFound))
	require.Equal(t, http.StatusBadRequest, StatusFor(apperr.KindInvalidInput))
	require.Equal(t, http.StatusConflict, StatusFor(apperr.KindConflict))
	require.Equal(t, http.StatusInternalServerError, StatusFor(apperr.KindInternal))
}
