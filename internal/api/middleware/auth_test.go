package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skarnov/go-pos/internal/auth"
)

func newTestTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret-key-that-is-long-enough!!", 15*time.Minute, 24*time.Hour)
}

func protected(t *testing.T, tokens *auth.TokenService) (http.Handler, *string) {
	t.Helper()
	var seenUserID string
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seenUserID
}

func TestAuth_ValidBearerToken(t *testing.T) {
	tokens := newTestTokens()
	handler, seenUserID := protected(t, tokens)

	token, _, err := tokens.GenerateAccessToken("user-1", "a@b.test", "A", "cashier")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *seenUserID)
}

func TestAuth_ValidCookieToken(t *testing.T) {
	tokens := newTestTokens()
	handler, seenUserID := protected(t, tokens)

	token, _, err := tokens.GenerateAccessToken("user-2", "b@b.test", "B", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", *seenUserID)
}

func TestAuth_MissingToken(t *testing.T) {
	handler, _ := protected(t, newTestTokens())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	handler, _ := protected(t, newTestTokens())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_TokenFromDifferentSecretRejected(t *testing.T) {
	other := auth.NewTokenService("another-secret-key-that-is-long-too!!", 15*time.Minute, 24*time.Hour)
	token, _, err := other.GenerateAccessToken("user-1", "a@b.test", "A", "cashier")
	require.NoError(t, err)

	handler, _ := protected(t, newTestTokens())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tokens := newTestTokens()

	handler := Auth(tokens)(RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"cashier forbidden", "cashier", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := tokens.GenerateAccessToken("user-1", "a@b.test", "A", tt.role)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
