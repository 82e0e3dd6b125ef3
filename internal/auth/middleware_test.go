package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedServer(t *testing.T, allowed []string) http.Handler {
	t.Helper()
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	gate := NewGate(allowed)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := CurrentUser(r.Context())
		require.True(t, ok, "identity must be on the context past the gate")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(identity.Email))
	})

	return RequireAdmin(verifier, gate, logger)(inner)
}

func decodeErrorCode(t *testing.T, body io.Reader) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error.Code
}

func TestRequireAdmin_NoAuthorizationHeader(t *testing.T) {
	handler := newProtectedServer(t, []string{"ops@bay-admin.dev"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, rec.Body))
}

func TestRequireAdmin_MalformedHeader(t *testing.T) {
	handler := newProtectedServer(t, []string{"ops@bay-admin.dev"})

	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestRequireAdmin_InvalidToken(t *testing.T) {
	handler := newProtectedServer(t, []string{"ops@bay-admin.dev"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeErrorCode(t, rec.Body))
}

func TestRequireAdmin_ValidTokenNotAllowListed(t *testing.T) {
	handler := newProtectedServer(t, []string{"ops@bay-admin.dev"})

	token := signToken(t, testSecret, "seller@example.com", "Some Seller", time.Hour)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reviews/r1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeErrorCode(t, rec.Body))
}

func TestRequireAdmin_AllowListedPasses(t *testing.T) {
	handler := newProtectedServer(t, []string{"ops@bay-admin.dev"})

	token := signToken(t, testSecret, "ops@bay-admin.dev", "Sokha Chan", time.Hour)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@bay-admin.dev", rec.Body.String())
}

func TestRequireAdmin_AllowListMatchIsCaseInsensitive(t *testing.T) {
	handler := newProtectedServer(t, []string{"ops@bay-admin.dev"})

	token := signToken(t, testSecret, "Ops@Bay-Admin.DEV", "", time.Hour)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCurrentUser_AbsentFromContext(t *testing.T) {
	_, ok := CurrentUser(context.Background())
	assert.False(t, ok)
}
