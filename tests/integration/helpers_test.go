// Package integration holds black-box tests that exercise a running
// admin-bay instance over HTTP. They are skipped automatically when the
// server is not reachable or the session secret is not configured, so
// the suite is safe to run everywhere.
//
// Required environment:
//
//	ADMIN_API_URL         base URL of the running server (default http://localhost:8080)
//	SESSION_TOKEN_SECRET  the same HS256 secret the server was started with
//	ADMIN_ALLOWED_EMAILS  the server's allow-list; the first entry is used as the test admin
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// apiURL returns the base URL of the server under test.
func apiURL() string {
	if u := os.Getenv("ADMIN_API_URL"); u != "" {
		return strings.TrimSuffix(u, "/")
	}
	return "http://localhost:8080"
}

// skipIfNotRunning performs a quick liveness check against the server.
// If it is unreachable, the test is skipped (not failed).
func skipIfNotRunning(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(apiURL() + "/healthz")
	if err != nil {
		t.Skipf("admin-bay at %s not reachable (server not running?): %v", apiURL(), err)
	}
	resp.Body.Close()
}

// sessionClaims mirrors the token payload the server's verifier parses.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// mintToken signs a short-lived HS256 session token for the given identity.
func mintToken(t *testing.T, email, name string) string {
	t.Helper()
	secret := os.Getenv("SESSION_TOKEN_SECRET")
	if secret == "" {
		t.Skip("SESSION_TOKEN_SECRET not set; cannot mint session tokens")
	}
	claims := sessionClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing session token failed: %v", err)
	}
	return signed
}

// adminToken mints a token for the first address on the server's allow-list.
func adminToken(t *testing.T) string {
	t.Helper()
	emails := os.Getenv("ADMIN_ALLOWED_EMAILS")
	if emails == "" {
		t.Skip("ADMIN_ALLOWED_EMAILS not set; cannot pick a test admin")
	}
	first := strings.TrimSpace(strings.Split(emails, ",")[0])
	return mintToken(t, first, "Integration Admin")
}

// uniqueName tags test data so concurrent runs do not collide.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), rand.Intn(100000))
}

// apiGet performs an authenticated GET against an /api/v1 path.
func apiGet(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodGet, path, nil, adminToken(t))
}

// apiPost performs an authenticated POST with a JSON body.
func apiPost(t *testing.T, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodPost, path, body, adminToken(t))
}

// apiPatch performs an authenticated PATCH with a JSON body.
func apiPatch(t *testing.T, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodPatch, path, body, adminToken(t))
}

// apiDelete performs an authenticated DELETE.
func apiDelete(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodDelete, path, nil, adminToken(t))
}

// doJSONRequest is the internal helper for JSON HTTP requests. An empty
// token sends the request unauthenticated.
func doJSONRequest(t *testing.T, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body failed: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequest(method, apiURL()+path, bodyReader)
	if err != nil {
		t.Fatalf("creating %s request for %s failed: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// decodeBody reads the response body and attempts to decode it as JSON.
// Non-JSON bodies come back under a "raw" key for debugging.
func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading response body failed: %v", err)
	}
	if len(raw) == 0 {
		return map[string]interface{}{}
	}
	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return map[string]interface{}{"raw": string(raw)}
	}
	return result
}

// requireStatus asserts that the HTTP status code matches the expected value.
func requireStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("expected status %d, got %d", want, got)
	}
}

// extractField extracts a value from a nested map using a dot-separated path.
// For example, extractField(data, "data.id") navigates data["data"]["id"].
func extractField(data map[string]interface{}, path string) interface{} {
	parts := strings.Split(path, ".")
	var current interface{} = data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// extractString is a convenience wrapper around extractField that returns a string.
func extractString(t *testing.T, data map[string]interface{}, path string) string {
	t.Helper()
	val := extractField(data, path)
	if val == nil {
		t.Fatalf("expected string at path %q, got nil", path)
	}
	s, ok := val.(string)
	if !ok {
		t.Fatalf("expected string at path %q, got %T: %v", path, val, val)
	}
	return s
}

// extractFloat is a convenience wrapper that returns a float64.
func extractFloat(t *testing.T, data map[string]interface{}, path string) float64 {
	t.Helper()
	val := extractField(data, path)
	if val == nil {
		t.Fatalf("expected number at path %q, got nil", path)
	}
	f, ok := val.(float64)
	if !ok {
		t.Fatalf("expected float64 at path %q, got %T: %v", path, val, val)
	}
	return f
}

// listItems pulls the item array out of a list envelope at data.data.
func listItems(t *testing.T, data map[string]interface{}) []interface{} {
	t.Helper()
	items := extractField(data, "data.data")
	if items == nil {
		t.Fatal("expected data.data array in list response, got nil")
	}
	arr, ok := items.([]interface{})
	if !ok {
		t.Fatalf("expected data.data to be an array, got %T", items)
	}
	return arr
}
