package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// TestLivenessEndpoint checks that /healthz answers without authentication.
func TestLivenessEndpoint(t *testing.T) {
	skipIfNotRunning(t)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(apiURL() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("liveness check returned %d, want 200", resp.StatusCode)
	}
}

// TestReadinessEndpoint checks /readyz. A degraded but serving instance
// still answers 200; only a critical dependency outage yields 503, which
// the test reports rather than fails so it can run against a partial stack.
func TestReadinessEndpoint(t *testing.T) {
	skipIfNotRunning(t)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(apiURL() + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz failed: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusServiceUnavailable:
		t.Skip("readiness reports a critical dependency down; skipping")
	default:
		t.Errorf("readiness check returned %d, want 200 or 503", resp.StatusCode)
	}
}

// TestMetricsEndpoint checks that Prometheus metrics are exposed publicly.
func TestMetricsEndpoint(t *testing.T) {
	skipIfNotRunning(t)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(apiURL() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics endpoint returned %d, want 200", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading metrics body failed: %v", err)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("expected go_goroutines in metrics output")
	}
}
