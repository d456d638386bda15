package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsScanner/internal/domain"
)

func TestExtractSuccess(t *testing.T) {
	t.Parallel()

	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL     string            `json:"url"`
			Headers map[string]string `json:"headers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotAgent = req.Headers["User-Agent"]
		_ = json.NewEncoder(w).Encode(map[string]string{
			"url":     req.URL,
			"content": "<p>Extracted body.</p>",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	content, err := client.Extract(context.Background(), "https://example.com/story", "TestAgent/1.0")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if content.Content != "<p>Extracted body.</p>" {
		t.Fatalf("unexpected content: %q", content.Content)
	}
	if content.URL != "https://example.com/story" {
		t.Fatalf("unexpected url: %q", content.URL)
	}
	if gotAgent != "TestAgent/1.0" {
		t.Fatalf("user agent not forwarded, got %q", gotAgent)
	}
}

func TestExtractHTTPErrors(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusForbidden, http.StatusInternalServerError, http.StatusBadGateway} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := NewClient(server.URL, 5*time.Second, nil)
		_, err := client.Extract(context.Background(), "https://example.com/story", "TestAgent/1.0")

		var httpErr *domain.HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("status %d: error = %v, want HTTPError", status, err)
		}
		if httpErr.Status != status {
			t.Fatalf("HTTPError.Status = %d, want %d", httpErr.Status, status)
		}
		server.Close()
	}
}

func TestExtractRateLimitCarriesRetryAfter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	_, err := client.Extract(context.Background(), "https://example.com/story", "TestAgent/1.0")

	var httpErr *domain.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want HTTPError", err)
	}
	if httpErr.Status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", httpErr.Status)
	}
	if httpErr.RetryAfter != 7*time.Second {
		t.Fatalf("RetryAfter = %v, want 7s", httpErr.RetryAfter)
	}
}

func TestExtractEmptyContent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "x", "content": "   "})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	_, err := client.Extract(context.Background(), "https://example.com/story", "TestAgent/1.0")
	if !errors.Is(err, domain.ErrNoContent) {
		t.Fatalf("error = %v, want ErrNoContent", err)
	}
}

func TestExtractTimeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond, nil)
	_, err := client.Extract(context.Background(), "https://example.com/story", "TestAgent/1.0")
	if !errors.Is(err, domain.ErrExtractTimeout) {
		t.Fatalf("error = %v, want ErrExtractTimeout", err)
	}
}

func TestRotatorPicksFromPool(t *testing.T) {
	t.Parallel()

	pool := []string{"agent-a", "agent-b"}
	rotator := NewRotator(pool)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		ua := rotator.Pick()
		if ua != "agent-a" && ua != "agent-b" {
			t.Fatalf("Pick returned %q, not in pool", ua)
		}
		seen[ua] = true
	}
	if len(seen) != 2 {
		t.Fatalf("expected both agents picked across 100 draws, got %v", seen)
	}
}

func TestRotatorDefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	rotator := NewRotator(nil)
	if rotator.Pick() == "" {
		t.Fatal("expected a default user agent")
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	if got := parseRetryAfter("12"); got != 12*time.Second {
		t.Fatalf("parseRetryAfter(12) = %v", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Fatalf("parseRetryAfter(empty) = %v", got)
	}
	if got := parseRetryAfter("garbage"); got != 0 {
		t.Fatalf("parseRetryAfter(garbage) = %v", got)
	}
}
