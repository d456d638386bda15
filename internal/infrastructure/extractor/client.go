package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

// Client talks to the external content-extraction service. The service takes
// an article URL and returns the main article body, stripped of chrome.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.ContentExtractor = (*Client)(nil)

// NewClient builds a reusable extraction client with a bounded per-request
// timeout.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Extract requests the article body for articleURL, forwarding userAgent for
// the service's outbound fetch. Non-2xx statuses surface as *domain.HTTPError
// so the scanner can decide retryability; a 2xx with an empty content field
// is domain.ErrNoContent.
func (c *Client) Extract(ctx context.Context, articleURL, userAgent string) (domain.ExtractedContent, error) {
	body, err := json.Marshal(map[string]any{
		"url": articleURL,
		"headers": map[string]string{
			"User-Agent": userAgent,
		},
	})
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "NewsScanner/1.0")

	if c.logger != nil {
		c.logger.Debug("extracting content", "url", articleURL, "user_agent", Summary(userAgent))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.ExtractedContent{}, fmt.Errorf("extract %s: %w", articleURL, domain.ErrExtractTimeout)
		}
		return domain.ExtractedContent{}, fmt.Errorf("extract %s: %w", articleURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.ExtractedContent{}, &domain.HTTPError{
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var content domain.ExtractedContent
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("decode extraction response: %w", domain.ErrNoContent)
	}

	if strings.TrimSpace(content.Content) == "" {
		return domain.ExtractedContent{}, fmt.Errorf("extract %s: %w", articleURL, domain.ErrNoContent)
	}

	if content.URL == "" {
		content.URL = articleURL
	}

	return content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// parseRetryAfter accepts both delay-seconds and HTTP-date forms.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}
	return 0
}
