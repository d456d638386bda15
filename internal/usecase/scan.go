package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

// ScannerDeps lists everything the scanner needs injected.
type ScannerDeps struct {
	Feeds     ports.FeedParser
	Extractor ports.ContentExtractor
	Agents    ports.UserAgentSource
	Analyzer  ports.Analyzer
	Articles  ports.ArticleRepository
	Sources   ports.SourceRepository
	Logger    *slog.Logger

	// MaxAttempts bounds extraction tries per item, including the first.
	MaxAttempts int
	// StaggerDelay spaces item launches: items in batch n wait n*StaggerDelay.
	StaggerDelay time.Duration
	// StaggerBatch is how many items share one launch slot.
	StaggerBatch int
	// BackoffBase scales the wait between retry attempts.
	BackoffBase time.Duration
}

// Scanner runs the full pipeline for one source: feed parse, per-item
// extraction with retries, readability analysis, and storage.
type Scanner struct {
	deps ScannerDeps
}

// NewScanner applies defaults for unset tuning knobs.
func NewScanner(deps ScannerDeps) *Scanner {
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = 2
	}
	if deps.StaggerDelay <= 0 {
		deps.StaggerDelay = 100 * time.Millisecond
	}
	if deps.StaggerBatch <= 0 {
		deps.StaggerBatch = 5
	}
	if deps.BackoffBase <= 0 {
		deps.BackoffBase = time.Second
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Scanner{deps: deps}
}

type itemOutcome struct {
	kind domain.FailureKind
	ok   bool
}

// ScanSource scans one feed end to end. It never returns an error; every
// failure mode lands in the result so a bad source cannot break a batch.
func (s *Scanner) ScanSource(ctx context.Context, sourceURL string) (result domain.ScanResult) {
	result = domain.ScanResult{
		SourceURL: sourceURL,
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		result.FinishedAt = time.Now().UTC()
	}()

	log := s.deps.Logger.With("source", sourceURL)

	feed, err := s.deps.Feeds.Parse(ctx, sourceURL)
	if err != nil {
		log.Error("feed parse failed", "error", err)
		result.Error = err.Error()
		return result
	}

	result.SourceName = feed.Title
	result.TotalItems = len(feed.Items)
	if len(feed.Items) == 0 {
		log.Info("feed has no items", "title", feed.Title)
		s.touchRefreshed(ctx, sourceURL, log)
		return result
	}

	log.Info("scanning feed", "title", feed.Title, "items", len(feed.Items))

	outcomes := make([]itemOutcome, len(feed.Items))
	var wg sync.WaitGroup
	for i, item := range feed.Items {
		wg.Add(1)
		go func(index int, item domain.FeedItem) {
			defer wg.Done()
			delay := s.deps.StaggerDelay * time.Duration(index/s.deps.StaggerBatch)
			if delay > 0 && !sleepCtx(ctx, delay) {
				outcomes[index] = itemOutcome{kind: domain.FailureOther}
				return
			}
			outcomes[index] = s.scanItem(ctx, item, sourceURL, log)
		}(i, item)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.ok {
			result.Succeeded++
			continue
		}
		result.Failed++
		switch o.kind {
		case domain.FailureServerError:
			result.Failures.ServerError++
		case domain.FailureAccessDenied:
			result.Failures.AccessDenied++
		case domain.FailureRateLimited:
			result.Failures.RateLimited++
		case domain.FailureTimeout:
			result.Failures.Timeout++
		case domain.FailureNoContent:
			result.Failures.NoContent++
		default:
			result.Failures.Other++
		}
	}

	s.diagnose(&result)
	s.touchRefreshed(ctx, sourceURL, log)

	log.Info("scan finished",
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"success_rate", fmt.Sprintf("%.1f%%", result.SuccessRate()),
	)
	return result
}

// scanItem extracts, analyzes, and stores one feed item. A retryable failure
// gets one more attempt with a fresh user agent.
func (s *Scanner) scanItem(ctx context.Context, item domain.FeedItem, sourceURL string, log *slog.Logger) itemOutcome {
	if _, err := url.ParseRequestURI(item.Link); err != nil || item.Link == "" {
		log.Warn("skipping item with bad link", "title", item.Title, "link", item.Link)
		return itemOutcome{kind: domain.FailureOther}
	}

	var lastErr error
	for attempt := 1; attempt <= s.deps.MaxAttempts; attempt++ {
		agent := ""
		if s.deps.Agents != nil {
			agent = s.deps.Agents.Pick()
		}

		content, err := s.deps.Extractor.Extract(ctx, item.Link, agent)
		if err == nil {
			if storeErr := s.storeArticle(ctx, item, sourceURL, content); storeErr != nil {
				log.Error("storing article failed", "url", item.Link, "error", storeErr)
				return itemOutcome{kind: domain.ClassifyFailure(storeErr)}
			}
			return itemOutcome{ok: true}
		}

		lastErr = err
		if attempt == s.deps.MaxAttempts || !domain.Retryable(err) {
			break
		}

		wait := s.retryDelay(err, attempt)
		log.Debug("retrying extraction", "url", item.Link, "attempt", attempt, "wait", wait, "error", err)
		if !sleepCtx(ctx, wait) {
			break
		}
	}

	log.Warn("item failed", "url", item.Link, "error", lastErr)
	return itemOutcome{kind: domain.ClassifyFailure(lastErr)}
}

// retryDelay honors a server-provided Retry-After, else backs off linearly.
func (s *Scanner) retryDelay(err error, attempt int) time.Duration {
	var httpErr *domain.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}
	return s.deps.BackoffBase * time.Duration(attempt)
}

func (s *Scanner) storeArticle(ctx context.Context, item domain.FeedItem, sourceURL string, content domain.ExtractedContent) error {
	report, err := s.deps.Analyzer.Analyze(content.Content)
	if err != nil {
		return err
	}

	host := ""
	if parsed, err := url.Parse(item.Link); err == nil {
		host = parsed.Hostname()
	}

	article := domain.Article{
		URL:             item.Link,
		Title:           item.Title,
		Origin:          sourceURL,
		PublicationDate: item.PublicationDate,
		Host:            host,
		RawContent:      content.Content,
		CleanedText:     report.CleanedText,
		Stats:           report.Stats,
		Scores:          report.Scores,
		AnalyzedAt:      time.Now().UTC(),
	}
	return s.deps.Articles.UpsertArticle(ctx, article)
}

// diagnose attaches warnings when the failure pattern points at a systemic
// cause rather than scattered bad luck.
func (s *Scanner) diagnose(result *domain.ScanResult) {
	if result.Failed == 0 {
		return
	}
	failed := float64(result.Failed)

	if float64(result.Failures.AccessDenied)/failed > 0.5 {
		result.AddWarning("most failures are 401/403 responses; the site is likely blocking automated access")
	}
	if float64(result.Failures.RateLimited)/failed > 0.3 {
		result.AddWarning("frequent 429 responses; reduce scan frequency or concurrency for this source")
	}
	if float64(result.Failures.ServerError)/failed > 0.7 {
		result.AddWarning("the site or extraction service is returning server errors; it may be down")
	}
	if float64(result.Failures.NoContent)/failed > 0.8 {
		if s.deps.Feeds != nil && !s.deps.Feeds.HasLinkOverride(result.SourceURL) {
			result.AddWarning("extraction yields no content; the feed may wrap links through an aggregator that needs a link override")
		} else {
			result.AddWarning("extraction yields no content for most items; article pages may be script-rendered")
		}
	}
	if result.FailureRate() > 75 {
		result.AddWarning("over three quarters of items failed; the source is likely blocking the scanner")
	}
}

func (s *Scanner) touchRefreshed(ctx context.Context, sourceURL string, log *slog.Logger) {
	if s.deps.Sources == nil {
		return
	}
	if err := s.deps.Sources.TouchRefreshed(ctx, sourceURL, time.Now().UTC()); err != nil {
		log.Warn("updating last_refreshed failed", "error", err)
	}
}

// sleepCtx waits for d or until ctx is cancelled. It reports whether the full
// duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
