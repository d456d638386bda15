package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

// SourceServiceDeps lists the collaborators of the source management service.
type SourceServiceDeps struct {
	Feeds   ports.FeedParser
	Sources ports.SourceRepository
	Scanner *Scanner
	Logger  *slog.Logger
}

// SourceService manages the set of tracked feeds. Adding or repointing a
// source validates the feed first and triggers an immediate scan.
type SourceService struct {
	deps SourceServiceDeps
}

func NewSourceService(deps SourceServiceDeps) *SourceService {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &SourceService{deps: deps}
}

// AddSource validates the feed, stores it, and scans it right away. When name
// is empty the feed title is used, falling back to the hostname.
func (s *SourceService) AddSource(ctx context.Context, feedURL, name, description string) (domain.Source, domain.ScanResult, error) {
	title, err := s.deps.Feeds.Validate(ctx, feedURL)
	if err != nil {
		return domain.Source{}, domain.ScanResult{}, fmt.Errorf("validate feed: %w", err)
	}

	if strings.TrimSpace(name) == "" {
		name = title
	}
	if strings.TrimSpace(name) == "" {
		if parsed, err := url.Parse(feedURL); err == nil {
			name = parsed.Hostname()
		}
	}

	source, err := s.deps.Sources.UpsertSource(ctx, domain.Source{
		URL:         feedURL,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return domain.Source{}, domain.ScanResult{}, err
	}

	s.deps.Logger.Info("source added", "url", feedURL, "name", source.Name)

	result := s.deps.Scanner.ScanSource(ctx, feedURL)
	return source, result, nil
}

// UpdateSource changes a tracked source. Repointing the URL revalidates the
// new feed, drops the old row, and rescans; a metadata-only change does not.
func (s *SourceService) UpdateSource(ctx context.Context, oldURL, newURL, name, description string) (domain.Source, error) {
	existing, err := s.deps.Sources.GetByURL(ctx, oldURL)
	if err != nil {
		return domain.Source{}, err
	}
	if existing == nil {
		return domain.Source{}, fmt.Errorf("source %s: %w", oldURL, domain.ErrInvalidURL)
	}

	if newURL == "" || newURL == oldURL {
		updated := *existing
		if name != "" {
			updated.Name = name
		}
		if description != "" {
			updated.Description = description
		}
		return s.deps.Sources.UpsertSource(ctx, updated)
	}

	if _, err := s.deps.Feeds.Validate(ctx, newURL); err != nil {
		return domain.Source{}, fmt.Errorf("validate feed: %w", err)
	}

	moved := domain.Source{
		URL:         newURL,
		Name:        existing.Name,
		Description: existing.Description,
		DateAdded:   existing.DateAdded,
	}
	if name != "" {
		moved.Name = name
	}
	if description != "" {
		moved.Description = description
	}

	stored, err := s.deps.Sources.UpsertSource(ctx, moved)
	if err != nil {
		return domain.Source{}, err
	}
	if err := s.deps.Sources.Delete(ctx, oldURL); err != nil {
		s.deps.Logger.Warn("deleting repointed source failed", "url", oldURL, "error", err)
	}

	s.deps.Logger.Info("source repointed", "from", oldURL, "to", newURL)
	go func() {
		scanCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		s.deps.Scanner.ScanSource(scanCtx, newURL)
	}()

	return stored, nil
}

// RemoveSource stops tracking a feed. Articles already scanned from it stay
// in storage.
func (s *SourceService) RemoveSource(ctx context.Context, feedURL string) error {
	if err := s.deps.Sources.Delete(ctx, feedURL); err != nil {
		return err
	}
	s.deps.Logger.Info("source removed", "url", feedURL)
	return nil
}

// ListSources returns every tracked feed.
func (s *SourceService) ListSources(ctx context.Context) ([]domain.Source, error) {
	return s.deps.Sources.ListAll(ctx)
}
