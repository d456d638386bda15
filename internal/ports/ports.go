package ports

import (
	"context"
	"time"

	"NewsScanner/internal/domain"
)

// FeedParser fetches and parses an RSS/Atom document.
type FeedParser interface {
	Parse(ctx context.Context, feedURL string) (domain.Feed, error)
	// Validate checks that the URL serves a well-formed feed and returns
	// its title.
	Validate(ctx context.Context, feedURL string) (string, error)
	// HasLinkOverride reports whether the feed's domain is a known
	// redirect-wrapping aggregator with a link-extraction override.
	HasLinkOverride(feedURL string) bool
}

// ContentExtractor calls the external extraction service for one article URL.
type ContentExtractor interface {
	Extract(ctx context.Context, articleURL, userAgent string) (domain.ExtractedContent, error)
}

// UserAgentSource supplies a user agent for each extraction attempt.
type UserAgentSource interface {
	Pick() string
}

// Analyzer turns extracted article HTML into statistics and scores.
type Analyzer interface {
	Analyze(content string) (domain.ReadabilityReport, error)
}

// ArticleRepository persists analyzed articles keyed by URL.
type ArticleRepository interface {
	UpsertArticle(ctx context.Context, article domain.Article) error
	CountBySource(ctx context.Context, sourceURL string) (int, error)
	LatestBySource(ctx context.Context, sourceURL string) (*domain.Article, error)
	AggregateByHost(ctx context.Context, minArticles int) ([]domain.HostReadability, error)
}

// SourceRepository persists monitored feeds keyed by URL.
type SourceRepository interface {
	UpsertSource(ctx context.Context, source domain.Source) (domain.Source, error)
	GetByURL(ctx context.Context, url string) (*domain.Source, error)
	ListAll(ctx context.Context) ([]domain.Source, error)
	TouchRefreshed(ctx context.Context, url string, at time.Time) error
	Delete(ctx context.Context, url string) error
}

// Scheduler drives recurring scan jobs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
