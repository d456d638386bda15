package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

// LinkResolver pulls the true article URL out of an aggregator item whose
// link field points at a redirect or comment page.
type LinkResolver func(item *gofeed.Item) string

// Parser fetches and parses RSS/Atom documents, applying per-domain link
// overrides for known redirect-wrapping aggregators.
type Parser struct {
	agents    ports.UserAgentSource
	timeout   time.Duration
	overrides map[string]LinkResolver
	logger    *slog.Logger
}

var _ ports.FeedParser = (*Parser)(nil)

// NewParser wires the user-agent source and request timeout. Google News
// style aggregators are registered out of the box.
func NewParser(agents ports.UserAgentSource, timeout time.Duration, logger *slog.Logger) *Parser {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	p := &Parser{
		agents:    agents,
		timeout:   timeout,
		overrides: map[string]LinkResolver{},
		logger:    logger,
	}
	p.RegisterLinkOverride("news.google.com", resolveBodyAnchor)
	p.RegisterLinkOverride("slashdot.org", resolveBodyAnchor)
	return p
}

// RegisterLinkOverride installs a resolver for feeds whose host contains the
// given domain pattern. Only registered domains get their item links rewritten.
func (p *Parser) RegisterLinkOverride(domainPattern string, resolver LinkResolver) {
	p.overrides[strings.ToLower(domainPattern)] = resolver
}

// HasLinkOverride reports whether the feed URL belongs to a registered
// redirect-wrapping aggregator.
func (p *Parser) HasLinkOverride(feedURL string) bool {
	return p.resolverFor(feedURL) != nil
}

func (p *Parser) resolverFor(feedURL string) LinkResolver {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(parsed.Hostname())
	for pattern, resolver := range p.overrides {
		if strings.Contains(host, pattern) {
			return resolver
		}
	}
	return nil
}

// Parse fetches feedURL and returns its items. A document that does not
// parse as a feed, or parses without a title, fails with domain.ErrFeedParse.
func (p *Parser) Parse(ctx context.Context, feedURL string) (domain.Feed, error) {
	if err := validateURL(feedURL); err != nil {
		return domain.Feed{}, err
	}

	fp := gofeed.NewParser()
	if p.agents != nil {
		fp.UserAgent = p.agents.Pick()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	parsed, err := fp.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("%w: %s: %v", domain.ErrFeedParse, feedURL, err)
	}
	if strings.TrimSpace(parsed.Title) == "" {
		return domain.Feed{}, fmt.Errorf("%w: %s: feed has no title", domain.ErrFeedParse, feedURL)
	}

	resolver := p.resolverFor(feedURL)

	feed := domain.Feed{URL: feedURL, Title: strings.TrimSpace(parsed.Title)}
	for _, item := range parsed.Items {
		feed.Items = append(feed.Items, p.parseItem(item, resolver))
	}

	if p.logger != nil {
		p.logger.Debug("parsed feed", "url", feedURL, "title", feed.Title, "items", len(feed.Items))
	}

	return feed, nil
}

// Validate checks that feedURL serves a well-formed feed and returns its title.
func (p *Parser) Validate(ctx context.Context, feedURL string) (string, error) {
	feed, err := p.Parse(ctx, feedURL)
	if err != nil {
		return "", err
	}
	return feed.Title, nil
}

func (p *Parser) parseItem(item *gofeed.Item, resolver LinkResolver) domain.FeedItem {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled Article"
	}

	link := strings.TrimSpace(item.Link)
	if resolver != nil {
		if corrected := resolver(item); corrected != "" {
			if p.logger != nil {
				p.logger.Debug("link override applied", "wrapped", link, "corrected", corrected)
			}
			link = corrected
		}
	}

	var published time.Time
	switch {
	case item.PublishedParsed != nil:
		published = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		published = item.UpdatedParsed.UTC()
	}

	return domain.FeedItem{
		Title:           title,
		Link:            link,
		PublicationDate: published,
	}
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", domain.ErrInvalidURL, raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidURL, parsed.Scheme)
	}
	return nil
}

// resolveBodyAnchor finds the first external anchor in the item body. Feeds
// like Google News put the real destination there while the link field points
// back at the aggregator.
func resolveBodyAnchor(item *gofeed.Item) string {
	body := item.Content
	if body == "" {
		body = item.Description
	}
	if body == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	wrappedHost := ""
	if parsed, err := url.Parse(item.Link); err == nil {
		wrappedHost = strings.ToLower(parsed.Hostname())
	}

	found := ""
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		parsed, err := url.Parse(href)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return true
		}
		// Skip anchors that point back into the aggregator itself.
		if wrappedHost != "" && strings.EqualFold(parsed.Hostname(), wrappedHost) {
			return true
		}
		found = href
		return false
	})
	return found
}
