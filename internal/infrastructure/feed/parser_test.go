package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsScanner/internal/domain"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <link>https://example.com</link>
    <description>Test feed</description>
    <item>
      <title>First Story</title>
      <link>https://example.com/first</link>
      <pubDate>Tue, 30 Sep 2025 19:50:52 GMT</pubDate>
    </item>
    <item>
      <title>Second Story</title>
      <link>https://example.com/second</link>
      <pubDate>Mon, 29 Sep 2025 08:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

const untitledRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title></title>
    <item><title>Story</title><link>https://example.com/a</link></item>
  </channel>
</rss>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestParseFeed(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, sampleRSS)
	parser := NewParser(nil, 5*time.Second, nil)

	feed, err := parser.Parse(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if feed.Title != "Example News" {
		t.Fatalf("title = %q, want %q", feed.Title, "Example News")
	}
	if len(feed.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(feed.Items))
	}
	if feed.Items[0].Link != "https://example.com/first" {
		t.Fatalf("first link = %q", feed.Items[0].Link)
	}
	want := time.Date(2025, time.September, 30, 19, 50, 52, 0, time.UTC)
	if !feed.Items[0].PublicationDate.Equal(want) {
		t.Fatalf("publication date = %v, want %v", feed.Items[0].PublicationDate, want)
	}
}

func TestParseFeedWithoutTitleFails(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, untitledRSS)
	parser := NewParser(nil, 5*time.Second, nil)

	_, err := parser.Parse(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrFeedParse) {
		t.Fatalf("error = %v, want ErrFeedParse", err)
	}
}

func TestParseNotAFeed(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, "<html><body>not a feed</body></html>")
	parser := NewParser(nil, 5*time.Second, nil)

	_, err := parser.Parse(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrFeedParse) {
		t.Fatalf("error = %v, want ErrFeedParse", err)
	}
}

func TestParseInvalidURL(t *testing.T) {
	t.Parallel()

	parser := NewParser(nil, 5*time.Second, nil)

	for _, raw := range []string{"", "not a url", "ftp://example.com/feed"} {
		_, err := parser.Parse(context.Background(), raw)
		if !errors.Is(err, domain.ErrInvalidURL) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestValidateReturnsTitle(t *testing.T) {
	t.Parallel()

	server := serveFeed(t, sampleRSS)
	parser := NewParser(nil, 5*time.Second, nil)

	title, err := parser.Validate(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if title != "Example News" {
		t.Fatalf("title = %q", title)
	}
}

func TestHasLinkOverride(t *testing.T) {
	t.Parallel()

	parser := NewParser(nil, 5*time.Second, nil)

	if !parser.HasLinkOverride("https://news.google.com/rss/topics/tech") {
		t.Fatal("expected override for news.google.com")
	}
	if parser.HasLinkOverride("https://example.com/rss") {
		t.Fatal("unexpected override for example.com")
	}
}

func TestResolveBodyAnchor(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{
		Link: "https://news.google.com/articles/abc123",
		Description: `Read more: <a href="https://news.google.com/articles/abc123">cached</a>
			and <a href="https://publisher.example.com/real-story">original</a>`,
	}

	got := resolveBodyAnchor(item)
	if got != "https://publisher.example.com/real-story" {
		t.Fatalf("resolveBodyAnchor = %q, want the external publisher link", got)
	}
}

func TestParseAppliesLinkOverride(t *testing.T) {
	t.Parallel()

	const wrapped = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Aggregated</title>
    <item>
      <title>Wrapped Story</title>
      <link>https://news.google.com/articles/xyz</link>
      <description>&lt;a href="https://publisher.example.com/story"&gt;source&lt;/a&gt;</description>
    </item>
  </channel>
</rss>`

	server := serveFeed(t, wrapped)
	parser := NewParser(nil, 5*time.Second, nil)
	// The test server's host is 127.0.0.1, so register an override for it.
	parser.RegisterLinkOverride("127.0.0.1", resolveBodyAnchor)

	feed, err := parser.Parse(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if feed.Items[0].Link != "https://publisher.example.com/story" {
		t.Fatalf("link = %q, want override applied", feed.Items[0].Link)
	}
}
