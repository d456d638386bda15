package domain

import "time"

// FeedItem is one entry of a parsed RSS/Atom document.
type FeedItem struct {
	Title           string
	Link            string
	PublicationDate time.Time
}

// Feed is the parsed form of an RSS/Atom document.
type Feed struct {
	URL   string
	Title string
	Items []FeedItem
}
