package domain

import "time"

// Source is a monitored feed plus display metadata.
type Source struct {
	URL           string
	Name          string
	Description   string
	DateAdded     time.Time
	LastModified  time.Time
	LastRefreshed time.Time
}
