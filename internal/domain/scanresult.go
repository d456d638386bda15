package domain

import "time"

// FailureBreakdown counts failed items per cause within one scan.
type FailureBreakdown struct {
	ServerError  int
	AccessDenied int
	RateLimited  int
	Timeout      int
	NoContent    int
	Other        int
}

// ScanResult reports the outcome of scanning a single source. It is a value
// object handed back to callers and never persisted.
type ScanResult struct {
	SourceURL  string
	SourceName string
	StartedAt  time.Time
	FinishedAt time.Time
	TotalItems int
	Succeeded  int
	Failed     int
	Failures   FailureBreakdown
	Error      string // set when the feed itself could not be parsed
	Warnings   []string
}

// SuccessRate returns the percentage of items stored successfully.
func (r ScanResult) SuccessRate() float64 {
	if r.TotalItems == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.TotalItems) * 100
}

// FailureRate returns the percentage of items that failed.
func (r ScanResult) FailureRate() float64 {
	if r.TotalItems == 0 {
		return 0
	}
	return float64(r.Failed) / float64(r.TotalItems) * 100
}

// AddWarning appends a diagnostic message for the caller.
func (r *ScanResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
