package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

// ScanFacadeDeps lists the collaborators of the batch scan facade.
type ScanFacadeDeps struct {
	Scanner *Scanner
	Sources ports.SourceRepository
	Driver  ports.Scheduler
	Logger  *slog.Logger

	// MaxConcurrentSources caps how many feeds scan at once.
	MaxConcurrentSources int
}

// ScanFacade fans a batch scan out over every tracked source with bounded
// concurrency, and binds the batch to a recurring schedule.
type ScanFacade struct {
	deps ScanFacadeDeps

	mu       sync.Mutex
	running  bool
	lastScan time.Time
}

func NewScanFacade(deps ScanFacadeDeps) *ScanFacade {
	if deps.MaxConcurrentSources <= 0 {
		deps.MaxConcurrentSources = 5
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &ScanFacade{deps: deps}
}

// ScanAll scans every tracked source and returns one result per source, in
// listing order. Listing failure is the only error path; individual source
// failures are carried inside their results.
func (f *ScanFacade) ScanAll(ctx context.Context) ([]domain.ScanResult, error) {
	sources, err := f.deps.Sources.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		f.deps.Logger.Info("no sources to scan")
		return nil, nil
	}

	f.deps.Logger.Info("batch scan started", "sources", len(sources))
	started := time.Now()

	sem := semaphore.NewWeighted(int64(f.deps.MaxConcurrentSources))
	results := make([]domain.ScanResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled; mark the remaining slots instead of blocking.
			results[i] = domain.ScanResult{
				SourceURL:  src.URL,
				SourceName: src.Name,
				Error:      "scan cancelled: " + err.Error(),
			}
			continue
		}
		wg.Add(1)
		go func(index int, src domain.Source) {
			defer wg.Done()
			defer sem.Release(1)
			result := f.deps.Scanner.ScanSource(ctx, src.URL)
			if result.SourceName == "" {
				result.SourceName = src.Name
			}
			results[index] = result
		}(i, src)
	}
	wg.Wait()

	f.mu.Lock()
	f.lastScan = time.Now().UTC()
	f.mu.Unlock()

	f.deps.Logger.Info("batch scan finished",
		"sources", len(sources),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return results, nil
}

// ScanOne scans a single source immediately, outside the schedule.
func (f *ScanFacade) ScanOne(ctx context.Context, sourceURL string) domain.ScanResult {
	return f.deps.Scanner.ScanSource(ctx, sourceURL)
}

// Start binds ScanAll to the recurring schedule driver.
func (f *ScanFacade) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil
	}
	f.running = true
	f.mu.Unlock()

	return f.deps.Driver.Start(ctx, func(t time.Time) {
		f.deps.Logger.Info("scheduled scan triggered", "at", t.Format(time.RFC3339))
		if _, err := f.ScanAll(ctx); err != nil {
			f.deps.Logger.Error("scheduled scan failed", "error", err)
		}
	})
}

// Stop halts the schedule driver. In-flight scans finish on their own.
func (f *ScanFacade) Stop(ctx context.Context) error {
	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
	return f.deps.Driver.Stop(ctx)
}

// Status reports whether the schedule is active and when the last batch ran.
func (f *ScanFacade) Status() (running bool, lastScan time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running, f.lastScan
}
