package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartRunsJobImmediately(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	var runs atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer s.Stop(context.Background())

	deadline := time.After(time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job did not run on start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if !s.Running() {
		t.Fatal("scheduler should report running")
	}
	if s.NextRun().IsZero() {
		t.Fatal("next run should be set while running")
	}
}

func TestStopHaltsTicking(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(10 * time.Millisecond)
	var runs atomic.Int32

	if err := s.Start(context.Background(), func(time.Time) { runs.Add(1) }); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	time.Sleep(35 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}

	if s.Running() {
		t.Fatal("scheduler should report stopped")
	}

	after := runs.Load()
	time.Sleep(35 * time.Millisecond)
	if runs.Load() != after {
		t.Fatal("job kept running after Stop")
	}

	// Stop twice is safe.
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop returned error: %v", err)
	}
}

func TestStartTwiceIsNoOp(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	defer s.Stop(context.Background())

	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := s.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("second Start returned error: %v", err)
	}
}
