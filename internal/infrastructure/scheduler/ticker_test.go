package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestTickerSchedulerRunsImmediatelyAndRepeats(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(10 * time.Millisecond)
	fired := make(chan time.Time, 16)

	if err := s.Start(context.Background(), func(tick time.Time) {
		select {
		case fired <- tick:
		default:
		}
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatalf("job fired %d times, want at least 3", i)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestTickerSchedulerStartTwiceIsNoop(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour)
	calls := make(chan struct{}, 4)
	job := func(time.Time) { calls <- struct{}{} }

	if err := s.Start(context.Background(), job); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(context.Background(), job); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	<-calls
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected a single immediate run, got %d extra", len(calls))
	}
}

func TestTickerSchedulerRejectsBadInterval(t *testing.T) {
	t.Parallel()

	if err := NewTickerScheduler(0).Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatalf("expected error for zero interval")
	}
	if err := NewTickerScheduler(0).Start(context.Background(), nil); err != nil {
		t.Fatalf("nil job should be ignored, got %v", err)
	}
}

func TestTickerSchedulerStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewTickerScheduler(time.Hour)
	if err := s.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop after cancel: %v", err)
	}
}
