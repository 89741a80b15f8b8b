package schedule

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/animakit/scenectl/internal/config"
)

func noopRun(ctx context.Context, quality string) {}

func TestNew_ValidEntry(t *testing.T) {
	entries := []config.ScheduleConfig{
		{Name: "nightly", Cron: "0 2 * * *", Quality: "k"},
	}
	if _, err := New(entries, noopRun); err != nil {
		t.Fatal(err)
	}
}

func TestNew_RejectsBadCron(t *testing.T) {
	entries := []config.ScheduleConfig{
		{Name: "broken", Cron: "not a cron", Quality: "l"},
	}
	_, err := New(entries, noopRun)
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should name the entry", err)
	}
}

func TestNew_RejectsBadQuality(t *testing.T) {
	entries := []config.ScheduleConfig{
		{Name: "nightly", Cron: "0 2 * * *", Quality: "ultra"},
	}
	if _, err := New(entries, noopRun); err == nil {
		t.Fatal("expected error for unknown quality token")
	}
}

func TestNew_RejectsMissingName(t *testing.T) {
	entries := []config.ScheduleConfig{
		{Cron: "0 2 * * *", Quality: "l"},
	}
	if _, err := New(entries, noopRun); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestLaunch_SkipsOverlappingRuns(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	s, err := New([]config.ScheduleConfig{
		{Name: "nightly", Cron: "0 2 * * *", Quality: "l"},
	}, func(ctx context.Context, quality string) {
		calls.Add(1)
		close(started)
		<-release
	})
	if err != nil {
		t.Fatal(err)
	}

	entry := s.entries[0]
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.launch(context.Background(), entry)
	}()

	<-started
	// second tick while the first run is in flight
	s.launch(context.Background(), entry)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("run calls = %d, want 1 (overlap must be skipped)", got)
	}
}
