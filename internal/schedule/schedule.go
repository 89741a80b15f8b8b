// Package schedule runs cron-driven batch renders, keeping published media
// fresh without manual invocations.
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/animakit/scenectl/internal/config"
	"github.com/animakit/scenectl/internal/quality"
)

// RunFunc renders every discovered scene at the given quality.
type RunFunc func(ctx context.Context, qualityToken string)

// Scheduler manages scheduled batch runs
type Scheduler struct {
	entries []config.ScheduleConfig
	run     RunFunc

	mu      sync.Mutex
	running map[string]bool
}

// New validates the configured entries and builds a scheduler.
func New(entries []config.ScheduleConfig, run RunFunc) (*Scheduler, error) {
	for _, e := range entries {
		if err := validate(e); err != nil {
			return nil, err
		}
	}
	return &Scheduler{
		entries: entries,
		run:     run,
		running: make(map[string]bool),
	}, nil
}

func validate(e config.ScheduleConfig) error {
	if e.Name == "" {
		return fmt.Errorf("schedule entry missing name")
	}
	if _, err := cron.ParseStandard(e.Cron); err != nil {
		return fmt.Errorf("schedule %q: invalid cron expression %q: %w", e.Name, e.Cron, err)
	}
	if _, err := quality.Resolve(e.Quality); err != nil {
		return fmt.Errorf("schedule %q: %w", e.Name, err)
	}
	return nil
}

// Start registers all entries and blocks until ctx is cancelled. A run still
// in flight when its next tick arrives is skipped rather than overlapped.
func (s *Scheduler) Start(ctx context.Context) error {
	if len(s.entries) == 0 {
		return fmt.Errorf("no schedule entries configured")
	}

	c := cron.New()
	for _, entry := range s.entries {
		if _, err := c.AddFunc(entry.Cron, func() { s.launch(ctx, entry) }); err != nil {
			return fmt.Errorf("registering schedule %q: %w", entry.Name, err)
		}
		log.Info().Str("schedule", entry.Name).Str("cron", entry.Cron).
			Str("quality", entry.Quality).Msg("schedule registered")
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func (s *Scheduler) launch(ctx context.Context, entry config.ScheduleConfig) {
	s.mu.Lock()
	if s.running[entry.Name] {
		s.mu.Unlock()
		log.Warn().Str("schedule", entry.Name).Msg("previous run still in progress, skipping")
		return
	}
	s.running[entry.Name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, entry.Name)
		s.mu.Unlock()
	}()

	log.Info().Str("schedule", entry.Name).Msg("scheduled run starting")
	s.run(ctx, entry.Quality)
}
