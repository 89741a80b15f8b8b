package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/animakit/scenectl/internal/config"
	"github.com/animakit/scenectl/internal/domain"
	"github.com/animakit/scenectl/internal/orchestrator"
	"github.com/animakit/scenectl/internal/quality"
	"github.com/animakit/scenectl/internal/registry"
	"github.com/animakit/scenectl/internal/render"
	"github.com/animakit/scenectl/internal/report"
	"github.com/animakit/scenectl/internal/schedule"
	"github.com/animakit/scenectl/internal/watch"
	"github.com/animakit/scenectl/tui"
	"github.com/animakit/scenectl/web/preview"
)

var (
	renderJobs   int
	renderReport string
	renderTUI    bool
	serveHost    string
	servePort    int
)

// errAborted marks a run cut short by an interrupt signal.
var errAborted = errors.New("render run interrupted")

// batchFailedError reports a batch that completed with scene-local failures.
type batchFailedError struct {
	failed int
	total  int
}

func (e *batchFailedError) Error() string {
	return fmt.Sprintf("%d of %d renders failed", e.failed, e.total)
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func init() {
	// list command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
	rootCmd.AddCommand(listCmd)

	// render command
	renderCmd := &cobra.Command{
		Use:   "render <scene|all> [quality]",
		Short: "Render a scene or every discovered scene",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) > 1 {
				token = args[1]
			}
			return runRender(cmd.Context(), args[0], token)
		},
	}
	renderCmd.Flags().IntVar(&renderJobs, "jobs", 0, "max concurrent renders (default from config)")
	renderCmd.Flags().StringVar(&renderReport, "report", "", "write a YAML run report to this path")
	renderCmd.Flags().BoolVar(&renderTUI, "tui", false, "show a live progress dashboard")
	rootCmd.AddCommand(renderCmd)

	// watch command
	watchCmd := &cobra.Command{
		Use:   "watch [quality]",
		Short: "Re-render scenes when their source files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) > 0 {
				token = args[0]
			}
			return runWatch(cmd.Context(), token)
		},
	}
	rootCmd.AddCommand(watchCmd)

	// serve command
	serveCmd := &cobra.Command{
		Use:   "serve [quality]",
		Short: "Serve rendered media with live re-render on change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) > 0 {
				token = args[0]
			}
			return runServe(cmd.Context(), token)
		},
	}
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)

	// schedule command
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run configured cron-driven batch renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd.Context())
		},
	}
	rootCmd.AddCommand(scheduleCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

func newRunner(cfg *config.Config) *render.Runner {
	return &render.Runner{
		Binary:     cfg.Engine.Binary,
		MediaDir:   cfg.General.MediaDir,
		ExtraFlags: cfg.Engine.ExtraFlags,
		StderrTail: cfg.Engine.StderrTailLines,
	}
}

// runRoot implements the bare CLI contract: no args lists scenes, one or two
// args render a target at an optional quality.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runList()
	}
	token := ""
	if len(args) > 1 {
		token = args[1]
	}
	return runRender(cmd.Context(), args[0], token)
}

// runList is a pure query: no job is built, no process is spawned.
func runList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	scenes, err := registry.Discover(cfg.General.ScenesDir)
	if err != nil {
		return err
	}
	if len(scenes) == 0 {
		fmt.Printf("No scenes found in %s\n", cfg.General.ScenesDir)
		return nil
	}

	fmt.Println("Available scenes:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range scenes {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", s.Name, filepath.Base(s.SourcePath),
			kindStyle.Render("["+string(s.Kind)+"]"))
	}
	return w.Flush()
}

func runRender(ctx context.Context, target, token string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if token == "" {
		token = cfg.General.DefaultQuality
	}
	scenes, err := registry.Discover(cfg.General.ScenesDir)
	if err != nil {
		return err
	}

	jobs := cfg.General.Jobs
	if renderJobs > 0 {
		jobs = renderJobs
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary *domain.RunSummary
	if renderTUI {
		summary, err = renderWithTUI(ctx, cfg, scenes, target, token, jobs)
	} else {
		summary, err = renderPlain(ctx, cfg, scenes, target, token, jobs)
	}
	if err != nil {
		return err
	}

	fmt.Printf("\n%d succeeded, %d failed (quality %s)\n", summary.Succeeded, summary.Failed, summary.Quality)

	if renderReport != "" {
		if err := report.Write(renderReport, summary); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", renderReport)
	}

	if summary.Aborted {
		return errAborted
	}
	if summary.Failed > 0 {
		return &batchFailedError{failed: summary.Failed, total: len(summary.Results)}
	}
	return nil
}

func renderPlain(ctx context.Context, cfg *config.Config, scenes []domain.Scene, target, token string, jobs int) (*domain.RunSummary, error) {
	orch := orchestrator.New(scenes, newRunner(cfg), orchestrator.Options{
		MediaDir: cfg.General.MediaDir,
		Jobs:     jobs,
		OnStart: func(j domain.RenderJob) {
			fmt.Printf("Rendering %s from %s\n", j.Scene.Name, filepath.Base(j.Scene.SourcePath))
		},
		OnResult: printResult,
	})
	return orch.Run(ctx, target, token)
}

func renderWithTUI(ctx context.Context, cfg *config.Config, scenes []domain.Scene, target, token string, jobs int) (*domain.RunSummary, error) {
	selected, err := selectScenes(scenes, target)
	if err != nil {
		return nil, err
	}
	if _, err := quality.Resolve(token); err != nil {
		return nil, err
	}

	events := make(chan tea.Msg, 64)
	orch := orchestrator.New(scenes, newRunner(cfg), orchestrator.Options{
		MediaDir: cfg.General.MediaDir,
		Jobs:     jobs,
		OnStart:  func(j domain.RenderJob) { events <- tui.StartMsg{Scene: j.Scene.Name} },
		OnResult: func(r domain.RenderResult) { events <- tui.ResultMsg(r) },
	})

	type runOutcome struct {
		summary *domain.RunSummary
		err     error
	}
	done := make(chan runOutcome, 1)
	go func() {
		summary, err := orch.Run(ctx, target, token)
		if summary != nil {
			events <- tui.DoneMsg{Aborted: summary.Aborted}
		}
		close(events)
		done <- runOutcome{summary, err}
	}()

	p := tea.NewProgram(tui.NewModel(selected, token, events))
	_, runErr := p.Run()

	// The user may quit the dashboard while jobs are still running; keep
	// draining so the orchestrator callbacks never block.
	go func() {
		for range events {
		}
	}()

	out := <-done
	if runErr != nil {
		return nil, runErr
	}
	return out.summary, out.err
}

// selectScenes resolves a target the same way the orchestrator does; the TUI
// needs the row set before the run starts.
func selectScenes(scenes []domain.Scene, target string) ([]domain.Scene, error) {
	if target == orchestrator.TargetAll {
		return scenes, nil
	}
	for _, s := range scenes {
		if s.Name == target {
			return []domain.Scene{s}, nil
		}
	}
	return nil, &domain.UnknownSceneError{Name: target, Available: registry.Names(scenes)}
}

func printResult(r domain.RenderResult) {
	name := r.Job.Scene.Name
	dur := r.Duration.Round(time.Millisecond)
	switch r.Outcome {
	case domain.OutcomeSucceeded:
		fmt.Printf("%s %s (%s) -> %s\n", okStyle.Render("✓"), name, dur, r.Job.OutputPath)
	default:
		fmt.Printf("%s %s (%s): %s\n", failStyle.Render("✗"), name, dur, r.Message)
	}
}

func runWatch(ctx context.Context, token string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if token == "" {
		token = cfg.General.DefaultQuality
	}
	if _, err := quality.Resolve(token); err != nil {
		return err
	}
	// Fail fast on an unusable scenes directory before waiting for events.
	if _, err := registry.Discover(cfg.General.ScenesDir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderChanged := changedFileRenderer(cfg, token, printResult, nil)
	watcher := watch.New(cfg.General.ScenesDir, debounce(cfg), renderChanged)

	fmt.Printf("Watching %s (quality %s), ctrl-c to stop\n", cfg.General.ScenesDir, token)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServe(ctx context.Context, token string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if token == "" {
		token = cfg.General.DefaultQuality
	}
	if _, err := quality.Resolve(token); err != nil {
		return err
	}
	scenes, err := registry.Discover(cfg.General.ScenesDir)
	if err != nil {
		return err
	}

	host := cfg.Preview.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Preview.Port
	if servePort > 0 {
		port = servePort
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	var mu sync.RWMutex
	catalog := scenes
	snapshot := func() []domain.Scene {
		mu.RLock()
		defer mu.RUnlock()
		return slices.Clone(catalog)
	}

	srv := preview.NewServer(addr, cfg.General.MediaDir, snapshot)

	renderChanged := changedFileRenderer(cfg, token,
		func(r domain.RenderResult) {
			printResult(r)
			srv.Broadcast(preview.RenderEvent{
				Type:       "render",
				Scene:      r.Job.Scene.Name,
				Outcome:    string(r.Outcome),
				Output:     r.Job.OutputPath,
				DurationMS: r.Duration.Milliseconds(),
			})
		},
		func(updated []domain.Scene) {
			mu.Lock()
			catalog = updated
			mu.Unlock()
		})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error {
		err := watch.New(cfg.General.ScenesDir, debounce(cfg), renderChanged).Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	fmt.Printf("Preview at http://%s (watching %s, quality %s)\n", addr, cfg.General.ScenesDir, token)
	return g.Wait()
}

func runSchedule(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	run := func(ctx context.Context, token string) {
		scenes, err := registry.Discover(cfg.General.ScenesDir)
		if err != nil {
			log.Error().Err(err).Msg("scheduled discovery failed")
			return
		}
		orch := orchestrator.New(scenes, newRunner(cfg), orchestrator.Options{
			MediaDir: cfg.General.MediaDir,
			Jobs:     cfg.General.Jobs,
		})
		summary, err := orch.Run(ctx, orchestrator.TargetAll, token)
		if err != nil {
			log.Error().Err(err).Msg("scheduled run failed")
			return
		}
		log.Info().Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).
			Msg("scheduled run complete")
	}

	sched, err := schedule.New(cfg.Schedule, run)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Running %d schedule(s), ctrl-c to stop\n", len(cfg.Schedule))
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// changedFileRenderer returns the watch callback: rediscover the catalog,
// then render every scene declared in the changed file. Discovery errors are
// logged, not fatal; the watch keeps running while the user edits.
func changedFileRenderer(cfg *config.Config, token string, onResult func(domain.RenderResult), onCatalog func([]domain.Scene)) watch.RenderFunc {
	runner := newRunner(cfg)
	return func(ctx context.Context, path string) {
		scenes, err := registry.Discover(cfg.General.ScenesDir)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("discovery failed after change")
			return
		}
		if onCatalog != nil {
			onCatalog(scenes)
		}

		orch := orchestrator.New(scenes, runner, orchestrator.Options{
			MediaDir: cfg.General.MediaDir,
			OnResult: onResult,
		})
		for _, s := range scenes {
			if s.SourcePath != path {
				continue
			}
			fmt.Printf("Change detected, rendering %s from %s\n", s.Name, filepath.Base(path))
			if _, err := orch.Run(ctx, s.Name, token); err != nil {
				log.Error().Err(err).Str("scene", s.Name).Msg("re-render failed")
			}
		}
	}
}

func debounce(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
}
