// Package orchestrator sequences render jobs across a batch and aggregates
// their results.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/animakit/scenectl/internal/domain"
	"github.com/animakit/scenectl/internal/quality"
	"github.com/animakit/scenectl/internal/registry"
	"github.com/animakit/scenectl/internal/render"
)

// TargetAll selects every discovered scene.
const TargetAll = "all"

// Runner executes a single render job to completion.
type Runner interface {
	Execute(ctx context.Context, job domain.RenderJob) domain.RenderResult
}

// Options tunes a batch run.
type Options struct {
	MediaDir string
	Jobs     int // max concurrent renders; <=1 means sequential
	OnStart  func(domain.RenderJob)
	OnResult func(domain.RenderResult)
}

// Orchestrator drives render jobs against a fixed set of discovered scenes.
type Orchestrator struct {
	scenes []domain.Scene
	runner Runner
	opts   Options
}

// New builds an orchestrator over an already-discovered scene catalog.
func New(scenes []domain.Scene, runner Runner, opts Options) *Orchestrator {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Orchestrator{scenes: scenes, runner: runner, opts: opts}
}

// Scenes returns the catalog in discovery order. Listing mode uses this
// directly and never constructs a job.
func (o *Orchestrator) Scenes() []domain.Scene {
	out := make([]domain.Scene, len(o.scenes))
	copy(out, o.scenes)
	return out
}

// Run resolves the target and quality token, executes the selected jobs, and
// returns the aggregated summary. A failing job never aborts the batch;
// render failures are scene-local. Results are reported in discovery order
// regardless of completion order.
func (o *Orchestrator) Run(ctx context.Context, target, token string) (*domain.RunSummary, error) {
	profile, err := quality.Resolve(token)
	if err != nil {
		return nil, err
	}

	var selected []domain.Scene
	if target == TargetAll {
		selected = o.scenes
	} else {
		for _, s := range o.scenes {
			if s.Name == target {
				selected = []domain.Scene{s}
				break
			}
		}
		if selected == nil {
			return nil, &domain.UnknownSceneError{Name: target, Available: registry.Names(o.scenes)}
		}
	}

	jobs := make([]domain.RenderJob, len(selected))
	for i, s := range selected {
		jobs[i] = domain.RenderJob{
			Scene:      s,
			Profile:    profile,
			OutputPath: render.OutputPath(o.opts.MediaDir, s, profile),
		}
	}

	summary := &domain.RunSummary{
		ID:        uuid.NewString(),
		Target:    target,
		Quality:   profile.Token,
		StartedAt: time.Now(),
	}

	log.Info().Str("run_id", summary.ID).Str("target", target).
		Str("quality", profile.Token).Int("jobs", len(jobs)).Msg("starting run")

	results := make([]*domain.RenderResult, len(jobs))
	if o.opts.Jobs == 1 {
		o.runSequential(ctx, jobs, results)
	} else {
		o.runBounded(ctx, jobs, results)
	}

	// Collapse in discovery order, dropping jobs never attempted.
	for _, r := range results {
		if r != nil {
			summary.Add(*r)
		}
	}
	summary.Aborted = ctx.Err() != nil
	summary.FinishedAt = time.Now()

	log.Info().Str("run_id", summary.ID).Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).Bool("aborted", summary.Aborted).Msg("run finished")

	return summary, nil
}

func (o *Orchestrator) runSequential(ctx context.Context, jobs []domain.RenderJob, results []*domain.RenderResult) {
	for i, job := range jobs {
		if ctx.Err() != nil {
			return
		}
		o.execute(ctx, job, &results[i])
	}
}

func (o *Orchestrator) runBounded(ctx context.Context, jobs []domain.RenderJob, results []*domain.RenderResult) {
	g := new(errgroup.Group)
	g.SetLimit(o.opts.Jobs)
	for i, job := range jobs {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			o.execute(ctx, job, &results[i])
			return nil
		})
	}
	g.Wait()
}

func (o *Orchestrator) execute(ctx context.Context, job domain.RenderJob, slot **domain.RenderResult) {
	if o.opts.OnStart != nil {
		o.opts.OnStart(job)
	}
	res := o.runner.Execute(ctx, job)
	*slot = &res
	if o.opts.OnResult != nil {
		o.opts.OnResult(res)
	}
}
