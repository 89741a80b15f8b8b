// Package render invokes the external rendering engine for one job at a
// time and classifies the outcome.
package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/animakit/scenectl/internal/domain"
)

// killGrace bounds how long Wait blocks on a cancelled child before the
// process is force-reaped.
const killGrace = 10 * time.Second

// Runner executes the rendering engine as a managed child process.
type Runner struct {
	Binary     string   // engine executable, e.g. "manim"
	MediaDir   string   // engine output root; empty means the engine default
	ExtraFlags []string // pass-through flags appended to every invocation
	StderrTail int      // lines of stderr carried into failure messages
}

// OutputPath derives the conventional engine output location for a job:
// <mediaDir>/videos/<file-stem>/<res>p<fps>/<SceneName>.mp4.
func OutputPath(mediaDir string, scene domain.Scene, profile domain.QualityProfile) string {
	stem := strings.TrimSuffix(filepath.Base(scene.SourcePath), ".py")
	return filepath.Join(mediaDir, "videos", stem, profile.Dir(), scene.Name+".mp4")
}

// Execute runs the engine for one job and blocks until it exits. The child
// is killed when ctx is cancelled and is reaped on every path.
func (r *Runner) Execute(ctx context.Context, job domain.RenderJob) domain.RenderResult {
	args := r.buildArgs(job)

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.WaitDelay = killGrace

	log.Debug().Str("scene", job.Scene.Name).Strs("args", args).Msg("spawning engine")

	start := time.Now()
	err := cmd.Run()
	result := domain.RenderResult{
		Job:      job,
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Outcome = domain.OutcomeSucceeded
		result.Message = r.artifactNote(job)

	case ctx.Err() != nil:
		result.Outcome = domain.OutcomeProcessError
		result.ExitCode = -1
		result.Message = "interrupted"

	case errors.As(err, &exitErr):
		result.Outcome = domain.OutcomeEngineFailure
		result.ExitCode = exitErr.ExitCode()
		result.Message = tail(stderrBuf.String(), r.StderrTail)

	default:
		// The engine never started: missing binary, permissions, etc.
		result.Outcome = domain.OutcomeProcessError
		result.ExitCode = -1
		result.Message = err.Error()
	}

	log.Debug().
		Str("scene", job.Scene.Name).
		Str("outcome", string(result.Outcome)).
		Int("exit_code", result.ExitCode).
		Dur("duration", result.Duration).
		Msg("engine finished")

	return result
}

func (r *Runner) buildArgs(job domain.RenderJob) []string {
	args := []string{job.Profile.EngineFlag}
	if r.MediaDir != "" {
		args = append(args, "--media_dir", r.MediaDir)
	}
	args = append(args, r.ExtraFlags...)
	return append(args, job.Scene.SourcePath, job.Scene.Name)
}

// artifactNote is a best-effort existence check for reporting only; the
// artifact is the engine's contract, not ours.
func (r *Runner) artifactNote(job domain.RenderJob) string {
	if job.OutputPath == "" {
		return ""
	}
	if _, err := os.Stat(job.OutputPath); err != nil {
		log.Warn().Str("scene", job.Scene.Name).Str("path", job.OutputPath).
			Msg("engine exited 0 but no artifact found at conventional path")
		return "output not found at " + job.OutputPath
	}
	return job.OutputPath
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	if n <= 0 {
		n = 10
	}
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
