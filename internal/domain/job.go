package domain

import (
	"fmt"
	"time"
)

// QualityProfile maps a short quality token to concrete render parameters.
// The full table lives in the quality package and is built once at startup.
type QualityProfile struct {
	Token            string
	ResolutionHeight int
	FrameRate        int
	EngineFlag       string // manim quality flag, e.g. "-ql"
}

// Dir returns the media subdirectory manim uses for this profile, e.g. "480p15".
func (p QualityProfile) Dir() string {
	return fmt.Sprintf("%dp%d", p.ResolutionHeight, p.FrameRate)
}

// RenderJob pairs a scene with a quality profile for one engine invocation.
type RenderJob struct {
	Scene      Scene
	Profile    QualityProfile
	OutputPath string // where the engine is expected to write the artifact
}

// Outcome is the classified result of one render job.
type Outcome string

const (
	OutcomeSucceeded     Outcome = "succeeded"
	OutcomeEngineFailure Outcome = "engine_failure" // engine ran and exited nonzero
	OutcomeProcessError  Outcome = "process_error"  // engine could not run to completion
)

// RenderResult records how one job finished.
type RenderResult struct {
	Job      RenderJob
	Outcome  Outcome
	ExitCode int
	Duration time.Duration
	Message  string // stderr tail on failure, artifact note on success
}

// Failed reports whether the job did not produce a usable render.
func (r RenderResult) Failed() bool {
	return r.Outcome != OutcomeSucceeded
}

// RunSummary is the terminal artifact of one orchestration run. Results are
// ordered by discovery order, independent of completion order.
type RunSummary struct {
	ID         string
	Target     string
	Quality    string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []RenderResult
	Succeeded  int
	Failed     int
	Aborted    bool // interrupted before all queued jobs were attempted
}

// Add appends a result and updates the counters.
func (s *RunSummary) Add(r RenderResult) {
	s.Results = append(s.Results, r)
	if r.Failed() {
		s.Failed++
	} else {
		s.Succeeded++
	}
}

// OK reports whether every attempted job succeeded and none were skipped.
func (s *RunSummary) OK() bool {
	return s.Failed == 0 && !s.Aborted
}
