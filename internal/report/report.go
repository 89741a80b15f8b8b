// Package report writes a run summary to a YAML artifact for later inspection.
package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/animakit/scenectl/internal/domain"
)

// Report is the YAML shape of a finished run.
type Report struct {
	RunID      string        `yaml:"run_id"`
	Target     string        `yaml:"target"`
	Quality    string        `yaml:"quality"`
	StartedAt  time.Time     `yaml:"started_at"`
	FinishedAt time.Time     `yaml:"finished_at"`
	Aborted    bool          `yaml:"aborted,omitempty"`
	Succeeded  int           `yaml:"succeeded"`
	Failed     int           `yaml:"failed"`
	Results    []ResultEntry `yaml:"results"`
}

// ResultEntry is one scene's outcome within a report.
type ResultEntry struct {
	Scene      string `yaml:"scene"`
	Source     string `yaml:"source"`
	Outcome    string `yaml:"outcome"`
	ExitCode   int    `yaml:"exit_code"`
	DurationMS int64  `yaml:"duration_ms"`
	Output     string `yaml:"output,omitempty"`
	Message    string `yaml:"message,omitempty"`
}

// FromSummary converts a run summary into its report shape.
func FromSummary(s *domain.RunSummary) *Report {
	r := &Report{
		RunID:      s.ID,
		Target:     s.Target,
		Quality:    s.Quality,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Aborted:    s.Aborted,
		Succeeded:  s.Succeeded,
		Failed:     s.Failed,
	}
	for _, res := range s.Results {
		entry := ResultEntry{
			Scene:      res.Job.Scene.Name,
			Source:     res.Job.Scene.SourcePath,
			Outcome:    string(res.Outcome),
			ExitCode:   res.ExitCode,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Failed() {
			entry.Message = res.Message
		} else {
			entry.Output = res.Job.OutputPath
		}
		r.Results = append(r.Results, entry)
	}
	return r
}

// Write marshals the summary and writes it to path.
func Write(path string, s *domain.RunSummary) error {
	data, err := yaml.Marshal(FromSummary(s))
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
