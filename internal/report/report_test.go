package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/animakit/scenectl/internal/domain"
)

func sampleSummary() *domain.RunSummary {
	s := &domain.RunSummary{
		ID:      "run-123",
		Target:  "all",
		Quality: "h",
	}
	s.Add(domain.RenderResult{
		Job: domain.RenderJob{
			Scene:      domain.Scene{Name: "Intro", SourcePath: "scenes/intro.py"},
			OutputPath: "media/videos/intro/1080p60/Intro.mp4",
		},
		Outcome:  domain.OutcomeSucceeded,
		Duration: 1500 * time.Millisecond,
	})
	s.Add(domain.RenderResult{
		Job: domain.RenderJob{
			Scene: domain.Scene{Name: "Outro", SourcePath: "scenes/outro.py"},
		},
		Outcome:  domain.OutcomeEngineFailure,
		ExitCode: 1,
		Message:  "Traceback: something broke",
	})
	return s
}

func TestFromSummary(t *testing.T) {
	r := FromSummary(sampleSummary())

	if r.RunID != "run-123" || r.Quality != "h" {
		t.Errorf("header = %q/%q", r.RunID, r.Quality)
	}
	if r.Succeeded != 1 || r.Failed != 1 {
		t.Errorf("counts = %d/%d, want 1/1", r.Succeeded, r.Failed)
	}
	if len(r.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(r.Results))
	}
	if r.Results[0].Output == "" || r.Results[0].Message != "" {
		t.Errorf("success entry = %+v, want output without message", r.Results[0])
	}
	if r.Results[1].Message == "" || r.Results[1].Output != "" {
		t.Errorf("failure entry = %+v, want message without output", r.Results[1])
	}
	if r.Results[0].DurationMS != 1500 {
		t.Errorf("DurationMS = %d, want 1500", r.Results[0].DurationMS)
	}
}

func TestWrite_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Write(path, sampleSummary()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got Report
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.RunID != "run-123" {
		t.Errorf("RunID = %q, want run-123", got.RunID)
	}
	if len(got.Results) != 2 || got.Results[1].Outcome != "engine_failure" {
		t.Errorf("Results = %+v", got.Results)
	}
}
