package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Default()

	if cfg.General.ScenesDir != "scenes" {
		t.Errorf("ScenesDir = %q, want scenes", cfg.General.ScenesDir)
	}
	if cfg.General.DefaultQuality != "l" {
		t.Errorf("DefaultQuality = %q, want l", cfg.General.DefaultQuality)
	}
	if cfg.Engine.Binary != "manim" {
		t.Errorf("Engine.Binary = %q, want manim", cfg.Engine.Binary)
	}
	if cfg.General.Jobs != 1 {
		t.Errorf("Jobs = %d, want 1", cfg.General.Jobs)
	}
	if cfg.Preview.Port != 7077 {
		t.Errorf("Preview.Port = %d, want 7077", cfg.Preview.Port)
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.Binary != "manim" {
		t.Errorf("Engine.Binary = %q, want manim", cfg.Engine.Binary)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	content := `
[general]
scenes_dir = "/projects/anim/scenes"
default_quality = "h"
jobs = 2

[engine]
binary = "/usr/local/bin/manim"
extra_flags = ["--disable_caching"]

[preview]
port = 9000

[[schedule]]
name = "nightly"
cron = "0 2 * * *"
quality = "k"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.General.ScenesDir != "/projects/anim/scenes" {
		t.Errorf("ScenesDir = %q", cfg.General.ScenesDir)
	}
	if cfg.General.DefaultQuality != "h" {
		t.Errorf("DefaultQuality = %q, want h", cfg.General.DefaultQuality)
	}
	if cfg.General.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", cfg.General.Jobs)
	}
	if cfg.Engine.Binary != "/usr/local/bin/manim" {
		t.Errorf("Engine.Binary = %q", cfg.Engine.Binary)
	}
	if len(cfg.Engine.ExtraFlags) != 1 || cfg.Engine.ExtraFlags[0] != "--disable_caching" {
		t.Errorf("ExtraFlags = %v", cfg.Engine.ExtraFlags)
	}
	if cfg.Preview.Port != 9000 {
		t.Errorf("Preview.Port = %d, want 9000", cfg.Preview.Port)
	}
	if len(cfg.Schedule) != 1 || cfg.Schedule[0].Cron != "0 2 * * *" {
		t.Errorf("Schedule = %+v", cfg.Schedule)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/anim/scenes", filepath.Join(home, "anim", "scenes")},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
