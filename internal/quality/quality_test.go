package quality

import (
	"errors"
	"strings"
	"testing"

	"github.com/animakit/scenectl/internal/domain"
)

func TestResolve_KnownTokens(t *testing.T) {
	tests := []struct {
		token  string
		height int
		fps    int
		flag   string
	}{
		{"l", 480, 15, "-ql"},
		{"m", 720, 30, "-qm"},
		{"h", 1080, 60, "-qh"},
		{"k", 2160, 60, "-qk"},
	}

	for _, tt := range tests {
		p, err := Resolve(tt.token)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tt.token, err)
		}
		if p.ResolutionHeight != tt.height {
			t.Errorf("Resolve(%q).ResolutionHeight = %d, want %d", tt.token, p.ResolutionHeight, tt.height)
		}
		if p.FrameRate != tt.fps {
			t.Errorf("Resolve(%q).FrameRate = %d, want %d", tt.token, p.FrameRate, tt.fps)
		}
		if p.EngineFlag != tt.flag {
			t.Errorf("Resolve(%q).EngineFlag = %q, want %q", tt.token, p.EngineFlag, tt.flag)
		}
	}
}

func TestResolve_EmptyDefaultsToLow(t *testing.T) {
	p, err := Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Token != "l" {
		t.Errorf("Token = %q, want l", p.Token)
	}
	if p.ResolutionHeight != 480 || p.FrameRate != 15 {
		t.Errorf("profile = %dp%d, want 480p15", p.ResolutionHeight, p.FrameRate)
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	_, err := Resolve("ultra")
	if err == nil {
		t.Fatal("expected error for unknown token")
	}

	var uq *domain.UnknownQualityError
	if !errors.As(err, &uq) {
		t.Fatalf("error type = %T, want *domain.UnknownQualityError", err)
	}
	for _, tok := range []string{"l", "m", "h", "k"} {
		if !strings.Contains(err.Error(), tok) {
			t.Errorf("error message %q missing valid token %q", err.Error(), tok)
		}
	}
}

func TestProfileDir(t *testing.T) {
	p, _ := Resolve("h")
	if got := p.Dir(); got != "1080p60" {
		t.Errorf("Dir() = %q, want 1080p60", got)
	}
}
