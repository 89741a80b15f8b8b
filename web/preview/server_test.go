package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/animakit/scenectl/internal/domain"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	mediaDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(mediaDir, "clip.mp4"), []byte("mp4"), 0644); err != nil {
		t.Fatal(err)
	}
	return NewServer("127.0.0.1:0", mediaDir, func() []domain.Scene {
		return []domain.Scene{
			{Name: "Intro", SourcePath: "scenes/intro.py", Kind: domain.KindPlanar},
			{Name: "Orbit", SourcePath: "scenes/orbit.py", Kind: domain.KindThreeD},
		}
	})
}

func TestListScenesHandler(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/scenes", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var infos []SceneInfo
	if err := json.NewDecoder(rec.Body).Decode(&infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	if infos[0].Name != "Intro" || infos[0].Kind != "planar" {
		t.Errorf("infos[0] = %+v", infos[0])
	}
}

func TestMediaHandlerServesFiles(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/media/clip.mp4", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "mp4" {
		t.Errorf("body = %q, want mp4", rec.Body.String())
	}
}

func TestIndexHandler(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scenectl preview") {
		t.Error("index page missing title")
	}

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec = httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	s := testServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	ts := httptest.NewServer(s.mux)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// give the hub a moment to register the client
	time.Sleep(50 * time.Millisecond)

	s.Broadcast(RenderEvent{Type: "render", Scene: "Intro", Outcome: "succeeded", DurationMS: 1200})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got RenderEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Scene != "Intro" || got.Outcome != "succeeded" {
		t.Errorf("event = %+v", got)
	}
}
