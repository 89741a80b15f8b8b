// Package preview serves rendered media over HTTP and pushes render events
// to connected browsers so previews refresh as soon as a scene re-renders.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/animakit/scenectl/internal/domain"
)

// SceneInfo is the JSON shape of one discovered scene.
type SceneInfo struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Kind   string `json:"kind"`
}

// Server is the HTTP preview server.
type Server struct {
	addr     string
	mediaDir string
	scenes   func() []domain.Scene
	hub      *Hub
	mux      *http.ServeMux
}

// NewServer creates a preview server. scenes provides a current catalog
// snapshot on every request so watch-mode rediscovery is reflected live.
func NewServer(addr, mediaDir string, scenes func() []domain.Scene) *Server {
	s := &Server{
		addr:     addr,
		mediaDir: mediaDir,
		scenes:   scenes,
		hub:      NewHub(),
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/scenes", s.listScenesHandler())
	s.mux.HandleFunc("/ws", s.hub.handler())
	s.mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaDir))))
	s.mux.HandleFunc("/", s.indexHandler())
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	srv := &http.Server{Addr: s.addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", s.addr).Msg("preview server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Broadcast pushes a render event to all connected clients.
func (s *Server) Broadcast(event RenderEvent) {
	s.hub.Broadcast(event)
}

func (s *Server) listScenesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenes := s.scenes()
		infos := make([]SceneInfo, len(scenes))
		for i, sc := range scenes {
			infos[i] = SceneInfo{Name: sc.Name, Source: sc.SourcePath, Kind: string(sc.Kind)}
		}
		writeJSON(w, infos)
	}
}

func (s *Server) indexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexPage))
	}
}

const indexPage = `<!doctype html>
<html>
<head><title>scenectl preview</title></head>
<body>
<h1>scenectl preview</h1>
<ul id="scenes"></ul>
<pre id="events"></pre>
<script>
fetch("/api/scenes").then(r => r.json()).then(scenes => {
  const ul = document.getElementById("scenes");
  for (const s of scenes) {
    const li = document.createElement("li");
    li.textContent = s.name + " (" + s.source + ") [" + s.kind + "]";
    ul.appendChild(li);
  }
});
const ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = ev => {
  const e = JSON.parse(ev.data);
  document.getElementById("events").textContent += e.scene + ": " + e.outcome + "\n";
  if (e.outcome === "succeeded") location.reload();
};
</script>
</body>
</html>
`

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
