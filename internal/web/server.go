// Package web serves the browser dashboard: embedded static assets, a
// small JSON API over the shared state adapter, and a websocket that
// pushes each published snapshot.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"time"

	"sysglance/internal/logger"
	"sysglance/internal/sampler"
	"sysglance/internal/state"
	"sysglance/internal/theme"
)

//go:embed static/*
var embeddedStatic embed.FS

// Server wraps HTTP serving of the API + static assets.
type Server struct {
	httpServer *http.Server
	adapter    state.Adapter
	themes     *theme.Controller
	hub        *hub
	staticFS   fs.FS
	log        logger.Logger

	unsubscribe func()
}

// New creates a configured HTTP server for the dashboard.
func New(addr string, adapter state.Adapter, themes *theme.Controller, log logger.Logger) *Server {
	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		panic("static assets missing: " + err.Error())
	}
	if log == nil {
		log = logger.Noop()
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{Addr: addr, Handler: mux},
		adapter:    adapter,
		themes:     themes,
		hub:        newHub(log),
		staticFS:   staticFS,
		log:        log,
	}
	s.registerRoutes(mux)
	return s
}

// Run subscribes to snapshot publishes and blocks serving HTTP traffic.
func (s *Server) Run() error {
	s.attach()
	return s.httpServer.ListenAndServe()
}

// attach wires snapshot publishes into the websocket hub.
func (s *Server) attach() {
	s.unsubscribe = s.adapter.Subscribe(func(snap *sampler.Snapshot) {
		s.hub.broadcast(s.snapshotPayload(snap, true))
	})
}

// Shutdown stops accepting connections, drops websocket clients, and
// waits for in-flight requests bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.hub.close()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route mux for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	fileServer := http.FileServer(http.FS(s.staticFS))

	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		data, err := fs.ReadFile(s.staticFS, "index.html")
		if err != nil {
			http.Error(w, "index missing", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}))
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/theme", s.handleTheme)
	mux.HandleFunc("/ws", s.handleWS)
}

// snapshotPayload is the wire form of one snapshot. Available is false
// only before the first sample completes; the browser shows a waiting
// state instead of zeroes.
type snapshotPayload struct {
	Available bool              `json:"available"`
	Theme     string            `json:"theme"`
	Snapshot  *sampler.Snapshot `json:"snapshot,omitempty"`
}

func (s *Server) snapshotPayload(snap *sampler.Snapshot, ok bool) snapshotPayload {
	return snapshotPayload{
		Available: ok,
		Theme:     s.themes.Current().Name,
		Snapshot:  snap,
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.adapter.Latest()
	writeJSON(w, http.StatusOK, s.snapshotPayload(snap, ok))
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": time.Now().UTC(),
		"points":       s.adapter.History(),
	})
}

// themePayload describes the active theme; Styles carries the raw
// config style strings so the browser maps them to CSS itself.
type themePayload struct {
	Name   string            `json:"name"`
	Styles map[string]string `json:"styles"`
}

// handleTheme returns the active theme on GET and toggles it on POST.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		s.themes.Toggle()
		// Toggling re-skins every attached front end at once.
		if snap, ok := s.adapter.Latest(); ok {
			s.hub.broadcast(s.snapshotPayload(snap, true))
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	th := s.themes.Current()
	writeJSON(w, http.StatusOK, themePayload{Name: th.Name, Styles: th.Raw})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
