package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/battery"
	"github.com/hamed0406/appsentry/internal/httpapi/middleware"
	"github.com/hamed0406/appsentry/internal/probe"
	"github.com/hamed0406/appsentry/internal/repo"
)

type Server struct {
	Logger    *zap.Logger
	Apps      repo.AppStore
	Snapshots repo.SnapshotStore
	Runner    *battery.Runner
	Keys      middleware.Keys
}

func NewServer(l *zap.Logger, apps repo.AppStore, snaps repo.SnapshotStore, runner *battery.Runner, keys middleware.Keys) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Apps: apps, Snapshots: snaps, Runner: runner, Keys: keys}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(120, 60))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRead(s.Keys))
		r.Get("/api/apps", s.handleListApps)
		r.Get("/api/snapshot", s.handleSnapshot)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(s.Keys))
		r.Post("/api/apps/{name}/batch", s.handleRunBatch)
	})

	return r
}

func (s *Server) handleListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := s.Apps.ListApps(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, apps)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Snapshots.Latest(r.Context())
	if err != nil {
		http.Error(w, "snapshot error", http.StatusInternalServerError)
		return
	}
	if snap == nil {
		http.Error(w, "no snapshot yet", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

// handleRunBatch runs the full test battery for one discovered app and
// returns the finalized batch.
func (s *Server) handleRunBatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	app, err := s.Apps.GetApp(r.Context(), name)
	if err != nil {
		http.Error(w, "lookup error", http.StatusInternalServerError)
		return
	}
	if app == nil {
		http.Error(w, "unknown app", http.StatusNotFound)
		return
	}

	b, err := s.Runner.RunBatch(r.Context(), app.Name, probe.Suite(app.Path))
	if err != nil {
		s.Logger.Warn("api_batch_error", zap.String("app", name), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Logger.Info("api_batch_complete",
		zap.String("app", name),
		zap.String("verdict", string(b.Verdict)),
	)
	writeJSON(w, b)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
