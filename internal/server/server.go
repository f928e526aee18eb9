// Package server exposes the prospecting pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ecosdelseo/prospector/internal/config"
	"github.com/ecosdelseo/prospector/internal/scheduler"
	"github.com/ecosdelseo/prospector/internal/store"
)

// Starter launches a search job and returns its id. The pipeline Runner
// satisfies it.
type Starter interface {
	Start(ctx context.Context, city string) (string, error)
}

// Server wires the HTTP surface to the job runner, stores, scheduler, and
// export collaborator.
type Server struct {
	cfg         config.Config
	runner      Starter
	jobs        *store.JobStore
	checkpoints store.Checkpointer
	sched       *scheduler.Scheduler

	// baseCtx outlives individual requests; accepted jobs run on it.
	baseCtx context.Context
}

// New creates a Server.
func New(ctx context.Context, cfg config.Config, runner Starter, jobs *store.JobStore, checkpoints store.Checkpointer, sched *scheduler.Scheduler) *Server {
	return &Server{
		cfg:         cfg,
		runner:      runner,
		jobs:        jobs,
		checkpoints: checkpoints,
		sched:       sched,
		baseCtx:     ctx,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/scraping", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/status/{jobID}", s.handleStatus)
		r.Get("/last", s.handleLast)
	})

	r.Post("/api/excel/export", s.handleExport)

	r.Route("/api/scheduler", func(r chi.Router) {
		r.Post("/configure", s.handleSchedulerConfigure)
		r.Get("/status", s.handleSchedulerStatus)
		r.Delete("/disable", s.handleSchedulerDisable)
	})

	exportDir := http.Dir(s.cfg.Export.Dir)
	r.Handle("/exports/*", http.StripPrefix("/exports/", http.FileServer(exportDir)))

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server: shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("server: listening", zap.Int("port", s.cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

// requestLogger logs each request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
