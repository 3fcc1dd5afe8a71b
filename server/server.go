// Package server exposes metrics and controller snapshots over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/sim"
)

const shutdownTimeout = 5 * time.Second

// FrameSource supplies the latest simulation frame.
type FrameSource interface {
	Snapshot() sim.Frame
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NewRouter builds the debug routes.
func NewRouter(src FrameSource, runID string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "run_id": runID})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/debug/controllers", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, src.Snapshot())
		})
		r.Get("/{actor}", func(w http.ResponseWriter, req *http.Request) {
			name := chi.URLParam(req, "actor")
			for _, a := range src.Snapshot().Actors {
				if a.Name == name {
					writeJSON(w, http.StatusOK, a)
					return
				}
			}
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown actor " + name})
		})
	})
	return r
}

// Serve runs an HTTP server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	log := logging.WithComponent("http")
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("debug server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
