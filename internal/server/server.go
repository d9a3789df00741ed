package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/gigurra/rental-dashboard/internal/observability"
)

// shutdownTimeout bounds how long in-flight requests get after a stop signal.
const shutdownTimeout = 10 * time.Second

// NewRouter wires the dashboard routes and middleware.
func NewRouter(h *Handler, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.Use(AccessLogMiddleware)

	router.HandleFunc("/", h.GetIndex).Methods("GET")
	router.HandleFunc("/charts/{name:[a-z]+}.png", h.GetChart).Methods("GET")
	router.HandleFunc("/api/report", h.GetReport).Methods("GET")
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
	router.Handle("/metrics", observability.MetricsHandler())

	// Use() only wraps matched routes; unmatched paths get the same chain.
	router.NotFoundHandler = CorrelationIDMiddleware(logger)(
		MetricsMiddleware(AccessLogMiddleware(http.HandlerFunc(h.NotFound))))
	return router
}

// Options configures Serve.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Serve runs the dashboard until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, d *Dashboard, opts Options, logger *zap.Logger) error {
	handler := NewHandler(d, logger)
	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      NewRouter(handler, logger),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", opts.Addr),
			zap.Int("year", d.year),
			zap.Int("rows", d.Rows()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("graceful shutdown triggered")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}
