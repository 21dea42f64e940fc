// Package httpserver exposes the keep-alive and health endpoints that hosting
// platforms poll while the bot runs in long-polling mode.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

const (
	healthTimeout   = 3 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthHandler struct {
	db     Pinger
	logger *logrus.Entry
}

func NewRouter(db Pinger, logger *logrus.Entry) http.Handler {
	h := &healthHandler{db: db, logger: logger}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/", h.alive)
	r.Head("/", h.alive)
	r.Get("/healthz", h.health)
	return r
}

func (h *healthHandler) alive(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "Bot is running!")
}

func (h *healthHandler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := map[string]string{"status": "healthy", "database": "ok"}
	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	render.Status(r, code)
	render.JSON(w, r, status)
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *logrus.Entry) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("Health server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("health server failed: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server shutdown: %w", err)
	}
	logger.Info("Health server stopped")
	return nil
}
