package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/handler"
	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/http/middleware"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/metrics"
)

const healthTimeout = 2 * time.Second

// Options wires the handlers and cross-cutting concerns into the router.
type Options struct {
	Property   *handler.PropertyHandler
	Moderation *handler.ModerationHandler
	JWTSecret  string
	Metrics    *metrics.MetricsManager
	Logger     *logger.Logger
	// Health reports readiness of backing stores. Nil means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter builds the service's HTTP router.
func NewRouter(opts Options) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Tracing(),
		middleware.RequestLogger(opts.Logger),
		middleware.Metrics(opts.Metrics),
		chimw.Recoverer,
	)

	mux.Get("/healthz", healthHandler(opts.Health, opts.Logger))
	SetupPropertyRoutes(mux, opts.Property, opts.JWTSecret, opts.Logger)
	SetupModerationRoutes(mux, opts.Moderation, opts.JWTSecret, opts.Logger)
	return mux
}

func healthHandler(check func(ctx context.Context) error, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
