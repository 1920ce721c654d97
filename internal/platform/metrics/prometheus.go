package metrics

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// MetricsManager holds custom Prometheus metrics.
type MetricsManager struct {
	Registry                *prometheus.Registry
	PropertiesCreatedTotal  prometheus.Counter
	PropertyUpdatesTotal    prometheus.Counter
	PropertyDeletesTotal    prometheus.Counter
	ModerationDecisions     *prometheus.CounterVec   // automatic decisions by status
	ModerationScore         prometheus.Histogram     // distribution of automatic scores
	ManualModerationActions *prometheus.CounterVec   // admin approve/reject/remoderate
	APIErrorsTotal          *prometheus.CounterVec   // errors by route and error type
	APILatency              *prometheus.HistogramVec // request latency by route
}

// NewMetricsManager initializes and registers custom Prometheus metrics.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()
	namespace := strings.ReplaceAll(serviceName, "-", "_")

	propertiesCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_created_total",
		Help:      "Total number of properties created.",
	})
	propertyUpdatesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "property_updates_total",
		Help:      "Total number of properties updated.",
	})
	propertyDeletesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "property_deletes_total",
		Help:      "Total number of properties deleted.",
	})
	moderationDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_decisions_total",
		Help:      "Automatic moderation decisions by resulting status.",
	}, []string{"status"})
	moderationScore := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "moderation_score",
		Help:      "Distribution of automatic moderation scores.",
		Buckets:   []float64{0, 25, 50, 65, 80, 90, 100, 110, 125},
	})
	manualModerationActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manual_moderation_actions_total",
		Help:      "Admin moderation actions by kind.",
	}, []string{"action"})
	apiErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by route.",
	}, []string{"route", "error_type"})
	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(
		propertiesCreatedTotal,
		propertyUpdatesTotal,
		propertyDeletesTotal,
		moderationDecisions,
		moderationScore,
		manualModerationActions,
		apiErrorsTotal,
		apiLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:                registry,
		PropertiesCreatedTotal:  propertiesCreatedTotal,
		PropertyUpdatesTotal:    propertyUpdatesTotal,
		PropertyDeletesTotal:    propertyDeletesTotal,
		ModerationDecisions:     moderationDecisions,
		ModerationScore:         moderationScore,
		ManualModerationActions: manualModerationActions,
		APIErrorsTotal:          apiErrorsTotal,
		APILatency:              apiLatency,
	}
}

// ObserveModeration records one automatic moderation run.
func (m *MetricsManager) ObserveModeration(status string, score int) {
	m.ModerationDecisions.WithLabelValues(status).Inc()
	m.ModerationScore.Observe(float64(score))
}

// NewMetricsServer builds the HTTP server exposing /metrics. It returns nil
// when port is empty.
func NewMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) *http.Server {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
}

// StartMetricsServer serves srv until ctx is cancelled.
func StartMetricsServer(ctx context.Context, srv *http.Server, appLogger *logger.Logger) error {
	if srv == nil {
		return nil
	}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	appLogger.Info("Prometheus metrics server starting", zap.String("addr", srv.Addr), zap.String("path", "/metrics"))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
