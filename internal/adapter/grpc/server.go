package grpc

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Dee-Olulo/House-hunting-platform/internal/adapter/grpc/middleware"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// NewGRPCServer builds the operations server: gRPC health checking and
// reflection, behind tracing and logging. The returned health server
// starts as NOT_SERVING for serviceName; main flips it once the
// listeners are up.
func NewGRPCServer(appLogger *logger.Logger, serviceName string) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		middleware.TracingOption(),
		grpc.ChainUnaryInterceptor(middleware.LoggingInterceptor(appLogger)),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	appLogger.Info("gRPC server configured",
		zap.String("service", serviceName),
		zap.Bool("tracing_enabled", true),
		zap.Bool("reflection_enabled", true))
	return server, healthServer
}
