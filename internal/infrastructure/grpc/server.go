package grpc

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/narwhalmedia/marquee/internal/infrastructure/grpc/interceptors"
	"github.com/narwhalmedia/marquee/pkg/interfaces"
	"github.com/narwhalmedia/marquee/pkg/logger"
)

// Server exposes the standard gRPC health service and reflection for
// orchestrators and grpcurl.
type Server struct {
	server      *grpc.Server
	health      *health.Server
	serviceName string
	logger      interfaces.Logger
}

// NewServer creates a gRPC server that reports serviceName and the
// overall server as SERVING.
func NewServer(serviceName string, log interfaces.Logger) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryRecoveryInterceptor(log),
			logger.UnaryServerInterceptor(log),
		),
		grpc.ChainStreamInterceptor(
			interceptors.StreamRecoveryInterceptor(log),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{
		server:      srv,
		health:      hs,
		serviceName: serviceName,
		logger:      log,
	}
	s.SetServing(true)
	return s
}

// SetServing flips the reported status of both the server and the service.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(s.serviceName, status)
}

// Serve accepts connections on lis until Stop or GracefulStop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC server starting", interfaces.String("address", lis.Addr().String()))
	return s.server.Serve(lis)
}

// GracefulStop reports NOT_SERVING and waits for pending RPCs.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
