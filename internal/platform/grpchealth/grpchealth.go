// Package grpchealth exposes the standard gRPC health service so
// orchestrators can probe a service over gRPC as well as HTTP.
package grpchealth

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type Server struct {
	Addr    string
	grpc    *grpc.Server
	health  *health.Server
	service string
	log     *zap.Logger
}

func New(addr, service string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		Addr:    addr,
		grpc:    grpc.NewServer(),
		health:  health.NewServer(),
		service: service,
		log:     log,
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	reflection.Register(s.grpc)
	s.health.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// SetServing flips both the named service and the overall ("") status.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(s.service, st)
}

// Serve blocks until the listener fails or Shutdown is called.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.ServeListener(lis)
}

func (s *Server) ServeListener(lis net.Listener) error {
	s.log.Info("grpc health server starting", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Shutdown stops gracefully, forcing a stop when ctx ends first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.Shutdown()
	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpc.Stop()
	case <-time.After(10 * time.Second):
		s.grpc.Stop()
	}
	return nil
}
