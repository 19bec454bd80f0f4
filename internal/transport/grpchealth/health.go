// Package grpchealth exposes the standard gRPC health service, tracking
// database reachability.
package grpchealth

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the name probes ask about; "" covers the whole server.
const Service = "fittings.v1.Fittings"

type PingFunc func(ctx context.Context) error

type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	ping     PingFunc
	interval time.Duration
	log      zerolog.Logger
}

func New(ping PingFunc, interval time.Duration, log zerolog.Logger) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	return &Server{grpc: gs, health: hs, ping: ping, interval: interval, log: log}
}

// Probe pings the database once and publishes the result.
func (s *Server) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	pctx, cancel := context.WithTimeout(ctx, s.interval/2)
	defer cancel()
	if err := s.ping(pctx); err != nil {
		s.log.Warn().Err(err).Msg("database ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(Service, status)
	return status
}

// Watch probes on every tick until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	s.Probe(ctx)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Probe(ctx)
		}
	}
}

func (s *Server) Health() healthpb.HealthServer { return s.health }

func (s *Server) Serve(lis net.Listener) error { return s.grpc.Serve(lis) }

// Stop marks every service NOT_SERVING, then drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
