package grpchealth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func check(t *testing.T, s *Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.Health().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestProbe_FollowsDatabase(t *testing.T) {
	var down atomic.Bool
	s := New(func(context.Context) error {
		if down.Load() {
			return errors.New("connection refused")
		}
		return nil
	}, time.Second, zerolog.Nop())

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, s.Probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, s, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, s, Service))

	down.Store(true)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, s.Probe(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, s, Service))
}

func TestStop_MarksNotServing(t *testing.T) {
	s := New(func(context.Context) error { return nil }, time.Second, zerolog.Nop())
	s.Probe(context.Background())

	s.Stop()
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, s, Service))
}
