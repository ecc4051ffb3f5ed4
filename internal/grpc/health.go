package server

import (
	"context"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/tejusbharadwaj/ppistats/seriesrpc"
)

// HealthChecker implements the gRPC health checking protocol.
//
// The server as a whole ("") is SERVING until Shutdown. The series service
// additionally reports NOT_SERVING while no series is loaded, since every
// query would fail with FailedPrecondition.
type HealthChecker struct {
	grpc_health_v1.UnimplementedHealthServer
	mu       sync.RWMutex
	shutdown bool
	ready    func() bool
}

func NewHealthChecker(ready func() bool) *HealthChecker {
	return &HealthChecker{ready: ready}
}

// RegisterHealth attaches a HealthChecker to server
func RegisterHealth(server *grpc.Server, ready func() bool) *HealthChecker {
	h := NewHealthChecker(ready)
	grpc_health_v1.RegisterHealthServer(server, h)
	return h
}

func (h *HealthChecker) Check(ctx context.Context, req *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch req.Service {
	case "":
		return &grpc_health_v1.HealthCheckResponse{Status: h.serving(true)}, nil
	case seriesrpc.ServiceName:
		return &grpc_health_v1.HealthCheckResponse{Status: h.serving(h.ready())}, nil
	}

	return nil, status.Error(codes.NotFound, "unknown service")
}

func (h *HealthChecker) Watch(req *grpc_health_v1.HealthCheckRequest, stream grpc_health_v1.Health_WatchServer) error {
	return status.Error(codes.Unimplemented, "watching is not supported")
}

// Shutdown reports NOT_SERVING for everything from now on
func (h *HealthChecker) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.shutdown = true
}

func (h *HealthChecker) serving(ok bool) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if h.shutdown || !ok {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}
