package floor

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName is the gRPC health service reporting snapshot
// persistence.
const HealthServiceName = "tableside.floor"

// HealthServer exposes the persistence state through the standard gRPC
// health protocol.
type HealthServer struct {
	server *health.Server
}

func NewHealthServer() *HealthServer {
	s := health.NewServer()
	s.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_SERVING)
	return &HealthServer{server: s}
}

func (h *HealthServer) RegisterGRPCService(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// ReportPersistence flips the service to NOT_SERVING while saves fail.
func (h *HealthServer) ReportPersistence(err error) {
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.server.SetServingStatus(HealthServiceName, status)
}

func (h *HealthServer) Shutdown() {
	h.server.Shutdown()
}
