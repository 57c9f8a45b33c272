package floor

import (
	"context"
	"errors"
	"testing"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestHealthServerReportPersistence(t *testing.T) {
	h := NewHealthServer()
	req := &healthpb.HealthCheckRequest{Service: HealthServiceName}

	tests := []struct {
		name string
		err  error
		want healthpb.HealthCheckResponse_ServingStatus
	}{
		{name: "saveFailed", err: errors.New("mongo unreachable"), want: healthpb.HealthCheckResponse_NOT_SERVING},
		{name: "saveRecovered", err: nil, want: healthpb.HealthCheckResponse_SERVING},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.ReportPersistence(tt.err)

			resp, err := h.server.Check(context.Background(), req)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("Check() status = %v, want %v", resp.Status, tt.want)
			}
		})
	}
}
