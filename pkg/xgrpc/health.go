// Package xgrpc serves the grpc health service of a registry instance.
package xgrpc

import (
	"context"
	"net"
	"time"

	"coinsreg/pkg/xlog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName health service name reported by a registry
const ServiceName = "coinsreg.Registry"

var logger = xlog.GetLogger()

type Health struct {
	srv *grpc.Server
	hs  *health.Server
}

// NewHealth starts NOT_SERVING until SetServing(true)
func NewHealth() *Health {
	h := &Health{
		srv: grpc.NewServer(),
		hs:  health.NewServer(),
	}
	h.hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(h.srv, h.hs)
	return h
}

func (h *Health) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.hs.SetServingStatus(ServiceName, st)
}

// Serve listens on addr until ctx is done
func (h *Health) Serve(ctx context.Context, addr string) (err error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return
	}
	return h.ServeListener(ctx, lis)
}

func (h *Health) ServeListener(ctx context.Context, lis net.Listener) (err error) {
	logger.Infof("grpc server listening %s", lis.Addr())

	go func() {
		<-ctx.Done()
		h.hs.Shutdown()
		h.srv.GracefulStop()
	}()

	err = h.srv.Serve(lis)
	if err == grpc.ErrServerStopped {
		err = nil
	}
	return
}

// Check asks the registry at addr for its status
func Check(ctx context.Context, addr string) (st healthpb.HealthCheckResponse_ServingStatus, err error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return
	}
	return resp.Status, nil
}
