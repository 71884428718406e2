// Package health exposes readiness over the standard gRPC health protocol.
package health

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name reported alongside the overall ("") status.
const Service = "agrilink.Market"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Checker struct {
	db       Pinger
	srv      *health.Server
	interval time.Duration
}

func NewChecker(db Pinger, interval time.Duration) *Checker {
	return &Checker{db: db, srv: health.NewServer(), interval: interval}
}

// Register attaches the health service to s.
func (c *Checker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, c.srv)
}

func (c *Checker) Server() healthpb.HealthServer { return c.srv }

// Check pings the database once and publishes the result.
func (c *Checker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	err := c.db.Ping(ctx)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		log.WithError(err).Warn("[health] database ping failed")
	}
	c.srv.SetServingStatus("", status)
	c.srv.SetServingStatus(Service, status)
	return err == nil
}

// Run checks on every interval until ctx is done, then marks the service
// as shutting down.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			c.srv.Shutdown()
			return
		case <-t.C:
			c.Check(ctx)
		}
	}
}
