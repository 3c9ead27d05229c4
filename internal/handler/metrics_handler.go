package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/service"
)

const probeTimeout = 2 * time.Second

// Pinger checks connectivity to the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PeerProbe checks one sibling service. Its result is informational only.
type PeerProbe struct {
	Name  string
	Check func(ctx context.Context) error
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	db      Pinger
	peers   []PeerProbe
	logger  *zap.Logger
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, db Pinger, peers []PeerProbe, logger *zap.Logger) *MetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsHandler{metrics: metrics, db: db, peers: peers, logger: logger}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports 200 when the database answers. Peer reachability is listed but never fails the probe.
// The database ping and all peer probes run concurrently under one probeTimeout.
func (h *MetricsHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	peers := make([]models.PeerStatus, len(h.peers))
	var dbErr error
	var g errgroup.Group
	for i, probe := range h.peers {
		g.Go(func() error {
			peers[i] = h.probe(ctx, probe)
			return nil
		})
	}
	if h.db != nil {
		g.Go(func() error {
			dbErr = h.db.PingContext(ctx)
			return nil
		})
	}
	_ = g.Wait()

	if dbErr != nil {
		h.logger.Warn("readiness: database unreachable", zap.Error(dbErr))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down", "peers": peers})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "database": "up", "peers": peers})
}

func (h *MetricsHandler) probe(ctx context.Context, probe PeerProbe) models.PeerStatus {
	status := models.PeerStatus{Name: probe.Name, Reachable: true}
	if err := probe.Check(ctx); err != nil {
		status.Reachable = false
		status.Error = err.Error()
	}
	return status
}
