package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/pkg/config"
)

// DivisionServiceName identifies the division service.
const DivisionServiceName = "division-service"

// DivisionClient looks up academic divisions.
type DivisionClient struct {
	peer *peer
}

// NewDivisionClient builds a client for the division service.
func NewDivisionClient(cfg config.PeersConfig, observer CallObserver, logger *zap.Logger) *DivisionClient {
	return &DivisionClient{peer: newPeer(DivisionServiceName, cfg.DivisionServiceURL, cfg, observer, logger)}
}

// GetDivision fetches one division. It is part of the outbound port; no validation rule depends on it.
func (c *DivisionClient) GetDivision(ctx context.Context, id int64) (*models.Division, error) {
	var division models.Division
	if err := c.peer.getJSON(ctx, "get_division", fmt.Sprintf("/divisions/%d", id), &division); err != nil {
		return nil, err
	}
	return &division, nil
}

// ListActive returns the active divisions. The readiness probe uses it.
func (c *DivisionClient) ListActive(ctx context.Context) ([]models.Division, error) {
	var divisions []models.Division
	if err := c.peer.getJSON(ctx, "list_active_divisions", "/divisions/active", &divisions); err != nil {
		return nil, err
	}
	return divisions, nil
}
