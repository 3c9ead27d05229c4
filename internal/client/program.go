package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/pkg/config"
)

// ProgramServiceName identifies the division service that owns programs.
const ProgramServiceName = "program-service"

// ProgramClient looks up educational programs.
type ProgramClient struct {
	peer *peer
}

// NewProgramClient constructs a ProgramClient against cfg.ProgramServiceURL.
func NewProgramClient(cfg config.PeersConfig, observer CallObserver, logger *zap.Logger) *ProgramClient {
	return &ProgramClient{peer: newPeer(ProgramServiceName, cfg.ProgramServiceURL, cfg, observer, logger)}
}

// GetProgram fetches one program. A 404 answer yields ErrNotFound.
func (c *ProgramClient) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	var program models.Program
	if err := c.peer.getJSON(ctx, "get_program", fmt.Sprintf("/programs/%d", id), &program); err != nil {
		return nil, err
	}
	return &program, nil
}

// ListActive fetches every active program.
func (c *ProgramClient) ListActive(ctx context.Context) ([]models.Program, error) {
	var programs []models.Program
	if err := c.peer.getJSON(ctx, "list_active_programs", "/programs/active", &programs); err != nil {
		return nil, err
	}
	return programs, nil
}
