package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/pkg/config"
)

// ProfessorServiceName identifies the professor service.
const ProfessorServiceName = "professor-service"

// ProfessorClient looks up professors.
type ProfessorClient struct {
	peer *peer
}

// NewProfessorClient constructs a ProfessorClient against cfg.ProfessorServiceURL.
func NewProfessorClient(cfg config.PeersConfig, observer CallObserver, logger *zap.Logger) *ProfessorClient {
	return &ProfessorClient{peer: newPeer(ProfessorServiceName, cfg.ProfessorServiceURL, cfg, observer, logger)}
}

// GetProfessor fetches one professor. A 404 answer yields ErrNotFound.
func (c *ProfessorClient) GetProfessor(ctx context.Context, id int64) (*models.Professor, error) {
	var professor models.Professor
	if err := c.peer.getJSON(ctx, "get_professor", fmt.Sprintf("/professors/%d", id), &professor); err != nil {
		return nil, err
	}
	return &professor, nil
}

// List fetches every professor.
func (c *ProfessorClient) List(ctx context.Context) ([]models.Professor, error) {
	var professors []models.Professor
	if err := c.peer.getJSON(ctx, "list_professors", "/professors", &professors); err != nil {
		return nil, err
	}
	return professors, nil
}
