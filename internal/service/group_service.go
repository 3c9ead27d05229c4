package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-service/internal/dto"
	"github.com/noah-isme/student-service/internal/models"
	appErrors "github.com/noah-isme/student-service/pkg/errors"
	"github.com/noah-isme/student-service/pkg/validation"
)

// GroupService handles group use-cases.
type GroupService struct {
	groups    groupStore
	students  studentStore
	refs      *referenceValidator
	views     *ViewAssembler
	tx        transactor
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroupService constructs the group service.
func NewGroupService(groups groupStore, students studentStore, programs ProgramLookup, professors ProfessorLookup, views *ViewAssembler, tx transactor, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = NewViewAssembler(groups, programs, professors, nil, logger)
	}
	return &GroupService{
		groups:    groups,
		students:  students,
		refs:      &referenceValidator{groups: groups, programs: programs, professors: professors, logger: logger},
		views:     views,
		tx:        orDirect(tx),
		validator: validate,
		logger:    logger,
	}
}

// ListAll returns every group.
func (s *GroupService) ListAll(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list groups")
	}
	return groups, nil
}

// ListActive returns active groups.
func (s *GroupService) ListActive(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list active groups")
	}
	return groups, nil
}

// Get returns a group by ID.
func (s *GroupService) Get(ctx context.Context, id int64) (*models.Group, error) {
	return s.load(ctx, id)
}

// GetWithDetails returns the group read model including its active headcount.
func (s *GroupService) GetWithDetails(ctx context.Context, id int64) (*models.GroupView, error) {
	group, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	total, err := s.students.CountActiveByGroup(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to count group students")
	}
	view := s.views.Group(ctx, *group, total)
	return &view, nil
}

// ListByProgram returns the active groups of a program.
func (s *GroupService) ListByProgram(ctx context.Context, programID int64) ([]models.Group, error) {
	groups, err := s.groups.ListActiveByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list program groups")
	}
	return groups, nil
}

// ListByProfessor returns every group led by a professor.
func (s *GroupService) ListByProfessor(ctx context.Context, professorID int64) ([]models.Group, error) {
	groups, err := s.groups.ListByProfessor(ctx, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list professor groups")
	}
	return groups, nil
}

// Create opens a new, active group in a program.
func (s *GroupService) Create(ctx context.Context, req dto.CreateGroupRequest) (*models.Group, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(s.validator, req, "invalid group payload"); err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        req.Name,
		ProgramID:   req.ProgramID,
		ProfessorID: req.ProfessorID,
		Active:      true,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureUniqueName(ctx, group.Name, group.ProgramID); err != nil {
			return err
		}
		if err := s.refs.activeProgram(ctx, group.ProgramID); err != nil {
			return err
		}
		if group.ProfessorID != nil {
			if err := s.refs.existingProfessor(ctx, *group.ProfessorID); err != nil {
				return err
			}
		}
		if err := s.groups.Create(ctx, group); err != nil {
			return persistError(err, "Group", "failed to create group")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group created", zap.Int64("group_id", group.ID), zap.Int64("program_id", group.ProgramID))
	return group, nil
}

// Update renames a group and sets its professor. The program is immutable.
func (s *GroupService) Update(ctx context.Context, id int64, req dto.UpdateGroupRequest) (*models.Group, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(s.validator, req, "invalid group payload"); err != nil {
		return nil, err
	}

	var updated *models.Group
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		group, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if req.Name != group.Name {
			if err := s.ensureUniqueName(ctx, req.Name, group.ProgramID); err != nil {
				return err
			}
		}
		if req.ProfessorID != nil {
			if err := s.refs.existingProfessor(ctx, *req.ProfessorID); err != nil {
				return err
			}
		}

		group.Name = req.Name
		group.ProfessorID = req.ProfessorID
		if err := s.groups.Update(ctx, group); err != nil {
			return persistError(err, "Group", "failed to update group")
		}
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignProfessor sets the professor leading a group.
func (s *GroupService) AssignProfessor(ctx context.Context, id, professorID int64) (*models.Group, error) {
	if professorID <= 0 {
		return nil, appErrors.Validation("invalid professor id", map[string]string{"professorId": "must be greater than 0"})
	}

	var updated *models.Group
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		group, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := s.refs.existingProfessor(ctx, professorID); err != nil {
			return err
		}
		group.ProfessorID = &professorID
		if err := s.groups.Update(ctx, group); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to assign professor")
		}
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleActive flips the active flag.
func (s *GroupService) ToggleActive(ctx context.Context, id int64) (*models.Group, error) {
	var updated *models.Group
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		group, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		group.Active = !group.Active
		if err := s.groups.Update(ctx, group); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to toggle group")
		}
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks an unoccupied group inactive.
func (s *GroupService) SoftDelete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		group, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		count, err := s.students.CountActiveByGroup(ctx, id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to count group students")
		}
		if count > 0 {
			return appErrors.BusinessRule(fmt.Sprintf("cannot delete group %d: it has %d active students", id, count))
		}
		group.Active = false
		if err := s.groups.Update(ctx, group); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to deactivate group")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("group deactivated", zap.Int64("group_id", id))
	return nil
}

func (s *GroupService) ensureUniqueName(ctx context.Context, name string, programID int64) error {
	exists, err := s.groups.ExistsByNameAndProgram(ctx, name, programID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal, "failed to validate group name")
	}
	if exists {
		return appErrors.Duplicate("Group", "name", fmt.Sprintf("%s in program %d", name, programID))
	}
	return nil
}

func (s *GroupService) load(ctx context.Context, id int64) (*models.Group, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("Group", "id", id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load group")
	}
	return group, nil
}
