package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/student-service/internal/client"
	"github.com/noah-isme/student-service/internal/models"
	appErrors "github.com/noah-isme/student-service/pkg/errors"
)

// referenceValidator checks foreign references before a student or group is written.
type referenceValidator struct {
	groups     groupStore
	programs   ProgramLookup
	professors ProfessorLookup
	logger     *zap.Logger
}

// activeGroup requires the group to exist and be active.
func (v *referenceValidator) activeGroup(ctx context.Context, id int64) (*models.Group, error) {
	group, err := v.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("Group", "id", id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load group")
	}
	if !group.Active {
		return nil, appErrors.BusinessRule(fmt.Sprintf("group %d is not active", id))
	}
	return group, nil
}

// activeProgram requires the remote program to exist and be active.
// A clean 404 is NotFound; any other peer failure is ServiceUnavailable.
func (v *referenceValidator) activeProgram(ctx context.Context, id int64) error {
	program, err := v.programs.GetProgram(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			return appErrors.NotFound("Program", "id", id)
		}
		v.logger.Error("program validation failed", zap.Int64("program_id", id), zap.Error(err))
		return appErrors.Unavailable(client.ProgramServiceName, "could not validate program", err)
	}
	if program == nil || !program.Active {
		return appErrors.BusinessRule(fmt.Sprintf("program %d is not available", id))
	}
	return nil
}

// existingProfessor requires the remote professor to exist. Professors carry no active flag.
func (v *referenceValidator) existingProfessor(ctx context.Context, id int64) error {
	professor, err := v.professors.GetProfessor(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			return appErrors.NotFound("Professor", "id", id)
		}
		v.logger.Error("professor validation failed", zap.Int64("professor_id", id), zap.Error(err))
		return appErrors.Unavailable(client.ProfessorServiceName, "could not validate professor", err)
	}
	if professor == nil {
		return appErrors.NotFound("Professor", "id", id)
	}
	return nil
}
