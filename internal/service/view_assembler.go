package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/student-service/internal/models"
)

// Placeholders rendered when a read-model field cannot be resolved.
const (
	NoGroupAssigned      = "No group assigned"
	GroupNotFound        = "Group not found"
	NoProfessorAssigned  = "No professor assigned"
	ProgramUnavailable   = "Program unavailable"
	ProfessorUnavailable = "Professor unavailable"
)

type fallbackRecorder interface {
	RecordEnrichmentFallback(field string)
}

// ViewAssembler builds display records from local entities and peer lookups.
// Lookup failures degrade to placeholders; assembly never returns an error.
type ViewAssembler struct {
	groups     groupStore
	programs   ProgramLookup
	professors ProfessorLookup
	fallbacks  fallbackRecorder
	logger     *zap.Logger
}

// NewViewAssembler constructs a ViewAssembler. fallbacks may be nil.
func NewViewAssembler(groups groupStore, programs ProgramLookup, professors ProfessorLookup, fallbacks fallbackRecorder, logger *zap.Logger) *ViewAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewAssembler{groups: groups, programs: programs, professors: professors, fallbacks: fallbacks, logger: logger}
}

// Student renders the student read model.
func (a *ViewAssembler) Student(ctx context.Context, student models.Student) models.StudentView {
	return models.StudentView{
		ID:             student.ID,
		Name:           student.Name,
		Surname:        student.Surname,
		EnrollmentCode: student.EnrollmentCode,
		Email:          student.Email,
		Phone:          student.Phone,
		Program:        a.programName(ctx, student.ProgramID),
		Group:          a.groupName(ctx, student.GroupID),
		Active:         student.Active,
	}
}

// Group renders the group read model with its active headcount.
func (a *ViewAssembler) Group(ctx context.Context, group models.Group, totalStudents int) models.GroupView {
	return models.GroupView{
		ID:            group.ID,
		Name:          group.Name,
		Program:       a.programName(ctx, group.ProgramID),
		Professor:     a.professorName(ctx, group.ProfessorID),
		TotalStudents: totalStudents,
		Active:        group.Active,
	}
}

func (a *ViewAssembler) programName(ctx context.Context, id int64) string {
	if a.programs == nil {
		a.fallback("program")
		return fmt.Sprintf("Program %d", id)
	}
	program, err := a.programs.GetProgram(ctx, id)
	if err != nil {
		a.logger.Warn("could not resolve program name", zap.Int64("program_id", id), zap.Error(err))
		a.fallback("program")
		return fmt.Sprintf("Program %d", id)
	}
	if program == nil || program.Name == "" {
		a.fallback("program")
		return ProgramUnavailable
	}
	return program.Name
}

func (a *ViewAssembler) groupName(ctx context.Context, id *int64) string {
	if id == nil {
		return NoGroupAssigned
	}
	group, err := a.groups.FindByID(ctx, *id)
	if err != nil {
		a.fallback("group")
		if errors.Is(err, sql.ErrNoRows) {
			return GroupNotFound
		}
		a.logger.Warn("could not resolve group name", zap.Int64("group_id", *id), zap.Error(err))
		return fmt.Sprintf("Group %d", *id)
	}
	return group.Name
}

func (a *ViewAssembler) professorName(ctx context.Context, id *int64) string {
	if id == nil {
		return NoProfessorAssigned
	}
	if a.professors == nil {
		a.fallback("professor")
		return fmt.Sprintf("Professor %d", *id)
	}
	professor, err := a.professors.GetProfessor(ctx, *id)
	if err != nil {
		a.logger.Warn("could not resolve professor name", zap.Int64("professor_id", *id), zap.Error(err))
		a.fallback("professor")
		return fmt.Sprintf("Professor %d", *id)
	}
	if professor == nil || professor.FullName() == "" {
		a.fallback("professor")
		return ProfessorUnavailable
	}
	return professor.FullName()
}

func (a *ViewAssembler) fallback(field string) {
	if a.fallbacks != nil {
		a.fallbacks.RecordEnrichmentFallback(field)
	}
}
