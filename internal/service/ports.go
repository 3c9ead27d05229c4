package service

import (
	"context"

	"github.com/noah-isme/student-service/internal/models"
)

type studentStore interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	ListActive(ctx context.Context) ([]models.Student, error)
	ListActiveByGroup(ctx context.Context, groupID int64) ([]models.Student, error)
	ListByProgram(ctx context.Context, programID int64) ([]models.Student, error)
	SearchByNameOrSurname(ctx context.Context, term string) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByEnrollmentCode(ctx context.Context, code string) (*models.Student, error)
	ExistsByEnrollmentCode(ctx context.Context, code string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	CountActiveByGroup(ctx context.Context, groupID int64) (int, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type groupStore interface {
	ListAll(ctx context.Context) ([]models.Group, error)
	ListActive(ctx context.Context) ([]models.Group, error)
	ListActiveByProgram(ctx context.Context, programID int64) ([]models.Group, error)
	ListByProfessor(ctx context.Context, professorID int64) ([]models.Group, error)
	FindByID(ctx context.Context, id int64) (*models.Group, error)
	ExistsByNameAndProgram(ctx context.Context, name string, programID int64) (bool, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
}

// ProgramLookup resolves programs owned by the division service.
type ProgramLookup interface {
	GetProgram(ctx context.Context, id int64) (*models.Program, error)
}

// ProfessorLookup resolves professors owned by the professor service.
type ProfessorLookup interface {
	GetProfessor(ctx context.Context, id int64) (*models.Professor, error)
}

type transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// directTx runs units of work without a transaction; used when no database transactor is wired.
type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func orDirect(tx transactor) transactor {
	if tx == nil {
		return directTx{}
	}
	return tx
}
