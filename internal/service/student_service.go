package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-service/internal/dto"
	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/repository"
	appErrors "github.com/noah-isme/student-service/pkg/errors"
	"github.com/noah-isme/student-service/pkg/validation"
)

// StudentService handles student use-cases.
type StudentService struct {
	students  studentStore
	refs      *referenceValidator
	views     *ViewAssembler
	tx        transactor
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service. tx may be nil, in which case
// mutations run without a surrounding transaction.
func NewStudentService(students studentStore, groups groupStore, programs ProgramLookup, views *ViewAssembler, tx transactor, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if views == nil {
		views = NewViewAssembler(groups, programs, nil, nil, logger)
	}
	return &StudentService{
		students:  students,
		refs:      &referenceValidator{groups: groups, programs: programs, logger: logger},
		views:     views,
		tx:        orDirect(tx),
		validator: validate,
		logger:    logger,
	}
}

// ListAll returns every student.
func (s *StudentService) ListAll(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list students")
	}
	return students, nil
}

// ListActive returns active students.
func (s *StudentService) ListActive(ctx context.Context) ([]models.Student, error) {
	students, err := s.students.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list active students")
	}
	return students, nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	return s.load(ctx, id)
}

// GetByEnrollmentCode returns a student by enrollment code.
func (s *StudentService) GetByEnrollmentCode(ctx context.Context, code string) (*models.Student, error) {
	student, err := s.students.FindByEnrollmentCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("Student", "enrollment code", code)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load student")
	}
	return student, nil
}

// GetWithDetails returns the student read model. Peer failures only degrade names.
func (s *StudentService) GetWithDetails(ctx context.Context, id int64) (*models.StudentView, error) {
	student, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.views.Student(ctx, *student)
	return &view, nil
}

// ListByGroup returns the active students of a group.
func (s *StudentService) ListByGroup(ctx context.Context, groupID int64) ([]models.Student, error) {
	students, err := s.students.ListActiveByGroup(ctx, groupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list group students")
	}
	return students, nil
}

// ListByProgram returns every student of a program, active or not.
func (s *StudentService) ListByProgram(ctx context.Context, programID int64) ([]models.Student, error) {
	students, err := s.students.ListByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to list program students")
	}
	return students, nil
}

// Search matches term case-insensitively against name or surname.
func (s *StudentService) Search(ctx context.Context, term string) ([]models.Student, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, appErrors.Validation("search term is required", map[string]string{"term": "is required"})
	}
	students, err := s.students.SearchByNameOrSurname(ctx, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to search students")
	}
	return students, nil
}

// Create registers a new, active student after checking uniqueness and references.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.EnrollmentCode = strings.TrimSpace(req.EnrollmentCode)
	req.Email = normalize(req.Email)
	req.Phone = normalize(req.Phone)
	if err := validation.Struct(s.validator, req, "invalid student payload"); err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:           req.Name,
		Surname:        req.Surname,
		EnrollmentCode: req.EnrollmentCode,
		Email:          req.Email,
		Phone:          req.Phone,
		ProgramID:      req.ProgramID,
		GroupID:        req.GroupID,
		Active:         true,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.students.ExistsByEnrollmentCode(ctx, student.EnrollmentCode)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to validate enrollment code")
		}
		if exists {
			return appErrors.Duplicate("Student", "enrollment code", student.EnrollmentCode)
		}

		if student.Email != nil {
			exists, err := s.students.ExistsByEmail(ctx, *student.Email, 0)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal, "failed to validate email")
			}
			if exists {
				return appErrors.Duplicate("Student", "email", *student.Email)
			}
		}

		if student.GroupID != nil {
			if _, err := s.refs.activeGroup(ctx, *student.GroupID); err != nil {
				return err
			}
		}

		if err := s.refs.activeProgram(ctx, student.ProgramID); err != nil {
			return err
		}

		if err := s.students.Create(ctx, student); err != nil {
			return persistError(err, "Student", "failed to create student")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("student created", zap.Int64("student_id", student.ID), zap.String("enrollment_code", student.EnrollmentCode))
	return student, nil
}

// Update rewrites name, surname, email, phone and group. Program and enrollment code are immutable.
func (s *StudentService) Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = normalize(req.Email)
	req.Phone = normalize(req.Phone)
	if err := validation.Struct(s.validator, req, "invalid student payload"); err != nil {
		return nil, err
	}

	var updated *models.Student
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		student, err := s.load(ctx, id)
		if err != nil {
			return err
		}

		if req.Email != nil && !sameString(req.Email, student.Email) {
			exists, err := s.students.ExistsByEmail(ctx, *req.Email, id)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal, "failed to validate email")
			}
			if exists {
				return appErrors.Duplicate("Student", "email", *req.Email)
			}
		}

		if req.GroupID != nil && !sameID(req.GroupID, student.GroupID) {
			if _, err := s.refs.activeGroup(ctx, *req.GroupID); err != nil {
				return err
			}
		}

		student.Name = req.Name
		student.Surname = req.Surname
		student.Email = req.Email
		student.Phone = req.Phone
		student.GroupID = req.GroupID

		if err := s.students.Update(ctx, student); err != nil {
			return persistError(err, "Student", "failed to update student")
		}
		updated = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeGroup moves a student into another active group.
func (s *StudentService) ChangeGroup(ctx context.Context, id int64, req dto.ChangeGroupRequest) (*models.Student, error) {
	if err := validation.Struct(s.validator, req, "invalid group change payload"); err != nil {
		return nil, err
	}

	var updated *models.Student
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		student, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.refs.activeGroup(ctx, req.NewGroupID); err != nil {
			return err
		}
		groupID := req.NewGroupID
		student.GroupID = &groupID
		if err := s.students.Update(ctx, student); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to change student group")
		}
		updated = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleActive flips the active flag.
func (s *StudentService) ToggleActive(ctx context.Context, id int64) (*models.Student, error) {
	var updated *models.Student
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		student, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		student.Active = !student.Active
		if err := s.students.Update(ctx, student); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to toggle student")
		}
		updated = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a student inactive. The record is kept.
func (s *StudentService) SoftDelete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		student, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		student.Active = false
		if err := s.students.Update(ctx, student); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal, "failed to deactivate student")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("student deactivated", zap.Int64("student_id", id))
	return nil
}

func (s *StudentService) load(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFound("Student", "id", id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal, "failed to load student")
	}
	return student, nil
}

// persistError maps a unique-constraint race lost at write time to Conflict.
func persistError(err error, resource, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return appErrors.Wrap(err, appErrors.ErrConflict, resource+" already exists")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal, message)
}

// normalize trims an optional string and treats blank as absent.
func normalize(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
