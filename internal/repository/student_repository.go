package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/pkg/database"
)

const studentColumns = "id, name, surname, enrollment_code, email, phone, program_id, group_id, active, created_at, updated_at"

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) list(ctx context.Context, where string, args ...interface{}) ([]models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"
	students := make([]models.Student, 0)
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListAll returns every student, active or not.
func (r *StudentRepository) ListAll(ctx context.Context) ([]models.Student, error) {
	return r.list(ctx, "")
}

// ListActive returns students with active = true.
func (r *StudentRepository) ListActive(ctx context.Context) ([]models.Student, error) {
	return r.list(ctx, "active = TRUE")
}

// ListActiveByGroup returns the active students of a group.
func (r *StudentRepository) ListActiveByGroup(ctx context.Context, groupID int64) ([]models.Student, error) {
	return r.list(ctx, "group_id = $1 AND active = TRUE", groupID)
}

// ListByProgram returns all students of a program regardless of state.
func (r *StudentRepository) ListByProgram(ctx context.Context, programID int64) ([]models.Student, error) {
	return r.list(ctx, "program_id = $1", programID)
}

// SearchByNameOrSurname matches term as a case-insensitive substring of name or surname.
func (r *StudentRepository) SearchByNameOrSurname(ctx context.Context, term string) ([]models.Student, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return r.list(ctx, "(LOWER(name) LIKE $1 OR LOWER(surname) LIKE $1)", pattern)
}

// FindByID fetches a student by ID. It returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	query := "SELECT " + studentColumns + " FROM students WHERE id = $1"
	if err := database.Conn(ctx, r.db).GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEnrollmentCode fetches a student by enrollment code. It returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByEnrollmentCode(ctx context.Context, code string) (*models.Student, error) {
	var student models.Student
	query := "SELECT " + studentColumns + " FROM students WHERE enrollment_code = $1"
	if err := database.Conn(ctx, r.db).GetContext(ctx, &student, query, code); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEnrollmentCode checks whether the enrollment code is taken.
func (r *StudentRepository) ExistsByEnrollmentCode(ctx context.Context, code string) (bool, error) {
	return r.exists(ctx, "check enrollment code", "SELECT 1 FROM students WHERE enrollment_code = $1 LIMIT 1", code)
}

// ExistsByEmail checks whether the email is taken, optionally excluding one student ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	if excludeID > 0 {
		return r.exists(ctx, "check email", "SELECT 1 FROM students WHERE email = $1 AND id <> $2 LIMIT 1", email, excludeID)
	}
	return r.exists(ctx, "check email", "SELECT 1 FROM students WHERE email = $1 LIMIT 1", email)
}

func (r *StudentRepository) exists(ctx context.Context, label, query string, args ...interface{}) (bool, error) {
	var exists int
	if err := database.Conn(ctx, r.db).GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", label, err)
	}
	return true, nil
}

// CountActiveByGroup counts active students referencing the group.
func (r *StudentRepository) CountActiveByGroup(ctx context.Context, groupID int64) (int, error) {
	var total int
	const query = "SELECT COUNT(*) FROM students WHERE group_id = $1 AND active = TRUE"
	if err := database.Conn(ctx, r.db).GetContext(ctx, &total, query, groupID); err != nil {
		return 0, fmt.Errorf("count group students: %w", err)
	}
	return total, nil
}

// Create inserts a new student and fills the store-assigned ID and timestamps.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (name, surname, enrollment_code, email, phone, program_id, group_id, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := database.Conn(ctx, r.db).GetContext(ctx, &student.ID, query,
		student.Name, student.Surname, student.EnrollmentCode, student.Email, student.Phone,
		student.ProgramID, student.GroupID, student.Active, student.CreatedAt, student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create student: %w", translate(err))
	}
	return nil
}

// Update persists the mutable student fields. Program and enrollment code are never rewritten.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, surname = :surname, email = :email, phone = :phone, group_id = :group_id, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", translate(err))
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
