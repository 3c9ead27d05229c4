package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/pkg/database"
)

const groupColumns = "id, name, program_id, professor_id, active, created_at, updated_at"

// GroupRepository manages persistence for groups.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) list(ctx context.Context, where string, args ...interface{}) ([]models.Group, error) {
	query := "SELECT " + groupColumns + " FROM student_groups"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id"
	groups := make([]models.Group, 0)
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ListAll returns every group.
func (r *GroupRepository) ListAll(ctx context.Context) ([]models.Group, error) {
	return r.list(ctx, "")
}

// ListActive returns active groups.
func (r *GroupRepository) ListActive(ctx context.Context) ([]models.Group, error) {
	return r.list(ctx, "active = TRUE")
}

// ListActiveByProgram returns the active groups of a program.
func (r *GroupRepository) ListActiveByProgram(ctx context.Context, programID int64) ([]models.Group, error) {
	return r.list(ctx, "program_id = $1 AND active = TRUE", programID)
}

// ListByProfessor returns all groups led by a professor.
func (r *GroupRepository) ListByProfessor(ctx context.Context, professorID int64) ([]models.Group, error) {
	return r.list(ctx, "professor_id = $1", professorID)
}

// FindByID fetches a group. It returns sql.ErrNoRows when absent.
func (r *GroupRepository) FindByID(ctx context.Context, id int64) (*models.Group, error) {
	var group models.Group
	query := "SELECT " + groupColumns + " FROM student_groups WHERE id = $1"
	if err := database.Conn(ctx, r.db).GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// ExistsByNameAndProgram checks the (name, program) uniqueness rule.
func (r *GroupRepository) ExistsByNameAndProgram(ctx context.Context, name string, programID int64) (bool, error) {
	var exists int
	const query = "SELECT 1 FROM student_groups WHERE name = $1 AND program_id = $2 LIMIT 1"
	if err := database.Conn(ctx, r.db).GetContext(ctx, &exists, query, name, programID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check group name: %w", err)
	}
	return true, nil
}

// Create inserts a group and fills the store-assigned ID and timestamps.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now
	const query = `INSERT INTO student_groups (name, program_id, professor_id, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := database.Conn(ctx, r.db).GetContext(ctx, &group.ID, query,
		group.Name, group.ProgramID, group.ProfessorID, group.Active, group.CreatedAt, group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create group: %w", translate(err))
	}
	return nil
}

// Update persists name, professor and state. The program is never rewritten.
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE student_groups SET name = :name, professor_id = :professor_id, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("update group: %w", translate(err))
	}
	return nil
}
