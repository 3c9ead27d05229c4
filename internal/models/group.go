package models

import "time"

// Group is a cohort of students within a program, optionally led by a professor.
type Group struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ProgramID   int64     `db:"program_id" json:"programId"`
	ProfessorID *int64    `db:"professor_id" json:"professorId"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// GroupView is the read model joining a group with resolved names and its headcount.
type GroupView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Program       string `json:"program"`
	Professor     string `json:"professor"`
	TotalStudents int    `json:"totalStudents"`
	Active        bool   `json:"active"`
}
