package models

import "time"

// Student represents a learner enrolled in one educational program.
type Student struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Surname        string    `db:"surname" json:"surname"`
	EnrollmentCode string    `db:"enrollment_code" json:"enrollmentCode"`
	Email          *string   `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone"`
	ProgramID      int64     `db:"program_id" json:"programId"`
	GroupID        *int64    `db:"group_id" json:"groupId"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentView is the read model joining a student with resolved program and group names.
type StudentView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Surname        string  `json:"surname"`
	EnrollmentCode string  `json:"enrollmentCode"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Program        string  `json:"program"`
	Group          string  `json:"group"`
	Active         bool    `json:"active"`
}
