package dto

// CreateGroupRequest holds payload for opening a group in a program.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	ProgramID   int64  `json:"programId" validate:"required,gt=0"`
	ProfessorID *int64 `json:"professorId" validate:"omitempty,gt=0"`
}

// UpdateGroupRequest holds the mutable group fields. A nil professor unassigns it.
type UpdateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	ProfessorID *int64 `json:"professorId" validate:"omitempty,gt=0"`
}
