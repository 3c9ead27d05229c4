package dto

// CreateStudentRequest holds payload for registering a student.
type CreateStudentRequest struct {
	Name           string  `json:"name" validate:"required,max=100"`
	Surname        string  `json:"surname" validate:"required,max=100"`
	EnrollmentCode string  `json:"enrollmentCode" validate:"required,max=20"`
	Email          *string `json:"email" validate:"omitempty,email,max=150"`
	Phone          *string `json:"phone" validate:"omitempty,max=20"`
	ProgramID      int64   `json:"programId" validate:"required,gt=0"`
	GroupID        *int64  `json:"groupId" validate:"omitempty,gt=0"`
}

// UpdateStudentRequest holds the mutable student fields. A nil email, phone or
// group clears the stored value.
type UpdateStudentRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Surname string  `json:"surname" validate:"required,max=100"`
	Email   *string `json:"email" validate:"omitempty,email,max=150"`
	Phone   *string `json:"phone" validate:"omitempty,max=20"`
	GroupID *int64  `json:"groupId" validate:"omitempty,gt=0"`
}

// ChangeGroupRequest moves a student to another group.
type ChangeGroupRequest struct {
	NewGroupID int64 `json:"newGroupId" validate:"required,gt=0"`
}
