package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-service/internal/dto"
	"github.com/noah-isme/student-service/internal/service"
	"github.com/noah-isme/student-service/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {array} models.Student
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// ListActive godoc
// @Summary List active students
// @Tags Students
// @Produce json
// @Success 200 {array} models.Student
// @Router /students/active [get]
func (h *StudentHandler) ListActive(c *gin.Context) {
	students, err := h.students.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Details godoc
// @Summary Get student with program and group names
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.StudentView
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id}/details [get]
func (h *StudentHandler) Details(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.students.GetWithDetails(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// GetByEnrollmentCode godoc
// @Summary Get student by enrollment code
// @Tags Students
// @Produce json
// @Param code path string true "Enrollment code"
// @Success 200 {object} models.Student
// @Failure 404 {object} response.ErrorBody
// @Router /students/by-code/{code} [get]
func (h *StudentHandler) GetByEnrollmentCode(c *gin.Context) {
	student, err := h.students.GetByEnrollmentCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// ListByGroup godoc
// @Summary List active students of a group
// @Tags Students
// @Produce json
// @Param groupId path int true "Group ID"
// @Success 200 {array} models.Student
// @Router /students/by-group/{groupId} [get]
func (h *StudentHandler) ListByGroup(c *gin.Context) {
	groupID, err := pathID(c, "groupId")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.students.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// ListByProgram godoc
// @Summary List students of a program
// @Tags Students
// @Produce json
// @Param programId path int true "Program ID"
// @Success 200 {array} models.Student
// @Router /students/by-program/{programId} [get]
func (h *StudentHandler) ListByProgram(c *gin.Context) {
	programID, err := pathID(c, "programId")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.students.ListByProgram(c.Request.Context(), programID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Search godoc
// @Summary Search students by name or surname
// @Tags Students
// @Produce json
// @Param term query string true "Case-insensitive fragment"
// @Success 200 {array} models.Student
// @Failure 400 {object} response.ErrorBody
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	students, err := h.students.Search(c.Request.Context(), c.Query("term"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} models.Student
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body dto.UpdateStudentRequest true "Student payload"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateStudentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// ChangeGroup godoc
// @Summary Move student to another group
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body dto.ChangeGroupRequest true "Target group"
// @Success 200 {object} models.Student
// @Router /students/{id}/change-group [patch]
func (h *StudentHandler) ChangeGroup(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ChangeGroupRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.ChangeGroup(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// ToggleActive godoc
// @Summary Flip student active flag
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Router /students/{id}/toggle-active [patch]
func (h *StudentHandler) ToggleActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.ToggleActive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, student)
}

// Delete godoc
// @Summary Deactivate student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
