package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-service/internal/dto"
	"github.com/noah-isme/student-service/internal/service"
	"github.com/noah-isme/student-service/pkg/response"
)

// GroupHandler exposes group endpoints.
type GroupHandler struct {
	groups   *service.GroupService
	students *service.StudentService
}

// NewGroupHandler constructs GroupHandler.
func NewGroupHandler(groups *service.GroupService, students *service.StudentService) *GroupHandler {
	return &GroupHandler{groups: groups, students: students}
}

// List godoc
// @Summary List groups
// @Tags Groups
// @Produce json
// @Success 200 {array} models.Group
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, groups)
}

// ListActive godoc
// @Summary List active groups
// @Tags Groups
// @Produce json
// @Success 200 {array} models.Group
// @Router /groups/active [get]
func (h *GroupHandler) ListActive(c *gin.Context) {
	groups, err := h.groups.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, groups)
}

// Get godoc
// @Summary Get group
// @Tags Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Failure 404 {object} response.ErrorBody
// @Router /groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	group, err := h.groups.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// Details godoc
// @Summary Get group with program, professor and headcount
// @Tags Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.GroupView
// @Router /groups/{id}/details [get]
func (h *GroupHandler) Details(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.groups.GetWithDetails(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// Students godoc
// @Summary List active students of a group
// @Tags Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} models.Student
// @Router /groups/{id}/students [get]
func (h *GroupHandler) Students(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.students.ListByGroup(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// ListByProgram godoc
// @Summary List active groups of a program
// @Tags Groups
// @Produce json
// @Param programId path int true "Program ID"
// @Success 200 {array} models.Group
// @Router /groups/by-program/{programId} [get]
func (h *GroupHandler) ListByProgram(c *gin.Context) {
	programID, err := pathID(c, "programId")
	if err != nil {
		response.Error(c, err)
		return
	}
	groups, err := h.groups.ListByProgram(c.Request.Context(), programID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, groups)
}

// ListByProfessor godoc
// @Summary List groups led by a professor
// @Tags Groups
// @Produce json
// @Param professorId path int true "Professor ID"
// @Success 200 {array} models.Group
// @Router /groups/by-professor/{professorId} [get]
func (h *GroupHandler) ListByProfessor(c *gin.Context) {
	professorID, err := pathID(c, "professorId")
	if err != nil {
		response.Error(c, err)
		return
	}
	groups, err := h.groups.ListByProfessor(c.Request.Context(), professorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, groups)
}

// Create godoc
// @Summary Create group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body dto.CreateGroupRequest true "Group payload"
// @Success 201 {object} models.Group
// @Failure 409 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	group, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param payload body dto.UpdateGroupRequest true "Group payload"
// @Success 200 {object} models.Group
// @Router /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateGroupRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	group, err := h.groups.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// AssignProfessor godoc
// @Summary Assign professor to group
// @Tags Groups
// @Produce json
// @Param id path int true "Group ID"
// @Param professorId path int true "Professor ID"
// @Success 200 {object} models.Group
// @Router /groups/{id}/assign-professor/{professorId} [patch]
func (h *GroupHandler) AssignProfessor(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	professorID, err := pathID(c, "professorId")
	if err != nil {
		response.Error(c, err)
		return
	}
	group, err := h.groups.AssignProfessor(c.Request.Context(), id, professorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// ToggleActive godoc
// @Summary Flip group active flag
// @Tags Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Router /groups/{id}/toggle-active [patch]
func (h *GroupHandler) ToggleActive(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	group, err := h.groups.ToggleActive(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, group)
}

// Delete godoc
// @Summary Deactivate group without active students
// @Tags Groups
// @Param id path int true "Group ID"
// @Success 204
// @Failure 400 {object} response.ErrorBody
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.groups.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
