package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the student and group endpoints on r.
func RegisterRoutes(r gin.IRouter, students *StudentHandler, groups *GroupHandler) {
	s := r.Group("/students")
	s.GET("", students.List)
	s.GET("/active", students.ListActive)
	s.GET("/search", students.Search)
	s.GET("/by-code/:code", students.GetByEnrollmentCode)
	s.GET("/by-group/:groupId", students.ListByGroup)
	s.GET("/by-program/:programId", students.ListByProgram)
	s.GET("/:id", students.Get)
	s.GET("/:id/details", students.Details)
	s.POST("", students.Create)
	s.PUT("/:id", students.Update)
	s.PATCH("/:id/change-group", students.ChangeGroup)
	s.PATCH("/:id/toggle-active", students.ToggleActive)
	s.DELETE("/:id", students.Delete)

	g := r.Group("/groups")
	g.GET("", groups.List)
	g.GET("/active", groups.ListActive)
	g.GET("/by-program/:programId", groups.ListByProgram)
	g.GET("/by-professor/:professorId", groups.ListByProfessor)
	g.GET("/:id", groups.Get)
	g.GET("/:id/details", groups.Details)
	g.GET("/:id/students", groups.Students)
	g.POST("", groups.Create)
	g.PUT("/:id", groups.Update)
	g.PATCH("/:id/assign-professor/:professorId", groups.AssignProfessor)
	g.PATCH("/:id/toggle-active", groups.ToggleActive)
	g.DELETE("/:id", groups.Delete)
}

// RegisterOperational mounts health, readiness and metrics endpoints.
func RegisterOperational(r gin.IRouter, ops *MetricsHandler, metricsPath string) {
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if metricsPath != "" {
		r.GET(metricsPath, ops.Prometheus)
	}
}
