package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Classes   *ClassHandler
	Students  *StudentHandler
	Payments  *PaymentHandler
	Dashboard *DashboardHandler
	Metrics   *MetricsHandler
}

// RegisterRoutes mounts the domain endpoints on group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	classes := group.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", h.Classes.Create)
	classes.GET("/:id", h.Classes.Get)
	classes.PUT("/:id", h.Classes.Update)
	classes.GET("/:id/eligible-students", h.Classes.EligibleStudents)

	students := group.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)

	payments := group.Group("/payments")
	payments.GET("", h.Payments.List)
	payments.GET("/export", h.Payments.Export)
	payments.GET("/:id", h.Payments.Get)
	payments.POST("/monthly-fees", h.Payments.GenerateMonthlyFees)
	payments.PATCH("/:id/status", h.Payments.UpdateStatus)

	group.GET("/dashboard", h.Dashboard.Summary)

	if h.Metrics != nil {
		group.GET("/metrics/summary", h.Metrics.Snapshot)
	}
}
