package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/middleware"
	"github.com/noah-isme/edudocs-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth           *AuthHandler
	Requests       *RequestHandler
	Attachments    *AttachmentHandler
	PasswordResets *PasswordResetHandler
	Dashboard      *DashboardHandler
	Notifications  *NotificationHandler
	Stream         *StreamHandler
	Directory      *DirectoryHandler
}

// RegisterRoutes mounts the API on group. Role gates here are coarse; ownership,
// assignment and transition rules are enforced by the services.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, validator middleware.TokenValidator) {
	group.POST("/auth/login", h.Auth.Login)
	group.POST("/password-resets", h.PasswordResets.Submit)
	group.GET("/requests/:id/attachments/:attachmentId/download", h.Attachments.Download)

	secured := group.Group("")
	secured.Use(middleware.JWT(validator))
	managers := middleware.RequireManager()

	secured.GET("/auth/me", h.Auth.Me)

	requests := secured.Group("/requests")
	requests.POST("", middleware.RequireRoles(models.RoleStudent), h.Requests.Create)
	requests.GET("", h.Requests.List)
	requests.GET("/export", h.Requests.Export)
	requests.POST("/clear", h.Requests.Clear)
	requests.GET("/:id", h.Requests.Get)
	requests.DELETE("/:id", h.Requests.Delete)
	requests.POST("/:id/assign", middleware.RequireRoles(models.RoleSuperAdmin), h.Requests.Assign)
	requests.PATCH("/:id/status", managers, h.Requests.SetStatus)
	requests.PATCH("/:id/expected-date", managers, h.Requests.SetExpectedDate)
	requests.POST("/:id/comments", h.Requests.AddComment)
	requests.POST("/:id/attachments", managers, h.Attachments.Upload)
	requests.GET("/:id/attachments/:attachmentId/url", h.Attachments.Link)
	requests.POST("/:id/attachments/:attachmentId/approve", h.Attachments.Approve)
	requests.POST("/:id/attachments/:attachmentId/reject", h.Attachments.Reject)

	resets := secured.Group("/password-resets")
	resets.GET("", h.PasswordResets.List)
	resets.POST("/clear", managers, h.PasswordResets.Clear)
	resets.POST("/:id/assign", middleware.RequireRoles(models.RoleSuperAdmin), h.PasswordResets.Assign)
	resets.PATCH("/:id/status", managers, h.PasswordResets.SetStatus)
	resets.DELETE("/:id", managers, h.PasswordResets.Delete)

	dashboard := secured.Group("/dashboard")
	dashboard.GET("", h.Dashboard.Get)
	dashboard.POST("/:kind/clear", managers, h.Dashboard.Clear)
	dashboard.DELETE("/:kind/:id", managers, h.Dashboard.Hide)

	notifications := secured.Group("/notifications")
	notifications.GET("", h.Notifications.List)
	notifications.POST("/read-all", h.Notifications.MarkAllRead)
	notifications.POST("/:id/read", h.Notifications.MarkRead)
	notifications.DELETE("", h.Notifications.DeleteAll)
	notifications.DELETE("/:id", h.Notifications.Delete)

	secured.GET("/stream/requests", h.Stream.Requests)
	secured.GET("/users/assignees", middleware.RequireRoles(models.RoleSuperAdmin), h.Directory.Assignees)
}
