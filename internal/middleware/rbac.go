package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/models"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

// RequireRoles rejects actors whose role is not listed. Finer rules (ownership,
// assignment) are decided by the workflow layer.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := Identity(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			response.Error(c, appErrors.Forbidden("role %s cannot access this resource", actor.Role))
			return
		}
		c.Next()
	}
}

// RequireManager admits every processing role (super admin, admin, staff).
func RequireManager() gin.HandlerFunc {
	return RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleStaff)
}
