package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campuswell/scheduling-api/internal/models"
	appErrors "github.com/campuswell/scheduling-api/pkg/errors"
	"github.com/campuswell/scheduling-api/pkg/response"
)

// RequireRoles blocks requests whose authenticated role is not in the list.
// Finer-grained checks (participant-only reads, owning-counsellor writes)
// live in the services, which see both the claims and the record.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
