package middleware

import (
	"net/http"

	"github.com/anoixa/postboard/api/common"
	"github.com/gin-gonic/gin"
)

// RequireRole 要求当前用户至少拥有其中一个角色，需在 BearerAuth 之后使用
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Access denied. Not authenticated.")
			return
		}

		for _, role := range allowedRoles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}

		common.RespondErrorAbort(c, http.StatusForbidden, "Access denied. You do not have the required role to access this resource.")
	}
}
