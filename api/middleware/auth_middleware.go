package middleware

import (
	"net/http"
	"strings"

	"github.com/anoixa/postboard/api/common"
	"github.com/anoixa/postboard/database/models"
	"github.com/anoixa/postboard/internal/auth"
	"github.com/gin-gonic/gin"
)

// ContextUserKey 上下文中当前用户的键
const ContextUserKey = "user"

// BearerAuth 校验 Authorization: Bearer <jwt>，并把当前用户写入上下文
func BearerAuth(jwtService *auth.JWTService, authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "No Authorization request header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "Authorization header must use the Bearer scheme")
			return
		}

		claims, err := jwtService.ParseToken(strings.TrimSpace(token))
		if err != nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := authService.ValidateToken(c.Request.Context(), claims)
		if err != nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser 获取已认证用户，未认证时返回 nil
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}
