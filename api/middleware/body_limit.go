package middleware

import (
	"net/http"

	"github.com/anoixa/postboard/api/common"
	"github.com/gin-gonic/gin"
)

// BodyLimit 限制请求体大小，超出时返回 413
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			common.RespondErrorAbort(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
