package posts

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/postboard/api/common"
	svcPosts "github.com/anoixa/postboard/internal/posts"
	"github.com/anoixa/postboard/utils"
	"github.com/gin-gonic/gin"
)

// Handler 文章处理器
type Handler struct {
	svc *svcPosts.Service
}

// NewHandler 创建新的文章处理器
func NewHandler(svc *svcPosts.Service) *Handler {
	return &Handler{svc: svc}
}

// respondServiceError 把服务层错误映射为 HTTP 状态码
func respondServiceError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, svcPosts.ErrPostNotFound):
		common.RespondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, svcPosts.ErrImageNotFound):
		common.RespondError(c, http.StatusNotFound, "Image not found")
	case errors.Is(err, svcPosts.ErrNoFile):
		common.RespondError(c, http.StatusBadRequest, "No file uploaded")
	case errors.Is(err, svcPosts.ErrTooManyFiles),
		errors.Is(err, svcPosts.ErrInvalidImage),
		errors.Is(err, svcPosts.ErrInvalidImageRef):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, svcPosts.ErrFileTooLarge):
		common.RespondError(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		log.Printf("[Posts] Failed to %s: %v", action, utils.SanitizeLogMessage(err.Error()))
		common.RespondError(c, http.StatusInternalServerError, "Failed to "+action)
	}
}
