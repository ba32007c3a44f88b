package posts

import (
	"github.com/anoixa/postboard/api/common"
	"github.com/anoixa/postboard/api/middleware"
	svcPosts "github.com/anoixa/postboard/internal/posts"
	"github.com/gin-gonic/gin"
)

// CreatePost 创建文章
// @Summary      Create post
// @Description  Creates a post with optional front image and gallery in one transaction
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request  body      svcPosts.CreateInput  true  "Post"
// @Success      201  {object}  common.Response{data=models.Post}
// @Failure      400  {object}  common.Response  "Validation failed"
// @Failure      401  {object}  common.Response  "Unauthorized"
// @Failure      500  {object}  common.Response  "Internal server error"
// @Security     BearerAuth
// @Router       /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var input svcPosts.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.RespondBindError(c, err)
		return
	}

	post, err := h.svc.Create(c.Request.Context(), &input, middleware.CurrentUser(c))
	if err != nil {
		respondServiceError(c, "create post", err)
		return
	}

	common.RespondCreated(c, post)
}
