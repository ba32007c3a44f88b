package posts

import (
	"github.com/anoixa/postboard/api/common"
	"github.com/anoixa/postboard/api/middleware"
	svcPosts "github.com/anoixa/postboard/internal/posts"
	"github.com/gin-gonic/gin"
)

// UpdatePost 部分更新文章
// @Summary      Update post
// @Description  Empty text fields are left unchanged. isPublished/isFrontPage are always written.
// @Description  frontImage: omitted keeps, null clears, object without id replaces.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Post ID"
// @Param        request  body      svcPosts.UpdateInput  true  "Changes"
// @Success      200  {object}  common.Response{data=models.Post}
// @Failure      400  {object}  common.Response  "Validation failed"
// @Failure      401  {object}  common.Response  "Unauthorized"
// @Failure      404  {object}  common.Response  "Post not found"
// @Security     BearerAuth
// @Router       /posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var input svcPosts.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.RespondBindError(c, err)
		return
	}

	post, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input, middleware.CurrentUser(c))
	if err != nil {
		respondServiceError(c, "update post", err)
		return
	}

	common.RespondSuccess(c, post)
}
