package posts

import (
	"github.com/anoixa/postboard/api/common"
	"github.com/anoixa/postboard/api/middleware"
	"github.com/gin-gonic/gin"
)

// DeletePost 删除文章及其图片
// @Summary      Delete post
// @Description  Deletes the post, its front image and gallery rows, then removes the stored files
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  common.Response{data=models.Post}  "The deleted post"
// @Failure      401  {object}  common.Response  "Unauthorized"
// @Failure      404  {object}  common.Response  "Post not found"
// @Security     BearerAuth
// @Router       /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	post, err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		respondServiceError(c, "delete post", err)
		return
	}

	common.RespondSuccessMessage(c, "Post deleted successfully", post)
}
