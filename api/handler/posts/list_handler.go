package posts

import (
	"net/http"

	"github.com/anoixa/postboard/api/common"
	"github.com/gin-gonic/gin"
)

// ListPostsRequest 文章列表查询参数
type ListPostsRequest struct {
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PostsPerPage int    `form:"posts_per_page" binding:"omitempty,min=1"`
	Filter       string `form:"filter" binding:"max=100"`
}

// ListPosts 分页获取文章
// @Summary      List posts
// @Description  Paginated posts, newest first. filter matches the title exactly.
// @Tags         posts
// @Produce      json
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        posts_per_page  query     int     false  "Page size (default 12, max 100)"
// @Param        filter          query     string  false  "Exact title"
// @Success      200  {object}  common.Response{data=svcPosts.ListResult}
// @Failure      400  {object}  common.Response  "Invalid query parameters"
// @Failure      500  {object}  common.Response  "Internal server error"
// @Router       /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	var req ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	result, err := h.svc.List(c.Request.Context(), req.Page, req.PostsPerPage, req.Filter)
	if err != nil {
		respondServiceError(c, "list posts", err)
		return
	}

	common.RespondSuccess(c, result)
}

// NewestPosts 最新发布的文章
// @Summary      Newest posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  common.Response{data=[]models.Post}
// @Router       /posts/newest [get]
func (h *Handler) NewestPosts(c *gin.Context) {
	items, err := h.svc.Newest(c.Request.Context())
	if err != nil {
		respondServiceError(c, "list newest posts", err)
		return
	}
	common.RespondSuccess(c, items)
}

// FrontPagePosts 首页文章
// @Summary      Front-page posts
// @Tags         posts
// @Produce      json
// @Success      200  {object}  common.Response{data=[]models.Post}
// @Router       /posts/front-page [get]
func (h *Handler) FrontPagePosts(c *gin.Context) {
	items, err := h.svc.FrontPage(c.Request.Context())
	if err != nil {
		respondServiceError(c, "list front-page posts", err)
		return
	}
	common.RespondSuccess(c, items)
}

// GetPost 获取单篇文章（含作者、封面与图库）
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  common.Response{data=models.Post}
// @Failure      404  {object}  common.Response  "Post not found"
// @Router       /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, "get post", err)
		return
	}
	common.RespondSuccess(c, post)
}
