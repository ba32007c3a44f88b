package posts

import (
	"errors"
	"net/http"

	"github.com/anoixa/postboard/api/common"
	svcPosts "github.com/anoixa/postboard/internal/posts"
	"github.com/anoixa/postboard/utils/validator"
	"github.com/gin-gonic/gin"
)

const (
	singleImageField = "image"
	galleryField     = "gallery[]"
)

// UploadImage 上传单张图片
// @Summary      Upload image
// @Description  Stores one image under a random 32-hex name and returns its src/filename
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file"
// @Success      201  {object}  common.Response{data=svcPosts.UploadedImage}
// @Failure      400  {object}  common.Response  "No file or not an image"
// @Failure      401  {object}  common.Response  "Unauthorized"
// @Failure      413  {object}  common.Response  "File too large"
// @Security     BearerAuth
// @Router       /posts/image [post]
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile(singleImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			respondServiceError(c, "upload image", svcPosts.ErrNoFile)
			return
		}
		common.RespondError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	uploaded, err := h.svc.UploadImage(c.Request.Context(), file)
	if err != nil {
		respondServiceError(c, "upload image", err)
		return
	}

	common.RespondCreated(c, uploaded)
}

// UploadImages 批量上传图库图片
// @Summary      Upload gallery images
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        gallery[]  formData  file  true  "Image files (up to 12)"
// @Success      201  {object}  common.Response{data=[]svcPosts.UploadedImage}
// @Failure      400  {object}  common.Response  "No files, too many files or not an image"
// @Failure      401  {object}  common.Response  "Unauthorized"
// @Security     BearerAuth
// @Router       /posts/images [post]
func (h *Handler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondServiceError(c, "upload images", svcPosts.ErrNoFile)
		return
	}

	files := form.File[galleryField]
	if len(files) == 0 {
		files = form.File["gallery"]
	}

	uploaded, err := h.svc.UploadImages(c.Request.Context(), files)
	if err != nil {
		respondServiceError(c, "upload images", err)
		return
	}

	common.RespondCreated(c, uploaded)
}

// ServeImage 返回已上传的图片文件
// @Summary      Serve uploaded image
// @Tags         uploads
// @Produce      octet-stream
// @Param        fileId  path  string  true  "Stored filename"
// @Success      200
// @Failure      404  {object}  common.Response  "Image not found"
// @Router       /posts/postImages/{fileId} [get]
func (h *Handler) ServeImage(c *gin.Context) {
	filename := c.Param("fileId")

	obj, err := h.svc.OpenImage(c.Request.Context(), filename)
	if err != nil {
		respondServiceError(c, "serve image", err)
		return
	}
	defer obj.Close()

	// 文件名随机且不可变
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("Content-Type", validator.ImageContentType(filename))
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Writer, c.Request, filename, obj.ModTime, obj.Reader)
}
