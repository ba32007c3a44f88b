package posts

import (
	"bytes"
	"encoding/json"

	"github.com/anoixa/postboard/database/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 100

	// ShowcaseLimit 首页与最新文章列表的条数
	ShowcaseLimit = 6
)

// ImageInput 请求中的图片描述，ID 为空表示新图片
type ImageInput struct {
	ID       string `json:"id,omitempty"`
	Src      string `json:"src"`
	Filename string `json:"filename"`
}

// IsEmpty 是否未携带任何字段
func (i *ImageInput) IsEmpty() bool {
	return i == nil || (i.ID == "" && i.Src == "" && i.Filename == "")
}

// OptionalImage 区分字段缺省、显式 null 和具体值
type OptionalImage struct {
	Set   bool
	Value *ImageInput
}

// UnmarshalJSON 只要字段出现在请求体中就标记为 Set，null 对应 Value 为 nil
func (o *OptionalImage) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v ImageInput
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON 未设置或 null 时输出 null
func (o OptionalImage) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// CreateInput 创建文章请求
type CreateInput struct {
	Title       string       `json:"title" binding:"required,notblank,min=5,max=100"`
	Content     string       `json:"content" binding:"required,notblank,min=15,max=10000"`
	Description string       `json:"description" binding:"required,notblank,min=5,max=1000"`
	IsFrontPage bool         `json:"isFrontPage"`
	IsPublished bool         `json:"isPublished"`
	FrontImage  *ImageInput  `json:"frontImage"`
	Gallery     []ImageInput `json:"gallery" binding:"omitempty,max=100"`
}

// UpdateInput 更新文章请求
// 文本字段为空表示不修改；两个布尔字段总是覆盖
type UpdateInput struct {
	Title       string `json:"title" binding:"omitempty,notblank,min=5,max=100"`
	Content     string `json:"content" binding:"omitempty,notblank,min=15,max=10000"`
	Description string `json:"description" binding:"omitempty,notblank,min=5,max=1000"`
	IsFrontPage bool   `json:"isFrontPage"`
	IsPublished bool   `json:"isPublished"`

	// FrontImage 缺省不修改，null 清除，无 id 的对象替换
	FrontImage OptionalImage `json:"frontImage" swaggertype:"object"`
	// Gallery 为 nil 表示不修改，否则作为完整的图库集合
	Gallery []ImageInput `json:"gallery" binding:"omitempty,max=100"`

	DeletedFrontImage    *ImageInput  `json:"deletedFrontImage"`
	DeletedGalleryImages []ImageInput `json:"deletedGalleryImages"`
}

// ListResult 分页结果
type ListResult struct {
	Count int64          `json:"count"`
	Posts []*models.Post `json:"posts"`
}

// UploadedImage 上传后的图片描述，用于后续创建或更新文章
type UploadedImage struct {
	Src      string `json:"src"`
	Filename string `json:"filename"`
}

// NormalizePagination 规范化分页参数
func NormalizePagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
