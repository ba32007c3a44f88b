package validator

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotImage 文件内容不是受支持的图片
var ErrNotImage = errors.New("file is not a supported image")

// allowedImageFormats 允许的图片格式及其规范扩展名
var allowedImageFormats = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
	"bmp":  ".bmp",
}

// ImageInfo 图片头信息
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// DetectImage 解析图片头部，确认文件内容是允许的图片类型。
// 读取完成后会把 file 复位到起始位置。
func DetectImage(file io.ReadSeeker) (*ImageInfo, error) {
	cfg, format, decodeErr := image.DecodeConfig(file)

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	if decodeErr != nil {
		return nil, ErrNotImage
	}
	if _, ok := allowedImageFormats[format]; !ok {
		return nil, ErrNotImage
	}

	return &ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

// formatExtensions 每种格式可接受的扩展名
var formatExtensions = map[string][]string{
	"jpeg": {".jpg", ".jpeg", ".jpe", ".jfif"},
	"png":  {".png"},
	"gif":  {".gif"},
	"webp": {".webp"},
	"bmp":  {".bmp", ".dib"},
}

// SafeExtension 返回与检测到的图片格式一致的小写扩展名。
// 原始扩展名不属于该格式时使用规范扩展名，存储名因此不会携带 .html 之类的类型
func SafeExtension(originalName, format string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	for _, allowed := range formatExtensions[format] {
		if ext == allowed {
			return ext
		}
	}
	return allowedImageFormats[format]
}

// extensionContentTypes 图片扩展名对应的响应类型
var extensionContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jpe":  "image/jpeg",
	".jfif": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".dib":  "image/bmp",
}

// ImageContentType 根据存储名返回图片 Content-Type，未知扩展名按二进制流处理
func ImageContentType(filename string) string {
	if ct, ok := extensionContentTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
