package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrNotFound 文件不存在
var ErrNotFound = errors.New("file not found")

// ErrInvalidIdentifier 文件名不合法
var ErrInvalidIdentifier = errors.New("invalid file identifier")

// Provider 存储提供者接口 - 依赖倒置的核心抽象
// 定义了存储层的基本操作，所有存储实现必须遵循此接口
type Provider interface {
	// SaveWithContext 保存文件到存储
	SaveWithContext(ctx context.Context, identifier string, file io.Reader) error

	// GetWithContext 从存储获取文件，文件不存在时返回 ErrNotFound
	GetWithContext(ctx context.Context, identifier string) (*Object, error)

	// DeleteWithContext 从存储删除文件
	DeleteWithContext(ctx context.Context, identifier string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, identifier string) (bool, error)

	// List 列出存储中的全部文件
	List(ctx context.Context) ([]FileInfo, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}

// Object 读取到的文件
type Object struct {
	Reader  io.ReadSeekCloser
	Size    int64
	ModTime time.Time
}

// Close 关闭底层读取器
func (o *Object) Close() error {
	if o == nil || o.Reader == nil {
		return nil
	}
	return o.Reader.Close()
}

// FileInfo 存储中文件的元信息
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// IsValidIdentifier 校验文件名是否合法，只允许不含目录的安全文件名
func IsValidIdentifier(identifier string) bool {
	if identifier == "" || len(identifier) > 255 {
		return false
	}

	if strings.HasPrefix(identifier, ".") || strings.Contains(identifier, "..") {
		return false
	}

	for _, r := range identifier {
		if (r < 'a' || r > 'z') &&
			(r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') &&
			r != '-' && r != '_' && r != '.' {
			return false
		}
	}

	return true
}

type nopSeekCloser struct {
	io.ReadSeeker
}

func (nopSeekCloser) Close() error { return nil }
