package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"
)

// WebDAVConfig WebDAV 配置结构
type WebDAVConfig struct {
	URL      string
	Username string
	Password string
	RootPath string
	Timeout  time.Duration
}

// WebDAVStorage WebDAV 存储实现
type WebDAVStorage struct {
	client   *gowebdav.Client
	baseURL  string
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg WebDAVConfig) (*WebDAVStorage, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.RootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.URL, cfg.Username, cfg.Password)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	s := &WebDAVStorage{
		client:   client,
		rootPath: rootPath,
		baseURL:  strings.TrimRight(cfg.URL, "/"),
	}

	// 验证连接并确保根目录存在
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.ensureRoot(ctx); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	return s, nil
}

// withContext 在 goroutine 中执行阻塞的 WebDAV 调用，ctx 取消时提前返回
func withContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	done := make(chan result, 1)
	go func() {
		val, err := fn()
		done <- result{val: val, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-done:
		return res.val, res.err
	}
}

func (s *WebDAVStorage) ensureRoot(ctx context.Context) error {
	_, err := withContext(ctx, func() (struct{}, error) {
		if s.rootPath == "" {
			_, err := s.client.ReadDir("/")
			return struct{}{}, err
		}
		if _, err := s.client.Stat(s.rootPath); err == nil {
			return struct{}{}, nil
		} else if !gowebdav.IsErrNotFound(err) {
			return struct{}{}, err
		}
		return struct{}{}, s.client.MkdirAll(s.rootPath, os.FileMode(0755))
	})
	return err
}

// fullPath 生成完整的 WebDAV 路径
func (s *WebDAVStorage) fullPath(identifier string) string {
	identifier = strings.TrimLeft(identifier, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + identifier
	}
	return "/" + identifier
}

func (s *WebDAVStorage) dirPath() string {
	if s.rootPath == "" {
		return "/"
	}
	return s.rootPath
}

// SaveWithContext 保存文件到 WebDAV
func (s *WebDAVStorage) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	if !IsValidIdentifier(identifier) {
		return fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	_, err = withContext(ctx, func() (struct{}, error) {
		return struct{}{}, s.client.Write(s.fullPath(identifier), data, 0644)
	})
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", identifier, err)
	}
	return nil
}

// GetWithContext 从 WebDAV 获取文件
func (s *WebDAVStorage) GetWithContext(ctx context.Context, identifier string) (*Object, error) {
	if !IsValidIdentifier(identifier) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	fullPath := s.fullPath(identifier)

	info, err := withContext(ctx, func() (os.FileInfo, error) {
		return s.client.Stat(fullPath)
	})
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", identifier, err)
	}

	data, err := withContext(ctx, func() ([]byte, error) {
		return s.client.Read(fullPath)
	})
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", identifier, err)
	}

	return &Object{
		Reader:  nopSeekCloser{bytes.NewReader(data)},
		Size:    int64(len(data)),
		ModTime: info.ModTime(),
	}, nil
}

// DeleteWithContext 从 WebDAV 删除文件
func (s *WebDAVStorage) DeleteWithContext(ctx context.Context, identifier string) error {
	if !IsValidIdentifier(identifier) {
		return fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	_, err := withContext(ctx, func() (struct{}, error) {
		return struct{}{}, s.client.Remove(s.fullPath(identifier))
	})
	return err
}

// Exists 检查文件是否存在
func (s *WebDAVStorage) Exists(ctx context.Context, identifier string) (bool, error) {
	if !IsValidIdentifier(identifier) {
		return false, fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	_, err := withContext(ctx, func() (os.FileInfo, error) {
		return s.client.Stat(s.fullPath(identifier))
	})
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List 列出根目录下的文件
func (s *WebDAVStorage) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := withContext(ctx, func() ([]os.FileInfo, error) {
		return s.client.ReadDir(s.dirPath())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list webdav directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}
	return files, nil
}

// Health 检查存储健康状态
func (s *WebDAVStorage) Health(ctx context.Context) error {
	_, err := withContext(ctx, func() ([]os.FileInfo, error) {
		return s.client.ReadDir(s.dirPath())
	})
	return err
}

// Name 返回存储名称
func (s *WebDAVStorage) Name() string {
	if s.baseURL == "" {
		return "webdav"
	}
	return fmt.Sprintf("webdav:%s%s", s.baseURL, s.rootPath)
}
