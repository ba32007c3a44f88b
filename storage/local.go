package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LocalStorage 本地文件存储实现
type LocalStorage struct {
	absBasePath string
}

// NewLocalStorage 创建本地存储提供者
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", absPath, err)
	}

	testFile := filepath.Join(absPath, ".write_test_"+strconv.FormatInt(time.Now().UnixNano(), 10))
	f, err := os.Create(testFile)
	if err != nil {
		return nil, fmt.Errorf("local storage directory '%s' is not writable: %w", absPath, err)
	}
	_ = f.Close()
	_ = os.Remove(testFile)

	return &LocalStorage{
		absBasePath: absPath + string(os.PathSeparator),
	}, nil
}

// resolve 将文件名解析为存储目录内的绝对路径
func (s *LocalStorage) resolve(identifier string) (string, error) {
	if !IsValidIdentifier(identifier) {
		return "", fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	fullPath := filepath.Join(s.absBasePath, identifier)

	// 防止目录遍历攻击
	if !strings.HasPrefix(fullPath, s.absBasePath) {
		return "", fmt.Errorf("invalid file path, potential directory traversal: %s", identifier)
	}
	return fullPath, nil
}

// SaveWithContext 保存文件到本地存储
func (s *LocalStorage) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	dstPath, err := s.resolve(identifier)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return nil
}

// GetWithContext 从本地存储获取文件
func (s *LocalStorage) GetWithContext(ctx context.Context, identifier string) (*Object, error) {
	fullPath, err := s.resolve(identifier)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", identifier, err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file '%s': %w", identifier, err)
	}
	if stat.IsDir() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
	}

	return &Object{
		Reader:  file,
		Size:    stat.Size(),
		ModTime: stat.ModTime(),
	}, nil
}

// DeleteWithContext 从本地存储删除文件
func (s *LocalStorage) DeleteWithContext(ctx context.Context, identifier string) error {
	fullPath, err := s.resolve(identifier)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, identifier)
		}
		return fmt.Errorf("failed to delete local file '%s': %w", fullPath, err)
	}

	return nil
}

// Exists 检查文件是否存在
func (s *LocalStorage) Exists(ctx context.Context, identifier string) (bool, error) {
	fullPath, err := s.resolve(identifier)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List 列出存储目录下的文件，忽略子目录和隐藏文件
func (s *LocalStorage) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.absBasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read local storage directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// Health 检查存储健康状态
func (s *LocalStorage) Health(ctx context.Context) error {
	_, err := os.ReadDir(s.absBasePath)
	return err
}

// Name 返回存储名称
func (s *LocalStorage) Name() string {
	return "local"
}

// BasePath 返回存储的基础路径
func (s *LocalStorage) BasePath() string {
	return s.absBasePath
}
