package storage

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/webdav"
)

// newTestWebDAVServer 启动内存 WebDAV 服务器
func newTestWebDAVServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(&webdav.Handler{
		FileSystem: webdav.NewMemFS(),
		LockSystem: webdav.NewMemLS(),
	})
	t.Cleanup(srv.Close)
	return srv
}

// TestWebDAVStorageValidation 测试 WebDAV 存储配置验证
func TestWebDAVStorageValidation(t *testing.T) {
	_, err := NewWebDAVStorage(WebDAVConfig{URL: ""})
	assert.EqualError(t, err, "webdav URL is required")
}

// TestWebDAVStorage_RoundTrip 测试保存、读取、列出和删除
func TestWebDAVStorage_RoundTrip(t *testing.T) {
	srv := newTestWebDAVServer(t)
	s, err := NewWebDAVStorage(WebDAVConfig{URL: srv.URL, RootPath: "/postImages/"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Health(ctx))
	require.NoError(t, s.SaveWithContext(ctx, "a1.png", strings.NewReader("hello")))

	exists, err := s.Exists(ctx, "a1.png")
	require.NoError(t, err)
	assert.True(t, exists)

	obj, err := s.GetWithContext(ctx, "a1.png")
	require.NoError(t, err)
	data, err := io.ReadAll(obj.Reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, int64(5), obj.Size)
	require.NoError(t, obj.Close())

	files, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a1.png", files[0].Name)

	require.NoError(t, s.DeleteWithContext(ctx, "a1.png"))
	exists, err = s.Exists(ctx, "a1.png")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.GetWithContext(ctx, "a1.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestWebDAVStorageFullPath 测试路径生成逻辑
func TestWebDAVStorageFullPath(t *testing.T) {
	tests := []struct {
		name       string
		rootPath   string
		identifier string
		want       string
	}{
		{"empty root path", "", "test.jpg", "/test.jpg"},
		{"with root path", "/postImages", "test.jpg", "/postImages/test.jpg"},
		{"identifier with leading slash", "", "/test.jpg", "/test.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &WebDAVStorage{rootPath: tt.rootPath}
			if got := s.fullPath(tt.identifier); got != tt.want {
				t.Errorf("fullPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestWebDAVStorageContextCancellation 测试上下文取消处理
func TestWebDAVStorageContextCancellation(t *testing.T) {
	s := &WebDAVStorage{
		client:  nil, // 上下文已取消，不会实际调用
		baseURL: "https://example.com",
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SaveWithContext(ctx, "test.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.GetWithContext(ctx, "test.jpg")
	assert.ErrorIs(t, err, context.Canceled)

	err = s.DeleteWithContext(ctx, "test.jpg")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Exists(ctx, "test.jpg")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.ErrorIs(t, s.Health(ctx), context.Canceled)
}

// TestWebDAVStorageName 测试存储名称
func TestWebDAVStorageName(t *testing.T) {
	assert.Equal(t, "webdav", (&WebDAVStorage{}).Name())
	assert.Equal(t, "webdav:https://dav.example.com/data",
		(&WebDAVStorage{baseURL: "https://dav.example.com", rootPath: "/data"}).Name())
}
