package storage

import (
	"testing"

	"github.com/anoixa/postboard/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		p, err := NewProvider(&config.Config{StorageType: "local", StorageLocalPath: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, "local", p.Name())
	})

	t.Run("default type is local", func(t *testing.T) {
		p, err := NewProvider(&config.Config{StorageLocalPath: t.TempDir()})
		require.NoError(t, err)
		assert.IsType(t, &LocalStorage{}, p)
	})

	t.Run("webdav", func(t *testing.T) {
		srv := newTestWebDAVServer(t)
		p, err := NewProvider(&config.Config{StorageType: "webdav", StorageWebDAVURL: srv.URL})
		require.NoError(t, err)
		assert.IsType(t, &WebDAVStorage{}, p)
	})

	t.Run("minio without endpoint", func(t *testing.T) {
		_, err := NewProvider(&config.Config{StorageType: "minio"})
		assert.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewProvider(&config.Config{StorageType: "ftp"})
		assert.EqualError(t, err, "unsupported storage type: ftp")
	})
}
