package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewMinioStorage_Validation 测试 MinIO 配置校验
func TestNewMinioStorage_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  MinioConfig
	}{
		{"empty endpoint", MinioConfig{BucketName: "posts"}},
		{"empty bucket", MinioConfig{Endpoint: "localhost:9000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinioStorage(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
		})
	}
}

func TestNewMinioTransport(t *testing.T) {
	plain := newMinioTransport(false)
	assert.Nil(t, plain.TLSClientConfig)
	assert.True(t, plain.DisableCompression)

	secure := newMinioTransport(true)
	require.NotNil(t, secure.TLSClientConfig)
}
