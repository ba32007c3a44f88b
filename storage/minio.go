package storage

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig MinIO 配置
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// MinioStorage MinIO 对象存储实现
type MinioStorage struct {
	client     *minio.Client
	bucketName string
	endpoint   string
}

// mustGetSystemCertPool 获取系统证书池
func mustGetSystemCertPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		log.Printf("[Storage] Failed to load system cert pool: %v", err)
		return x509.NewCertPool()
	}
	return pool
}

func newMinioTransport(useSSL bool) *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 10 * time.Second,
		DisableCompression:    true,
	}

	// SSL
	if useSSL {
		transport.TLSClientConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		if f := os.Getenv("SSL_CERT_FILE"); f != "" {
			rootCAs := mustGetSystemCertPool()
			data, err := os.ReadFile(f)
			if err == nil {
				rootCAs.AppendCertsFromPEM(data)
			}
			transport.TLSClientConfig.RootCAs = rootCAs
		}
	}
	return transport
}

// NewMinioStorage 创建 MinIO 存储提供者，桶不存在时自动创建
func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if cfg.BucketName == "" {
		return nil, errors.New("minio bucket name is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:    cfg.UseSSL,
		Transport: newMinioTransport(cfg.UseSSL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket '%s' exists: %w", cfg.BucketName, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", cfg.BucketName, err)
		}
		log.Printf("[Storage] Successfully created bucket: %s", cfg.BucketName)
	}

	return &MinioStorage{
		client:     client,
		bucketName: cfg.BucketName,
		endpoint:   cfg.Endpoint,
	}, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

// SaveWithContext 将文件上传到 MinIO
func (s *MinioStorage) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	if !IsValidIdentifier(identifier) {
		return fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	contentType := mime.TypeByExtension(filepath.Ext(identifier))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucketName, identifier, file, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object '%s' to minio: %w", identifier, err)
	}

	return nil
}

// GetWithContext 从 MinIO 获取对象
func (s *MinioStorage) GetWithContext(ctx context.Context, identifier string) (*Object, error) {
	if !IsValidIdentifier(identifier) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, identifier, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object stream from minio for '%s': %w", identifier, err)
	}

	// GetObject 是惰性的，Stat 才会真正请求
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, identifier)
		}
		return nil, fmt.Errorf("failed to stat object '%s': %w", identifier, err)
	}

	return &Object{
		Reader:  obj,
		Size:    stat.Size,
		ModTime: stat.LastModified,
	}, nil
}

// DeleteWithContext 从 MinIO 删除对象
func (s *MinioStorage) DeleteWithContext(ctx context.Context, identifier string) error {
	if !IsValidIdentifier(identifier) {
		return fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	err := s.client.RemoveObject(ctx, s.bucketName, identifier, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object '%s' from minio: %w", identifier, err)
	}

	return nil
}

// Exists 检查对象是否存在
func (s *MinioStorage) Exists(ctx context.Context, identifier string) (bool, error) {
	if !IsValidIdentifier(identifier) {
		return false, fmt.Errorf("%w: %s", ErrInvalidIdentifier, identifier)
	}

	_, err := s.client.StatObject(ctx, s.bucketName, identifier, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List 列出桶中的全部对象
func (s *MinioStorage) List(ctx context.Context) ([]FileInfo, error) {
	var files []FileInfo
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list minio objects: %w", obj.Err)
		}
		files = append(files, FileInfo{
			Name:    obj.Key,
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}
	return files, nil
}

// Health 检查存储健康状态
func (s *MinioStorage) Health(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket '%s' does not exist", s.bucketName)
	}
	return nil
}

// Name 返回存储名称
func (s *MinioStorage) Name() string {
	return fmt.Sprintf("minio:%s/%s", s.endpoint, s.bucketName)
}
