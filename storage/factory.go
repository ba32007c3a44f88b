package storage

import (
	"fmt"
	"log"

	"github.com/anoixa/postboard/config"
)

// NewProvider 根据配置创建存储提供者
func NewProvider(cfg *config.Config) (Provider, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = "local"
	}

	log.Printf("[Storage] Initializing storage, type: %s", storageType)

	var provider Provider
	var err error

	switch storageType {
	case "local":
		path := cfg.StorageLocalPath
		if path == "" {
			path = "./postImages"
		}
		provider, err = NewLocalStorage(path)
	case "minio":
		provider, err = NewMinioStorage(MinioConfig{
			Endpoint:        cfg.StorageMinioEndpoint,
			AccessKeyID:     cfg.StorageMinioAccessKey,
			SecretAccessKey: cfg.StorageMinioSecretKey,
			BucketName:      cfg.StorageMinioBucket,
			UseSSL:          cfg.StorageMinioUseSSL,
		})
	case "webdav":
		provider, err = NewWebDAVStorage(WebDAVConfig{
			URL:      cfg.StorageWebDAVURL,
			Username: cfg.StorageWebDAVUsername,
			Password: cfg.StorageWebDAVPassword,
			RootPath: cfg.StorageWebDAVRootPath,
			Timeout:  cfg.StorageWebDAVTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage: %w", storageType, err)
	}

	log.Printf("[Storage] Successfully initialized storage provider: %s", provider.Name())
	return provider, nil
}
