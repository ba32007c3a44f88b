package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`
	CorsOrigins        string        `mapstructure:"cors_origins"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// JWT 配置
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// 存储配置
	StorageType      string `mapstructure:"storage_type"`
	StorageLocalPath string `mapstructure:"storage_local_path"`

	StorageMinioEndpoint  string `mapstructure:"storage_minio_endpoint"`
	StorageMinioAccessKey string `mapstructure:"storage_minio_access_key"`
	StorageMinioSecretKey string `mapstructure:"storage_minio_secret_key"`
	StorageMinioBucket    string `mapstructure:"storage_minio_bucket"`
	StorageMinioUseSSL    bool   `mapstructure:"storage_minio_use_ssl"`

	StorageWebDAVURL      string        `mapstructure:"storage_webdav_url"`
	StorageWebDAVUsername string        `mapstructure:"storage_webdav_username"`
	StorageWebDAVPassword string        `mapstructure:"storage_webdav_password"`
	StorageWebDAVRootPath string        `mapstructure:"storage_webdav_root_path"`
	StorageWebDAVTimeout  time.Duration `mapstructure:"storage_webdav_timeout"`

	// 限流配置
	RateLimitApiRPS     float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst   int           `mapstructure:"rate_limit_api_burst"`
	RateLimitAuthRPS    float64       `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst  int           `mapstructure:"rate_limit_auth_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	// 上传配置
	UploadMaxSizeMB int `mapstructure:"upload_max_size_mb"`
	UploadMaxFiles  int `mapstructure:"upload_max_files"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	} else {
		fmt.Fprintln(os.Stderr, "Info: Loaded configuration from .env file")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		_ = viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 4202)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")
	viper.SetDefault("cors_origins", "")

	// 数据库配置默认值
	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "blog")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 100)
	viper.SetDefault("db_max_idle_conns", 25)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	// JWT 默认值
	viper.SetDefault("jwt_secret", "")
	viper.SetDefault("jwt_expires_in", "24h")

	// 存储默认值
	viper.SetDefault("storage_type", "local")
	viper.SetDefault("storage_local_path", "./postImages")
	viper.SetDefault("storage_minio_endpoint", "")
	viper.SetDefault("storage_minio_access_key", "")
	viper.SetDefault("storage_minio_secret_key", "")
	viper.SetDefault("storage_minio_bucket", "post-images")
	viper.SetDefault("storage_minio_use_ssl", false)
	viper.SetDefault("storage_webdav_url", "")
	viper.SetDefault("storage_webdav_username", "")
	viper.SetDefault("storage_webdav_password", "")
	viper.SetDefault("storage_webdav_root_path", "postImages")
	viper.SetDefault("storage_webdav_timeout", "30s")

	// 限流配置默认值
	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
	viper.SetDefault("rate_limit_expire_time", "10m")

	// 上传配置默认值
	viper.SetDefault("upload_max_size_mb", 10)
	viper.SetDefault("upload_max_files", 12)
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 4202
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL，用于生成图片链接
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return strings.TrimRight(c.ServerDomain, "/")
	}
	host := c.ServerHost
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	port := c.ServerPort
	if port == 0 {
		port = 4202
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

// AllowedOrigins 解析 CORS 允许的来源列表，未配置时只允许自身
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CorsOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		origins = append(origins, c.BaseURL())
	}
	return origins
}

// MaxFiles 返回单次图库上传的最大文件数
func (c *Config) MaxFiles() int {
	if c.UploadMaxFiles <= 0 {
		return 12
	}
	return c.UploadMaxFiles
}
