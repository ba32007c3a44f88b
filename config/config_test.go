package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{name: "explicit host and port", cfg: Config{ServerHost: "127.0.0.1", ServerPort: 9000}, expected: "127.0.0.1:9000"},
		{name: "empty host", cfg: Config{ServerPort: 9000}, expected: "0.0.0.0:9000"},
		{name: "empty port", cfg: Config{ServerHost: "localhost"}, expected: "localhost:4202"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.Addr())
		})
	}
}

func TestConfig_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{name: "domain wins", cfg: Config{ServerDomain: "https://blog.example.com/", ServerHost: "0.0.0.0", ServerPort: 80}, expected: "https://blog.example.com"},
		{name: "wildcard host becomes localhost", cfg: Config{ServerHost: "0.0.0.0", ServerPort: 4202}, expected: "http://localhost:4202"},
		{name: "plain host", cfg: Config{ServerHost: "10.0.0.5", ServerPort: 8080}, expected: "http://10.0.0.5:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.BaseURL())
		})
	}
}

func TestConfig_AllowedOrigins(t *testing.T) {
	cfg := Config{ServerHost: "localhost", ServerPort: 4202, CorsOrigins: " http://a.test , ,http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())

	cfg.CorsOrigins = ""
	assert.Equal(t, []string{"http://localhost:4202"}, cfg.AllowedOrigins())
}

func TestConfig_MaxFiles(t *testing.T) {
	assert.Equal(t, 12, (&Config{}).MaxFiles())
	assert.Equal(t, 4, (&Config{UploadMaxFiles: 4}).MaxFiles())
}
