package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SERVER_ADDRESS", "DELIVERY_API_URL", "REQUEST_TIMEOUT", "FILE_STORAGE_PATH", "DATABASE_DSN",
	"ENABLE_HTTPS", "TLS_CERT_FILE", "TLS_KEY_FILE", "LOG_LEVEL", "CONFIG", "INPUT_FILE",
}

// clearEnv убирает переменные окружения конфигурации на время теста
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("test", nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.FileStoragePath)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.False(t, cfg.IsHTTPSEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Priority(t *testing.T) {
	configFile := writeConfigFile(t, `{
		"server_address": "json:8080",
		"delivery_api_url": "http://json.local",
		"request_timeout": "5s",
		"log_level": "warn",
		"enable_https": true
	}`)

	tests := []struct {
		name        string
		args        []string
		env         map[string]string
		wantAddress string
		wantURL     string
		wantTimeout time.Duration
		wantLevel   string
	}{
		{
			name:        "JSON overrides defaults",
			args:        []string{"-c", configFile},
			wantAddress: "json:8080",
			wantURL:     "http://json.local",
			wantTimeout: 5 * time.Second,
			wantLevel:   "warn",
		},
		{
			name:        "flags override JSON",
			args:        []string{"-c", configFile, "-a", ":7070", "-t", "2s"},
			wantAddress: ":7070",
			wantURL:     "http://json.local",
			wantTimeout: 2 * time.Second,
			wantLevel:   "warn",
		},
		{
			name:        "flag order does not matter",
			args:        []string{"-a", ":7070", "-config", configFile},
			wantAddress: ":7070",
			wantURL:     "http://json.local",
			wantTimeout: 5 * time.Second,
			wantLevel:   "warn",
		},
		{
			name: "environment overrides flags",
			args: []string{"-c", configFile, "-a", ":7070", "-u", "http://flag.local"},
			env: map[string]string{
				"SERVER_ADDRESS":  ":6060",
				"REQUEST_TIMEOUT": "1m",
				"LOG_LEVEL":       "debug",
			},
			wantAddress: ":6060",
			wantURL:     "http://flag.local",
			wantTimeout: time.Minute,
			wantLevel:   "debug",
		},
		{
			name:        "CONFIG environment variable selects the file",
			env:         map[string]string{"CONFIG": configFile},
			wantAddress: "json:8080",
			wantURL:     "http://json.local",
			wantTimeout: 5 * time.Second,
			wantLevel:   "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("test", tt.args)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAddress, cfg.ServerAddress)
			assert.Equal(t, tt.wantURL, cfg.APIBaseURL)
			assert.Equal(t, tt.wantTimeout, cfg.RequestTimeout)
			assert.Equal(t, tt.wantLevel, cfg.LogLevel)
			assert.True(t, cfg.IsHTTPSEnabled())
		})
	}
}

func TestLoad_HTTPSFlag(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("test", []string{"-s"})
	require.NoError(t, err)
	assert.True(t, cfg.IsHTTPSEnabled())
	assert.Equal(t, "server.crt", cfg.TLSCertFile)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
	}{
		{name: "unknown flag", args: []string{"-x"}},
		{name: "invalid JSON", content: `{"server_address": }`},
		{name: "invalid timeout in JSON", content: `{"request_timeout": "soon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			args := tt.args
			if tt.content != "" {
				args = append(args, "-c", writeConfigFile(t, tt.content))
			}

			_, err := Load("test", args)
			assert.Error(t, err)
		})
	}
}

func TestLoadJSONConfig_MissingFile(t *testing.T) {
	jc, err := loadJSONConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, &JSONConfig{}, jc)
}

func TestIsHTTPSEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"false", false},
		{"0", false},
		{"true", true},
		{"1", true},
		{"yes", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg := &Config{EnableHTTPS: tt.value}
			assert.Equal(t, tt.want, cfg.IsHTTPSEnabled())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "empty address", modify: func(c *Config) { c.ServerAddress = "" }, wantErr: true},
		{name: "relative API URL", modify: func(c *Config) { c.APIBaseURL = "localhost:5000/api" }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.RequestTimeout = 0 }, wantErr: true},
		{name: "HTTPS without key", modify: func(c *Config) {
			c.EnableHTTPS = "true"
			c.TLSKeyFile = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DELIVERY_API_URL=http://dotenv.local\nLOG_LEVEL=debug\n"), 0600))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load("test", []string{"-i", "waybills.txt"})
	require.NoError(t, err)

	assert.Equal(t, "http://dotenv.local", cfg.APIBaseURL)
	// Уже заданная переменная окружения не перезаписывается
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "waybills.txt", cfg.InputFile)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}
