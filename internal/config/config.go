// Package config собирает конфигурацию из значений по умолчанию, JSON-файла,
// флагов командной строки и переменных окружения.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Значения по умолчанию
const (
	DefaultServerAddress  = ":8080"
	DefaultAPIBaseURL     = "http://localhost:5000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultTLSCertFile    = "server.crt"
	DefaultTLSKeyFile     = "server.key"
)

// Config хранит конфигурацию приложения.
type Config struct {
	ServerAddress   string        `env:"SERVER_ADDRESS"`    // Адрес HTTP-консоли
	APIBaseURL      string        `env:"DELIVERY_API_URL"`  // Базовый адрес API операций доставки
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"`   // Таймаут одного запроса к API
	FileStoragePath string        `env:"FILE_STORAGE_PATH"` // Файл для отчетов
	DatabaseDSN     string        `env:"DATABASE_DSN"`      // Строка подключения к PostgreSQL
	EnableHTTPS     string        `env:"ENABLE_HTTPS"`
	TLSCertFile     string        `env:"TLS_CERT_FILE"`
	TLSKeyFile      string        `env:"TLS_KEY_FILE"`
	LogLevel        string        `env:"LOG_LEVEL"`
	ConfigFile      string        `env:"CONFIG"`     // Путь к JSON-файлу конфигурации
	InputFile       string        `env:"INPUT_FILE"` // Файл со списком накладных для bulkgi, пусто - stdin
}

// JSONConfig описывает содержимое файла конфигурации.
// Указатели отличают отсутствующее поле от пустого значения.
type JSONConfig struct {
	ServerAddress   *string `json:"server_address,omitempty"`
	APIBaseURL      *string `json:"delivery_api_url,omitempty"`
	RequestTimeout  *string `json:"request_timeout,omitempty"`
	FileStoragePath *string `json:"file_storage_path,omitempty"`
	DatabaseDSN     *string `json:"database_dsn,omitempty"`
	EnableHTTPS     *bool   `json:"enable_https,omitempty"`
	TLSCertFile     *string `json:"tls_cert_file,omitempty"`
	TLSKeyFile      *string `json:"tls_key_file,omitempty"`
	LogLevel        *string `json:"log_level,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:  DefaultServerAddress,
		APIBaseURL:     DefaultAPIBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		TLSCertFile:    DefaultTLSCertFile,
		TLSKeyFile:     DefaultTLSKeyFile,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadDotEnv загружает переменные из .env-файлов (по умолчанию ./.env).
// Отсутствующий файл не считается ошибкой, уже заданные переменные не перезаписываются.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error loading %s: %w", name, err)
		}
	}
	return nil
}

// Load разбирает аргументы командной строки и применяет источники по приоритету:
// значения по умолчанию < JSON-файл < флаги < переменные окружения.
func Load(name string, args []string) (*Config, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "Адрес запуска HTTP-сервера (env: SERVER_ADDRESS)")
	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "Базовый адрес API операций доставки (env: DELIVERY_API_URL)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "Таймаут запроса к API (env: REQUEST_TIMEOUT)")
	fs.StringVar(&cfg.FileStoragePath, "f", cfg.FileStoragePath, "Файл для хранения отчетов (env: FILE_STORAGE_PATH)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Строка подключения к PostgreSQL (env: DATABASE_DSN)")
	fs.BoolFunc("s", "Включить HTTPS (env: ENABLE_HTTPS)", func(string) error {
		cfg.EnableHTTPS = "true"
		return nil
	})
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "Уровень логирования (env: LOG_LEVEL)")
	fs.StringVar(&cfg.ConfigFile, "c", cfg.ConfigFile, "Путь к JSON-файлу конфигурации (env: CONFIG)")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Путь к JSON-файлу конфигурации (env: CONFIG)")
	fs.StringVar(&cfg.InputFile, "i", cfg.InputFile, "Файл со списком накладных для bulkgi (env: INPUT_FILE)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	configPath := cfg.ConfigFile
	if v, ok := os.LookupEnv("CONFIG"); ok {
		configPath = v
	}

	jsonConfig, err := loadJSONConfig(configPath)
	if err != nil {
		return nil, err
	}

	// Флаги, заданные явно, перекрывают JSON
	visited := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		visited[f.Name] = f.Value.String()
	})
	if err := cfg.applyJSONConfig(jsonConfig); err != nil {
		return nil, err
	}
	for name, value := range visited {
		if err := fs.Set(name, value); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadJSONConfig читает файл конфигурации. Пустой путь или отсутствующий файл дают пустую конфигурацию.
func loadJSONConfig(filename string) (*JSONConfig, error) {
	jsonConfig := &JSONConfig{}
	if filename == "" {
		return jsonConfig, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return jsonConfig, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := json.Unmarshal(data, jsonConfig); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return jsonConfig, nil
}

// applyJSONConfig переносит заданные в файле значения в конфигурацию.
func (c *Config) applyJSONConfig(jc *JSONConfig) error {
	if jc.ServerAddress != nil {
		c.ServerAddress = *jc.ServerAddress
	}
	if jc.APIBaseURL != nil {
		c.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		d, err := time.ParseDuration(*jc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout in config file: %w", err)
		}
		c.RequestTimeout = d
	}
	if jc.FileStoragePath != nil {
		c.FileStoragePath = *jc.FileStoragePath
	}
	if jc.DatabaseDSN != nil {
		c.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.EnableHTTPS != nil {
		if *jc.EnableHTTPS {
			c.EnableHTTPS = "true"
		} else {
			c.EnableHTTPS = ""
		}
	}
	if jc.TLSCertFile != nil {
		c.TLSCertFile = *jc.TLSCertFile
	}
	if jc.TLSKeyFile != nil {
		c.TLSKeyFile = *jc.TLSKeyFile
	}
	if jc.LogLevel != nil {
		c.LogLevel = *jc.LogLevel
	}
	return nil
}

// IsHTTPSEnabled сообщает, включен ли HTTPS. Любое непустое значение кроме "false" и "0" включает его.
func (c *Config) IsHTTPSEnabled() bool {
	switch c.EnableHTTPS {
	case "", "false", "0":
		return false
	default:
		return true
	}
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return errors.New("server address must not be empty")
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid delivery API URL %q", c.APIBaseURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}

	if c.IsHTTPSEnabled() && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return errors.New("HTTPS requires both certificate and key files")
	}
	return nil
}
