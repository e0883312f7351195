package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported analysis providers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Supported audit log drivers. An empty driver disables the audit log.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		MaxUploadBytes int64    `yaml:"maxUploadBytes"`
		RateLimit      int      `yaml:"rateLimit"` // analyses per minute per client, 0 = off
		CORSOrigins    []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	AI struct {
		Provider  string        `yaml:"provider"`
		Model     string        `yaml:"model"`
		BaseURL   string        `yaml:"baseURL"`
		MaxTokens int           `yaml:"maxTokens"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"ai"`

	Session struct {
		IdleTimeout time.Duration `yaml:"idleTimeout"`
	} `yaml:"session"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Audit struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"audit"`

	Minio struct {
		Enabled       bool          `yaml:"enabled"`
		Endpoint      string        `yaml:"endpoint"`
		AccessKey     string        `yaml:"accessKey"`
		SecretKey     string        `yaml:"secretKey"`
		BucketName    string        `yaml:"bucketName"`
		Region        string        `yaml:"region"`
		UseSSL        bool          `yaml:"useSSL"`
		PresignExpiry time.Duration `yaml:"presignExpiry"`
	} `yaml:"minio"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.MaxUploadBytes = 10 << 20
	c.Server.RateLimit = 10
	c.AI.Provider = ProviderAnthropic
	c.AI.MaxTokens = 8000
	c.Session.IdleTimeout = 2 * time.Hour
	c.Log.Level = "info"
	c.Audit.SSLMode = "disable"
	c.Minio.BucketName = "contract-exports"
	c.Minio.Region = "us-east-1"
	return &c
}

// Path returns CONFIG_PATH or config.yaml
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// Load reads .env (if any), then the YAML file on top of the defaults, then
// ANALYZER_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("ANALYZER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ANALYZER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("ANALYZER_AI_PROVIDER"); ok && v != "" {
		c.AI.Provider = v
	}
	if v, ok := lookup("ANALYZER_AI_MODEL"); ok && v != "" {
		c.AI.Model = v
	}
	if v, ok := lookup("ANALYZER_AI_BASE_URL"); ok && v != "" {
		c.AI.BaseURL = v
	}
	if v, ok := lookup("ANALYZER_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the values that cannot be defaulted
func (c *Config) Validate() error {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	switch c.AI.Provider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("ai.provider %q is not supported", c.AI.Provider)
	}

	switch c.Audit.Driver {
	case "", DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("audit.driver %q is not supported", c.Audit.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.maxUploadBytes must be positive")
	}
	if c.AI.MaxTokens <= 0 {
		return errors.New("ai.maxTokens must be positive")
	}
	if c.Minio.Enabled && c.Minio.Endpoint == "" {
		return errors.New("minio.endpoint is required when minio is enabled")
	}
	return nil
}

// MySQLDSN builds the go-sql-driver DSN for the audit log
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Audit.User,
		c.Audit.Password,
		c.Audit.Host,
		c.Audit.Port,
		c.Audit.Name,
	)
}

// PostgresDSN builds the lib/pq URL for the audit log
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Audit.User, c.Audit.Password),
		Host:     fmt.Sprintf("%s:%d", c.Audit.Host, c.Audit.Port),
		Path:     "/" + c.Audit.Name,
		RawQuery: url.Values{"sslmode": {c.Audit.SSLMode}}.Encode(),
	}
	return u.String()
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
