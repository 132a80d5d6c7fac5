package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Directory     DirectoryConfig     `mapstructure:"directory"`
	Committee     CommitteeConfig     `mapstructure:"committee"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret" validate:"required,min=32"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m,max=1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=10,max=15"`
}

// StorageConfig covers formation-letter blobs kept on local disk.
type StorageConfig struct {
	LettersDir     string `mapstructure:"letters_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
}

// DirectoryConfig points at the external HR employee directory.
type DirectoryConfig struct {
	BaseURL       string        `mapstructure:"base_url" validate:"required,url"`
	APIKey        string        `mapstructure:"api_key"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	MinQueryLen   int           `mapstructure:"min_query_len"`
}

type CommitteeConfig struct {
	DeadlineDays int `mapstructure:"deadline_days"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds a config entirely from environment variables,
// used when running inside a container.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("SERVER_PORT", 8080),
			BaseURL:           getEnv("SERVER_BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("SERVER_ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Database: DatabaseConfig{
			Source:          getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvAsInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Security: SecurityConfig{
			AccessTokenSecret:    getEnv("ACCESS_TOKEN_SECRET", ""),
			RefreshTokenSecret:   getEnv("REFRESH_TOKEN_SECRET", ""),
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 12),
		},
		Storage: StorageConfig{
			LettersDir:     getEnv("LETTERS_DIR", "data/formation-letters"),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
		},
		Directory: DirectoryConfig{
			BaseURL:       getEnv("DIRECTORY_BASE_URL", ""),
			APIKey:        getEnv("DIRECTORY_API_KEY", ""),
			LookupTimeout: 5 * time.Second,
			CacheTTL:      30 * time.Second,
			MinQueryLen:   6,
		},
		Committee: CommitteeConfig{
			DeadlineDays: getEnvAsInt("COMMITTEE_DEADLINE_DAYS", 30),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Directory.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("directory config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return errors.New("access token secret must be at least 32 characters")
	}
	if len(c.RefreshTokenSecret) < 32 {
		return errors.New("refresh token secret must be at least 32 characters")
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	return nil
}

func (c *DirectoryConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

// DeadlineDaysOrDefault returns the configured committee deadline offset,
// falling back to 30 days when unset.
func (c *CommitteeConfig) DeadlineDaysOrDefault() int {
	if c.DeadlineDays <= 0 {
		return 30
	}
	return c.DeadlineDays
}
