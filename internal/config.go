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
	Scraper       ScraperConfig       `mapstructure:"scraper"`
	Importer      ImporterConfig      `mapstructure:"importer"`
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
	Source           string        `mapstructure:"source"`
	MaxOpenConns     int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// ScraperConfig points at the legacy cpanel grid endpoint that object
// records are sourced from during imports.
type ScraperConfig struct {
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	PageRows int           `mapstructure:"page_rows"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ImporterConfig struct {
	SourcePath string `mapstructure:"source_path"`
	Workers    int    `mapstructure:"workers"`
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

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// LoadConfigFromEnv builds the whole config from environment variables.
// Used in container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	dsn := getEnv("DATABASE_URL", "")
	if dsn == "" {
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASS", "root"),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "autotrackerdb"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 3001),
			BaseURL:           getEnv("BASE_URL", "http://localhost:3001"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Source:           dsn,
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 15),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime:  getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 60*time.Second),
		},
		Scraper: ScraperConfig{
			BaseURL:  getEnv("SCRAPER_BASE_URL", "https://server.autotracker.com.ng/func/cpanel.users.php"),
			PageRows: getEnvAsInt("SCRAPER_PAGE_ROWS", 50),
			Timeout:  getEnvAsDuration("SCRAPER_TIMEOUT", 30*time.Second),
		},
		Importer: ImporterConfig{
			SourcePath: getEnv("IMPORT_SOURCE_PATH", "data/data2.json"),
			Workers:    getEnvAsInt("IMPORT_WORKERS", 1),
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

	if err := c.Scraper.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("scraper config: %v", err))
	}

	if err := c.Importer.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("importer config: %v", err))
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
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *ScraperConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if c.PageRows < 0 {
		return errors.New("page_rows cannot be negative")
	}
	return nil
}

func (c *ImporterConfig) Validate() error {
	if c.SourcePath == "" {
		return errors.New("source_path is required")
	}
	if c.Workers < 0 {
		return errors.New("workers cannot be negative")
	}
	return nil
}
