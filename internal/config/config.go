package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

// DataConfig locates the CSV files
type DataConfig struct {
	CareerCSV  string `yaml:"career_csv"`
	SeasonsDir string `yaml:"seasons_dir"`
}

// StorageConfig selects the player source
type StorageConfig struct {
	Driver      string `yaml:"driver"` // csv|postgres
	PostgresDSN string `yaml:"postgres_dsn"`
}

// RedisConfig holds Redis cache configuration
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
}

// ImporterConfig holds the stats update source
type ImporterConfig struct {
	SourceURL         string        `yaml:"source_url"`
	MaxAttempts       int           `yaml:"max_attempts"`
	InitialDelay      time.Duration `yaml:"initial_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
	RunTimeout        time.Duration `yaml:"run_timeout"` // bounds one update-stats request
}

// LoggingConfig holds log output configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// MetricsConfig toggles the /metrics endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Importer ImporterConfig `yaml:"importer"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Default returns a configuration that serves ./data with no external services
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8090",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   60 * time.Second,
			IdleTimeout:    60 * time.Second,
			RequestTimeout: 60 * time.Second,
			CORSOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Data: DataConfig{
			CareerCSV:  "data/career_averages.csv",
			SeasonsDir: "data/seasons",
		},
		Storage: StorageConfig{
			Driver: DriverCSV,
		},
		Redis: RedisConfig{
			URL: "localhost:6380",
			TTL: 10 * time.Minute,
		},
		Importer: ImporterConfig{
			MaxAttempts:       5,
			InitialDelay:      time.Second,
			RequestsPerSecond: 1,
			Timeout:           30 * time.Second,
			RunTimeout:        45 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// LoadDotEnv loads .env style files into the process environment.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// LoadConfig reads the YAML file over the defaults, then applies environment
// overrides. An empty or missing filename leaves only defaults and environment.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would fail later at startup
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverCSV:
		if c.Data.CareerCSV == "" {
			return errors.New("data.career_csv is required for the csv driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Importer.MaxAttempts < 1 {
		return errors.New("importer.max_attempts must be at least 1")
	}
	if c.Importer.RunTimeout <= 0 {
		return errors.New("importer.run_timeout must be positive")
	}
	if c.Server.WriteTimeout > 0 && c.Importer.RunTimeout >= c.Server.WriteTimeout {
		return fmt.Errorf("importer.run_timeout (%s) must be shorter than server.write_timeout (%s)",
			c.Importer.RunTimeout, c.Server.WriteTimeout)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	cfg.Data.CareerCSV = getEnv("CAREER_CSV", cfg.Data.CareerCSV)
	cfg.Data.SeasonsDir = getEnv("SEASONS_DIR", cfg.Data.SeasonsDir)

	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.PostgresDSN = getEnv("DATABASE_URL", cfg.Storage.PostgresDSN)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = v == "true"
	}

	cfg.Importer.SourceURL = getEnv("STATS_SOURCE_URL", cfg.Importer.SourceURL)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true"
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout},
		{"REDIS_TTL", &cfg.Redis.TTL},
		{"IMPORTER_INITIAL_DELAY", &cfg.Importer.InitialDelay},
		{"IMPORTER_TIMEOUT", &cfg.Importer.Timeout},
		{"IMPORTER_RUN_TIMEOUT", &cfg.Importer.RunTimeout},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s value: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	if v := os.Getenv("IMPORTER_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid IMPORTER_MAX_ATTEMPTS value: %w", err)
		}
		cfg.Importer.MaxAttempts = n
	}
	if v := os.Getenv("IMPORTER_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid IMPORTER_RPS value: %w", err)
		}
		cfg.Importer.RequestsPerSecond = f
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
