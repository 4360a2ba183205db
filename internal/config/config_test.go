package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"SERVER_ADDR", "CORS_ORIGINS", "CAREER_CSV", "SEASONS_DIR", "STORAGE_DRIVER",
	"DATABASE_URL", "REDIS_URL", "REDIS_PASSWORD", "REDIS_ENABLED", "STATS_SOURCE_URL",
	"LOG_LEVEL", "LOG_FORMAT", "METRICS_ENABLED", "SERVER_READ_TIMEOUT",
	"SERVER_WRITE_TIMEOUT", "REDIS_TTL", "IMPORTER_INITIAL_DELAY", "IMPORTER_TIMEOUT",
	"IMPORTER_MAX_ATTEMPTS", "IMPORTER_RPS", "IMPORTER_RUN_TIMEOUT",
}

// clearEnv blanks every variable the loader reads; empty values count as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Addr != ":8090" {
		t.Errorf("Expected default server addr ':8090', got '%s'", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != DriverCSV {
		t.Errorf("Expected csv driver, got '%s'", cfg.Storage.Driver)
	}
	if cfg.Data.CareerCSV != "data/career_averages.csv" {
		t.Errorf("Unexpected career csv path '%s'", cfg.Data.CareerCSV)
	}
	if cfg.Redis.Enabled {
		t.Error("Expected redis disabled by default")
	}
	if cfg.Importer.MaxAttempts != 5 {
		t.Errorf("Expected 5 importer attempts, got %d", cfg.Importer.MaxAttempts)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled by default")
	}
	if cfg.Importer.RunTimeout >= cfg.Server.WriteTimeout {
		t.Errorf("Expected import run timeout %s below write timeout %s", cfg.Importer.RunTimeout, cfg.Server.WriteTimeout)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected info level, got '%s'", cfg.Logging.Level)
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9000"
  cors_origins: ["https://stats.example.com"]
data:
  career_csv: /srv/career.csv
redis:
  enabled: true
  ttl: 2m
logging:
  format: json
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Expected ':9000', got '%s'", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://stats.example.com" {
		t.Errorf("Unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
	if cfg.Data.CareerCSV != "/srv/career.csv" {
		t.Errorf("Unexpected career csv '%s'", cfg.Data.CareerCSV)
	}
	// keys absent from the file keep their defaults
	if cfg.Data.SeasonsDir != "data/seasons" {
		t.Errorf("Expected default seasons dir, got '%s'", cfg.Data.SeasonsDir)
	}
	if !cfg.Redis.Enabled || cfg.Redis.TTL != 2*time.Minute {
		t.Errorf("Unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected json format, got '%s'", cfg.Logging.Format)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "server:\n  addr: \":9000\"\n")

	t.Setenv("SERVER_ADDR", ":7000")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_TTL", "45s")
	t.Setenv("IMPORTER_MAX_ATTEMPTS", "2")
	t.Setenv("IMPORTER_RPS", "0.5")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Addr != ":7000" {
		t.Errorf("Expected ':7000', got '%s'", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("Unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Redis.Enabled || cfg.Redis.TTL != 45*time.Second {
		t.Errorf("Unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Importer.MaxAttempts != 2 || cfg.Importer.RequestsPerSecond != 0.5 {
		t.Errorf("Unexpected importer config %+v", cfg.Importer)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "server: [oops"},
		{name: "unknown driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "postgres without dsn", env: map[string]string{"STORAGE_DRIVER": "postgres"}},
		{name: "bad duration", env: map[string]string{"REDIS_TTL": "soon"}},
		{name: "bad attempts", env: map[string]string{"IMPORTER_MAX_ATTEMPTS": "many"}},
		{name: "zero attempts", env: map[string]string{"IMPORTER_MAX_ATTEMPTS": "0"}},
		{name: "zero run timeout", env: map[string]string{"IMPORTER_RUN_TIMEOUT": "0s"}},
		{name: "run timeout over write timeout", env: map[string]string{"SERVER_WRITE_TIMEOUT": "15s", "IMPORTER_RUN_TIMEOUT": "30s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}

			if _, err := LoadConfig(path); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STATS_SOURCE_URL=https://stats.example.com/career.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides a variable that is set, even to ""
	os.Unsetenv("STATS_SOURCE_URL")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Importer.SourceURL != "https://stats.example.com/career.json" {
		t.Errorf("Unexpected source url '%s'", cfg.Importer.SourceURL)
	}
}
