package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./dish.db" {
			t.Errorf("expected database path ./dish.db, got %s", config.Database.Path)
		}

		if config.Backend.BaseURL != "https://dishdelight-backend.onrender.com" {
			t.Errorf("unexpected backend URL %s", config.Backend.BaseURL)
		}

		if config.Catalog.BaseURL != "https://www.themealdb.com/api/json/v1/1" {
			t.Errorf("unexpected catalog URL %s", config.Catalog.BaseURL)
		}

		if config.Catalog.DefaultCategory != "Seafood" {
			t.Errorf("expected default category Seafood, got %s", config.Catalog.DefaultCategory)
		}

		if config.HTTP.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.HTTP.Timeout())
		}
	})

	t.Run("Timeout falls back when unset", func(t *testing.T) {
		if got := (HTTPConfig{}).Timeout(); got != 10*time.Second {
			t.Errorf("expected 10s fallback, got %v", got)
		}
		if got := (HTTPConfig{TimeoutSeconds: 3}).Timeout(); got != 3*time.Second {
			t.Errorf("expected 3s, got %v", got)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[backend]
base_url = "http://localhost:4000"

[catalog]
base_url = "http://localhost:9090"
rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Backend.BaseURL != "http://localhost:4000" {
			t.Errorf("expected backend URL override, got %s", config.Backend.BaseURL)
		}
		if config.Catalog.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Catalog.RateLimit)
		}
		if config.Catalog.DefaultCategory != "Seafood" {
			t.Errorf("omitted keys should keep defaults, got %q", config.Catalog.DefaultCategory)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
	})

	t.Run("LoadConfig rejects malformed TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[backend\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("DISH_BACKEND_URL", "http://env-backend")
		t.Setenv("DISH_DATABASE_PATH", "/env/dish.db")
		t.Setenv("DISH_HTTP_TIMEOUT_SECONDS", "4")
		t.Setenv("DISH_LOG_LEVEL", "")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Backend.BaseURL != "http://env-backend" {
			t.Errorf("expected env backend URL, got %s", config.Backend.BaseURL)
		}
		if config.Database.Path != "/env/dish.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}
		if config.HTTP.TimeoutSeconds != 4 {
			t.Errorf("expected timeout 4, got %d", config.HTTP.TimeoutSeconds)
		}
		if config.Log.Level != "info" {
			t.Errorf("empty env value should not override, got %s", config.Log.Level)
		}
	})

	t.Run("LoadDotEnv", func(t *testing.T) {
		t.Run("missing file is ignored", func(t *testing.T) {
			if err := LoadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
				t.Errorf("expected nil error, got %v", err)
			}
		})

		t.Run("sets unset variables", func(t *testing.T) {
			envPath := filepath.Join(t.TempDir(), ".env")
			if err := os.WriteFile(envPath, []byte("DISH_CATALOG_URL=http://dotenv-catalog\n"), 0644); err != nil {
				t.Fatalf("failed to write .env: %v", err)
			}
			t.Setenv("DISH_CATALOG_URL", "")
			os.Unsetenv("DISH_CATALOG_URL")

			if err := LoadDotEnv(envPath); err != nil {
				t.Fatalf("LoadDotEnv failed: %v", err)
			}
			if got := os.Getenv("DISH_CATALOG_URL"); got != "http://dotenv-catalog" {
				t.Errorf("expected value from .env, got %q", got)
			}
		})
	})
}
