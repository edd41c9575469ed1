package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Cache.Path != "libman.db" {
			t.Errorf("expected cache path libman.db, got %s", config.Cache.Path)
		}

		if config.Limiter.RequestsPerSecond != 10.0 {
			t.Errorf("expected 10 rps, got %v", config.Limiter.RequestsPerSecond)
		}

		if config.Limiter.MaxRetries != 3 {
			t.Errorf("expected 3 retries, got %d", config.Limiter.MaxRetries)
		}

		if config.Search.Workers != 4 {
			t.Errorf("expected 4 search workers, got %d", config.Search.Workers)
		}
	})

	t.Run("BackoffDurations", func(t *testing.T) {
		config := DefaultConfig()

		if config.Limiter.BackoffBase().Milliseconds() != 500 {
			t.Errorf("expected 500ms base, got %v", config.Limiter.BackoffBase())
		}
		if config.Limiter.BackoffCap().Milliseconds() != 8000 {
			t.Errorf("expected 8s cap, got %v", config.Limiter.BackoffCap())
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

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("expected error when config file already exists")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "secret"
access_token = "token"

[cache]
path = "custom.db"

[limiter]
requests_per_second = 5.0
max_retries = 2

[search]
workers = 2
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("expected client_id abc, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Cache.Path != "custom.db" {
			t.Errorf("expected cache path custom.db, got %s", config.Cache.Path)
		}
		if config.Limiter.RequestsPerSecond != 5.0 {
			t.Errorf("expected 5 rps, got %v", config.Limiter.RequestsPerSecond)
		}
		if config.Search.Workers != 2 {
			t.Errorf("expected 2 workers, got %d", config.Search.Workers)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
