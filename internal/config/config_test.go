package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Storage.Backend != BackendFile {
		t.Errorf("expected file backend, got %q", cfg.Storage.Backend)
	}
	if cfg.OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Errorf("expected OpenAI key placeholder, got %q", cfg.OpenAI.APIKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")
		if got := ResolveEnvVars("${TEST_API_KEY}"); got != "secret123" {
			t.Errorf("expected secret123, got %s", got)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		if got := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		if got := ResolveEnvVars("literal-value"); got != "literal-value" {
			t.Errorf("expected literal-value, got %s", got)
		}
	})

	t.Run("expands inside text", func(t *testing.T) {
		t.Setenv("TEST_HOST", "example.com")
		if got := ResolveEnvVars("https://${TEST_HOST}/v1"); got != "https://example.com/v1" {
			t.Errorf("unexpected expansion: %s", got)
		}
	})
}

func TestConfig_ResolvedAPIKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-123")
	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "${TEST_OPENAI_KEY}"
	if got := cfg.ResolvedAPIKey(); got != "sk-123" {
		t.Errorf("expected sk-123, got %s", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "sqlite backend", mutate: func(c *Config) { c.Storage.Backend = BackendSQLite }},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "s3" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.OpenAI.TimeoutSeconds = 0 }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.OpenAI.MaxRetries = -1 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if err != nil {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
storage:
  backend: sqlite
openai:
  model: gpt-image-1-mini
`)
		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Storage.Backend != BackendSQLite {
			t.Errorf("expected sqlite backend, got %q", cfg.Storage.Backend)
		}
		if cfg.OpenAI.Model != "gpt-image-1-mini" {
			t.Errorf("expected overridden model, got %q", cfg.OpenAI.Model)
		}
		if cfg.OpenAI.TimeoutSeconds != 120 {
			t.Errorf("expected default timeout to survive, got %d", cfg.OpenAI.TimeoutSeconds)
		}
		if mgr.ConfigFile() != configFile {
			t.Errorf("ConfigFile() = %q, want %q", mgr.ConfigFile(), configFile)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configFile := writeConfig(t, "server:\n  port: \"9000\"\n")
		t.Setenv("RESTYLE_SERVER_PORT", "9100")

		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if got := mgr.Get().Server.Port; got != "9100" {
			t.Errorf("expected env override 9100, got %s", got)
		}
	})

	t.Run("rejects invalid backend", func(t *testing.T) {
		configFile := writeConfig(t, "storage:\n  backend: floppy\n")
		if _, err := NewManager(configFile); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log:\n  level: info\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log:\n  level: info\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().Storage.Backend
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "openai:\n  model: initial\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if got := mgr.Get().OpenAI.Model; got != "initial" {
		t.Fatalf("initial value mismatch: %s", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value
	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.OpenAI.Model)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("openai:\n  model: updated\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && callbackCount.Load() == 0 {
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if v, _ := lastValue.Load().(string); v != "updated" {
		t.Errorf("expected updated, got %q", v)
	}
	if got := mgr.Get().OpenAI.Model; got != "updated" {
		t.Errorf("Get() not refreshed: %s", got)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# restyle configuration") {
		t.Error("missing header comment")
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default config does not load: %v", err)
	}
	if mgr.Get().OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Errorf("round trip lost api key placeholder: %q", mgr.Get().OpenAI.APIKey)
	}
}
