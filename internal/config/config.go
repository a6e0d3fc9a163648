package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
	logger    *slog.Logger
}

// NewManager creates a new config manager and loads initial config.
// cfgFile may be empty, in which case ./config.yaml and ~/.restyle/config.yaml
// are tried and a missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
		logger:    slog.Default(),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// SetLogger replaces the logger used for reload diagnostics.
func (cm *Manager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		cm.logger = logger
	}
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	d := DefaultConfig()
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.file", d.Storage.File)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.watch", d.Storage.Watch)
	v.SetDefault("openai.api_key", d.OpenAI.APIKey)
	v.SetDefault("openai.base_url", d.OpenAI.BaseURL)
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("openai.size", d.OpenAI.Size)
	v.SetDefault("openai.timeout_seconds", d.OpenAI.TimeoutSeconds)
	v.SetDefault("openai.max_retries", d.OpenAI.MaxRetries)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("defra.container_name", d.Defra.ContainerName)
	v.SetDefault("defra.image", d.Defra.Image)
	v.SetDefault("defra.port", d.Defra.Port)
	v.SetDefault("defra.url", d.Defra.URL)
	v.SetDefault("log.level", d.Log.Level)

	// RESTYLE_STORAGE_BACKEND overrides storage.backend, and so on.
	v.SetEnvPrefix("RESTYLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.restyle")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the file the configuration was read from, if any.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
// A change that fails to parse or validate is logged and ignored.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			cm.logger.Warn("ignoring config change", "file", e.Name, "error", err)
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		cm.logger.Info("config reloaded", "file", e.Name)
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// Validate checks values that would otherwise fail later and far from the cause.
func (c *Config) Validate() error {
	backends := []string{BackendFile, BackendSQLite, BackendDefra, BackendMemory}
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend %q (want one of %s)",
			ErrInvalidConfig, c.Storage.Backend, strings.Join(backends, ", "))
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: openai.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.OpenAI.MaxRetries < 0 {
		return fmt.Errorf("%w: openai.max_retries must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ResolvedAPIKey returns the OpenAI API key with ${ENV_VAR} references expanded.
func (c *Config) ResolvedAPIKey() string {
	return ResolveEnvVars(c.OpenAI.APIKey)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ParseLevel maps a log.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, s)
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# restyle configuration
# The OpenAI key uses ${ENV_VAR} syntax: export OPENAI_API_KEY=xxx
# storage.backend is one of: file, sqlite, defra, memory

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
