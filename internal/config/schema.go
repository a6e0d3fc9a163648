package config

// Config holds restyle configuration.
// Stored at: ~/.restyle/config.yaml
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	OpenAI  OpenAIConfig  `mapstructure:"openai" yaml:"openai"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Defra   DefraConfig   `mapstructure:"defra" yaml:"defra"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Storage backends for the prompt catalog overlay.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendDefra  = "defra"
	BackendMemory = "memory"
)

// StorageConfig selects where the catalog overlay lives.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // file, sqlite, defra or memory
	// File is the overlay path for the file backend. Empty means ~/.restyle/catalog.json.
	File string `mapstructure:"file" yaml:"file"`
	// SQLitePath is the database path for the sqlite backend. Empty means ~/.restyle/restyle.db.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	// Watch reloads the catalog when the overlay file changes on disk (file backend only).
	Watch bool `mapstructure:"watch" yaml:"watch"`
}

// OpenAIConfig configures the image edit client.
type OpenAIConfig struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Model          string `mapstructure:"model" yaml:"model"`
	Size           string `mapstructure:"size" yaml:"size"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefraConfig holds DefraDB container configuration.
type DefraConfig struct {
	// ContainerName is the Docker container name (default: restyle-defra)
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	// Image is the Docker image to use (default: sourcenetwork/defradb:latest)
	Image string `mapstructure:"image" yaml:"image"`
	// Port is the host port to bind (default: 9181)
	Port string `mapstructure:"port" yaml:"port"`
	// URL overrides the container URL, for an externally managed DefraDB.
	URL string `mapstructure:"url" yaml:"url"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
			Watch:   true,
		},
		OpenAI: OpenAIConfig{
			APIKey:         "${OPENAI_API_KEY}",
			Model:          "gpt-image-1",
			Size:           "1024x1024",
			TimeoutSeconds: 120,
			MaxRetries:     0,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Defra: DefraConfig{
			ContainerName: "restyle-defra",
			Image:         "sourcenetwork/defradb:latest",
			Port:          "9181",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
