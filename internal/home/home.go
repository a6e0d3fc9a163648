package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the restyle home directory.
	DefaultDirName = ".restyle"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// CatalogFileName holds the prompt catalog overlay for the file backend.
	CatalogFileName = "catalog.json"

	// DatabaseFileName holds the overlay for the sqlite backend.
	DatabaseFileName = "restyle.db"
)

// Dir represents the restyle home directory structure:
//
//	~/.restyle/
//	  config.yaml
//	  catalog.json   overlay (file backend)
//	  restyle.db     overlay (sqlite backend)
//	  defradb/       DefraDB data (defra backend)
//	  outputs/       transformed images
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.restyle).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// CatalogPath returns the default overlay file location.
func (d *Dir) CatalogPath() string {
	return filepath.Join(d.path, CatalogFileName)
}

// DatabasePath returns the default sqlite database location.
func (d *Dir) DatabasePath() string {
	return filepath.Join(d.path, DatabaseFileName)
}

// DefraDataPath returns the directory mounted into the DefraDB container.
func (d *Dir) DefraDataPath() string {
	return filepath.Join(d.path, "defradb")
}

// OutputsDir returns the directory transformed images are written to.
func (d *Dir) OutputsDir() string {
	return filepath.Join(d.path, "outputs")
}

// PidPath returns the pid file written by a running server.
func (d *Dir) PidPath() string {
	return filepath.Join(d.path, "restyle.pid")
}

// EnsureExists creates the home directory and its outputs directory.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.OutputsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
