package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultArchiveURL is IANA's stable pointer to the newest tzdata release.
const DefaultArchiveURL = "https://data.iana.org/time-zones/tzdata-latest.tar.gz"

// DefaultWindowsZonesURL is the CLDR source for the Windows name mapping.
const DefaultWindowsZonesURL = "https://raw.githubusercontent.com/unicode-org/cldr/main/common/supplemental/windowsZones.xml"

// Config represents the main configuration for tzbundle.
type Config struct {
	InputDir  string      `toml:"input_dir"`  // extracted tzdata files land and are read here
	OutputDir string      `toml:"output_dir"` // combined.json and combined.sqlite are written here
	LogDir    string      `toml:"log_dir"`
	Fetch     FetchConfig `toml:"fetch"`
}

// FetchConfig holds the remote sources for the fetch command.
type FetchConfig struct {
	ArchiveURL      string `toml:"archive_url"`
	WindowsZonesURL string `toml:"windows_zones_url"`
}

// NewConfig creates a Config rooted at baseDir with default URLs.
func NewConfig(baseDir string) *Config {
	return &Config{
		InputDir:  filepath.Join(baseDir, "tzdata_raw"),
		OutputDir: filepath.Join(baseDir, "tzdata"),
		LogDir:    filepath.Join(baseDir, "log"),
		Fetch: FetchConfig{
			ArchiveURL:      DefaultArchiveURL,
			WindowsZonesURL: DefaultWindowsZonesURL,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
