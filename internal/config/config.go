// Package config loads and defaults the application settings. The recognized
// extension set and the token marker are configuration data, initialized once
// at startup and passed by reference into the components that need them; they
// are never mutated afterward.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/assetindex/internal/util/sets"
)

// Settings represents the application configuration
type Settings struct {
	// Extensions lists the recognized source extensions, without dots,
	// case-sensitive. Additional container variants are added here, not in
	// the indexing algorithm.
	Extensions []string `yaml:"extensions"`

	// SiblingExtension names the companion file extension merged into the
	// graph when a file with the same stem exists next to the source file.
	SiblingExtension string `yaml:"sibling_extension"`

	// Marker is the literal label preceding an index token in record dumps.
	Marker string `yaml:"marker"`

	Watch   WatchConfig   `yaml:"watch"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce       time.Duration `yaml:"debounce"`
	RescanInterval time.Duration `yaml:"rescan_interval"`
	MetricsAddr    string        `yaml:"metrics_addr"` // empty disables the metrics endpoint
}

// CatalogConfig configures the index catalog database.
type CatalogConfig struct {
	Path string `yaml:"path"` // empty disables the catalog
}

// Default returns the compiled-in settings used when no config file is given.
func Default() *Settings {
	return &Settings{
		Extensions:       []string{"uasset", "umap"},
		SiblingExtension: "uexp",
		Marker:           "index: ",
		Watch: WatchConfig{
			Debounce:       2 * time.Second,
			RescanInterval: 15 * time.Minute,
		},
	}
}

// Load loads configuration from the specified file
func Load(configPath string) (*Settings, error) {
	// Load .env if present; its absence is not an error.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	settings := Default()
	if err := yaml.Unmarshal([]byte(expandedData), settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	settings.applyDefaults()
	return settings, nil
}

// applyDefaults fills any field an explicit config file left empty.
func (s *Settings) applyDefaults() {
	d := Default()
	if len(s.Extensions) == 0 {
		s.Extensions = d.Extensions
	}
	if s.SiblingExtension == "" {
		s.SiblingExtension = d.SiblingExtension
	}
	if s.Marker == "" {
		s.Marker = d.Marker
	}
	if s.Watch.Debounce <= 0 {
		s.Watch.Debounce = d.Watch.Debounce
	}
	if s.Watch.RescanInterval <= 0 {
		s.Watch.RescanInterval = d.Watch.RescanInterval
	}
}

// ExtensionSet returns the recognized extensions as a set for membership checks.
func (s *Settings) ExtensionSet() sets.Set[string] {
	return sets.New(s.Extensions...)
}
