package sketchdoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds document-level tunables in a flat, directly-mapped
// struct, matching the rest of the kernel's config style.
type Config struct {
	// DefaultSketchVisible is the visibility a newly added sketch starts
	// with.
	DefaultSketchVisible bool `yaml:"defaultSketchVisible" json:"defaultSketchVisible"`

	// DefaultBodyVisible is the visibility a newly added body starts
	// with.
	DefaultBodyVisible bool `yaml:"defaultBodyVisible" json:"defaultBodyVisible"`

	// SuppressionCascades controls whether suppressing an operation also
	// suppresses its downstream closure Disabling this is
	// a debug escape hatch only; normal operation always cascades.
	SuppressionCascades bool `yaml:"suppressionCascades" json:"suppressionCascades"`
}

// DefaultConfig returns the document defaults used when a Document is
// constructed without an explicit Config.
func DefaultConfig() Config {
	return Config{
		DefaultSketchVisible: true,
		DefaultBodyVisible: true,
		SuppressionCascades: true,
	}
}

// Validate checks Config's invariants. Every field is a plain bool, so
// there is currently nothing to reject; the method exists so callers can
// treat Config uniformly with pkg/snap.Config and pkg/loop.Config, and so
// future fields gain validation without an API break.
func (c Config) Validate() error {
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("Config{DefaultSketchVisible:%v DefaultBodyVisible:%v SuppressionCascades:%v}",
		c.DefaultSketchVisible, c.DefaultBodyVisible, c.SuppressionCascades)
}

// LoadConfigFromBytes parses a YAML document into a Config, starting
// from DefaultConfig so an omitted field keeps its default, then
// validates the result.
func LoadConfigFromBytes(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("sketchdoc: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("sketchdoc: validate config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromFile reads and parses a YAML config file.
func LoadConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("sketchdoc: read config %s: %w", path, err)
	}
	return LoadConfigFromBytes(data)
}
