package snap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the snap resolver's tunables in a flat, directly-mapped
// struct, matching the rest of the kernel's config style.
type Config struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// SnapRadiusMM is the commit/preview candidate radius.
	SnapRadiusMM float64 `yaml:"snapRadiusMM" json:"snapRadiusMM"`

	GridSnapEnabled bool `yaml:"gridSnapEnabled" json:"gridSnapEnabled"`
	GridSizeMM float64 `yaml:"gridSizeMM" json:"gridSizeMM"`

	SpatialHashEnabled bool `yaml:"spatialHashEnabled" json:"spatialHashEnabled"`
	SpatialHashCellMM float64 `yaml:"spatialHashCellMM" json:"spatialHashCellMM"`

	// AngularToleranceDeg is the tolerance for angular/extension guide
	// snapping to multiples of 15 degrees.
	AngularToleranceDeg float64 `yaml:"angularToleranceDeg" json:"angularToleranceDeg"`

	// AmbiguityDistanceTolerance groups same-type candidates within this
	// distance of each other as an ambiguous cluster.
	AmbiguityDistanceTolerance float64 `yaml:"ambiguityDistanceTolerance" json:"ambiguityDistanceTolerance"`

	// TypeEnabled disables individual snap types by name (Type.String()).
	TypeEnabled map[string]bool `yaml:"typeEnabled,omitempty" json:"typeEnabled,omitempty"`

	// AutoApplyThreshold is the minimum auto-constrainer confidence score
	// (0-1) at which an inferred constraint is applied without prompting.
	AutoApplyThreshold float64 `yaml:"autoApplyThreshold" json:"autoApplyThreshold"`
}

// DefaultConfig returns the resolver's default tunables (// 2.0mm snap radius).
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		SnapRadiusMM: 2.0,
		GridSnapEnabled: true,
		GridSizeMM: 1.0,
		SpatialHashEnabled: true,
		SpatialHashCellMM: 10.0,
		AngularToleranceDeg: 3.0,
		AmbiguityDistanceTolerance: 1e-4,
		AutoApplyThreshold: 0.75,
	}
}

// Validate checks the config's values.
func (c *Config) Validate() error {
	if c.SnapRadiusMM <= 0 {
		return fmt.Errorf("snapRadiusMM must be > 0, got %f", c.SnapRadiusMM)
	}
	if c.GridSizeMM <= 0 {
		return fmt.Errorf("gridSizeMM must be > 0, got %f", c.GridSizeMM)
	}
	if c.SpatialHashCellMM <= 0 {
		return fmt.Errorf("spatialHashCellMM must be > 0, got %f", c.SpatialHashCellMM)
	}
	if c.AngularToleranceDeg < 0 || c.AngularToleranceDeg > 45 {
		return fmt.Errorf("angularToleranceDeg must be in [0, 45], got %f", c.AngularToleranceDeg)
	}
	if c.AutoApplyThreshold < 0 || c.AutoApplyThreshold > 1 {
		return fmt.Errorf("autoApplyThreshold must be in [0, 1], got %f", c.AutoApplyThreshold)
	}
	return nil
}

// LoadConfigFromBytes parses a YAML document into a Config, starting
// from DefaultConfig so an omitted field keeps its default, then
// validates the result.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("snap: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("snap: validate config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromFile reads and parses a YAML config file.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snap: read config %s: %w", path, err)
	}
	return LoadConfigFromBytes(data)
}

// isTypeEnabled reports whether t is enabled; absent from the map means
// enabled (opt-out configuration).
func (c *Config) isTypeEnabled(t Type) bool {
	if c.TypeEnabled == nil {
		return true
	}
	if v, ok := c.TypeEnabled[t.String()]; ok {
		return v
	}
	return true
}
