package loop

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the loop detector's tunables in a flat, directly-mapped
// struct, matching the rest of the kernel's config style.
type Config struct {
	// CoincidenceTolerance is the distance (mm) below which two edge
	// endpoints are merged into one graph node.
	CoincidenceTolerance float64 `yaml:"coincidenceTolerance" json:"coincidenceTolerance"`

	// FindAllLoops retains self-intersecting loops that Validate would
	// otherwise filter, for inspection. Loops whose area is at or below
	// MinSignedArea are discarded regardless of this flag.
	FindAllLoops bool `yaml:"findAllLoops" json:"findAllLoops"`

	// ComputeAreas is carried in the config but not read by Detect:
	// signed areas are computed for every loop whatever its value.
	ComputeAreas bool `yaml:"computeAreas" json:"computeAreas"`

	// ResolveHoles controls whether nested loops are attached as holes
	// to their parent face; when false every loop becomes its own face
	// with no holes.
	ResolveHoles bool `yaml:"resolveHoles" json:"resolveHoles"`

	// MaxLoops bounds the number of loops extracted before detection
	// stops early with success=false; 0 means unbounded.
	MaxLoops int `yaml:"maxLoops" json:"maxLoops"`

	// Validate runs the extra self-intersection check that filters
	// invalid loops (ignored, and no loop filtered by it, when
	// FindAllLoops is true).
	Validate bool `yaml:"validate" json:"validate"`

	// PlanarizeIntersections enables the half-edge extraction path:
	// curves are approximated by segments, proper intersections are
	// materialized as split points, and faces are read off a planar
	// embedding. When false, cycle extraction runs directly on the
	// entity graph (step 4).
	PlanarizeIntersections bool `yaml:"planarizeIntersections" json:"planarizeIntersections"`

	// MinSignedArea is the epsilon below which a loop's absolute signed
	// area is considered degenerate and discarded.
	MinSignedArea float64 `yaml:"minSignedArea" json:"minSignedArea"`

	// ArcSegments is the minimum segment count used to approximate an
	// arc during planarization; the actual count scales with sweep.
	ArcSegments int `yaml:"arcSegments" json:"arcSegments"`

	// CircleSegments is the segment count used to approximate a full
	// circle during planarization.
	CircleSegments int `yaml:"circleSegments" json:"circleSegments"`

	// FallbackSegmentsPerCurve is used for ellipses (and any curve type
	// without a dedicated rule) during planarization.
	FallbackSegmentsPerCurve int `yaml:"fallbackSegmentsPerCurve" json:"fallbackSegmentsPerCurve"`
}

// DefaultConfig returns the detector's default tunables (// §6).
func DefaultConfig() *Config {
	return &Config{
		CoincidenceTolerance: 1e-4,
		FindAllLoops: false,
		ComputeAreas: true,
		ResolveHoles: true,
		MaxLoops: 0,
		Validate: true,
		PlanarizeIntersections: true,
		MinSignedArea: 1e-6,
		ArcSegments: 8,
		CircleSegments: 32,
		FallbackSegmentsPerCurve: 32,
	}
}

// ValidateConfig checks the config's values (named to avoid shadowing the
// Validate field).
func (c *Config) ValidateConfig() error {
	if c.CoincidenceTolerance <= 0 {
		return fmt.Errorf("coincidenceTolerance must be > 0, got %f", c.CoincidenceTolerance)
	}
	if c.MinSignedArea < 0 {
		return fmt.Errorf("minSignedArea must be >= 0, got %f", c.MinSignedArea)
	}
	if c.ArcSegments < 1 {
		return fmt.Errorf("arcSegments must be >= 1, got %d", c.ArcSegments)
	}
	if c.CircleSegments < 3 {
		return fmt.Errorf("circleSegments must be >= 3, got %d", c.CircleSegments)
	}
	if c.FallbackSegmentsPerCurve < 3 {
		return fmt.Errorf("fallbackSegmentsPerCurve must be >= 3, got %d", c.FallbackSegmentsPerCurve)
	}
	if c.MaxLoops < 0 {
		return fmt.Errorf("maxLoops must be >= 0, got %d", c.MaxLoops)
	}
	return nil
}

// LoadConfigFromBytes parses a YAML document into a Config, starting
// from DefaultConfig so an omitted field keeps its default, then
// validates the result.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loop: parse config: %w", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("loop: validate config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromFile reads and parses a YAML config file.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loop: read config %s: %w", path, err)
	}
	return LoadConfigFromBytes(data)
}
