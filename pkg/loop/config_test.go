package loop

import "testing"

func TestLoadConfigFromBytes_OverridesDefaults(t *testing.T) {
	yamlDoc := `
coincidenceTolerance: 0.001
planarizeIntersections: false
maxLoops: 50
`
	cfg, err := LoadConfigFromBytes([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() error: %v", err)
	}
	if cfg.CoincidenceTolerance != 0.001 {
		t.Errorf("CoincidenceTolerance = %v, want 0.001", cfg.CoincidenceTolerance)
	}
	if cfg.PlanarizeIntersections {
		t.Error("PlanarizeIntersections = true, want false")
	}
	if cfg.MaxLoops != 50 {
		t.Errorf("MaxLoops = %d, want 50", cfg.MaxLoops)
	}
	if cfg.ArcSegments != DefaultConfig().ArcSegments {
		t.Errorf("ArcSegments = %d, want default %d", cfg.ArcSegments, DefaultConfig().ArcSegments)
	}
}

func TestLoadConfigFromBytes_RejectsNegativeMaxLoops(t *testing.T) {
	if _, err := LoadConfigFromBytes([]byte("maxLoops: -1")); err == nil {
		t.Fatal("LoadConfigFromBytes() with negative maxLoops returned no error")
	}
}
