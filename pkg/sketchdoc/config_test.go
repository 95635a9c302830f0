package sketchdoc_test

import (
	"testing"

	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sketchdoc"
)

func TestLoadConfigFromBytes_OverridesDefaults(t *testing.T) {
	yamlDoc := `
defaultSketchVisible: false
suppressionCascades: false
`
	cfg, err := sketchdoc.LoadConfigFromBytes([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() error: %v", err)
	}
	if cfg.DefaultSketchVisible {
		t.Error("DefaultSketchVisible = true, want false")
	}
	if cfg.SuppressionCascades {
		t.Error("SuppressionCascades = true, want false")
	}
	if !cfg.DefaultBodyVisible {
		t.Error("DefaultBodyVisible = false, want default true (omitted from YAML)")
	}
}

func TestLoadConfigFromBytes_RejectsMalformedYAML(t *testing.T) {
	if _, err := sketchdoc.LoadConfigFromBytes([]byte("defaultSketchVisible: [not a bool")); err == nil {
		t.Fatal("LoadConfigFromBytes() with malformed YAML returned no error")
	}
}

func TestNewDocumentWithConfig_UsesConfiguredDefaultVisibility(t *testing.T) {
	d := sketchdoc.NewDocumentWithConfig(sketchdoc.Config{
		DefaultSketchVisible: false,
		DefaultBodyVisible:   true,
		SuppressionCascades:  true,
	})

	id := d.AddSketch(sketch.NewSketch())
	if id == "" {
		t.Fatal("AddSketch() returned empty id for a non-nil sketch")
	}
	if rec := d.Sketch(id); rec == nil || rec.Visible {
		t.Errorf("Sketch(%s).Visible = %v, want false per configured DefaultSketchVisible", id, rec.Visible)
	}

	bid := sketchdoc.BodyID("b1")
	if !d.AddBody(bid, "Body 1") {
		t.Fatal("AddBody() failed")
	}
	if rec := d.Body(bid); rec == nil || !rec.Visible {
		t.Errorf("Body(%s).Visible = %v, want true per configured DefaultBodyVisible", bid, rec.Visible)
	}
}

func TestAddSketch_NilSketchReturnsEmptyID(t *testing.T) {
	d := sketchdoc.NewDocument()
	if id := d.AddSketch(nil); id != "" {
		t.Errorf("AddSketch(nil) = %q, want empty string", id)
	}
	if len(d.Sketches()) != 0 {
		t.Errorf("Sketches() = %v, want empty after a failed AddSketch", d.Sketches())
	}
}
