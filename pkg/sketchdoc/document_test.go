package sketchdoc_test

import (
	"testing"

	"github.com/onecad/sketchcore/pkg/features"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sketchdoc"
)

func TestAddSketch_EmitsSignalAndSetsModified(t *testing.T) {
	d := sketchdoc.NewDocument()
	var added sketchdoc.SketchID
	d.Signals.OnSketchAdded = func(id sketchdoc.SketchID) { added = id }

	id := d.AddSketch(sketch.NewSketch())
	if added != id {
		t.Fatalf("OnSketchAdded fired with %q, want %q", added, id)
	}
	if !d.Modified() {
		t.Fatal("Modified() = false after AddSketch")
	}
	if len(d.Sketches()) != 1 {
		t.Fatalf("Sketches() len = %d, want 1", len(d.Sketches()))
	}
}

func TestRemoveSketch_UnknownIDFails(t *testing.T) {
	d := sketchdoc.NewDocument()
	if d.RemoveSketch("nope") {
		t.Fatal("RemoveSketch() on unknown id = true, want false")
	}
}

func TestRemoveSketch_EmitsSignal(t *testing.T) {
	d := sketchdoc.NewDocument()
	id := d.AddSketch(sketch.NewSketch())
	var removed sketchdoc.SketchID
	d.Signals.OnSketchRemoved = func(id sketchdoc.SketchID) { removed = id }

	if !d.RemoveSketch(id) {
		t.Fatal("RemoveSketch() = false")
	}
	if removed != id {
		t.Fatalf("OnSketchRemoved fired with %q, want %q", removed, id)
	}
	if len(d.Sketches()) != 0 {
		t.Fatalf("Sketches() len = %d, want 0 after removal", len(d.Sketches()))
	}
}

func TestSketchVisibility_NoSignalWhenUnchanged(t *testing.T) {
	d := sketchdoc.NewDocument()
	id := d.AddSketch(sketch.NewSketch())
	calls := 0
	d.Signals.OnSketchVisibilityChanged = func(sketchdoc.SketchID, bool) { calls++ }

	if !d.SetSketchVisible(id, true) {
		t.Fatal("SetSketchVisible(true) on already-visible sketch = false")
	}
	if calls != 0 {
		t.Fatalf("OnSketchVisibilityChanged fired %d times, want 0 for a no-op toggle", calls)
	}
	if !d.SetSketchVisible(id, false) {
		t.Fatal("SetSketchVisible(false) = false")
	}
	if calls != 1 {
		t.Fatalf("OnSketchVisibilityChanged fired %d times, want 1", calls)
	}
}

func TestOperationSuppression_PropagatesDownstream(t *testing.T) {
	d := sketchdoc.NewDocument()
	d.AddOperation(features.OperationRecord{
		OpID: "o1", Type: features.OpExtrude,
		Input:         features.OpInput{SketchRegion: &features.SketchRegionRef{SketchID: "s1"}},
		Params:        features.OpParams{Extrude: &features.ExtrudeParams{BooleanMode: features.BooleanNewBody}},
		ResultBodyIDs: []features.BodyID{"b1"},
	})
	d.AddOperation(features.OperationRecord{
		OpID: "o2", Type: features.OpFillet,
		Input:  features.OpInput{Body: &features.BodyRef{BodyID: "b1"}},
		Params: features.OpParams{Fillet: &features.FilletChamferParams{EdgeIDs: []features.EdgeRef{{BodyID: "b1", EdgeID: "e1"}}}},
	})

	var changed []features.OpID
	d.Signals.OnOperationSuppressionChanged = func(id features.OpID, suppressed bool) {
		if suppressed {
			changed = append(changed, id)
		}
	}
	d.SetOperationSuppressed("o1", true)

	if len(changed) != 2 {
		t.Fatalf("suppression touched %v, want both o1 and its downstream o2", changed)
	}
}

func TestIsolation_RestoresVisibilityOnExit(t *testing.T) {
	d := sketchdoc.NewDocument()
	a := d.AddSketch(sketch.NewSketch())
	b := d.AddSketch(sketch.NewSketch())

	d.EnterIsolation(map[sketchdoc.SketchID]bool{a: true}, nil)
	if d.Sketch(a).Visible != true || d.Sketch(b).Visible != false {
		t.Fatalf("isolation visibility = (%v,%v), want (true,false)", d.Sketch(a).Visible, d.Sketch(b).Visible)
	}

	d.ExitIsolation()
	if !d.Sketch(a).Visible || !d.Sketch(b).Visible {
		t.Fatal("ExitIsolation did not restore prior visibility")
	}
	if d.IsIsolating() {
		t.Fatal("IsIsolating() = true after ExitIsolation")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := sketchdoc.NewDocument()
	sk := sketch.NewSketch()
	sk.AddPoint(1, 2, false)
	d.AddSketch(sk)

	data, err := d.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	d2, err := sketchdoc.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	if len(d2.Sketches()) != 1 {
		t.Fatalf("round-tripped document has %d sketches, want 1", len(d2.Sketches()))
	}
}

func TestFromJSON_MalformedReturnsNoDocument(t *testing.T) {
	if d, err := sketchdoc.FromJSON([]byte(`not json`)); err == nil || d != nil {
		t.Fatalf("FromJSON(malformed) = (%v, %v), want (nil, error)", d, err)
	}
}

func TestFromJSON_ClampsNextSketchNumber(t *testing.T) {
	d, err := sketchdoc.FromJSON([]byte(`{"version":1,"nextSketchNumber":-5,"sketches":[]}`))
	if err != nil {
		t.Fatalf("FromJSON() error: %v", err)
	}
	_ = d // nextSketchNumber is internal; exercised indirectly via AddSketch naming below.
	id := d.AddSketch(sketch.NewSketch())
	if id == "" {
		t.Fatal("AddSketch returned empty id")
	}
}
