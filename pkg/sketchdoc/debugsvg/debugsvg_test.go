package debugsvg_test

import (
	"bytes"
	"testing"

	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sketchdoc/debugsvg"
)

func TestDump_NilSketchErrors(t *testing.T) {
	if _, err := debugsvg.Dump(nil, nil, debugsvg.DefaultOptions()); err == nil {
		t.Fatal("Dump(nil, ...) returned no error")
	}
}

func TestDump_ProducesWellFormedSVG(t *testing.T) {
	sk := sketch.NewSketch()
	a := sk.AddPoint(0, 0, false)
	b := sk.AddPoint(10, 0, false)
	sk.AddLine(a, b, false)

	data, err := debugsvg.Dump(sk, nil, debugsvg.DefaultOptions())
	if err != nil {
		t.Fatalf("Dump() error: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) || !bytes.Contains(data, []byte("</svg>")) {
		t.Fatalf("Dump() output missing svg tags: %s", data)
	}
}

func TestDump_EmptySketchStillRenders(t *testing.T) {
	data, err := debugsvg.Dump(sketch.NewSketch(), nil, debugsvg.DefaultOptions())
	if err != nil {
		t.Fatalf("Dump() error on empty sketch: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Dump() returned empty output for empty sketch")
	}
}
