// Command sketchcli is a demonstration driver for the sketch kernel: it
// builds a small parametric sketch, solves its constraints, extracts
// faces, runs diagnostics, and writes a JSON document plus a debug SVG —
// exercising the same pipeline a UI would drive interactively.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/onecad/sketchcore/pkg/loop"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sketchdoc"
	"github.com/onecad/sketchcore/pkg/sketchdoc/debugsvg"
	"github.com/onecad/sketchcore/pkg/sklog"
	"github.com/onecad/sketchcore/pkg/solver"
)

const version = "0.1.0"

var (
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	sketchName = flag.String("name", "bracket", "Base file name for generated output")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	versionF   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("sketchcli version %s\n", version)
		os.Exit(0)
	}

	if *verbose {
		sklog.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	sk := buildDemoSketch()

	if *verbose {
		fmt.Printf("Built sketch: %d entities, %d constraints, DOF=%d\n",
			len(sk.Entities()), len(sk.Constraints()), sk.GetDegreesOfFreedom())
	}

	diag := sketch.Diagnose(sk)
	if *verbose {
		fmt.Print(sketch.Summary(diag))
	}
	if diag.HasErrors() {
		return fmt.Errorf("sketch failed diagnostics, not attempting to solve")
	}

	result := solver.New(sk, solver.DefaultConfig()).Solve()
	if !result.Success {
		return fmt.Errorf("solve failed after %d iterations (residual=%f): %v",
			result.Iterations, result.Residual, result.Err)
	}
	if *verbose {
		fmt.Printf("Solved in %d iterations, residual=%e\n", result.Iterations, result.Residual)
	}

	detection := loop.NewDetector(loop.DefaultConfig()).Detect(sk, nil)
	if *verbose {
		fmt.Printf("Faces: %d (holes in %d), open wires: %d\n",
			len(detection.Faces), detection.FacesWithHoles, len(detection.OpenWires))
	}

	doc := sketchdoc.NewDocument()
	id := doc.AddSketch(sk)
	doc.RenameSketch(id, *sketchName)

	elapsed := time.Since(start)

	if err := exportJSON(doc, *sketchName); err != nil {
		return err
	}
	if err := exportSVG(sk, detection.Faces, *sketchName); err != nil {
		return err
	}

	fmt.Printf("Generated sketch %q in %v\n", *sketchName, elapsed)
	return nil
}

// buildDemoSketch constructs a simple rectangle-with-a-round-hole
// sketch: four corner points joined by lines, horizontal/vertical
// constraints holding it square, and a circle for a mounting hole.
func buildDemoSketch() *sketch.Sketch {
	sk := sketch.NewSketch()

	p1 := sk.AddPoint(0, 0, false)
	p2 := sk.AddPoint(80, 0, false)
	p3 := sk.AddPoint(80, 40, false)
	p4 := sk.AddPoint(0, 40, false)

	l1 := sk.AddLine(p1, p2, false)
	l2 := sk.AddLine(p2, p3, false)
	l3 := sk.AddLine(p3, p4, false)
	l4 := sk.AddLine(p4, p1, false)

	sk.AddConstraint(sketch.Constraint{Type: sketch.FixedPoint, Entities: []sketch.EntityID{p1}, FixedX: 0, FixedY: 0})
	sk.AddConstraint(sketch.Constraint{Type: sketch.Horizontal, Entities: []sketch.EntityID{l1}})
	sk.AddConstraint(sketch.Constraint{Type: sketch.Vertical, Entities: []sketch.EntityID{l2}})
	sk.AddConstraint(sketch.Constraint{Type: sketch.Horizontal, Entities: []sketch.EntityID{l3}})
	sk.AddConstraint(sketch.Constraint{Type: sketch.Vertical, Entities: []sketch.EntityID{l4}})
	sk.AddConstraint(sketch.Constraint{Type: sketch.Distance, Entities: []sketch.EntityID{p1, p2}, Value: 80})
	sk.AddConstraint(sketch.Constraint{Type: sketch.Distance, Entities: []sketch.EntityID{p2, p3}, Value: 40})

	center := sk.AddPoint(40, 20, false)
	sk.AddCircle(center, 8, false)

	return sk
}

func exportJSON(doc *sketchdoc.Document, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".json")
	data, err := doc.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to encode document JSON: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if *verbose {
		fmt.Printf("Wrote %s (%d bytes)\n", filename, len(data))
	}
	return nil
}

func exportSVG(sk *sketch.Sketch, faces []loop.Face, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".svg")
	opts := debugsvg.DefaultOptions()
	opts.Title = fmt.Sprintf("Sketch %q", baseName)
	opts.ShowFaces = true
	opts.ShowStats = true

	if err := debugsvg.SaveToFile(sk, faces, filename, opts); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		if info != nil {
			fmt.Printf("Wrote %s (%d bytes)\n", filename, info.Size())
		}
	}
	return nil
}
