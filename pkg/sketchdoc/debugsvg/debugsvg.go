// Package debugsvg dumps a sketch's entities and, optionally, its
// extracted faces to an SVG file for developers inspecting solver/loop
// output outside the (out-of-scope) OpenGL renderer. It fits the
// sketch's bounding box directly into pixel space with a simple affine
// transform, since sketch entities already carry real 2D positions and
// need no synthetic layout.
package debugsvg

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/loop"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// Options configures the SVG dump. All fields are optional.
type Options struct {
	Width       int    // Canvas width in pixels
	Height      int    // Canvas height in pixels
	Margin      int    // Canvas margin in pixels (default: 40)
	ShowLabels  bool   // Label entities by ID
	ColorByType bool   // Color entities by EntityType
	ShowFaces   bool   // Fill extracted faces (holes as background color)
	ShowLegend  bool   // Draw a legend explaining colors
	Title       string // Optional title drawn in the header
	ShowStats   bool   // Draw entity/constraint/face counts
}

// DefaultOptions returns sensible dump defaults.
func DefaultOptions() Options {
	return Options{
		Width:       1000,
		Height:      800,
		Margin:      40,
		ShowLabels:  true,
		ColorByType: true,
		ShowFaces:   true,
		ShowLegend:  true,
		Title:       "Sketch",
		ShowStats:   true,
	}
}

// Dump renders sk (and, if faces is non-nil, its extracted faces) to an
// SVG byte slice.
func Dump(sk *sketch.Sketch, faces []loop.Face, opts Options) ([]byte, error) {
	if sk == nil {
		return nil, fmt.Errorf("debugsvg: sketch is nil")
	}
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 800
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1e1e2e")

	xf := newTransform(sk, opts)

	if opts.ShowFaces {
		for _, f := range faces {
			drawFace(canvas, f, xf)
		}
	}
	for _, e := range sk.Entities() {
		drawEntity(canvas, sk, e, xf, opts)
	}
	if opts.ShowLegend {
		drawLegend(canvas, opts)
	}
	if opts.Title != "" || opts.ShowStats {
		drawHeader(canvas, sk, faces, opts)
	}

	canvas.End()
	return buf.Bytes(), nil
}

// SaveToFile renders sk to path with 0644 permissions.
func SaveToFile(sk *sketch.Sketch, faces []loop.Face, path string, opts Options) error {
	data, err := Dump(sk, faces, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// transform maps sketch-space coordinates to pixel-space, fitting the
// sketch's bounding box (expanded across all entities) into the drawable
// area inside the margin, preserving aspect ratio and flipping Y (sketch
// Y grows up, SVG Y grows down).
type transform struct {
	scale                float64
	offX, offY           float64
	pixH                 int
}

func newTransform(sk *sketch.Sketch, opts Options) transform {
	box := geom2d.EmptyBox()
	for _, e := range sk.Entities() {
		box = box.Union(sk.Bounds(e))
	}
	if box.IsEmpty() {
		box = geom2d.Box{Min: geom2d.Vec2{X: -1, Y: -1}, Max: geom2d.Vec2{X: 1, Y: 1}}
	}
	box = box.Inflate(box.Width()*0.05 + box.Height()*0.05 + 1e-6)

	drawW := float64(opts.Width - 2*opts.Margin)
	drawH := float64(opts.Height - 2*opts.Margin - 60) // header space
	scale := 1.0
	if box.Width() > 0 && box.Height() > 0 {
		sx := drawW / box.Width()
		sy := drawH / box.Height()
		scale = sx
		if sy < sx {
			scale = sy
		}
	}
	return transform{
		scale: scale,
		offX:  float64(opts.Margin) - box.Min.X*scale,
		offY:  float64(opts.Margin) + 60 + box.Max.Y*scale,
		pixH:  opts.Height,
	}
}

func (t transform) point(p geom2d.Vec2) (int, int) {
	return int(p.X*t.scale + t.offX), int(-p.Y*t.scale + t.offY)
}

func entityColor(e *sketch.Entity, opts Options) string {
	if e.ReferenceLocked {
		return "#f6ad55"
	}
	if e.Construction {
		return "#718096"
	}
	if !opts.ColorByType {
		return "#e2e8f0"
	}
	switch e.Type {
	case sketch.TypePoint:
		return "#f56565"
	case sketch.TypeLine:
		return "#4299e1"
	case sketch.TypeArc:
		return "#48bb78"
	case sketch.TypeCircle:
		return "#9f7aea"
	case sketch.TypeEllipse:
		return "#ed8936"
	default:
		return "#e2e8f0"
	}
}

func drawEntity(canvas *svg.SVG, sk *sketch.Sketch, e *sketch.Entity, xf transform, opts Options) {
	color := entityColor(e, opts)
	dash := ""
	if e.Construction {
		dash = ";stroke-dasharray:4,3"
	}
	style := fmt.Sprintf("stroke:%s;stroke-width:2;fill:none%s", color, dash)

	switch e.Type {
	case sketch.TypePoint:
		x, y := xf.point(e.Pos)
		canvas.Circle(x, y, 3, "fill:"+color)
	case sketch.TypeLine:
		a := sk.Entity(e.Start)
		b := sk.Entity(e.End)
		if a == nil || b == nil {
			return
		}
		x1, y1 := xf.point(a.Pos)
		x2, y2 := xf.point(b.Pos)
		canvas.Line(x1, y1, x2, y2, style)
	case sketch.TypeArc:
		drawPolyline(canvas, geom2d.SampleArc(centerOf(sk, e), e.Radius, e.StartAngle, e.EndAngle, 32), xf, style)
	case sketch.TypeCircle:
		drawPolyline(canvas, geom2d.SampleCircle(centerOf(sk, e), e.Radius, 48), xf, style)
	case sketch.TypeEllipse:
		drawPolyline(canvas, geom2d.SampleEllipse(centerOf(sk, e), e.MajorRadius, e.MinorRadius, e.Rotation, 48), xf, style)
	}

	if opts.ShowLabels && e.Type != sketch.TypePoint {
		lx, ly := xf.point(sk.Bounds(e).Center())
		canvas.Text(lx, ly, string(e.ID), "font-size:9px;fill:#a0aec0")
	}
}

func centerOf(sk *sketch.Sketch, e *sketch.Entity) geom2d.Vec2 {
	c := sk.Entity(e.Center)
	if c == nil {
		return geom2d.Vec2{}
	}
	return c.Pos
}

func drawPolyline(canvas *svg.SVG, pts []geom2d.Vec2, xf transform, style string) {
	if len(pts) < 2 {
		return
	}
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = xf.point(p)
	}
	canvas.Polyline(xs, ys, style)
}

func drawFace(canvas *svg.SVG, f loop.Face, xf transform) {
	if len(f.Outer.Polygon) < 3 {
		return
	}
	xs := make([]int, len(f.Outer.Polygon))
	ys := make([]int, len(f.Outer.Polygon))
	for i, p := range f.Outer.Polygon {
		xs[i], ys[i] = xf.point(p)
	}
	canvas.Polygon(xs, ys, "fill:#2d3748;fill-opacity:0.5;stroke:none")
	for _, h := range f.Holes {
		if len(h.Polygon) < 3 {
			continue
		}
		hxs := make([]int, len(h.Polygon))
		hys := make([]int, len(h.Polygon))
		for i, p := range h.Polygon {
			hxs[i], hys[i] = xf.point(p)
		}
		canvas.Polygon(hxs, hys, "fill:#1e1e2e;stroke:none")
	}
}

func drawLegend(canvas *svg.SVG, opts Options) {
	entries := []struct {
		label string
		color string
	}{
		{"Point", "#f56565"}, {"Line", "#4299e1"}, {"Arc", "#48bb78"},
		{"Circle", "#9f7aea"}, {"Ellipse", "#ed8936"}, {"Locked", "#f6ad55"},
		{"Construction", "#718096"},
	}
	x := opts.Width - 130
	y := opts.Height - 20*len(entries) - 10
	for _, en := range entries {
		canvas.Circle(x, y, 5, "fill:"+en.color)
		canvas.Text(x+12, y+4, en.label, "font-size:11px;fill:#cbd5e0")
		y += 20
	}
}

func drawHeader(canvas *svg.SVG, sk *sketch.Sketch, faces []loop.Face, opts Options) {
	if opts.Title != "" {
		canvas.Text(opts.Margin, 24, opts.Title, "font-size:18px;fill:#f7fafc;font-weight:bold")
	}
	if opts.ShowStats {
		stats := fmt.Sprintf("entities=%d constraints=%d dof=%d faces=%d",
			len(sk.Entities()), len(sk.Constraints()), sk.GetDegreesOfFreedom(), len(faces))
		canvas.Text(opts.Margin, 44, stats, "font-size:12px;fill:#a0aec0")
	}
}
