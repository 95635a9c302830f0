package tools

import (
	"testing"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	sk := sketch.NewSketch()
	resolver := snap.NewResolver(snap.DefaultConfig())
	return NewManager(sk, resolver, DefaultConfig())
}

func countByType(sk *sketch.Sketch, t sketch.EntityType) int {
	n := 0
	for _, e := range sk.Entities() {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestLineTool_TwoClickCommitAndContinuation(t *testing.T) {
	m := newManager()
	lt := &LineTool{}
	m.SetActiveTool(lt)

	m.Press(geom2d.Vec2{X: 0, Y: 0})
	m.Press(geom2d.Vec2{X: 10, Y: 0})
	require.Equal(t, 1, countByType(m.Sketch, sketch.TypeLine))

	// Polyline continuation: the new endpoint becomes the next start.
	m.Press(geom2d.Vec2{X: 10, Y: 10})
	assert.Equal(t, 2, countByType(m.Sketch, sketch.TypeLine))
}

func TestLineTool_CancelResetsState(t *testing.T) {
	m := newManager()
	lt := &LineTool{}
	m.SetActiveTool(lt)
	m.Press(geom2d.Vec2{X: 0, Y: 0})
	lt.Cancel(m)
	assert.False(t, lt.hasFirst)
}

func TestRectangleTool_FourLines(t *testing.T) {
	m := newManager()
	rt := &RectangleTool{}
	m.SetActiveTool(rt)

	m.Press(geom2d.Vec2{X: 0, Y: 0})
	m.Press(geom2d.Vec2{X: 10, Y: 5})

	assert.Equal(t, 4, countByType(m.Sketch, sketch.TypeLine))
	assert.Equal(t, 4, countByType(m.Sketch, sketch.TypePoint))
}

func TestCircleTool_RadiusFromSecondClick(t *testing.T) {
	m := newManager()
	ct := &CircleTool{}
	m.SetActiveTool(ct)

	m.Press(geom2d.Vec2{X: 0, Y: 0})
	m.Press(geom2d.Vec2{X: 5, Y: 0})

	require.Equal(t, 1, countByType(m.Sketch, sketch.TypeCircle))
	var circle *sketch.Entity
	for _, e := range m.Sketch.Entities() {
		if e.Type == sketch.TypeCircle {
			circle = e
		}
	}
	require.NotNil(t, circle)
	assert.InDelta(t, 5.0, circle.Radius, 1e-9)
}

func TestArcTool_CircumcircleCommit(t *testing.T) {
	m := newManager()
	at := &ArcTool{}
	m.SetActiveTool(at)

	m.Press(geom2d.Vec2{X: 10, Y: 0})
	m.Press(geom2d.Vec2{X: 0, Y: 10})
	m.Press(geom2d.Vec2{X: -10, Y: 0})

	require.Equal(t, 1, countByType(m.Sketch, sketch.TypeArc))
	var arc *sketch.Entity
	for _, e := range m.Sketch.Entities() {
		if e.Type == sketch.TypeArc {
			arc = e
		}
	}
	require.NotNil(t, arc)
	assert.InDelta(t, 10.0, arc.Radius, 1e-6)
}

func TestArcTool_ColinearPointsFail(t *testing.T) {
	m := newManager()
	at := &ArcTool{}
	m.SetActiveTool(at)

	m.Press(geom2d.Vec2{X: 0, Y: 0})
	m.Press(geom2d.Vec2{X: 5, Y: 0})
	m.Press(geom2d.Vec2{X: 10, Y: 0})

	assert.Equal(t, 0, countByType(m.Sketch, sketch.TypeArc))
}

func TestEllipseTool_MajorGreaterThanMinor(t *testing.T) {
	m := newManager()
	et := &EllipseTool{}
	m.SetActiveTool(et)

	m.Press(geom2d.Vec2{X: 0, Y: 0})
	m.Press(geom2d.Vec2{X: 3, Y: 0})  // major endpoint: major radius 3 along X
	m.Press(geom2d.Vec2{X: 0, Y: 10}) // minor distance from X axis: 10 > major

	require.Equal(t, 1, countByType(m.Sketch, sketch.TypeEllipse))
	var el *sketch.Entity
	for _, e := range m.Sketch.Entities() {
		if e.Type == sketch.TypeEllipse {
			el = e
		}
	}
	require.NotNil(t, el)
	assert.GreaterOrEqual(t, el.MajorRadius, el.MinorRadius)
	assert.InDelta(t, 10.0, el.MajorRadius, 1e-9)
	assert.InDelta(t, 3.0, el.MinorRadius, 1e-9)
}

func TestTrimTool_DeletesHoveredEntity(t *testing.T) {
	m := newManager()
	p0 := m.Sketch.AddPoint(0, 0, false)
	p1 := m.Sketch.AddPoint(10, 0, false)
	lineID := m.Sketch.AddLine(p0, p1, false)

	tt := &TrimTool{}
	m.SetActiveTool(tt)
	m.Press(geom2d.Vec2{X: 5, Y: 0})

	assert.Nil(t, m.Sketch.Entity(lineID))
}

func TestMirrorTool_AxisThenMirrorLine(t *testing.T) {
	m := newManager()
	ax0 := m.Sketch.AddPoint(0, -5, true)
	ax1 := m.Sketch.AddPoint(0, 5, true)
	m.Sketch.AddLine(ax0, ax1, true)

	p0 := m.Sketch.AddPoint(2, 0, false)
	p1 := m.Sketch.AddPoint(6, 4, false)
	m.Sketch.AddLine(p0, p1, false)

	mt := &MirrorTool{}
	m.SetActiveTool(mt)
	m.Press(geom2d.Vec2{X: 0, Y: 0}) // selects the axis line
	require.True(t, mt.hasAxis)

	m.Press(geom2d.Vec2{X: 4, Y: 2}) // hovers the line to mirror

	// axis line + original line + mirrored clone
	assert.Equal(t, 3, countByType(m.Sketch, sketch.TypeLine))
}

func TestMaterialize_SplitsCrossingLines(t *testing.T) {
	sk := sketch.NewSketch()
	a0 := sk.AddPoint(-5, 0, false)
	a1 := sk.AddPoint(5, 0, false)
	horiz := sk.AddLine(a0, a1, false)

	b0 := sk.AddPoint(0, -5, false)
	b1 := sk.AddPoint(0, 5, false)
	vert := sk.AddLine(b0, b1, false)

	cfg := DefaultConfig()
	created := Materialize(sk, vert, cfg)
	require.NotEmpty(t, created)

	// The horizontal line should now be split into two segments plus a
	// shared point at the origin; the original line ID is gone.
	assert.Nil(t, sk.Entity(horiz))
	ptID := sk.FindNearest(geom2d.Vec2{X: 0, Y: 0}, 1e-6, sketch.EntityFilter{sketch.TypePoint: true})
	assert.NotEmpty(t, ptID)
}

func TestInferConstraints_HorizontalHighConfidence(t *testing.T) {
	sk := sketch.NewSketch()
	p0 := sk.AddPoint(0, 0, false)
	p1 := sk.AddPoint(10, 0.01, false)
	lineID := sk.AddLine(p0, p1, false)

	cfg := DefaultConfig()
	results := InferConstraints(sk, lineID, cfg)

	found := false
	for _, r := range results {
		if r.Type == sketch.Horizontal {
			found = true
			assert.Greater(t, r.Confidence, 0.9)
		}
	}
	assert.True(t, found)
}

func TestInferConstraints_DisabledReturnsNil(t *testing.T) {
	sk := sketch.NewSketch()
	p0 := sk.AddPoint(0, 0, false)
	p1 := sk.AddPoint(10, 0, false)
	lineID := sk.AddLine(p0, p1, false)

	cfg := DefaultConfig()
	cfg.Enabled = false
	assert.Nil(t, InferConstraints(sk, lineID, cfg))
}

func TestManager_CancelActiveClearsExclude(t *testing.T) {
	m := newManager()
	// An existing point under the first click: the line tool reuses it as
	// its start and excludes it from further snapping.
	m.Sketch.AddPoint(0, 0, false)
	lt := &LineTool{}
	m.SetActiveTool(lt)
	m.Press(geom2d.Vec2{X: 0, Y: 0})
	require.NotEmpty(t, m.exclude)
	m.CancelActive()
	assert.Empty(t, m.exclude)
}
