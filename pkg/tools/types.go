package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
)

// Preview is the rendering hint a tool returns from Move: the geometry
// it would commit if the next press landed at the same cursor.
type Preview struct {
	Valid bool
	Kind string
	Points []geom2d.Vec2
}

// InferredConstraint is one auto-constrainer candidate, scored 0-1
// ("inferred_constraints").
type InferredConstraint struct {
	Type sketch.ConstraintType
	Entities []sketch.EntityID
	Value float64
	Confidence float64
}

// Tool is the uniform state-machine interface every drawing/editing tool
// implements ("uniform mouse-press/mouse-move/mouse-
// release/key-press/cancel handlers").
type Tool interface {
	Name() string
	Press(m *Manager, cursor geom2d.Vec2)
	Move(m *Manager, cursor geom2d.Vec2) Preview
	Release(m *Manager, cursor geom2d.Vec2)
	KeyPress(m *Manager, key string)
	Cancel(m *Manager)
}
