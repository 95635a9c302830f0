package tools

import (
	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sklog"
	"github.com/onecad/sketchcore/pkg/snap"
)

// Manager drives the active tool, resolving snaps and running the
// intersection materializer and auto-constrainer after every commit. It
// holds one mutable collaborator (a sketch) and an injected snap
// resolver; materialization and inference are package functions it
// calls directly.
type Manager struct {
	Sketch *sketch.Sketch
	Snap *snap.Resolver
	Cfg *Config

	active Tool
	exclude map[sketch.EntityID]bool
	lastSnap snap.Result
	lastInfer []InferredConstraint
	lastCreate []sketch.EntityID
}

// NewManager wires a sketch, a snap resolver, and an auto-constrain
// config together. Nil cfg uses DefaultConfig.
func NewManager(sk *sketch.Sketch, resolver *snap.Resolver, cfg *Config) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Manager{Sketch: sk, Snap: resolver, Cfg: cfg, exclude: map[sketch.EntityID]bool{}}
}

// SetActiveTool installs t as the active tool, cancelling whatever was
// previously active so it cannot leak partial state.
func (m *Manager) SetActiveTool(t Tool) {
	if m.active != nil {
		m.active.Cancel(m)
	}
	m.active = t
}

// ActiveTool returns the currently installed tool, or nil.
func (m *Manager) ActiveTool() Tool { return m.active }

// SetExclude marks an entity to be excluded from snap candidates, e.g.
// the entity currently being drawn ("pass the currently-
// being-drawn entity ID in the exclude_set to avoid self-snapping").
func (m *Manager) SetExclude(id sketch.EntityID) {
	if id == "" {
		return
	}
	m.exclude[id] = true
}

// ClearExclude empties the exclude set.
func (m *Manager) ClearExclude() { m.exclude = map[sketch.EntityID]bool{} }

// ResolveCommit runs the commit-path snap resolution (find_best_snap)
// against the manager's current exclude set and optional guide context.
func (m *Manager) ResolveCommit(cursor geom2d.Vec2, ctx snap.Context) snap.Result {
	ctx.Exclude = m.exclude
	m.lastSnap = m.Snap.FindBestSnap(m.Sketch, cursor, ctx)
	return m.lastSnap
}

// ResolvePreview runs the preview-path guide-first-override resolution.
func (m *Manager) ResolvePreview(cursor geom2d.Vec2, ctx snap.Context) snap.Result {
	ctx.Exclude = m.exclude
	return m.Snap.ResolvePreview(m.Sketch, cursor, ctx)
}

// LastSnap returns the most recent commit-path snap result.
func (m *Manager) LastSnap() snap.Result { return m.lastSnap }

// LastInferredConstraints returns the constraints inferred (and,
// above threshold, applied) the last time CommitEntity ran.
func (m *Manager) LastInferredConstraints() []InferredConstraint { return m.lastInfer }

// CommitEntity runs the post-creation pipeline for a newly committed
// curve or line: intersection materialization, then auto-constraint
// inference Pass the zero value to skip when a tool
// commits no new edge (e.g. Trim).
func (m *Manager) CommitEntity(id sketch.EntityID) {
	if id == "" {
		return
	}
	log := sklog.For("tools")
	materialized := Materialize(m.Sketch, id, m.Cfg)
	log.Debug("commitEntity:materialized", "entity", id, "splitEntities", len(materialized))

	infer := InferConstraints(m.Sketch, id, m.Cfg)
	applied := 0
	for _, ic := range infer {
		if ic.Confidence >= m.Cfg.AutoApplyThreshold {
			applyInferred(m.Sketch, ic)
			applied++
		}
	}
	m.lastInfer = infer
	log.Debug("commitEntity:inferred", "entity", id, "candidates", len(infer), "applied", applied)
}

func applyInferred(sk *sketch.Sketch, ic InferredConstraint) {
	switch ic.Type {
	case sketch.Horizontal:
		sk.AddHorizontal(ic.Entities[0])
	case sketch.Vertical:
		sk.AddVertical(ic.Entities[0])
	case sketch.Perpendicular:
		sk.AddPerpendicular(ic.Entities[0], ic.Entities[1])
	case sketch.Parallel:
		sk.AddParallel(ic.Entities[0], ic.Entities[1])
	case sketch.Coincident:
		sk.AddCoincident(ic.Entities[0], ic.Entities[1])
	case sketch.Tangent:
		sk.AddTangent(ic.Entities[0], ic.Entities[1])
	}
}

// Press dispatches a mouse-press event to the active tool.
func (m *Manager) Press(cursor geom2d.Vec2) {
	if m.active != nil {
		m.active.Press(m, cursor)
	}
}

// Move dispatches a mouse-move event to the active tool.
func (m *Manager) Move(cursor geom2d.Vec2) Preview {
	if m.active != nil {
		return m.active.Move(m, cursor)
	}
	return Preview{}
}

// Release dispatches a mouse-release event to the active tool.
func (m *Manager) Release(cursor geom2d.Vec2) {
	if m.active != nil {
		m.active.Release(m, cursor)
	}
}

// KeyPress dispatches a key-press event to the active tool.
func (m *Manager) KeyPress(key string) {
	if key == "Escape" {
		m.CancelActive()
		return
	}
	if m.active != nil {
		m.active.KeyPress(m, key)
	}
}

// CancelActive cancels the active tool, returning it to Idle and
// discarding partial state ("Cancellation").
func (m *Manager) CancelActive() {
	if m.active != nil {
		m.active.Cancel(m)
	}
	m.ClearExclude()
}
