package sketchdoc

import (
	"fmt"

	"github.com/onecad/sketchcore/pkg/features"
	"github.com/onecad/sketchcore/pkg/sketch"
	"github.com/onecad/sketchcore/pkg/sklog"
)

// SketchID identifies a sketch within a document, distinct from the
// entity/constraint IDs a sketch assigns internally.
type SketchID string

// BodyID is an external 3D-kernel body handle. The document tracks only
// its name and visibility; geometry lives in the (out-of-scope) B-Rep
// kernel.
type BodyID = features.BodyID

// SketchRecord is one named, independently visible sketch slot in a
// document, collapsing what would otherwise be parallel id/name/visibility
// maps into one struct.
type SketchRecord struct {
	ID SketchID
	Name string
	Data *sketch.Sketch
	Visible bool
}

// BodyRecord is one named, independently visible body slot. Its geometry
// is produced and owned by the external B-Rep kernel; the document only
// tracks the handle, a display name, and visibility.
type BodyRecord struct {
	ID BodyID
	Name string
	Visible bool
}

// Signals is the set of change-notification callbacks a UI layer
// subscribes to, one field per mutation that should be observable. A
// nil field is simply not invoked; there is no multi-subscriber fan-out
// (a caller wanting fan-out can compose several callbacks into one
// field).
type Signals struct {
	OnSketchAdded func(id SketchID)
	OnSketchRemoved func(id SketchID)
	OnSketchRenamed func(id SketchID, name string)
	OnSketchVisibilityChanged func(id SketchID, visible bool)
	OnBodyAdded func(id BodyID)
	OnBodyRemoved func(id BodyID)
	OnBodyRenamed func(id BodyID, name string)
	OnBodyUpdated func(id BodyID)
	OnBodyVisibilityChanged func(id BodyID, visible bool)
	OnOperationAdded func(id features.OpID)
	OnOperationUpdated func(id features.OpID)
	OnOperationRemoved func(id features.OpID)
	OnOperationFailed func(id features.OpID, reason string)
	OnOperationSucceeded func(id features.OpID)
	OnOperationSuppressionChanged func(id features.OpID, suppressed bool)
	OnIsolationChanged func()
	OnDocumentCleared func()
	OnModifiedChanged func(modified bool)
}

// isolationState captures the visibility snapshot isolation replaces, so
// ExitIsolation can restore it exactly: prior visibility is saved before
// forcing, then restored on exit.
type isolationState struct {
	active bool
	prevSketches map[SketchID]bool
	prevBodies map[BodyID]bool
}

// Document owns a set of named sketches and bodies, the feature
// dependency graph over operations, and emits change signals. It is a
// plain mutable container: there is no generation pipeline in this
// domain, only a UI-driven document.
type Document struct {
	sketches map[SketchID]*SketchRecord
	skOrder []SketchID

	bodies map[BodyID]*BodyRecord
	bodyOrder []BodyID

	Features *features.Graph

	cfg Config
	nextSketchNumber int
	modified bool
	isolation isolationState

	Signals Signals
}

// NewDocument returns an empty document with nextSketchNumber seeded at
// 1, matching ("document also persists nextSketchNumber
// (minimum 1, clamped on load)"), using DefaultConfig.
func NewDocument() *Document {
	return NewDocumentWithConfig(DefaultConfig())
}

// NewDocumentWithConfig returns an empty document using cfg for default
// sketch/body visibility and suppression-cascade behavior.
func NewDocumentWithConfig(cfg Config) *Document {
	return &Document{
		sketches: make(map[SketchID]*SketchRecord),
		bodies: make(map[BodyID]*BodyRecord),
		Features: features.NewGraph(),
		cfg: cfg,
		nextSketchNumber: 1,
	}
}

func (d *Document) setModified(m bool) {
	if d.modified == m {
		return
	}
	d.modified = m
	if d.Signals.OnModifiedChanged != nil {
		d.Signals.OnModifiedChanged(m)
	}
}

// Modified reports whether the document has unsaved changes.
func (d *Document) Modified() bool { return d.modified }

// AddSketch inserts sk under a freshly minted ID and default name
// ("Sketch N"), mirroring Document::addSketch. Returns "" if sk is nil.
func (d *Document) AddSketch(sk *sketch.Sketch) SketchID {
	if sk == nil {
		return ""
	}
	id := SketchID(fmt.Sprintf("sketch-%d", len(d.sketches)+len(d.bodies)+1))
	for d.sketches[id] != nil {
		d.nextSketchNumber++
		id = SketchID(fmt.Sprintf("sketch-%d", d.nextSketchNumber))
	}
	if !d.AddSketchWithID(id, sk) {
		return ""
	}
	return id
}

// AddSketchWithID inserts sk under an explicit, caller-chosen ID (used by
// JSON deserialization to preserve stable IDs across a save/load cycle).
// Returns false if sk is nil or id is already in use.
func (d *Document) AddSketchWithID(id SketchID, sk *sketch.Sketch) bool {
	if sk == nil || id == "" {
		return false
	}
	if _, exists := d.sketches[id]; exists {
		return false
	}
	name := fmt.Sprintf("Sketch %d", d.nextSketchNumber)
	d.nextSketchNumber++
	d.sketches[id] = &SketchRecord{ID: id, Name: name, Data: sk, Visible: d.cfg.DefaultSketchVisible}
	d.skOrder = append(d.skOrder, id)
	d.setModified(true)
	sklog.For("sketchdoc").Debug("sketch added", "id", id, "name", name)
	if d.Signals.OnSketchAdded != nil {
		d.Signals.OnSketchAdded(id)
	}
	return true
}

// RemoveSketch deletes the sketch record. Returns false if id is
// unknown. The sketch's geometry is discarded; any operation referring
// to it as a SketchRegionRef or SketchLineRef input is left for the
// feature graph to report (it does not itself fail).
func (d *Document) RemoveSketch(id SketchID) bool {
	if _, ok := d.sketches[id]; !ok {
		return false
	}
	delete(d.sketches, id)
	for i, sid := range d.skOrder {
		if sid == id {
			d.skOrder = append(d.skOrder[:i], d.skOrder[i+1:]...)
			break
		}
	}
	d.setModified(true)
	if d.Signals.OnSketchRemoved != nil {
		d.Signals.OnSketchRemoved(id)
	}
	return true
}

// RenameSketch sets a sketch's display name. Returns false if id is
// unknown or name is empty.
func (d *Document) RenameSketch(id SketchID, name string) bool {
	rec, ok := d.sketches[id]
	if !ok || name == "" {
		return false
	}
	rec.Name = name
	d.setModified(true)
	if d.Signals.OnSketchRenamed != nil {
		d.Signals.OnSketchRenamed(id, name)
	}
	return true
}

// SetSketchVisible toggles a sketch's visibility flag. No-op (but still
// succeeds) if the sketch is already in the requested state: the signal
// is emitted only when the value actually flips, including when called
// from EnterIsolation/ExitIsolation.
func (d *Document) SetSketchVisible(id SketchID, visible bool) bool {
	rec, ok := d.sketches[id]
	if !ok {
		return false
	}
	if rec.Visible == visible {
		return true
	}
	rec.Visible = visible
	if d.Signals.OnSketchVisibilityChanged != nil {
		d.Signals.OnSketchVisibilityChanged(id, visible)
	}
	return true
}

// Sketch returns the sketch record for id, or nil if unknown.
func (d *Document) Sketch(id SketchID) *SketchRecord { return d.sketches[id] }

// Sketches returns sketch IDs in creation order.
func (d *Document) Sketches() []SketchID {
	out := make([]SketchID, len(d.skOrder))
	copy(out, d.skOrder)
	return out
}

// AddBody registers an opaque body handle produced by the external 3D
// kernel. The document never inspects its geometry.
func (d *Document) AddBody(id BodyID, name string) bool {
	if id == "" {
		return false
	}
	if _, exists := d.bodies[id]; exists {
		return false
	}
	d.bodies[id] = &BodyRecord{ID: id, Name: name, Visible: d.cfg.DefaultBodyVisible}
	d.bodyOrder = append(d.bodyOrder, id)
	d.setModified(true)
	if d.Signals.OnBodyAdded != nil {
		d.Signals.OnBodyAdded(id)
	}
	return true
}

// RemoveBody deletes a body record.
func (d *Document) RemoveBody(id BodyID) bool {
	if _, ok := d.bodies[id]; !ok {
		return false
	}
	delete(d.bodies, id)
	for i, bid := range d.bodyOrder {
		if bid == id {
			d.bodyOrder = append(d.bodyOrder[:i], d.bodyOrder[i+1:]...)
			break
		}
	}
	d.setModified(true)
	if d.Signals.OnBodyRemoved != nil {
		d.Signals.OnBodyRemoved(id)
	}
	return true
}

// RenameBody sets a body's display name.
func (d *Document) RenameBody(id BodyID, name string) bool {
	rec, ok := d.bodies[id]
	if !ok || name == "" {
		return false
	}
	rec.Name = name
	d.setModified(true)
	if d.Signals.OnBodyRenamed != nil {
		d.Signals.OnBodyRenamed(id, name)
	}
	return true
}

// TouchBody signals that a body's mesh/geometry changed externally
// (re-evaluation by the kernel) without changing its document metadata.
func (d *Document) TouchBody(id BodyID) bool {
	if _, ok := d.bodies[id]; !ok {
		return false
	}
	if d.Signals.OnBodyUpdated != nil {
		d.Signals.OnBodyUpdated(id)
	}
	return true
}

// SetBodyVisible toggles a body's visibility flag.
func (d *Document) SetBodyVisible(id BodyID, visible bool) bool {
	rec, ok := d.bodies[id]
	if !ok {
		return false
	}
	if rec.Visible == visible {
		return true
	}
	rec.Visible = visible
	if d.Signals.OnBodyVisibilityChanged != nil {
		d.Signals.OnBodyVisibilityChanged(id, visible)
	}
	return true
}

// Body returns the body record for id, or nil if unknown.
func (d *Document) Body(id BodyID) *BodyRecord { return d.bodies[id] }

// Bodies returns body IDs in creation order.
func (d *Document) Bodies() []BodyID {
	out := make([]BodyID, len(d.bodyOrder))
	copy(out, d.bodyOrder)
	return out
}

// AddOperation appends op to the feature dependency graph and emits
// OnOperationAdded.
func (d *Document) AddOperation(op features.OperationRecord) {
	d.Features.AddOperation(op)
	d.setModified(true)
	if d.Signals.OnOperationAdded != nil {
		d.Signals.OnOperationAdded(op.OpID)
	}
}

// RemoveOperation removes an operation from the feature graph and emits
// OnOperationRemoved.
func (d *Document) RemoveOperation(id features.OpID) {
	d.Features.RemoveOperation(id)
	d.setModified(true)
	if d.Signals.OnOperationRemoved != nil {
		d.Signals.OnOperationRemoved(id)
	}
}

// SetOperationSuppressed suppresses or restores op. Suppressing also
// propagates to its downstream closure (features.Graph.SuppressDownstream)
// when Config.SuppressionCascades is set; restoring affects op alone. It
// emits OnOperationSuppressionChanged for op and for every node the
// propagation touches.
func (d *Document) SetOperationSuppressed(id features.OpID, suppressed bool) {
	d.Features.SetSuppressed(id, suppressed)
	var touched []features.OpID
	if suppressed && d.cfg.SuppressionCascades {
		d.Features.SuppressDownstream(id)
		touched = d.Features.GetDownstream(id)
	}
	d.setModified(true)
	if d.Signals.OnOperationSuppressionChanged != nil {
		d.Signals.OnOperationSuppressionChanged(id, suppressed)
		for _, down := range touched {
			d.Signals.OnOperationSuppressionChanged(down, suppressed)
		}
	}
}

// SetOperationFailed records a failure reason for op and emits
// OnOperationFailed. The operation itself is not re-evaluated; this only
// signals the UI / §7.
func (d *Document) SetOperationFailed(id features.OpID, reason string) {
	d.Features.SetFailed(id, true, reason)
	if d.Signals.OnOperationFailed != nil {
		d.Signals.OnOperationFailed(id, reason)
	}
}

// SetOperationSucceeded clears op's failed flag and emits
// OnOperationSucceeded.
func (d *Document) SetOperationSucceeded(id features.OpID) {
	d.Features.SetFailed(id, false, "")
	if d.Signals.OnOperationSucceeded != nil {
		d.Signals.OnOperationSucceeded(id)
	}
}

// ClearOperationFailures clears every operation's failed flag.
func (d *Document) ClearOperationFailures() {
	d.Features.ClearOperationFailures()
}

// EnterIsolation hides every sketch and body not named in keep, saving
// the prior visibility so ExitIsolation can restore it exactly.
func (d *Document) EnterIsolation(keepSketches map[SketchID]bool, keepBodies map[BodyID]bool) {
	d.isolation = isolationState{
		active: true,
		prevSketches: make(map[SketchID]bool, len(d.sketches)),
		prevBodies: make(map[BodyID]bool, len(d.bodies)),
	}
	for id, rec := range d.sketches {
		d.isolation.prevSketches[id] = rec.Visible
		d.SetSketchVisible(id, keepSketches[id])
	}
	for id, rec := range d.bodies {
		d.isolation.prevBodies[id] = rec.Visible
		d.SetBodyVisible(id, keepBodies[id])
	}
	if d.Signals.OnIsolationChanged != nil {
		d.Signals.OnIsolationChanged()
	}
}

// ExitIsolation restores the visibility snapshot EnterIsolation took. A
// no-op if isolation is not active.
func (d *Document) ExitIsolation() {
	if !d.isolation.active {
		return
	}
	for id, visible := range d.isolation.prevSketches {
		d.SetSketchVisible(id, visible)
	}
	for id, visible := range d.isolation.prevBodies {
		d.SetBodyVisible(id, visible)
	}
	d.isolation = isolationState{}
	if d.Signals.OnIsolationChanged != nil {
		d.Signals.OnIsolationChanged()
	}
}

// IsIsolating reports whether isolation is currently active.
func (d *Document) IsIsolating() bool { return d.isolation.active }

// Clear empties the document back to its NewDocument state and emits
// OnDocumentCleared.
func (d *Document) Clear() {
	d.sketches = make(map[SketchID]*SketchRecord)
	d.skOrder = nil
	d.bodies = make(map[BodyID]*BodyRecord)
	d.bodyOrder = nil
	d.Features = features.NewGraph()
	d.nextSketchNumber = 1
	d.isolation = isolationState{}
	d.modified = false
	if d.Signals.OnDocumentCleared != nil {
		d.Signals.OnDocumentCleared()
	}
}
