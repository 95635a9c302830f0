// Package features maintains the dependency graph over 3D feature
// operations: nodes are operation records, edges run from the operation
// that produced a body to every later operation that consumes it. Cycle
// detection and a stable topological order are computed with Kahn's
// algorithm.
package features

// OpID identifies an operation record.
type OpID string

// BodyID, FaceID, EdgeID, SketchID identify external B-Rep-kernel objects;
// this package never dereferences them, only tracks producer/consumer
// relationships by value.
type (
	BodyID   string
	FaceID   string
	EdgeID   string
	SketchID string
)

// OpType is the kind of feature operation.
type OpType int

const (
	OpExtrude OpType = iota
	OpRevolve
	OpFillet
	OpChamfer
	OpShell
	OpBoolean
)

// BooleanMode selects how Extrude/Revolve combine with an existing body.
type BooleanMode int

const (
	BooleanNewBody BooleanMode = iota
	BooleanUnion
	BooleanCut
	BooleanIntersect
)

// RevolveAxis is a tagged union: exactly one of Edge or SketchLine is set.
type RevolveAxis struct {
	Edge       *EdgeRef
	SketchLine *SketchLineRef
}

// EdgeRef references an edge on an existing body.
type EdgeRef struct {
	BodyID BodyID
	EdgeID EdgeID
}

// SketchLineRef references a line entity within a sketch.
type SketchLineRef struct {
	SketchID SketchID
	LineID   string
}

// OpInput is a tagged union over an operation's input: exactly one field
// is set, matching the original's std::variant<SketchRegionRef, FaceRef,
// BodyRef>.
type OpInput struct {
	SketchRegion *SketchRegionRef
	Face         *FaceRef
	Body         *BodyRef
}

type SketchRegionRef struct{ SketchID SketchID }
type FaceRef struct {
	BodyID BodyID
	FaceID FaceID
}
type BodyRef struct{ BodyID BodyID }

// OpParams is a tagged union over the type-specific operation parameters.
type OpParams struct {
	Extrude *ExtrudeParams
	Revolve *RevolveParams
	Fillet  *FilletChamferParams
	Shell   *ShellParams
	Boolean *BooleanParams
}

type ExtrudeParams struct {
	BooleanMode  BooleanMode
	TargetBodyID BodyID
}

type RevolveParams struct {
	BooleanMode  BooleanMode
	TargetBodyID BodyID
	Axis         RevolveAxis
}

type FilletChamferParams struct {
	EdgeIDs []EdgeRef
}

type ShellParams struct {
	OpenFaceIDs []FaceRef
}

type BooleanParams struct {
	TargetBodyID BodyID
	ToolBodyID   BodyID
}

// OperationRecord is the flat, ordered history entry feeding the graph.
type OperationRecord struct {
	OpID           OpID
	Type           OpType
	Input          OpInput
	Params         OpParams
	ResultBodyIDs  []BodyID
}
