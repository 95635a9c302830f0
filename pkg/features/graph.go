package features

import (
	"container/heap"
	"fmt"

	"github.com/onecad/sketchcore/pkg/sklog"
)

// FeatureNode is one operation's position in the dependency graph: its
// extracted input/output references plus suppression and failure state.
type FeatureNode struct {
	OpID   OpID
	Type   OpType

	InputSketchIDs map[SketchID]struct{}
	InputBodyIDs   map[BodyID]struct{}
	InputFaceIDs   map[FaceID]struct{}
	InputEdgeIDs   map[EdgeID]struct{}
	OutputBodyIDs  map[BodyID]struct{}

	Suppressed    bool
	Failed        bool
	FailureReason string
}

func newFeatureNode(op OperationRecord) *FeatureNode {
	n := &FeatureNode{
		OpID:           op.OpID,
		Type:           op.Type,
		InputSketchIDs: map[SketchID]struct{}{},
		InputBodyIDs:   map[BodyID]struct{}{},
		InputFaceIDs:   map[FaceID]struct{}{},
		InputEdgeIDs:   map[EdgeID]struct{}{},
		OutputBodyIDs:  map[BodyID]struct{}{},
	}
	extractDependencies(op, n)
	for _, b := range op.ResultBodyIDs {
		n.OutputBodyIDs[b] = struct{}{}
	}
	return n
}

func extractDependencies(op OperationRecord, node *FeatureNode) {
	switch {
	case op.Input.SketchRegion != nil:
		node.InputSketchIDs[op.Input.SketchRegion.SketchID] = struct{}{}
	case op.Input.Face != nil:
		node.InputBodyIDs[op.Input.Face.BodyID] = struct{}{}
		node.InputFaceIDs[op.Input.Face.FaceID] = struct{}{}
	case op.Input.Body != nil:
		node.InputBodyIDs[op.Input.Body.BodyID] = struct{}{}
	}

	switch {
	case op.Params.Extrude != nil:
		p := op.Params.Extrude
		if p.BooleanMode != BooleanNewBody && p.TargetBodyID != "" {
			node.InputBodyIDs[p.TargetBodyID] = struct{}{}
		}
	case op.Params.Revolve != nil:
		p := op.Params.Revolve
		if p.BooleanMode != BooleanNewBody && p.TargetBodyID != "" {
			node.InputBodyIDs[p.TargetBodyID] = struct{}{}
		}
		if p.Axis.SketchLine != nil {
			node.InputSketchIDs[p.Axis.SketchLine.SketchID] = struct{}{}
		} else if p.Axis.Edge != nil {
			node.InputBodyIDs[p.Axis.Edge.BodyID] = struct{}{}
			node.InputEdgeIDs[p.Axis.Edge.EdgeID] = struct{}{}
		}
	case op.Params.Fillet != nil:
		for _, ref := range op.Params.Fillet.EdgeIDs {
			node.InputBodyIDs[ref.BodyID] = struct{}{}
			node.InputEdgeIDs[ref.EdgeID] = struct{}{}
		}
	case op.Params.Shell != nil:
		for _, ref := range op.Params.Shell.OpenFaceIDs {
			node.InputBodyIDs[ref.BodyID] = struct{}{}
			node.InputFaceIDs[ref.FaceID] = struct{}{}
		}
	case op.Params.Boolean != nil:
		p := op.Params.Boolean
		node.InputBodyIDs[p.TargetBodyID] = struct{}{}
		node.InputBodyIDs[p.ToolBodyID] = struct{}{}
	}
}

// Graph is the feature dependency graph over an operation history.
type Graph struct {
	nodes         map[OpID]*FeatureNode
	forwardEdges  map[OpID]map[OpID]struct{} // producer -> consumers
	backwardEdges map[OpID]map[OpID]struct{} // consumer -> producers
	creationOrder []OpID
	creationIndex map[OpID]int
	bodyProducers map[BodyID]OpID
}

// NewGraph returns an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:         map[OpID]*FeatureNode{},
		forwardEdges:  map[OpID]map[OpID]struct{}{},
		backwardEdges: map[OpID]map[OpID]struct{}{},
		creationIndex: map[OpID]int{},
		bodyProducers: map[BodyID]OpID{},
	}
}

// RebuildFromOperations clears the graph and rebuilds it from ops, in
// order. This is the primary entry point; it is O(E+C) like the rest of
// the kernel's rebuild-on-dirty components.
func (g *Graph) RebuildFromOperations(ops []OperationRecord) {
	log := sklog.For("features")
	log.Debug("RebuildFromOperations:start", "operationCount", len(ops))
	g.clear()
	for _, op := range ops {
		g.nodes[op.OpID] = newFeatureNode(op)
		g.creationOrder = append(g.creationOrder, op.OpID)
	}
	g.rebuildEdges()
	log.Debug("RebuildFromOperations:done",
		"nodeCount", len(g.nodes),
		"forwardEdgeCount", len(g.forwardEdges),
		"backwardEdgeCount", len(g.backwardEdges))
}

func (g *Graph) clear() {
	g.nodes = map[OpID]*FeatureNode{}
	g.forwardEdges = map[OpID]map[OpID]struct{}{}
	g.backwardEdges = map[OpID]map[OpID]struct{}{}
	g.creationOrder = nil
	g.creationIndex = map[OpID]int{}
	g.bodyProducers = map[BodyID]OpID{}
}

// AddOperation appends a single operation and rebuilds edges.
func (g *Graph) AddOperation(op OperationRecord) {
	g.nodes[op.OpID] = newFeatureNode(op)
	g.creationOrder = append(g.creationOrder, op.OpID)
	g.rebuildEdges()
}

// RemoveOperation removes an operation by ID and rebuilds edges. No-op if
// absent.
func (g *Graph) RemoveOperation(id OpID) {
	node, ok := g.nodes[id]
	if !ok {
		return
	}
	for b := range node.OutputBodyIDs {
		if g.bodyProducers[b] == id {
			delete(g.bodyProducers, b)
		}
	}
	delete(g.nodes, id)
	for i, o := range g.creationOrder {
		if o == id {
			g.creationOrder = append(g.creationOrder[:i], g.creationOrder[i+1:]...)
			break
		}
	}
	g.rebuildEdges()
}

// Node returns the node for opId, or nil if absent.
func (g *Graph) Node(id OpID) *FeatureNode { return g.nodes[id] }

func (g *Graph) rebuildEdges() {
	g.forwardEdges = map[OpID]map[OpID]struct{}{}
	g.backwardEdges = map[OpID]map[OpID]struct{}{}
	g.bodyProducers = map[BodyID]OpID{}
	g.creationIndex = map[OpID]int{}

	for i, id := range g.creationOrder {
		g.creationIndex[id] = i
		node, ok := g.nodes[id]
		if !ok {
			continue
		}
		for b := range node.InputBodyIDs {
			producer, exists := g.bodyProducers[b]
			if exists && producer != id {
				if g.forwardEdges[producer] == nil {
					g.forwardEdges[producer] = map[OpID]struct{}{}
				}
				g.forwardEdges[producer][id] = struct{}{}
				if g.backwardEdges[id] == nil {
					g.backwardEdges[id] = map[OpID]struct{}{}
				}
				g.backwardEdges[id][producer] = struct{}{}
			}
		}
		for b := range node.OutputBodyIDs {
			g.bodyProducers[b] = id
		}
	}
}

// opHeap is a min-heap over OpIDs ordered by creation index, used to make
// Kahn's algorithm deterministic and stable by creation order.
type opHeap struct {
	ids   []OpID
	index map[OpID]int
}

func (h *opHeap) Len() int { return len(h.ids) }
func (h *opHeap) Less(i, j int) bool {
	return h.index[h.ids[i]] < h.index[h.ids[j]]
}
func (h *opHeap) Swap(i, j int) { h.ids[i], h.ids[j] = h.ids[j], h.ids[i] }
func (h *opHeap) Push(x any)    { h.ids = append(h.ids, x.(OpID)) }
func (h *opHeap) Pop() any {
	n := len(h.ids)
	v := h.ids[n-1]
	h.ids = h.ids[:n-1]
	return v
}

// TopologicalSort returns operations in dependency order, tie-broken by
// creation order, using Kahn's algorithm. Returns an empty slice if the
// graph contains a cycle.
func (g *Graph) TopologicalSort() []OpID {
	inDegree := make(map[OpID]int, len(g.nodes))
	for id := range g.nodes {
		inDegree[id] = len(g.backwardEdges[id])
	}

	h := &opHeap{index: g.creationIndex}
	for id, d := range inDegree {
		if d == 0 {
			heap.Push(h, id)
		}
	}

	result := make([]OpID, 0, len(g.nodes))
	for h.Len() > 0 {
		current := heap.Pop(h).(OpID)
		result = append(result, current)
		for downstream := range g.forwardEdges[current] {
			inDegree[downstream]--
			if inDegree[downstream] == 0 {
				heap.Push(h, downstream)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil
	}
	return result
}

// HasCycle reports whether the graph contains a cycle.
func (g *Graph) HasCycle() bool {
	return len(g.nodes) > 0 && g.TopologicalSort() == nil
}

// GetDownstream returns every operation (transitively) consuming a body
// produced by opId, in discovery order.
func (g *Graph) GetDownstream(id OpID) []OpID {
	var result []OpID
	visited := map[OpID]bool{}
	g.collectDownstream(id, visited, &result)
	return result
}

func (g *Graph) collectDownstream(id OpID, visited map[OpID]bool, result *[]OpID) {
	for downstream := range g.forwardEdges[id] {
		if !visited[downstream] {
			visited[downstream] = true
			*result = append(*result, downstream)
			g.collectDownstream(downstream, visited, result)
		}
	}
}

// GetUpstream returns every operation (transitively) producing a body
// consumed by opId, in discovery order.
func (g *Graph) GetUpstream(id OpID) []OpID {
	var result []OpID
	visited := map[OpID]bool{}
	g.collectUpstream(id, visited, &result)
	return result
}

func (g *Graph) collectUpstream(id OpID, visited map[OpID]bool, result *[]OpID) {
	for upstream := range g.backwardEdges[id] {
		if !visited[upstream] {
			visited[upstream] = true
			*result = append(*result, upstream)
			g.collectUpstream(upstream, visited, result)
		}
	}
}

// SetSuppressed sets the suppression flag on an operation; no-op if
// absent.
func (g *Graph) SetSuppressed(id OpID, suppressed bool) {
	if n, ok := g.nodes[id]; ok {
		n.Suppressed = suppressed
	}
}

// IsSuppressed reports whether an operation is suppressed.
func (g *Graph) IsSuppressed(id OpID) bool {
	if n, ok := g.nodes[id]; ok {
		return n.Suppressed
	}
	return false
}

// SuppressDownstream suppresses opId's entire downstream closure.
func (g *Graph) SuppressDownstream(id OpID) {
	for _, downstream := range g.GetDownstream(id) {
		g.SetSuppressed(downstream, true)
	}
}

// SetFailed records failure state and a reason.
func (g *Graph) SetFailed(id OpID, failed bool, reason string) {
	if n, ok := g.nodes[id]; ok {
		n.Failed = failed
		n.FailureReason = reason
	}
}

// IsFailed reports whether an operation is marked failed.
func (g *Graph) IsFailed(id OpID) bool {
	if n, ok := g.nodes[id]; ok {
		return n.Failed
	}
	return false
}

// FailureReason returns the recorded failure reason, or "" if none.
func (g *Graph) FailureReason(id OpID) string {
	if n, ok := g.nodes[id]; ok {
		return n.FailureReason
	}
	return ""
}

// GetFailedOps returns every operation currently marked failed.
func (g *Graph) GetFailedOps() []OpID {
	var out []OpID
	for id, n := range g.nodes {
		if n.Failed {
			out = append(out, id)
		}
	}
	return out
}

// ClearOperationFailures clears the failed flag and reason on every
// operation.
func (g *Graph) ClearOperationFailures() {
	for _, n := range g.nodes {
		n.Failed = false
		n.FailureReason = ""
	}
}

// String renders a short human-readable summary, useful in debug logs.
func (g *Graph) String() string {
	return fmt.Sprintf("features.Graph{nodes=%d, edges=%d}", len(g.nodes), len(g.forwardEdges))
}
