package features

import "testing"

func TestExtrudeThenFilletDependency(t *testing.T) {
	g := NewGraph()
	ops := []OperationRecord{
		{
			OpID:          "O1",
			Type:          OpExtrude,
			Input:         OpInput{SketchRegion: &SketchRegionRef{SketchID: "sk1"}},
			Params:        OpParams{Extrude: &ExtrudeParams{BooleanMode: BooleanNewBody}},
			ResultBodyIDs: []BodyID{"b1"},
		},
		{
			OpID:   "O2",
			Type:   OpFillet,
			Params: OpParams{Fillet: &FilletChamferParams{EdgeIDs: []EdgeRef{{BodyID: "b1", EdgeID: "e1"}}}},
			ResultBodyIDs: []BodyID{"b1"},
		},
	}
	g.RebuildFromOperations(ops)

	if down := g.GetDownstream("O1"); len(down) != 1 || down[0] != "O2" {
		t.Fatalf("GetDownstream(O1) = %v, want [O2]", down)
	}
	if up := g.GetUpstream("O2"); len(up) != 1 || up[0] != "O1" {
		t.Fatalf("GetUpstream(O2) = %v, want [O1]", up)
	}
	order := g.TopologicalSort()
	if len(order) != 2 || order[0] != "O1" || order[1] != "O2" {
		t.Fatalf("TopologicalSort = %v, want [O1 O2]", order)
	}
}

func TestShellDependencyViaFaceRef(t *testing.T) {
	g := NewGraph()
	ops := []OperationRecord{
		{OpID: "O1", Type: OpExtrude, ResultBodyIDs: []BodyID{"b1"}},
		{
			OpID:          "O2",
			Type:          OpShell,
			Params:        OpParams{Shell: &ShellParams{OpenFaceIDs: []FaceRef{{BodyID: "b1", FaceID: "f1"}}}},
			ResultBodyIDs: []BodyID{"b1"},
		},
	}
	g.RebuildFromOperations(ops)
	if down := g.GetDownstream("O1"); len(down) != 1 || down[0] != "O2" {
		t.Fatalf("GetDownstream(O1) = %v, want [O2]", down)
	}
}

func TestBooleanConsumesBothBodies(t *testing.T) {
	g := NewGraph()
	ops := []OperationRecord{
		{OpID: "O1", Type: OpExtrude, ResultBodyIDs: []BodyID{"b1"}},
		{OpID: "O2", Type: OpExtrude, ResultBodyIDs: []BodyID{"b2"}},
		{
			OpID:          "O3",
			Type:          OpBoolean,
			Params:        OpParams{Boolean: &BooleanParams{TargetBodyID: "b1", ToolBodyID: "b2"}},
			ResultBodyIDs: []BodyID{"b1"},
		},
	}
	g.RebuildFromOperations(ops)
	up := g.GetUpstream("O3")
	if len(up) != 2 {
		t.Fatalf("GetUpstream(O3) = %v, want 2 entries", up)
	}
	order := g.TopologicalSort()
	if len(order) != 3 || order[2] != "O3" {
		t.Fatalf("TopologicalSort = %v, want O3 last", order)
	}
}

func TestTopologicalSortTieBreaksByCreationOrder(t *testing.T) {
	g := NewGraph()
	ops := []OperationRecord{
		{OpID: "OB", Type: OpExtrude, ResultBodyIDs: []BodyID{"bB"}},
		{OpID: "OA", Type: OpExtrude, ResultBodyIDs: []BodyID{"bA"}},
	}
	g.RebuildFromOperations(ops)
	order := g.TopologicalSort()
	if len(order) != 2 || order[0] != "OB" || order[1] != "OA" {
		t.Fatalf("TopologicalSort = %v, want [OB OA] (creation order, no dependency)", order)
	}
}

func TestHasCycleIgnoresSelfReferencingBoolean(t *testing.T) {
	g := NewGraph()
	ops := []OperationRecord{
		{
			OpID:          "O1",
			Type:          OpBoolean,
			Params:        OpParams{Boolean: &BooleanParams{TargetBodyID: "b1", ToolBodyID: "b1"}},
			ResultBodyIDs: []BodyID{"b1"},
		},
	}
	g.RebuildFromOperations(ops)
	if g.HasCycle() {
		t.Fatal("single self-consuming op should not register as a cycle (no prior producer)")
	}
}

func TestSuppressDownstreamPropagates(t *testing.T) {
	g := NewGraph()
	ops := []OperationRecord{
		{OpID: "O1", Type: OpExtrude, ResultBodyIDs: []BodyID{"b1"}},
		{OpID: "O2", Type: OpFillet, Params: OpParams{Fillet: &FilletChamferParams{EdgeIDs: []EdgeRef{{BodyID: "b1", EdgeID: "e1"}}}}, ResultBodyIDs: []BodyID{"b1"}},
		{OpID: "O3", Type: OpFillet, Params: OpParams{Fillet: &FilletChamferParams{EdgeIDs: []EdgeRef{{BodyID: "b1", EdgeID: "e2"}}}}, ResultBodyIDs: []BodyID{"b1"}},
	}
	g.RebuildFromOperations(ops)

	g.SetSuppressed("O1", true)
	g.SuppressDownstream("O1")

	if !g.IsSuppressed("O2") || !g.IsSuppressed("O3") {
		t.Fatal("suppression did not propagate to downstream closure")
	}
}

func TestFailureTracking(t *testing.T) {
	g := NewGraph()
	g.RebuildFromOperations([]OperationRecord{
		{OpID: "O1", Type: OpExtrude, ResultBodyIDs: []BodyID{"b1"}},
	})
	g.SetFailed("O1", true, "degenerate profile")
	if !g.IsFailed("O1") {
		t.Fatal("IsFailed = false, want true")
	}
	if g.FailureReason("O1") != "degenerate profile" {
		t.Fatalf("FailureReason = %q", g.FailureReason("O1"))
	}
	failed := g.GetFailedOps()
	if len(failed) != 1 || failed[0] != "O1" {
		t.Fatalf("GetFailedOps = %v", failed)
	}
	g.ClearOperationFailures()
	if g.IsFailed("O1") {
		t.Fatal("ClearOperationFailures did not clear failed flag")
	}
}

func TestRemoveOperationDropsEdges(t *testing.T) {
	g := NewGraph()
	g.RebuildFromOperations([]OperationRecord{
		{OpID: "O1", Type: OpExtrude, ResultBodyIDs: []BodyID{"b1"}},
		{OpID: "O2", Type: OpFillet, Params: OpParams{Fillet: &FilletChamferParams{EdgeIDs: []EdgeRef{{BodyID: "b1", EdgeID: "e1"}}}}, ResultBodyIDs: []BodyID{"b1"}},
	})
	g.RemoveOperation("O1")
	if g.Node("O1") != nil {
		t.Fatal("removed node still present")
	}
	if down := g.GetDownstream("O2"); len(down) != 0 {
		t.Fatalf("GetDownstream(O2) after removing O1 = %v, want empty", down)
	}
}
