package sketch

import "testing"

func TestDiagnose_FlagsOrphanPoint(t *testing.T) {
	s := NewSketch()
	pid := s.AddPoint(5, 5, false)

	report := Diagnose(s)
	if len(report.Warnings()) != 1 {
		t.Fatalf("Warnings() = %d, want 1", len(report.Warnings()))
	}
	f := report.Warnings()[0]
	if f.Kind != "orphan_point" || f.EntityID != pid {
		t.Errorf("got finding %+v, want orphan_point for %s", f, pid)
	}
}

func TestDiagnose_NoFindingsForConnectedLine(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	s.AddLine(p1, p2, false)

	report := Diagnose(s)
	if len(report.Findings) != 0 {
		t.Errorf("Findings = %+v, want none", report.Findings)
	}
}

func TestDiagnose_FlagsZeroLengthLine(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(3, 3, false)
	p2 := s.AddPoint(3, 3, false)
	lid := s.AddLine(p1, p2, false)

	report := Diagnose(s)
	found := false
	for _, f := range report.Findings {
		if f.Kind == "degenerate_entity" && f.EntityID == lid {
			found = true
		}
	}
	if !found {
		t.Errorf("Findings = %+v, want a degenerate_entity finding for %s", report.Findings, lid)
	}
}

func TestDiagnose_ReportsOverConstrained(t *testing.T) {
	s := NewSketch()
	p1 := s.AddPoint(0, 0, false)
	p2 := s.AddPoint(10, 0, false)
	lid := s.AddLine(p1, p2, false)
	for i := 0; i < 5; i++ {
		s.AddConstraint(Constraint{Type: Horizontal, Entities: []EntityID{lid}})
	}

	report := Diagnose(s)
	if !report.OverConstrained {
		t.Error("OverConstrained = false, want true after redundant constraints")
	}
	if !report.HasErrors() {
		t.Error("HasErrors() = false, want true for an over-constrained sketch")
	}
}

func TestSummary_IncludesDOFAndStatus(t *testing.T) {
	s := NewSketch()
	s.AddPoint(1, 1, false)
	out := Summary(Diagnose(s))
	if out == "" {
		t.Fatal("Summary() returned empty string")
	}
}
