package sketch

import (
	"fmt"
	"strings"
)

// FindingSeverity splits diagnostics into hard and soft findings: an
// Error finding means the sketch cannot be solved or saved as-is; a
// Warning is informational (orphan geometry, a near-degenerate entity)
// and never blocks anything.
type FindingSeverity int

const (
	SeverityWarning FindingSeverity = iota
	SeverityError
)

func (s FindingSeverity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Finding is one diagnostic observation about a sketch, keyed by
// Kind/Severity/Details rather than by a constraint expression string.
type Finding struct {
	Severity FindingSeverity
	Kind     string
	EntityID EntityID
	Details  string
}

// DiagnosticReport summarizes a sketch's health: DOF accounting plus a
// flat list of findings (a sketch has no hard/soft scoring axis, so
// errors and warnings share one Findings slice).
type DiagnosticReport struct {
	DegreesOfFreedom int
	OverConstrained  bool
	Findings         []Finding
}

// HasErrors reports whether any finding is SeverityError.
func (r *DiagnosticReport) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns only the SeverityWarning findings.
func (r *DiagnosticReport) Warnings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			out = append(out, f)
		}
	}
	return out
}

// Diagnose runs a battery of structural checks over s and returns a
// report a UI status bar or a CLI can surface directly. It never
// mutates s.
func Diagnose(s *Sketch) *DiagnosticReport {
	report := &DiagnosticReport{
		DegreesOfFreedom: s.GetDegreesOfFreedom(),
		OverConstrained:  s.IsOverConstrained(),
	}

	if report.OverConstrained {
		report.Findings = append(report.Findings, Finding{
			Severity: SeverityError,
			Kind:     "over_constrained",
			Details:  "constraint DOF removal exceeds entity DOF",
		})
	}

	for _, e := range s.Entities() {
		if e.Type == TypePoint && len(e.ConnectedEntities()) == 0 {
			report.Findings = append(report.Findings, Finding{
				Severity: SeverityWarning,
				Kind:     "orphan_point",
				EntityID: e.ID,
				Details:  fmt.Sprintf("point %s is not referenced by any curve", e.ID),
			})
		}
		if d := degenerateDetail(s, e); d != "" {
			report.Findings = append(report.Findings, Finding{
				Severity: SeverityWarning,
				Kind:     "degenerate_entity",
				EntityID: e.ID,
				Details:  d,
			})
		}
	}

	return report
}

// degenerateDetail flags entities whose geometric extent has collapsed
// to (near) zero. Returns "" when e is well-formed.
func degenerateDetail(s *Sketch, e *Entity) string {
	const eps = 1e-9
	switch e.Type {
	case TypeLine:
		a, b := s.PointPosition(e.Start), s.PointPosition(e.End)
		if a.Sub(b).Length() < eps {
			return fmt.Sprintf("line %s has zero length", e.ID)
		}
	case TypeCircle:
		if e.Radius < eps {
			return fmt.Sprintf("circle %s has zero radius", e.ID)
		}
	case TypeArc:
		if e.Radius < eps {
			return fmt.Sprintf("arc %s has zero radius", e.ID)
		}
		if absAngleSpan(e.StartAngle, e.EndAngle) < eps {
			return fmt.Sprintf("arc %s has zero angular span", e.ID)
		}
	case TypeEllipse:
		if e.MajorRadius < eps || e.MinorRadius < eps {
			return fmt.Sprintf("ellipse %s has a zero radius", e.ID)
		}
	}
	return ""
}

func absAngleSpan(start, end float64) float64 {
	span := end - start
	if span < 0 {
		span = -span
	}
	return span
}

// Summary renders a report as human-readable text: a status line
// followed by one section per finding category.
func Summary(r *DiagnosticReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Sketch Diagnostics ===\n\n")
	fmt.Fprintf(&b, "Degrees of freedom: %d\n", r.DegreesOfFreedom)
	if r.OverConstrained {
		b.WriteString("Status: OVER-CONSTRAINED\n")
	} else {
		b.WriteString("Status: OK\n")
	}

	errs := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			errs++
		}
	}
	if errs > 0 {
		fmt.Fprintf(&b, "\n=== Errors ===\n")
		for i, f := range r.Findings {
			if f.Severity != SeverityError {
				continue
			}
			fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, f.Kind, f.Details)
		}
	}

	warnings := r.Warnings()
	if len(warnings) > 0 {
		fmt.Fprintf(&b, "\n=== Warnings ===\n")
		for i, f := range warnings {
			fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, f.Kind, f.Details)
		}
	}

	return b.String()
}
