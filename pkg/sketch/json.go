package sketch

import (
	"encoding/json"
	"fmt"

	"github.com/onecad/sketchcore/pkg/geom2d"
	"github.com/onecad/sketchcore/pkg/sketcherr"
)

// jsonPlane mirrors the sketch's plane object.
type jsonPlane struct {
	Origin [3]float64 `json:"origin"`
	XAxis [3]float64 `json:"xAxis"`
	YAxis [3]float64 `json:"yAxis"`
	Normal [3]float64 `json:"normal"`
}

type jsonHostFace struct {
	BodyID string `json:"bodyId"`
	FaceID string `json:"faceId"`
	ProjectedBoundaryVersion int `json:"projectedBoundaryVersion"`
}

type jsonEntity struct {
	ID string `json:"id"`
	Type string `json:"type"`
	Construction bool `json:"construction"`
	ReferenceLocked bool `json:"referenceLocked"`
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Start string `json:"start,omitempty"`
	End string `json:"end,omitempty"`
	Center string `json:"center,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	StartAngle float64 `json:"startAngle,omitempty"`
	EndAngle float64 `json:"endAngle,omitempty"`
	MajorRadius float64 `json:"majorRadius,omitempty"`
	MinorRadius float64 `json:"minorRadius,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
}

type jsonConstraint struct {
	ID string `json:"id"`
	Type string `json:"type"`
	Entities []string `json:"entities"`
	Value float64 `json:"value,omitempty"`
	Position string `json:"position,omitempty"`
	FixedX float64 `json:"fixedX,omitempty"`
	FixedY float64 `json:"fixedY,omitempty"`
}

type jsonSketch struct {
	Version int `json:"version"`
	Plane jsonPlane `json:"plane"`
	HostFace *jsonHostFace `json:"hostFace,omitempty"`
	Entities []jsonEntity `json:"entities"`
	Constraints []jsonConstraint `json:"constraints"`
}

// HostFace describes the projected host-face boundary a sketch was
// created on, if any. Nil when the sketch has no host face.
type HostFace struct {
	BodyID string
	FaceID string
	ProjectedBoundaryVersion int
}

const sketchSchemaVersion = 1

// ToJSON serializes the sketch to the wire format.
func (s *Sketch) ToJSON(hostFace *HostFace) ([]byte, error) {
	doc := jsonSketch{
		Version: sketchSchemaVersion,
		Plane: jsonPlane{
			Origin: [3]float64{s.Plane.Origin.X, s.Plane.Origin.Y, s.Plane.Origin.Z},
			XAxis: [3]float64{s.Plane.XAxis.X, s.Plane.XAxis.Y, s.Plane.XAxis.Z},
			YAxis: [3]float64{s.Plane.YAxis.X, s.Plane.YAxis.Y, s.Plane.YAxis.Z},
			Normal: [3]float64{s.Plane.Normal.X, s.Plane.Normal.Y, s.Plane.Normal.Z},
		},
	}
	if hostFace != nil {
		doc.HostFace = &jsonHostFace{
			BodyID: hostFace.BodyID,
			FaceID: hostFace.FaceID,
			ProjectedBoundaryVersion: hostFace.ProjectedBoundaryVersion,
		}
	}
	for _, e := range s.entities {
		doc.Entities = append(doc.Entities, entityToJSON(e))
	}
	for _, c := range s.constraints {
		doc.Constraints = append(doc.Constraints, constraintToJSON(c))
	}
	return json.Marshal(doc)
}

func entityToJSON(e *Entity) jsonEntity {
	je := jsonEntity{
		ID: string(e.ID),
		Type: e.Type.String(),
		Construction: e.Construction,
		ReferenceLocked: e.ReferenceLocked,
	}
	switch e.Type {
	case TypePoint:
		je.X, je.Y = e.Pos.X, e.Pos.Y
	case TypeLine:
		je.Start, je.End = string(e.Start), string(e.End)
	case TypeArc:
		je.Center, je.Radius = string(e.Center), e.Radius
		je.StartAngle, je.EndAngle = e.StartAngle, e.EndAngle
	case TypeCircle:
		je.Center, je.Radius = string(e.Center), e.Radius
	case TypeEllipse:
		je.Center = string(e.Center)
		je.MajorRadius, je.MinorRadius, je.Rotation = e.MajorRadius, e.MinorRadius, e.Rotation
	}
	return je
}

func constraintToJSON(c *Constraint) jsonConstraint {
	jc := jsonConstraint{
		ID: string(c.ID),
		Type: c.Type.String(),
	}
	for _, e := range c.Entities {
		jc.Entities = append(jc.Entities, string(e))
	}
	if c.Type.IsDimensional() {
		jc.Value = c.Value
	}
	if c.Type == PointOnCurve {
		jc.Position = positionName(c.Position)
	}
	if c.Type == FixedPoint {
		jc.FixedX, jc.FixedY = c.FixedX, c.FixedY
	}
	return jc
}

func positionName(p PointOnCurvePosition) string {
	switch p {
	case PositionStart:
		return "Start"
	case PositionEnd:
		return "End"
	default:
		return "Arbitrary"
	}
}

func parsePosition(s string) PointOnCurvePosition {
	switch s {
	case "Start":
		return PositionStart
	case "End":
		return PositionEnd
	default:
		return PositionArbitrary
	}
}

func parseEntityType(s string) (EntityType, bool) {
	switch s {
	case "Point":
		return TypePoint, true
	case "Line":
		return TypeLine, true
	case "Arc":
		return TypeArc, true
	case "Circle":
		return TypeCircle, true
	case "Ellipse":
		return TypeEllipse, true
	default:
		return 0, false
	}
}

func parseConstraintType(s string) (ConstraintType, bool) {
	names := map[string]ConstraintType{
		"Coincident": Coincident, "Horizontal": Horizontal, "Vertical": Vertical,
		"Parallel": Parallel, "Perpendicular": Perpendicular, "Tangent": Tangent,
		"Equal": Equal, "Concentric": Concentric, "PointOnCurve": PointOnCurve,
		"Fixed": FixedPoint, "Distance": Distance, "Radius": Radius,
		"Diameter": Diameter, "Angle": Angle,
	}
	t, ok := names[s]
	return t, ok
}

// FromJSON deserializes a sketch from the wire format. On any
// malformed element it returns (nil, nil, error) with no partial sketch
// constructed. The returned *HostFace is nil if the document carried none.
func FromJSON(data []byte) (*Sketch, *HostFace, error) {
	var doc jsonSketch
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", sketcherr.ErrParse, err)
	}
	if doc.Version != sketchSchemaVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", sketcherr.ErrParse, doc.Version)
	}

	s := NewSketch()
	s.Plane = geom2d.Plane{
		Origin: geom2d.Vec3{X: doc.Plane.Origin[0], Y: doc.Plane.Origin[1], Z: doc.Plane.Origin[2]},
		XAxis: geom2d.Vec3{X: doc.Plane.XAxis[0], Y: doc.Plane.XAxis[1], Z: doc.Plane.XAxis[2]},
		YAxis: geom2d.Vec3{X: doc.Plane.YAxis[0], Y: doc.Plane.YAxis[1], Z: doc.Plane.YAxis[2]},
		Normal: geom2d.Vec3{X: doc.Plane.Normal[0], Y: doc.Plane.Normal[1], Z: doc.Plane.Normal[2]},
	}

	maxSuffix := 0
	for _, je := range doc.Entities {
		t, ok := parseEntityType(je.Type)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown entity type %q", sketcherr.ErrParse, je.Type)
		}
		e := &Entity{
			ID: EntityID(je.ID),
			Type: t,
			Construction: je.Construction,
			ReferenceLocked: je.ReferenceLocked,
			Pos: geom2d.Vec2{X: je.X, Y: je.Y},
			Start: EntityID(je.Start),
			End: EntityID(je.End),
			Center: EntityID(je.Center),
			Radius: je.Radius,
			StartAngle: je.StartAngle,
			EndAngle: je.EndAngle,
			MajorRadius: je.MajorRadius,
			MinorRadius: je.MinorRadius,
			Rotation: je.Rotation,
		}
		if e.ID == "" {
			return nil, nil, fmt.Errorf("%w: entity with empty id", sketcherr.ErrParse)
		}
		if _, exists := s.entityIndex[e.ID]; exists {
			return nil, nil, fmt.Errorf("%w: duplicate entity id %q", sketcherr.ErrParse, e.ID)
		}
		s.insertEntity(e)
		if n, ok := parseIDSuffix(string(e.ID)); ok && n > maxSuffix {
			maxSuffix = n
		}
	}
	// rebuild back-pointers now that every entity exists
	for _, e := range s.entities {
		switch e.Type {
		case TypeLine:
			sp, ep := s.Entity(e.Start), s.Entity(e.End)
			if sp == nil || ep == nil {
				return nil, nil, fmt.Errorf("%w: line %q references missing endpoint", sketcherr.ErrParse, e.ID)
			}
			sp.addConnection(e.ID)
			ep.addConnection(e.ID)
		case TypeArc, TypeCircle, TypeEllipse:
			cp := s.Entity(e.Center)
			if cp == nil {
				return nil, nil, fmt.Errorf("%w: %s %q references missing center", sketcherr.ErrParse, e.Type, e.ID)
			}
			cp.addConnection(e.ID)
		}
	}

	for _, jc := range doc.Constraints {
		t, ok := parseConstraintType(jc.Type)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown constraint type %q", sketcherr.ErrParse, jc.Type)
		}
		c := &Constraint{
			ID: ConstraintID(jc.ID),
			Type: t,
			Value: jc.Value,
			Position: parsePosition(jc.Position),
			FixedX: jc.FixedX,
			FixedY: jc.FixedY,
		}
		for _, eid := range jc.Entities {
			c.Entities = append(c.Entities, EntityID(eid))
			if s.Entity(EntityID(eid)) == nil {
				return nil, nil, fmt.Errorf("%w: constraint %q references missing entity %q", sketcherr.ErrParse, c.ID, eid)
			}
		}
		if c.ID == "" {
			return nil, nil, fmt.Errorf("%w: constraint with empty id", sketcherr.ErrParse)
		}
		if _, exists := s.constraintIndex[c.ID]; exists {
			return nil, nil, fmt.Errorf("%w: duplicate constraint id %q", sketcherr.ErrParse, c.ID)
		}
		s.constraintIndex[c.ID] = len(s.constraints)
		s.constraints = append(s.constraints, c)
		if n, ok := parseIDSuffix(string(c.ID)); ok && n > maxSuffix {
			maxSuffix = n
		}
	}

	s.nextEntityID = maxSuffix
	s.nextConstraintID = maxSuffix
	s.markDirty()

	var hf *HostFace
	if doc.HostFace != nil {
		hf = &HostFace{
			BodyID: doc.HostFace.BodyID,
			FaceID: doc.HostFace.FaceID,
			ProjectedBoundaryVersion: doc.HostFace.ProjectedBoundaryVersion,
		}
	}
	return s, hf, nil
}

func parseIDSuffix(id string) (int, bool) {
	if len(id) < 2 {
		return 0, false
	}
	n := 0
	for _, r := range id[1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
