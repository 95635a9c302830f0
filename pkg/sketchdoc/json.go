package sketchdoc

import (
	"encoding/json"
	"fmt"

	"github.com/onecad/sketchcore/pkg/sketch"
)

// jsonSketchEntry is one element of the document's sketches array: an ID,
// a display name, and the nested sketch object from pkg/sketch's own
// codec ("Document JSON wraps a sketches array, each with
// id, name, data (a nested sketch object)").
type jsonSketchEntry struct {
	ID string `json:"id"`
	Name string `json:"name"`
	Data json.RawMessage `json:"data"`
}

type jsonDocument struct {
	Version int `json:"version"`
	NextSketchNumber int `json:"nextSketchNumber"`
	Sketches []jsonSketchEntry `json:"sketches"`
}

const documentJSONVersion = 1

// ToJSON serializes the document's sketches (not its bodies or
// operations, which belong to the out-of-scope B-Rep/history layers) to
// the document JSON format.
func (d *Document) ToJSON() ([]byte, error) {
	out := jsonDocument{
		Version: documentJSONVersion,
		NextSketchNumber: d.nextSketchNumber,
		Sketches: make([]jsonSketchEntry, 0, len(d.skOrder)),
	}
	for _, id := range d.skOrder {
		rec := d.sketches[id]
		raw, err := rec.Data.ToJSON(nil)
		if err != nil {
			return nil, fmt.Errorf("sketchdoc: encode sketch %s: %w", id, err)
		}
		out.Sketches = append(out.Sketches, jsonSketchEntry{
			ID: string(id),
			Name: rec.Name,
			Data: raw,
		})
	}
	return json.Marshal(out)
}

// FromJSON parses a document JSON payload into a fresh Document. On any
// malformed element it returns (nil, err) without producing a partial
// document, matching pkg/sketch.FromJSON's all-or-nothing contract.
func FromJSON(data []byte) (*Document, error) {
	var in jsonDocument
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("sketchdoc: parse document: %w", err)
	}
	if in.Version != documentJSONVersion {
		return nil, fmt.Errorf("sketchdoc: unsupported document version %d", in.Version)
	}

	d := NewDocument()
	d.nextSketchNumber = in.NextSketchNumber
	if d.nextSketchNumber < 1 {
		d.nextSketchNumber = 1
	}

	for _, entry := range in.Sketches {
		if entry.ID == "" {
			return nil, fmt.Errorf("sketchdoc: sketch entry missing id")
		}
		sk, _, err := sketch.FromJSON(entry.Data)
		if err != nil {
			return nil, fmt.Errorf("sketchdoc: decode sketch %s: %w", entry.ID, err)
		}
		id := SketchID(entry.ID)
		d.sketches[id] = &SketchRecord{ID: id, Name: entry.Name, Data: sk, Visible: true}
		d.skOrder = append(d.skOrder, id)
	}
	return d, nil
}
