package hitbox

import (
	"encoding/json"
	"os"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/geom"
)

// Set is the engine's output artifact: an ordered collection of boxes in
// cluster iteration order. A Set is created atomically at job completion
// and never mutated afterwards.
type Set []geom.Box

// setJSON is the persisted artifact wrapper:
// {"hitboxes": [[[minx,miny,minz],[maxx,maxy,maxz]], ...]}
type setJSON struct {
	Hitboxes []geom.Box `json:"hitboxes"`
}

// MarshalJSON encodes the set in its persisted artifact form. An empty
// or nil set encodes as an empty hitboxes array.
func (s Set) MarshalJSON() ([]byte, error) {
	boxes := []geom.Box(s)
	if boxes == nil {
		boxes = []geom.Box{}
	}
	return json.Marshal(setJSON{Hitboxes: boxes})
}

// UnmarshalJSON decodes the persisted artifact form.
func (s *Set) UnmarshalJSON(data []byte) error {
	var wire setJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = wire.Hitboxes
	return nil
}

// SaveFile writes the set to path as an indented JSON artifact.
func (s Set) SaveFile(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadSetFile reads a JSON artifact previously written by SaveFile (or
// any producer of the same format).
func LoadSetFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Set
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return s, nil
}
