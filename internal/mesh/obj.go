package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/geom"
)

// LoadOBJ reads a Wavefront OBJ file from disk and validates the result.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return m, nil
}

// ParseOBJ parses Wavefront OBJ geometry from r. Only vertex positions
// ("v") and faces ("f") are consumed; normals, texture coordinates,
// materials, and grouping directives are skipped. Polygon faces are
// triangulated as a fan around their first vertex.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var coords [3]float64
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad vertex coordinate %q", lineNo, fields[i+1])
				}
				coords[i] = c
			}
			m.Vertices = append(m.Vertices, geom.Point{X: coords[0], Y: coords[1], Z: coords[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := parseFaceIndex(ref, len(m.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			// Fan triangulation for quads and larger polygons
			for i := 1; i+1 < len(idx); i++ {
				m.Faces = append(m.Faces, Face{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// parseFaceIndex resolves one face vertex reference ("7", "7/2", "7/2/5",
// "7//5", or a negative relative index) to a zero-based vertex index.
func parseFaceIndex(ref string, nVertices int) (int32, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	v, err := strconv.Atoi(ref)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("bad face index %q", ref)
	}
	if v < 0 {
		v = nVertices + v // relative to the most recently declared vertex
	} else {
		v-- // OBJ indices are 1-based
	}
	if v < 0 || v >= nVertices {
		return 0, fmt.Errorf("face index %q out of range (%d vertices declared)", ref, nVertices)
	}
	return int32(v), nil
}
