package meshio

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/geom"
	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
)

func sampleSet() hitbox.Set {
	return hitbox.Set{
		{Min: geom.Point{X: 0, Y: 0, Z: 0}, Max: geom.Point{X: 1, Y: 1, Z: 1}},
		{Min: geom.Point{X: 10, Y: 0, Z: 0}, Max: geom.Point{X: 11, Y: 1, Z: 1}},
	}
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, sampleSet()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "# 2 hitboxes\n") {
		t.Errorf("missing box count header:\n%s", out)
	}
	if got := strings.Count(out, "\nv "); got != 16 {
		t.Errorf("expected 16 vertex lines, got %d", got)
	}
	if got := strings.Count(out, "\nf "); got != 12 {
		t.Errorf("expected 12 face lines, got %d", got)
	}
	if !strings.Contains(out, "o hitbox_0\n") || !strings.Contains(out, "o hitbox_1\n") {
		t.Error("missing per-box object names")
	}
	// Second box's faces must reference the second vertex block (indices 9-16).
	if !strings.Contains(out, "f 9 12 11 10\n") {
		t.Errorf("second box faces not offset correctly:\n%s", out)
	}
}

func TestWriteOBJEmptySet(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# 0 hitboxes") {
		t.Errorf("unexpected output for empty set: %q", buf.String())
	}
}

func TestWriteSTL(t *testing.T) {
	set := sampleSet()
	var buf bytes.Buffer
	if err := WriteSTL(&buf, set); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data := buf.Bytes()

	wantTris := len(set) * TrianglesPerBox
	wantLen := 80 + 4 + wantTris*50
	if len(data) != wantLen {
		t.Fatalf("STL length %d, want %d", len(data), wantLen)
	}

	count := binary.LittleEndian.Uint32(data[80:84])
	if int(count) != wantTris {
		t.Errorf("triangle count %d, want %d", count, wantTris)
	}

	// Every triangle vertex must lie inside its source box.
	off := 84
	for b, box := range set {
		for tri := 0; tri < TrianglesPerBox; tri++ {
			rec := data[off : off+50]
			for v := 0; v < 3; v++ {
				p := geom.Point{
					X: float64(f32(rec[12+v*12:])),
					Y: float64(f32(rec[12+v*12+4:])),
					Z: float64(f32(rec[12+v*12+8:])),
				}
				if !box.Contains(p) {
					t.Fatalf("box %d triangle %d vertex %+v outside box %+v", b, tri, p, box)
				}
			}
			off += 50
		}
	}
}

func f32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
