package meshio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
)

// TrianglesPerBox is the triangle count of one box solid: six quad
// faces split into two triangles each.
const TrianglesPerBox = 12

// WriteSTL writes the hitbox set as a binary STL solid: an 80-byte
// header, a little-endian uint32 triangle count, then 50 bytes per
// triangle (normal, three vertices, attribute word).
func WriteSTL(w io.Writer, set hitbox.Set) error {
	var header [80]byte
	copy(header[:], fmt.Sprintf("hitbox set: %d boxes", len(set)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(set)*TrianglesPerBox)); err != nil {
		return err
	}

	for _, box := range set {
		corners := box.Corners()
		for _, q := range boxQuads {
			// Quad (a,b,c,d) splits into triangles (a,b,c) and (a,c,d).
			tris := [2][3]int{
				{q.idx[0], q.idx[1], q.idx[2]},
				{q.idx[0], q.idx[2], q.idx[3]},
			}
			for _, tri := range tris {
				rec := [12]float32{
					float32(q.normal.X), float32(q.normal.Y), float32(q.normal.Z),
				}
				for v, ci := range tri {
					rec[3+v*3] = float32(corners[ci].X)
					rec[3+v*3+1] = float32(corners[ci].Y)
					rec[3+v*3+2] = float32(corners[ci].Z)
				}
				if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
					return err
				}
				if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ExportSTL writes the set to a binary STL file at path.
func ExportSTL(path string, set hitbox.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSTL(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
