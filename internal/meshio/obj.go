package meshio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
)

// WriteOBJ writes the hitbox set as Wavefront OBJ geometry: one named
// object per box, eight vertices and six quad faces each.
func WriteOBJ(w io.Writer, set hitbox.Set) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d hitboxes\n", len(set))

	for i, box := range set {
		fmt.Fprintf(bw, "o hitbox_%d\n", i)
		for _, c := range box.Corners() {
			fmt.Fprintf(bw, "v %g %g %g\n", c.X, c.Y, c.Z)
		}
		base := i * 8 // OBJ indices are 1-based and global across objects
		for _, q := range boxQuads {
			fmt.Fprintf(bw, "f %d %d %d %d\n",
				base+q.idx[0]+1, base+q.idx[1]+1, base+q.idx[2]+1, base+q.idx[3]+1)
		}
	}
	return bw.Flush()
}

// ExportOBJ writes the set to an OBJ file at path.
func ExportOBJ(path string, set hitbox.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
