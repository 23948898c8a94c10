package pointcloud

import (
	"bufio"
	"fmt"
	"os"
)

// WritePCD republishes the point cloud in the PCD v0.7 interchange format
// with points and colors as parallel float fields. The conversion is
// one-directional; nothing in the render path reads PCD files back.
func WritePCD(path string, pc *PointCloud) error {
	logger.Noticef("writing %d points to %s", pc.Len(), path)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# .PCD v0.7 - Point Cloud Data file format\n")
	fmt.Fprintf(w, "VERSION 0.7\n")
	fmt.Fprintf(w, "FIELDS x y z r g b\n")
	fmt.Fprintf(w, "SIZE 4 4 4 4 4 4\n")
	fmt.Fprintf(w, "TYPE F F F F F F\n")
	fmt.Fprintf(w, "COUNT 1 1 1 1 1 1\n")
	fmt.Fprintf(w, "WIDTH %d\n", pc.Len())
	fmt.Fprintf(w, "HEIGHT 1\n")
	fmt.Fprintf(w, "VIEWPOINT 0 0 0 1 0 0 0\n")
	fmt.Fprintf(w, "POINTS %d\n", pc.Len())
	fmt.Fprintf(w, "DATA ascii\n")

	for i, v := range pc.Verts {
		c := pc.RGB[i]
		fmt.Fprintf(w, "%g %g %g %g %g %g\n", v[0], v[1], v[2], c[0], c[1], c[2])
	}

	return w.Flush()
}
