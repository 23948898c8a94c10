package pointcloud

import "github.com/go-gl/mathgl/mgl32"

// A PointCloud holds two index-aligned sequences: one vertex position and
// one color triple per point. Colors are stored exactly as produced by the
// renderer; no normalization is applied on either the write or the read path.
type PointCloud struct {
	Verts []mgl32.Vec3
	RGB   []mgl32.Vec3
}

// Number of points in the cloud.
func (pc *PointCloud) Len() int {
	return len(pc.Verts)
}
