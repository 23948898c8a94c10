package points

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"nerfscan/pointcloud"
)

var ErrChunkMismatch = errors.New("points: point and color chunks differ in length")

// An Accumulator grows a point cloud one frame at a time. It is mutated only
// by the controlling render loop and needs no locking.
type Accumulator struct {
	verts  []mgl32.Vec3
	rgb    []mgl32.Vec3
	chunks int
}

// Create a new empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append adds one frame worth of points and colors. Chunks are kept in call
// order; no deduplication or spatial filtering is applied.
func (acc *Accumulator) Append(verts, rgb []mgl32.Vec3) error {
	if len(verts) != len(rgb) {
		return fmt.Errorf("%w: %d points vs %d colors", ErrChunkMismatch, len(verts), len(rgb))
	}

	acc.verts = append(acc.verts, verts...)
	acc.rgb = append(acc.rgb, rgb...)
	acc.chunks++
	return nil
}

// Chunks reports the number of Append calls so far.
func (acc *Accumulator) Chunks() int {
	return acc.chunks
}

// Finalize returns the concatenation of all appended chunks in append order.
func (acc *Accumulator) Finalize() *pointcloud.PointCloud {
	return &pointcloud.PointCloud{Verts: acc.verts, RGB: acc.rgb}
}
