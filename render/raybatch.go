package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"nerfscan/scene"
)

// A RayBatch covers every pixel a camera defines: parallel origin/direction
// arrays in row-major pixel order plus per-ray conditioning metadata. Values
// are immutable once built.
type RayBatch struct {
	W, H       int
	Origins    []mgl32.Vec3
	Directions []mgl32.Vec3
	Appearance []uint32
	Warp       []uint32
}

// Number of rays in the batch.
func (b *RayBatch) Len() int {
	return len(b.Origins)
}

// BuildRayBatch converts a camera into a ray batch. Evaluation disables
// appearance and warp variation, so the conditioning metadata defaults to
// the zero value for every ray.
func BuildRayBatch(cam *scene.Camera) (*RayBatch, error) {
	origins, directions := cam.Rays()
	w, h := cam.Width(), cam.Height()

	switch {
	case len(origins) == 0:
		return nil, fmt.Errorf("%w: no rays generated", ErrInvalidCamera)
	case len(origins) != len(directions):
		return nil, fmt.Errorf("%w: %d origins vs %d directions", ErrInvalidCamera, len(origins), len(directions))
	case len(origins) != w*h:
		return nil, fmt.Errorf("%w: %d rays for a %dx%d grid", ErrInvalidCamera, len(origins), w, h)
	}

	return &RayBatch{
		W:          w,
		H:          h,
		Origins:    origins,
		Directions: directions,
		Appearance: make([]uint32, w*h),
		Warp:       make([]uint32, w*h),
	}, nil
}
