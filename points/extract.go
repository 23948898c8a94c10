// Package points reduces per-ray volumetric render samples to surface points.
package points

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
)

// OpaquenessMask marks, for every ray, the sample at which the cumulative
// sample weight first reaches tau. weights is a flat [rays*samples] array;
// the returned mask has the same layout. A ray whose cumulative weight never
// reaches tau gets an all-false mask.
func OpaquenessMask(weights []float64, samples int, tau float64) []bool {
	mask := make([]bool, len(weights))
	if samples == 0 {
		return mask
	}

	cum := make([]float64, samples)
	for base := 0; base < len(weights); base += samples {
		floats.CumSum(cum, weights[base:base+samples])

		for s := 0; s < samples; s++ {
			if cum[s] >= tau {
				mask[base+s] = true
				break
			}
		}
	}
	return mask
}

// Extract collapses the sample axis of a rendered frame into one surface
// point per ray. positions is a flat [rays*samples] array of sample
// positions, weights the matching per-sample weights and colors the per-ray
// predicted colors. The point is the mask-weighted sum of sample positions:
// a ray that never reaches the opaqueness threshold degenerates to the zero
// point, which downstream consumers treat as a low-confidence background
// point under the black-background compositing convention.
func Extract(positions []mgl32.Vec3, weights []float64, colors []mgl32.Vec3, samples int, tau float64) ([]mgl32.Vec3, []mgl32.Vec3) {
	rays := len(colors)
	mask := OpaquenessMask(weights, samples, tau)

	verts := make([]mgl32.Vec3, rays)
	rgb := make([]mgl32.Vec3, rays)
	for r := 0; r < rays; r++ {
		var pt mgl32.Vec3
		base := r * samples
		for s := 0; s < samples; s++ {
			if mask[base+s] {
				pt = pt.Add(positions[base+s])
			}
		}
		verts[r] = pt
		rgb[r] = colors[r]
	}
	return verts, rgb
}
