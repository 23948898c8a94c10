// Package field implements the scene-model collaborator consumed by the
// render executor: a dense trilinear voxel radiance field evaluated with
// two-pass hierarchical ray sampling. The sampling pipeline only ever sees
// it through the render.RenderFn contract.
package field

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"nerfscan/model"
	"nerfscan/render"
)

var ErrBadField = errors.New("field: malformed field parameters")

// The field occupies the axis-aligned cube [-fieldExtent, fieldExtent]^3.
const fieldExtent = 1.0

// A grid is a read-only view over the voxel tensors of one parameter
// replica. Building one is cheap; no tensor data is copied.
type grid struct {
	res     int
	density []float64
	color   []float64
	warp    []float64
}

func newGrid(params model.Params) (*grid, error) {
	density, ok := params["density"]
	if !ok {
		return nil, fmt.Errorf("%w: missing density tensor", ErrBadField)
	}

	res := int(math.Round(math.Cbrt(float64(len(density)))))
	if res < 1 || res*res*res != len(density) {
		return nil, fmt.Errorf("%w: density length %d is not a cube", ErrBadField, len(density))
	}

	color, ok := params["color"]
	if !ok {
		return nil, fmt.Errorf("%w: missing color tensor", ErrBadField)
	}
	if len(color) != 3*len(density) {
		return nil, fmt.Errorf("%w: color length %d does not match %d voxels", ErrBadField, len(color), len(density))
	}

	g := &grid{res: res, density: density, color: color}
	if warp, ok := params["warp"]; ok {
		if len(warp) != len(color) {
			return nil, fmt.Errorf("%w: warp length %d does not match %d voxels", ErrBadField, len(warp), len(density))
		}
		g.warp = warp
	}
	return g, nil
}

// RenderFn builds the scene-model capability for the given depth bounds and
// per-ray sample budget. The first half of the budget is spent on a coarse
// stratified pass over [near, far]; the second half refines the interval
// around the coarse surface estimate.
func RenderFn(near, far float64, samples int) render.RenderFn {
	if samples < 2 {
		samples = 2
	}
	coarseN := samples / 2
	fineN := samples - coarseN

	return func(params model.Params, rays render.RayShard, cond render.Conditioning, warpAlpha float64, rng *render.Stream2) (*render.ShardOutput, error) {
		g, err := newGrid(params)
		if err != nil {
			return nil, err
		}

		nRays := len(rays.Origins)
		out := &render.ShardOutput{
			Samples:     samples,
			Colors:      make([]mgl32.Vec3, nRays),
			Depth:       make([]float64, nRays),
			DepthMedian: make([]float64, nRays),
			Acc:         make([]float64, nRays),
			Positions:   make([]mgl32.Vec3, nRays*samples),
			Weights:     make([]float64, nRays*samples),
		}

		ts := make([]float64, 0, samples)
		for r := 0; r < nRays; r++ {
			origin := rays.Origins[r]
			dir := rays.Directions[r]

			// Coarse pass: stratified over the full depth range.
			ts = ts[:0]
			binW := (far - near) / float64(coarseN)
			for i := 0; i < coarseN; i++ {
				ts = append(ts, near+(float64(i)+rng.Coarse.Float64())*binW)
			}

			// Locate the coarse surface estimate, then refine around it.
			fineLo, fineHi := near, far
			if tm, ok := g.surfaceEstimate(origin, dir, ts, warpAlpha); ok {
				fineLo = math.Max(near, tm-binW)
				fineHi = math.Min(far, tm+binW)
			}
			fineW := (fineHi - fineLo) / float64(fineN)
			for i := 0; i < fineN; i++ {
				ts = append(ts, fineLo+(float64(i)+rng.Fine.Float64())*fineW)
			}
			sort.Float64s(ts)

			g.composite(origin, dir, ts, warpAlpha, out, r)
		}
		return out, nil
	}
}

// composite integrates the field along one ray at the given depths, writing
// the per-ray and per-sample outputs at ray index r.
func (g *grid) composite(origin, dir mgl32.Vec3, ts []float64, warpAlpha float64, out *render.ShardOutput, r int) {
	samples := len(ts)
	base := r * samples

	transmittance := 1.0
	var colR, colG, colB, depth, acc float64
	for i, t := range ts {
		delta := (ts[len(ts)-1] - ts[0]) / float64(samples)
		if i+1 < samples {
			delta = ts[i+1] - t
		}

		p := g.warpPoint(at(origin, dir, t), warpAlpha)
		sigma := g.densityAt(p)
		cr, cg, cb := g.colorAt(p)

		alpha := 1 - math.Exp(-sigma*delta)
		w := transmittance * alpha
		transmittance *= 1 - alpha

		colR += w * cr
		colG += w * cg
		colB += w * cb
		depth += w * t
		acc += w

		out.Positions[base+i] = p
		out.Weights[base+i] = w
	}

	out.Colors[r] = mgl32.Vec3{float32(colR), float32(colG), float32(colB)}
	out.Depth[r] = depth
	out.Acc[r] = acc

	// Median depth: the first sample past half of the accumulated weight.
	if acc > 0 {
		var cum float64
		for i, t := range ts {
			cum += out.Weights[base+i]
			if cum >= 0.5*acc {
				out.DepthMedian[r] = t
				break
			}
		}
	}
}

// surfaceEstimate runs a lightweight density march over the coarse depths
// and reports the depth at which accumulated opacity first exceeds one half.
func (g *grid) surfaceEstimate(origin, dir mgl32.Vec3, ts []float64, warpAlpha float64) (float64, bool) {
	transmittance := 1.0
	var cum float64
	for i, t := range ts {
		delta := 0.0
		if i+1 < len(ts) {
			delta = ts[i+1] - t
		} else if len(ts) > 1 {
			delta = ts[i] - ts[i-1]
		}

		p := g.warpPoint(at(origin, dir, t), warpAlpha)
		alpha := 1 - math.Exp(-g.densityAt(p)*delta)
		cum += transmittance * alpha
		transmittance *= 1 - alpha
		if cum >= 0.5 {
			return t, true
		}
	}
	return 0, false
}

// warpPoint displaces a sample by the deformation field, scaled by the
// warp-alpha schedule value. Identity when the field carries no warp tensor.
func (g *grid) warpPoint(p mgl32.Vec3, warpAlpha float64) mgl32.Vec3 {
	if g.warp == nil || warpAlpha == 0 {
		return p
	}
	dx, dy, dz := g.sampleVec3(g.warp, p)
	return mgl32.Vec3{
		p[0] + float32(warpAlpha*dx),
		p[1] + float32(warpAlpha*dy),
		p[2] + float32(warpAlpha*dz),
	}
}

func (g *grid) densityAt(p mgl32.Vec3) float64 {
	v := g.sampleScalar(g.density, p)
	if v < 0 {
		return 0
	}
	return v
}

func (g *grid) colorAt(p mgl32.Vec3) (r, gc, b float64) {
	r, gc, b = g.sampleVec3(g.color, p)
	return clamp01(r), clamp01(gc), clamp01(b)
}

// Trilinear interpolation of a scalar voxel tensor. Points outside the
// field cube sample as zero.
func (g *grid) sampleScalar(tensor []float64, p mgl32.Vec3) float64 {
	x, y, z, ok := g.voxelCoords(p)
	if !ok {
		return 0
	}

	x0, y0, z0 := int(x), int(y), int(z)
	fx, fy, fz := x-float64(x0), y-float64(y0), z-float64(z0)

	var v float64
	for dz := 0; dz <= 1; dz++ {
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				wx := lerpWeight(fx, dx)
				wy := lerpWeight(fy, dy)
				wz := lerpWeight(fz, dz)
				v += wx * wy * wz * tensor[g.voxelIndex(x0+dx, y0+dy, z0+dz)]
			}
		}
	}
	return v
}

// Trilinear interpolation of an interleaved xyz voxel tensor.
func (g *grid) sampleVec3(tensor []float64, p mgl32.Vec3) (vx, vy, vz float64) {
	x, y, z, ok := g.voxelCoords(p)
	if !ok {
		return 0, 0, 0
	}

	x0, y0, z0 := int(x), int(y), int(z)
	fx, fy, fz := x-float64(x0), y-float64(y0), z-float64(z0)

	for dz := 0; dz <= 1; dz++ {
		for dy := 0; dy <= 1; dy++ {
			for dx := 0; dx <= 1; dx++ {
				w := lerpWeight(fx, dx) * lerpWeight(fy, dy) * lerpWeight(fz, dz)
				idx := 3 * g.voxelIndex(x0+dx, y0+dy, z0+dz)
				vx += w * tensor[idx]
				vy += w * tensor[idx+1]
				vz += w * tensor[idx+2]
			}
		}
	}
	return vx, vy, vz
}

// Map a world point into continuous voxel coordinates in [0, res-1].
func (g *grid) voxelCoords(p mgl32.Vec3) (x, y, z float64, ok bool) {
	scale := float64(g.res-1) / (2 * fieldExtent)
	x = (float64(p[0]) + fieldExtent) * scale
	y = (float64(p[1]) + fieldExtent) * scale
	z = (float64(p[2]) + fieldExtent) * scale
	limit := float64(g.res - 1)
	if x < 0 || y < 0 || z < 0 || x > limit || y > limit || z > limit {
		return 0, 0, 0, false
	}
	return x, y, z, true
}

func (g *grid) voxelIndex(x, y, z int) int {
	if x >= g.res {
		x = g.res - 1
	}
	if y >= g.res {
		y = g.res - 1
	}
	if z >= g.res {
		z = g.res - 1
	}
	return (z*g.res+y)*g.res + x
}

func lerpWeight(f float64, side int) float64 {
	if side == 1 {
		return f
	}
	return 1 - f
}

func at(origin, dir mgl32.Vec3, t float64) mgl32.Vec3 {
	return mgl32.Vec3{
		origin[0] + dir[0]*float32(t),
		origin[1] + dir[1]*float32(t),
		origin[2] + dir[2]*float32(t),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
