package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"nerfscan/model"
)

// A RayShard is the slice of a frame's rays assigned to a single device.
type RayShard struct {
	Origins    []mgl32.Vec3
	Directions []mgl32.Vec3
}

// Conditioning carries the per-ray metadata scalars consumed by the scene
// model. All zero in evaluation mode.
type Conditioning struct {
	Appearance []uint32
	Warp       []uint32
}

// ShardOutput is the scene model's result for one ray shard. Positions and
// Weights are flat [rays*Samples] arrays; everything else is per ray.
type ShardOutput struct {
	Samples     int
	Colors      []mgl32.Vec3
	Depth       []float64
	DepthMedian []float64
	Acc         []float64
	Positions   []mgl32.Vec3
	Weights     []float64
}

// RenderOutput is a fully gathered frame in original pixel order. It lives
// only until point extraction consumes it.
type RenderOutput struct {
	W, H    int
	Samples int

	Colors      []mgl32.Vec3
	Depth       []float64
	DepthMedian []float64
	Acc         []float64
	Positions   []mgl32.Vec3
	Weights     []float64
}

// RenderFn is the injected scene-model capability: a pure function mapping a
// parameter shard, a ray shard and its conditioning to per-sample
// color/density products. The pipeline never inspects its internals.
type RenderFn func(params model.Params, rays RayShard, cond Conditioning, warpAlpha float64, rng *Stream2) (*ShardOutput, error)
