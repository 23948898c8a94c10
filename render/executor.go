package render

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"nerfscan/log"
	"nerfscan/model"
)

// Default number of rays handed to each device per dispatch.
const defaultChunk = 8192

// DeviceStat accumulates per-device work counters across a run.
type DeviceStat struct {
	Device     int
	Rays       int
	RenderTime time.Duration
}

// An Executor fans a ray batch out across the available compute devices and
// gathers the per-device partial outputs back into a single frame. Each
// dispatch blocks until every device partition completes; there is no
// cancellation and no retry.
type Executor struct {
	fn      RenderFn
	devices int
	chunk   int
	logger  log.Logger
	stats   []DeviceStat
}

// Create a new executor driving the given scene-model capability. chunk
// bounds the number of rays each device evaluates per dispatch; it only
// limits in-flight memory and never affects output order or values.
func NewExecutor(fn RenderFn, devices, chunk int) *Executor {
	if devices < 1 {
		devices = 1
	}
	if chunk < 1 {
		chunk = defaultChunk
	}

	ex := &Executor{
		fn:      fn,
		devices: devices,
		chunk:   chunk,
		logger:  log.New("executor"),
		stats:   make([]DeviceStat, devices),
	}
	for i := range ex.stats {
		ex.stats[i].Device = i
	}
	return ex
}

// Number of active devices.
func (ex *Executor) Devices() int {
	return ex.devices
}

// Stats reports the per-device work counters accumulated so far.
func (ex *Executor) Stats() []DeviceStat {
	return ex.stats
}

// Render evaluates one full frame. The batch is partitioned across the
// devices along its leading pixel dimension, padded with zero rays when the
// ray count is not a device multiple, and the partial outputs are written
// back at their original offsets so the gathered frame reproduces the input
// pixel ordering exactly.
func (ex *Executor) Render(replicas []model.Params, batch *RayBatch, warpAlpha float64, seed uint64) (*RenderOutput, error) {
	if len(replicas) != ex.devices {
		return nil, fmt.Errorf("%w: %d replicas for %d devices", ErrDeviceMismatch, len(replicas), ex.devices)
	}

	total := batch.Len()
	if total == 0 {
		return nil, fmt.Errorf("%w: empty ray batch", ErrInvalidCamera)
	}
	padded := total
	if rem := total % ex.devices; rem != 0 {
		padded += ex.devices - rem
	}

	origins := padVec3(batch.Origins, padded)
	directions := padVec3(batch.Directions, padded)
	appearance := padUint32(batch.Appearance, padded)
	warp := padUint32(batch.Warp, padded)

	streams := SplitStreams(seed, ex.devices)
	ex.logger.Debugf("dispatching %d rays across %d devices (%d padded)", total, ex.devices, padded-total)

	out := &RenderOutput{W: batch.W, H: batch.H, Samples: -1}
	span := ex.chunk * ex.devices

	for start := 0; start < padded; start += span {
		window := padded - start
		if window > span {
			window = span
		}
		shardLen := window / ex.devices

		results := make([]*ShardOutput, ex.devices)
		errc := make(chan error, ex.devices)
		var wg sync.WaitGroup

		for d := 0; d < ex.devices; d++ {
			wg.Add(1)
			go func(d int) {
				defer wg.Done()

				lo := start + d*shardLen
				hi := lo + shardLen
				shard := RayShard{Origins: origins[lo:hi], Directions: directions[lo:hi]}
				cond := Conditioning{Appearance: appearance[lo:hi], Warp: warp[lo:hi]}

				dispatchStart := time.Now()
				res, err := ex.fn(replicas[d], shard, cond, warpAlpha, &streams[d])
				if err != nil {
					errc <- fmt.Errorf("%w: device %d: %v", ErrRender, d, err)
					return
				}
				if err = res.validate(shardLen); err != nil {
					errc <- fmt.Errorf("%w: device %d: %v", ErrRender, d, err)
					return
				}

				results[d] = res
				ex.stats[d].Rays += shardLen
				ex.stats[d].RenderTime += time.Since(dispatchStart)
			}(d)
		}
		wg.Wait()

		select {
		case err := <-errc:
			return nil, err
		default:
		}

		for d, res := range results {
			if out.Samples < 0 {
				out.Samples = res.Samples
				out.alloc(padded)
			} else if res.Samples != out.Samples {
				return nil, fmt.Errorf("%w: device %d returned %d samples per ray, want %d", ErrRender, d, res.Samples, out.Samples)
			}

			lo := start + d*shardLen
			copy(out.Colors[lo:], res.Colors)
			copy(out.Depth[lo:], res.Depth)
			copy(out.DepthMedian[lo:], res.DepthMedian)
			copy(out.Acc[lo:], res.Acc)
			copy(out.Positions[lo*out.Samples:], res.Positions)
			copy(out.Weights[lo*out.Samples:], res.Weights)
		}
	}

	// Strip the zero-ray padding so consumers see the original grid.
	out.Colors = out.Colors[:total]
	out.Depth = out.Depth[:total]
	out.DepthMedian = out.DepthMedian[:total]
	out.Acc = out.Acc[:total]
	out.Positions = out.Positions[:total*out.Samples]
	out.Weights = out.Weights[:total*out.Samples]
	return out, nil
}

func (out *RenderOutput) alloc(rays int) {
	out.Colors = make([]mgl32.Vec3, rays)
	out.Depth = make([]float64, rays)
	out.DepthMedian = make([]float64, rays)
	out.Acc = make([]float64, rays)
	out.Positions = make([]mgl32.Vec3, rays*out.Samples)
	out.Weights = make([]float64, rays*out.Samples)
}

func (res *ShardOutput) validate(rays int) error {
	if res.Samples <= 0 {
		return fmt.Errorf("non-positive samples per ray %d", res.Samples)
	}
	if len(res.Colors) != rays || len(res.Depth) != rays || len(res.DepthMedian) != rays || len(res.Acc) != rays {
		return fmt.Errorf("per-ray arrays do not cover %d rays", rays)
	}
	if len(res.Positions) != rays*res.Samples || len(res.Weights) != rays*res.Samples {
		return fmt.Errorf("per-sample arrays do not cover %d rays x %d samples", rays, res.Samples)
	}
	return nil
}

func padVec3(in []mgl32.Vec3, size int) []mgl32.Vec3 {
	if len(in) == size {
		return in
	}
	out := make([]mgl32.Vec3, size)
	copy(out, in)
	return out
}

func padUint32(in []uint32, size int) []uint32 {
	if len(in) == size {
		return in
	}
	out := make([]uint32, size)
	copy(out, in)
	return out
}
