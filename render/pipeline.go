package render

import (
	"fmt"
	"path/filepath"

	"nerfscan/log"
	"nerfscan/model"
	"nerfscan/pointcloud"
	"nerfscan/points"
	"nerfscan/scene"
	"nerfscan/vis"
)

// A FrameSource yields the cameras to render and the scene depth bounds
// consumed by depth visualization.
type FrameSource interface {
	Cameras() ([]*scene.Camera, error)
	Bounds() (near, far float64)
}

// PipelineOptions control one sampling run.
type PipelineOptions struct {
	// Stride through the camera path. 1 renders every camera.
	FrameStep int

	// Directory receiving per-frame previews and the point cloud artifact.
	// Empty disables all file output.
	OutputDir string

	// Point cloud container filename inside OutputDir. Empty disables the
	// terminal write.
	PointCloudFile string

	// Opaqueness threshold for point extraction.
	Tau float64

	// Base seed for the per-device random stream split.
	Seed uint64
}

// A Pipeline drives the render-and-extract loop: for every camera in the
// stepped subsequence of the camera path it builds a ray batch, renders it
// across the devices, reduces the result to surface points and accumulates
// them into one point cloud. A single controlling goroutine owns the loop;
// only the executor dispatch fans out.
type Pipeline struct {
	src    FrameSource
	ex     *Executor
	opts   PipelineOptions
	logger log.Logger
}

// Create a new sampling pipeline.
func NewPipeline(src FrameSource, ex *Executor, opts PipelineOptions) *Pipeline {
	if opts.FrameStep < 1 {
		opts.FrameStep = 1
	}
	if opts.Tau == 0 {
		opts.Tau = 0.5
	}

	return &Pipeline{
		src:    src,
		ex:     ex,
		opts:   opts,
		logger: log.New("pipeline"),
	}
}

// Run renders the camera path and returns the aggregated point cloud. Any
// failure aborts the run immediately; frames already written to the output
// directory are left on disk.
func (p *Pipeline) Run(replicas []model.Params, warpAlpha float64) (*pointcloud.PointCloud, error) {
	cameras, err := p.src.Cameras()
	if err != nil {
		return nil, err
	}
	near, far := p.src.Bounds()

	acc := points.NewAccumulator()
	for i := 0; i < len(cameras); i += p.opts.FrameStep {
		p.logger.Noticef("rendering frame %d/%d", i+1, len(cameras))

		batch, err := BuildRayBatch(cameras[i])
		if err != nil {
			return nil, err
		}

		out, err := p.ex.Render(replicas, batch, warpAlpha, p.opts.Seed)
		if err != nil {
			return nil, err
		}

		verts, rgb := points.Extract(out.Positions, out.Weights, out.Colors, out.Samples, p.opts.Tau)
		if err = acc.Append(verts, rgb); err != nil {
			return nil, err
		}

		if p.opts.OutputDir != "" {
			if err = p.writePreviews(i, out, near, far); err != nil {
				return nil, err
			}
		}
	}

	pc := acc.Finalize()
	p.logger.Noticef("accumulated %d points across %d frames", pc.Len(), acc.Chunks())

	if p.opts.OutputDir != "" && p.opts.PointCloudFile != "" {
		path := filepath.Join(p.opts.OutputDir, p.opts.PointCloudFile)
		if err = pointcloud.Write(path, pc); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

// Write the color and colorized-depth previews for one frame.
func (p *Pipeline) writePreviews(frame int, out *RenderOutput, near, far float64) error {
	colorPath := filepath.Join(p.opts.OutputDir, fmt.Sprintf("%04d.png", frame))
	if err := vis.SavePNG(colorPath, vis.ToImage(out.Colors, out.W, out.H)); err != nil {
		return err
	}

	depthPath := filepath.Join(p.opts.OutputDir, fmt.Sprintf("%04d_depth.png", frame))
	return vis.SavePNG(depthPath, vis.Colorize(out.Depth, out.W, out.H, near, far, true))
}
