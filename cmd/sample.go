package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli"
	"nerfscan/field"
	"nerfscan/model"
	"nerfscan/render"
	"nerfscan/scene"
)

// Sample a colored point cloud from a trained scene model by rendering the
// dataset's camera path.
func SamplePoints(ctx *cli.Context) error {
	setupLogging(ctx)

	dataDir := ctx.String("data-dir")
	outputDir := ctx.String("output-dir")
	trainDir := ctx.String("train-dir")
	if dataDir == "" || outputDir == "" || trainDir == "" {
		return errors.New("data-dir, output-dir and train-dir are required")
	}

	frameStep := ctx.Int("frame-step")
	if frameStep < 1 {
		return errors.New("frame-step must be >= 1")
	}

	devices := ctx.Int("devices")
	if devices < 1 {
		devices = runtime.NumCPU()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	src, err := scene.LoadSource(dataDir)
	if err != nil {
		return err
	}

	state, err := model.Restore(model.NewState(), filepath.Join(trainDir, "checkpoints"))
	if err != nil {
		return err
	}
	logger.Noticef("restored checkpoint at step %d (warp alpha %.3f)", state.Step, state.WarpAlpha)

	replicas := model.Replicate(state, devices)
	logger.Noticef("replicated model state across %d devices", devices)

	near, far := src.Bounds()
	ex := render.NewExecutor(
		field.RenderFn(near, far, ctx.Int("samples")),
		devices,
		ctx.Int("chunk"),
	)

	pipeline := render.NewPipeline(src, ex, render.PipelineOptions{
		FrameStep:      frameStep,
		OutputDir:      outputDir,
		PointCloudFile: ctx.String("point-cloud-filename"),
		Tau:            ctx.Float64("opaqueness-threshold"),
		Seed:           uint64(ctx.Int64("seed")),
	})

	pc, err := pipeline.Run(replicas, state.WarpAlpha)
	if err != nil {
		return err
	}
	logger.Noticef("sampled %d points", pc.Len())

	displayDeviceStats(ex.Stats())
	return nil
}
