package render

import (
	"path/filepath"
	"testing"

	"nerfscan/model"
	"nerfscan/pointcloud"
	"nerfscan/scene"
)

type stubSource struct {
	cameras []*scene.Camera
}

func (s *stubSource) Cameras() ([]*scene.Camera, error) { return s.cameras, nil }
func (s *stubSource) Bounds() (float64, float64)        { return 0.1, 4 }

func makeStubSource(frames, w, h int) *stubSource {
	src := &stubSource{}
	for i := 0; i < frames; i++ {
		src.cameras = append(src.cameras, makeTestCamera(w, h))
	}
	return src
}

func TestPipelineFrameStep(t *testing.T) {
	type spec struct {
		frames    int
		frameStep int
		expFrames int
	}
	specs := []spec{
		{3, 1, 3},
		{3, 2, 2}, // indices 0 and 2
		{5, 2, 3},
		{4, 10, 1},
	}

	const w, h = 4, 2
	for index, s := range specs {
		ex := NewExecutor(stubRenderFn, 2, 16)
		p := NewPipeline(makeStubSource(s.frames, w, h), ex, PipelineOptions{FrameStep: s.frameStep})

		pc, err := p.Run(make([]model.Params, 2), 0)
		if err != nil {
			t.Fatalf("[spec %d] %v", index, err)
		}

		expPoints := s.expFrames * w * h
		if pc.Len() != expPoints {
			t.Fatalf("[spec %d] expected %d points from %d frames; got %d", index, expPoints, s.expFrames, pc.Len())
		}
	}
}

func TestPipelineWritesArtifact(t *testing.T) {
	dir := t.TempDir()

	ex := NewExecutor(stubRenderFn, 1, 16)
	p := NewPipeline(makeStubSource(2, 2, 2), ex, PipelineOptions{
		FrameStep:      1,
		OutputDir:      dir,
		PointCloudFile: "cloud.zip",
	})

	pc, err := p.Run(make([]model.Params, 1), 0)
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := pointcloud.Read(filepath.Join(dir, "cloud.zip"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != pc.Len() {
		t.Fatalf("expected %d persisted points; got %d", pc.Len(), loaded.Len())
	}

	// Frame previews land next to the artifact.
	for _, name := range []string{"0000.png", "0000_depth.png", "0001.png", "0001_depth.png"} {
		matches, _ := filepath.Glob(filepath.Join(dir, name))
		if len(matches) != 1 {
			t.Fatalf("expected preview %s to be written", name)
		}
	}
}
