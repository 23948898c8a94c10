package render

import (
	"errors"
	"testing"

	"nerfscan/scene"
)

func makeTestCamera(w, h int) *scene.Camera {
	return &scene.Camera{
		Orientation:      [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Position:         [3]float64{0, 0, 0},
		FocalLength:      float64(w),
		PrincipalPoint:   [2]float64{float64(w) / 2, float64(h) / 2},
		PixelAspectRatio: 1,
		ImageSize:        [2]int{w, h},
	}
}

func TestBuildRayBatch(t *testing.T) {
	cam := makeTestCamera(4, 3)

	batch, err := BuildRayBatch(cam)
	if err != nil {
		t.Fatal(err)
	}

	if batch.W != 4 || batch.H != 3 {
		t.Fatalf("expected 4x3 batch; got %dx%d", batch.W, batch.H)
	}
	if batch.Len() != 12 {
		t.Fatalf("expected 12 rays; got %d", batch.Len())
	}
	if len(batch.Directions) != batch.Len() || len(batch.Appearance) != batch.Len() || len(batch.Warp) != batch.Len() {
		t.Fatalf("batch arrays disagree on length")
	}

	// Evaluation mode: conditioning metadata defaults to zero.
	for i := range batch.Appearance {
		if batch.Appearance[i] != 0 || batch.Warp[i] != 0 {
			t.Fatalf("expected zero conditioning at ray %d; got appearance=%d warp=%d", i, batch.Appearance[i], batch.Warp[i])
		}
	}
}

func TestBuildRayBatchInvalidCamera(t *testing.T) {
	type spec struct {
		name string
		cam  *scene.Camera
	}
	specs := []spec{
		{"zero image size", makeTestCamera(0, 0)},
		{"zero height", makeTestCamera(4, 0)},
		{"non-positive focal length", &scene.Camera{ImageSize: [2]int{4, 4}}},
	}

	for _, s := range specs {
		if _, err := BuildRayBatch(s.cam); !errors.Is(err, ErrInvalidCamera) {
			t.Fatalf("[%s] expected ErrInvalidCamera; got %v", s.name, err)
		}
	}
}
