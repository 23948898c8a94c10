package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func identityCamera(w, h int) *Camera {
	return &Camera{
		Orientation:      [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		Position:         [3]float64{1, 2, 3},
		FocalLength:      float64(w),
		PrincipalPoint:   [2]float64{float64(w) / 2, float64(h) / 2},
		PixelAspectRatio: 1,
		ImageSize:        [2]int{w, h},
	}
}

func TestCameraRays(t *testing.T) {
	cam := identityCamera(8, 6)

	origins, directions := cam.Rays()
	if len(origins) != 48 || len(directions) != 48 {
		t.Fatalf("expected 48 rays for an 8x6 camera; got %d origins and %d directions", len(origins), len(directions))
	}

	for i := range origins {
		if origins[i] != (origins[0]) {
			t.Fatalf("pinhole camera origins must all equal the camera position")
		}
		norm := math.Sqrt(float64(directions[i][0]*directions[i][0] + directions[i][1]*directions[i][1] + directions[i][2]*directions[i][2]))
		if math.Abs(norm-1) > 1e-5 {
			t.Fatalf("ray %d direction not normalized: |d| = %g", i, norm)
		}
	}

	if origins[0] != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("expected origins at the camera position; got %v", origins[0])
	}

	// With identity orientation the ray through the principal point looks
	// straight down +z in camera convention.
	center := directions[3*8+4] // pixel (4, 3) center sits past the principal point by half a pixel
	if center[2] < 0.99 {
		t.Fatalf("expected near-axial center ray; got %v", center)
	}
}

func TestCameraRaysUnusable(t *testing.T) {
	type spec struct {
		name string
		cam  *Camera
	}
	specs := []spec{
		{"zero size", &Camera{FocalLength: 10}},
		{"zero focal", &Camera{ImageSize: [2]int{4, 4}}},
	}

	for _, s := range specs {
		if origins, _ := s.cam.Rays(); origins != nil {
			t.Fatalf("[%s] expected no rays; got %d", s.name, len(origins))
		}
	}
}

func TestLoadCamera(t *testing.T) {
	raw := `{
		"orientation": [[1,0,0],[0,1,0],[0,0,1]],
		"position": [0.5, -1.0, 2.0],
		"focal_length": 512,
		"principal_point": [256, 256],
		"skew": 0,
		"pixel_aspect_ratio": 1.0,
		"image_size": [512, 512]
	}`

	path := filepath.Join(t.TempDir(), "camera_0001.json")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cam, err := LoadCamera(path)
	if err != nil {
		t.Fatal(err)
	}
	if cam.FocalLength != 512 || cam.Width() != 512 || cam.Height() != 512 {
		t.Fatalf("camera intrinsics not parsed: %+v", cam)
	}
	if cam.Position != ([3]float64{0.5, -1.0, 2.0}) {
		t.Fatalf("camera position not parsed: %v", cam.Position)
	}
}

func TestSourceCameras(t *testing.T) {
	dataDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataDir, "scene.json"), []byte(`{"near": 0.2, "far": 6.0, "scale": 1.0}`), 0644); err != nil {
		t.Fatal(err)
	}

	camDir := filepath.Join(dataDir, DefaultCameraPath)
	if err := os.MkdirAll(camDir, 0755); err != nil {
		t.Fatal(err)
	}
	camJSON := `{"orientation": [[1,0,0],[0,1,0],[0,0,1]], "position": [0,0,0],
		"focal_length": 16, "principal_point": [8, 8], "pixel_aspect_ratio": 1, "image_size": [16, 16]}`
	for _, name := range []string{"000002.json", "000000.json", "000001.json"} {
		if err := os.WriteFile(filepath.Join(camDir, name), []byte(camJSON), 0644); err != nil {
			t.Fatal(err)
		}
	}

	src, err := LoadSource(dataDir)
	if err != nil {
		t.Fatal(err)
	}

	near, far := src.Bounds()
	if near != 0.2 || far != 6.0 {
		t.Fatalf("expected bounds [0.2, 6.0]; got [%g, %g]", near, far)
	}

	cameras, err := src.Cameras()
	if err != nil {
		t.Fatal(err)
	}
	if len(cameras) != 3 {
		t.Fatalf("expected 3 cameras; got %d", len(cameras))
	}

	descriptors, err := src.GlobCameras(camDir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(descriptors); i++ {
		if descriptors[i-1] >= descriptors[i] {
			t.Fatalf("camera descriptors not sorted: %v", descriptors)
		}
	}
}
