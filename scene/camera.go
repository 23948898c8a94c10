package scene

import (
	"encoding/json"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// A Camera holds the intrinsic and extrinsic parameters of one view along a
// camera path. Orientation is the row-major world-to-camera rotation;
// ImageSize is width, height in pixels. Cameras are read-only once loaded.
type Camera struct {
	Orientation      [3][3]float64 `json:"orientation"`
	Position         [3]float64    `json:"position"`
	FocalLength      float64       `json:"focal_length"`
	PrincipalPoint   [2]float64    `json:"principal_point"`
	Skew             float64       `json:"skew"`
	PixelAspectRatio float64       `json:"pixel_aspect_ratio"`
	ImageSize        [2]int        `json:"image_size"`
}

// Load a camera descriptor from a json file.
func LoadCamera(path string) (*Camera, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cam := &Camera{PixelAspectRatio: 1}
	if err = json.Unmarshal(data, cam); err != nil {
		return nil, err
	}
	if cam.PixelAspectRatio == 0 {
		cam.PixelAspectRatio = 1
	}
	return cam, nil
}

// Frame dimensions in pixels.
func (c *Camera) Width() int  { return c.ImageSize[0] }
func (c *Camera) Height() int { return c.ImageSize[1] }

// Rays generates one world-space ray per pixel in row-major pixel order.
// Directions are normalized; every origin is the camera position. An
// unusable camera (non-positive focal length or image size) yields no rays.
func (c *Camera) Rays() (origins, directions []mgl32.Vec3) {
	w, h := c.Width(), c.Height()
	if w <= 0 || h <= 0 || c.FocalLength <= 0 {
		return nil, nil
	}

	origin := mgl32.Vec3{float32(c.Position[0]), float32(c.Position[1]), float32(c.Position[2])}
	origins = make([]mgl32.Vec3, w*h)
	directions = make([]mgl32.Vec3, w*h)

	idx := 0
	for y := 0; y < h; y++ {
		// Pixel centers sit at half-integer coordinates.
		yc := (float64(y) + 0.5 - c.PrincipalPoint[1]) / (c.FocalLength * c.PixelAspectRatio)
		for x := 0; x < w; x++ {
			xc := (float64(x) + 0.5 - c.PrincipalPoint[0] - yc*c.Skew) / c.FocalLength
			dir := c.toWorld(xc, yc, 1)
			norm := math.Sqrt(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])

			origins[idx] = origin
			directions[idx] = mgl32.Vec3{
				float32(dir[0] / norm),
				float32(dir[1] / norm),
				float32(dir[2] / norm),
			}
			idx++
		}
	}
	return origins, directions
}

// Rotate a camera-space direction into world space. Orientation stores the
// world-to-camera rotation, so the transpose is applied.
func (c *Camera) toWorld(x, y, z float64) [3]float64 {
	r := &c.Orientation
	return [3]float64{
		r[0][0]*x + r[1][0]*y + r[2][0]*z,
		r[0][1]*x + r[1][1]*y + r[2][1]*z,
		r[0][2]*x + r[1][2]*y + r[2][2]*z,
	}
}
