// Package vis converts rendered float buffers into viewable images.
package vis

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// ToImage converts per-pixel color triples in [0, 1] to an 8-bit image.
func ToImage(colors []mgl32.Vec3, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := colors[y*w+x]
			img.SetNRGBA(x, y, color.NRGBA{
				R: toUint8(float64(c[0])),
				G: toUint8(float64(c[1])),
				B: toUint8(float64(c[2])),
				A: 255,
			})
		}
	}
	return img
}

// Colorize maps a depth buffer through a jet-style color ramp. Values are
// clamped to [cmin, cmax]; with invert set, near depths map to the hot end
// of the ramp.
func Colorize(depth []float64, w, h int, cmin, cmax float64, invert bool) *image.NRGBA {
	span := cmax - cmin
	if span <= 0 {
		span = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := (depth[y*w+x] - cmin) / span
			t = math.Min(1, math.Max(0, t))
			if invert {
				t = 1 - t
			}
			r, g, b := jet(t)
			img.SetNRGBA(x, y, color.NRGBA{R: toUint8(r), G: toUint8(g), B: toUint8(b), A: 255})
		}
	}
	return img
}

// SavePNG writes an image to a png file.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// Classic jet ramp: blue through green to red over t in [0, 1].
func jet(t float64) (r, g, b float64) {
	r = math.Min(1, math.Max(0, 1.5-math.Abs(4*t-3)))
	g = math.Min(1, math.Max(0, 1.5-math.Abs(4*t-2)))
	b = math.Min(1, math.Max(0, 1.5-math.Abs(4*t-1)))
	return r, g, b
}

func toUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
