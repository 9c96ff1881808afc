// Package render produces schematic preview images of detector shapes.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/detshape/offgeom/pkg/geometry"
)

// Options controls preview rendering.
type Options struct {
	Size        int // output edge length in pixels
	Supersample int // oversampling factor before downscale
	Background  color.NRGBA
}

// DefaultOptions returns the standard preview settings.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 4,
		Background:  color.NRGBA{},
	}
}

// palette holds the per-bin fill colors; bins cycle through it.
var palette = []color.NRGBA{
	{0x4e, 0x79, 0xa7, 0xff},
	{0xf2, 0x8e, 0x2b, 0xff},
	{0xe1, 0x57, 0x59, 0xff},
	{0x76, 0xb7, 0xb2, 0xff},
	{0x59, 0xa1, 0x4f, 0xff},
	{0xed, 0xc9, 0x48, 0xff},
	{0xb0, 0x7a, 0xa1, 0xff},
	{0xff, 0x9d, 0xa7, 0xff},
	{0x9c, 0x75, 0x5f, 0xff},
	{0xba, 0xb0, 0xac, 0xff},
}

// BinColor returns the fill color used for bin i.
func BinColor(i int) color.NRGBA {
	return palette[i%len(palette)]
}

// Shape renders an orthographic XY projection of the shape, one flat color
// per bin. The projection is schematic: faces are drawn in bin order with no
// depth handling, which is enough to inspect detector coverage.
func Shape(shape *geometry.Shape, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}

	renderSize := opts.Size * opts.Supersample
	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	fill(img, opts.Background)

	if shape.NumFaces() == 0 {
		return downsample(img, opts.Size)
	}

	// Fit the XY extent of the shape into the image with a margin.
	min, max := shape.Bounds()
	center := min.Add(max).Mul(0.5)
	span := math.Max(max.X()-min.X(), max.Y()-min.Y())
	if span < 1e-9 {
		span = 1e-9
	}
	margin := 16 * opts.Supersample
	scale := float64(renderSize-2*margin) / span

	project := func(v mgl64.Vec3) (float64, float64) {
		x := (v.X()-center.X())*scale + float64(renderSize)/2
		// Image y axis points down.
		y := float64(renderSize)/2 - (v.Y()-center.Y())*scale
		return x, y
	}

	for bin := 0; bin < shape.Len(); bin++ {
		c := BinColor(bin)
		for _, tri := range shape.Bin(bin) {
			x0, y0 := project(tri[0])
			x1, y1 := project(tri[1])
			x2, y2 := project(tri[2])
			fillTriangle(img, x0, y0, x1, y1, x2, y2, c)
		}
	}

	return downsample(img, opts.Size)
}

func fill(img *image.NRGBA, c color.NRGBA) {
	if (c == color.NRGBA{}) {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// fillTriangle rasterizes a flat-colored triangle with edge functions,
// accepting either winding.
func fillTriangle(img *image.NRGBA, x0, y0, x1, y1, x2, y2 float64, c color.NRGBA) {
	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if area == 0 {
		return
	}
	if area < 0 {
		// Flip to counter-clockwise so the edge tests share one sign.
		x1, y1, x2, y2 = x2, y2, x1, y1
		area = -area
	}

	b := img.Bounds()
	minX := clampInt(int(math.Floor(min3(x0, x1, x2))), b.Min.X, b.Max.X-1)
	maxX := clampInt(int(math.Ceil(max3(x0, x1, x2))), b.Min.X, b.Max.X-1)
	minY := clampInt(int(math.Floor(min3(y0, y1, y2))), b.Min.Y, b.Max.Y-1)
	maxY := clampInt(int(math.Ceil(max3(y0, y1, y2))), b.Min.Y, b.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := (x1-x0)*(py-y0) - (y1-y0)*(px-x0)
			w1 := (x2-x1)*(py-y1) - (y2-y1)*(px-x1)
			w2 := (x0-x2)*(py-y2) - (y0-y2)*(px-x2)
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
