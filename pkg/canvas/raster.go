package canvas

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/recera/piemenu/pkg/styling"
)

// RasterSurface is an in-memory Surface backed by a gg context. It is used
// for PNG export and for testing the drawn output pixel by pixel.
type RasterSurface struct {
	dc     *gg.Context
	width  int
	height int
	ratio  float64
	op     Composite
	colors map[string]color.Color
}

// NewRasterSurface returns an empty 1x1 surface; call Resize before drawing
func NewRasterSurface() *RasterSurface {
	r := &RasterSurface{colors: make(map[string]color.Color)}
	r.Resize(1, 1, 1)
	return r
}

// Resize implements Surface
func (r *RasterSurface) Resize(width, height int, pixelRatio float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	r.width, r.height, r.ratio = width, height, pixelRatio
	r.dc = gg.NewContext(r.physical(width), r.physical(height))
	r.dc.Scale(pixelRatio, pixelRatio)
	r.op = SourceOver
}

func (r *RasterSurface) physical(v int) int {
	return int(math.Ceil(float64(v) * r.ratio))
}

// Size returns the logical size
func (r *RasterSurface) Size() (int, int) {
	return r.width, r.height
}

// PixelRatio returns the physical pixels per logical pixel
func (r *RasterSurface) PixelRatio() float64 {
	return r.ratio
}

// Image returns the backing image at physical resolution
func (r *RasterSurface) Image() *image.RGBA {
	return r.dc.Image().(*image.RGBA)
}

// At samples the pixel under the logical point (x, y)
func (r *RasterSurface) At(x, y float64) color.NRGBA {
	px := int(x * r.ratio)
	py := int(y * r.ratio)
	return color.NRGBAModel.Convert(r.Image().At(px, py)).(color.NRGBA)
}

// EncodePNG writes the surface as a PNG image
func (r *RasterSurface) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// Clear implements Surface
func (r *RasterSurface) Clear() {
	r.dc.SetColor(color.Transparent)
	r.dc.Clear()
}

// SetComposite implements Surface
func (r *RasterSurface) SetComposite(op Composite) {
	r.op = op
}

// FillWedge implements Surface
func (r *RasterSurface) FillWedge(cx, cy, radius, start, end float64, fill string) {
	r.paint(fill, func(dc *gg.Context) {
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, start, end)
		dc.ClosePath()
		dc.Fill()
	})
}

// StrokeLine implements Surface
func (r *RasterSurface) StrokeLine(x1, y1, x2, y2, width float64, stroke string) {
	r.paint(stroke, func(dc *gg.Context) {
		dc.SetLineWidth(width)
		dc.SetLineCap(gg.LineCapButt)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	})
}

// FillCircle implements Surface
func (r *RasterSurface) FillCircle(cx, cy, radius float64, fill string) {
	r.paint(fill, func(dc *gg.Context) {
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
	})
}

// FillSquare implements Surface
func (r *RasterSurface) FillSquare(cx, cy, size, rotation float64, fill string) {
	r.paint(fill, func(dc *gg.Context) {
		dc.Push()
		dc.Translate(cx, cy)
		dc.Rotate(rotation)
		dc.DrawRectangle(-size/2, -size/2, size, size)
		dc.Fill()
		dc.Pop()
	})
}

// paint runs draw with the colour set, either directly on the surface or,
// when erasing, on a mask that is then cut out of the surface
func (r *RasterSurface) paint(css string, draw func(dc *gg.Context)) {
	c := r.color(css)

	if r.op != DestinationOut {
		r.dc.SetColor(c)
		draw(r.dc)
		return
	}

	mask := gg.NewContext(r.dc.Width(), r.dc.Height())
	mask.Scale(r.ratio, r.ratio)
	mask.SetColor(c)
	draw(mask)
	erase(r.Image(), mask.Image().(*image.RGBA))
}

// erase scales every destination pixel by the inverse of the mask alpha.
// Both images are premultiplied, so all four channels scale together.
func erase(dst, mask *image.RGBA) {
	for i := 3; i < len(dst.Pix) && i < len(mask.Pix); i += 4 {
		a := uint32(mask.Pix[i])
		if a == 0 {
			continue
		}
		keep := 255 - a
		for j := i - 3; j <= i; j++ {
			dst.Pix[j] = uint8(uint32(dst.Pix[j]) * keep / 255)
		}
	}
}

func (r *RasterSurface) color(css string) color.Color {
	if c, ok := r.colors[css]; ok {
		return c
	}
	c, err := styling.ParseColor(css)
	if err != nil {
		if debugLog != nil {
			debugLog("[Canvas] bad colour", css, err)
		}
		r.colors[css] = color.Transparent
		return color.Transparent
	}
	r.colors[css] = c
	return c
}
