package graphview

import (
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/recera/piemenu/pkg/gesture"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

const labelSize = 12.0

var (
	fontOnce sync.Once
	goFont   *truetype.Font
)

func face(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err == nil {
			goFont = f
		}
	})
	if goFont == nil {
		return nil
	}
	return truetype.NewFace(goFont, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// Snapshot renders the diagram and every visible menu overlay at the
// window pixel ratio
func (g *Graph) Snapshot() *image.RGBA {
	ratio := g.win.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}

	g.mu.Lock()
	w, h := g.opts.Width, g.opts.Height
	dc := gg.NewContext(int(math.Ceil(w*ratio)), int(math.Ceil(h*ratio)))
	dc.Scale(ratio, ratio)
	g.drawLocked(dc, ratio)
	overlays := append([]*Overlay(nil), g.container.overlays...)
	g.mu.Unlock()

	dst := dc.Image().(*image.RGBA)
	// the first overlay is the lowest in the stack
	for _, ov := range overlays {
		if ov.Visible() {
			composite(dst, ov, ratio)
		}
	}
	return dst
}

// EncodePNG writes Snapshot as a PNG image
func (g *Graph) EncodePNG(w io.Writer) error {
	dc := gg.NewContextForRGBA(g.Snapshot())
	return dc.EncodePNG(w)
}

func (g *Graph) drawLocked(dc *gg.Context, ratio float64) {
	o := g.opts
	dc.SetColor(cssColor(o.BackgroundColor, color.Black))
	dc.Clear()

	dc.Push()
	dc.Translate(g.offsetX, g.offsetY)
	dc.Scale(g.scale, g.scale)

	dc.SetLineWidth(1.0 / g.scale)
	for _, e := range g.edges {
		dc.SetColor(cssColor(nonEmpty(e.data.Color, o.EdgeColor), color.Gray{Y: 0x40}))
		dc.DrawLine(e.source.data.X, e.source.data.Y, e.target.data.X, e.target.data.Y)
		dc.Stroke()
	}

	for _, n := range g.nodes {
		r := n.data.Size
		dc.SetColor(cssColor(nonEmpty(n.data.Color, o.NodeColor), color.White))
		dc.DrawCircle(n.data.X, n.data.Y, r)
		dc.Fill()

		if n.data.ID == g.selected {
			dc.SetColor(cssColor("#ffcf33", color.White))
			dc.SetLineWidth(2.0 / g.scale)
			dc.DrawCircle(n.data.X, n.data.Y, r+3/g.scale)
			dc.Stroke()
		} else if n.data.ID == g.hover {
			dc.SetColor(cssColor("#9ad0ff", color.White))
			dc.SetLineWidth(1.5 / g.scale)
			dc.DrawCircle(n.data.X, n.data.Y, r+2/g.scale)
			dc.Stroke()
		}
	}
	dc.Pop()

	// gg moves text with the matrix but does not scale glyphs, so labels
	// are sized in physical pixels
	if f := face(labelSize * ratio); f != nil {
		dc.SetFontFace(f)
		dc.SetColor(cssColor(o.LabelColor, color.White))
		for _, n := range g.nodes {
			if n.data.Label == "" {
				continue
			}
			p := g.toScreen(n.data.X, n.data.Y)
			dc.DrawStringAnchored(n.data.Label, p.X+n.data.Size*g.scale+4, p.Y, 0, 0.5)
		}
	}
}

// composite draws an overlay canvas and its label cells onto dst
func composite(dst *image.RGBA, ov *Overlay, ratio float64) {
	src, srcRatio := ov.Snapshot()
	origin := ov.Origin()

	b := src.Bounds()
	scale := ratio / srcRatio
	rect := image.Rect(
		int(math.Round(origin.X*ratio)),
		int(math.Round(origin.Y*ratio)),
		int(math.Round(origin.X*ratio+float64(b.Dx())*scale)),
		int(math.Round(origin.Y*ratio+float64(b.Dy())*scale)),
	)
	if scale == 1 {
		draw.Draw(dst, rect, src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, rect, src, b, draw.Over, nil)
	}

	parent := ov.Parent()
	if parent == nil {
		return
	}
	f := face(labelSize * ratio)
	if f == nil {
		return
	}

	dc := gg.NewContextForRGBA(dst)
	dc.Scale(ratio, ratio)
	dc.SetFontFace(f)

	half := pixels(styling.Parse(parent.Attr("style"))["width"]) / 2
	for _, item := range parent.FindAll(gesture.ItemClass) {
		st := styling.Parse(item.Attr("style"))
		size := pixels(st["width"])
		cx := origin.X + half + pixels(st["margin-left"]) + size/2
		cy := origin.Y + half + pixels(st["margin-top"]) + size/2

		c := cssColor(st["color"], color.Black)
		alpha := 1.0
		for _, content := range item.FindAll(gesture.ContentClass) {
			if op, err := strconv.ParseFloat(styling.Parse(content.Attr("style"))["opacity"], 64); err == nil {
				alpha = op
			}
		}
		dc.SetColor(fade(c, alpha))
		dc.DrawStringAnchored(Text(item), cx, cy, 0.5, 0.5)
	}
}

// Text returns the visible text of a rendered tree, with raw markup
// reduced to its character data
func Text(n *vdom.VNode) string {
	var b strings.Builder
	n.Walk(func(v *vdom.VNode) bool {
		switch v.Kind {
		case vdom.KindText:
			b.WriteString(v.Text)
		case vdom.KindRaw:
			b.WriteString(stripTags(v.Text))
		}
		return true
	})
	return strings.TrimSpace(b.String())
}

func stripTags(markup string) string {
	var b strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cssColor(css string, fallback color.Color) color.Color {
	c, err := styling.ParseColor(css)
	if err != nil {
		return fallback
	}
	return c
}

func fade(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * alpha))
	return n
}
