package graphview

import (
	"image"
	"strconv"
	"strings"
	"sync"

	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// SetOrigin places the container on the page
func (g *Graph) SetOrigin(p geometry.Point) {
	g.mu.Lock()
	g.container.origin = p
	g.mu.Unlock()
}

// SetScroll sets the page scroll offset
func (g *Graph) SetScroll(p geometry.Point) {
	g.win.mu.Lock()
	g.win.scroll = p
	g.win.mu.Unlock()
}

// SetPixelRatio changes the display density and fires window resize
// listeners, the way a browser does when a window moves between screens
func (g *Graph) SetPixelRatio(ratio float64) {
	g.win.mu.Lock()
	g.win.ratio = ratio
	g.win.mu.Unlock()
	g.win.fire()
}

// Overlays returns the overlays currently attached to the container
func (g *Graph) Overlays() []*Overlay {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Overlay(nil), g.container.overlays...)
}

type container struct {
	g        *Graph
	origin   geometry.Point
	overlays []*Overlay
}

func (c *container) Offset() geometry.Point {
	c.g.mu.Lock()
	defer c.g.mu.Unlock()
	return c.origin
}

// AttachOverlay implements host.Container. New overlays go first, so they
// stack under earlier ones the way a prepended DOM child does.
func (c *container) AttachOverlay(style styling.Declarations) host.Overlay {
	ov := &Overlay{
		g:       c.g,
		wrapper: style,
		surface: &lockedSurface{raster: canvas.NewRasterSurface()},
	}
	c.g.mu.Lock()
	c.overlays = append([]*Overlay{ov}, c.overlays...)
	c.g.mu.Unlock()
	return ov
}

type window struct {
	mu     sync.Mutex
	ratio  float64
	scroll geometry.Point
	resize map[int]func()
	nextID int
}

func (w *window) PixelRatio() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ratio
}

func (w *window) ScrollOffset() geometry.Point {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scroll
}

func (w *window) OnResize(fn func()) host.Unsubscribe {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.resize[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.resize, id)
		w.mu.Unlock()
	}
}

func (w *window) fire() {
	w.mu.Lock()
	var fns []func()
	for id := 0; id < w.nextID; id++ {
		if fn, ok := w.resize[id]; ok {
			fns = append(fns, fn)
		}
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (w *window) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.resize)
}

// Overlay is a menu layer drawn above the diagram
type Overlay struct {
	g       *Graph
	wrapper styling.Declarations
	surface *lockedSurface

	mu     sync.Mutex
	parent *vdom.VNode
}

// Surface implements host.Overlay
func (o *Overlay) Surface() canvas.Surface { return o.surface }

// Render implements host.Overlay
func (o *Overlay) Render(parent *vdom.VNode) {
	o.mu.Lock()
	o.parent = parent
	o.mu.Unlock()
}

// Remove implements host.Overlay
func (o *Overlay) Remove() {
	o.g.mu.Lock()
	defer o.g.mu.Unlock()
	kept := o.g.container.overlays[:0]
	for _, other := range o.g.container.overlays {
		if other != o {
			kept = append(kept, other)
		}
	}
	o.g.container.overlays = kept
}

// Parent returns the last rendered menu parent, or nil
func (o *Overlay) Parent() *vdom.VNode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.parent
}

// Visible reports whether the menu parent is displayed
func (o *Overlay) Visible() bool {
	p := o.Parent()
	return p != nil && styling.Parse(p.Attr("style"))["display"] != "none"
}

// Origin is the container position of the canvas top-left corner: the
// parent's left/top plus its negative margins
func (o *Overlay) Origin() geometry.Point {
	p := o.Parent()
	if p == nil {
		return geometry.Point{}
	}
	st := styling.Parse(p.Attr("style"))
	return geometry.Point{
		X: pixels(st["left"]) + pixels(st["margin-left"]),
		Y: pixels(st["top"]) + pixels(st["margin-top"]),
	}
}

// Snapshot copies the canvas pixels along with the pixel ratio they were
// drawn at
func (o *Overlay) Snapshot() (img *image.RGBA, ratio float64) {
	return o.surface.snapshot()
}

func pixels(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0
	}
	return f
}

// lockedSurface serializes the render loop's drawing with snapshots
// taken from other goroutines
type lockedSurface struct {
	mu     sync.Mutex
	raster *canvas.RasterSurface
}

func (s *lockedSurface) Resize(width, height int, pixelRatio float64) {
	s.mu.Lock()
	s.raster.Resize(width, height, pixelRatio)
	s.mu.Unlock()
}

func (s *lockedSurface) Clear() {
	s.mu.Lock()
	s.raster.Clear()
	s.mu.Unlock()
}

func (s *lockedSurface) SetComposite(op canvas.Composite) {
	s.mu.Lock()
	s.raster.SetComposite(op)
	s.mu.Unlock()
}

func (s *lockedSurface) FillWedge(cx, cy, radius, start, end float64, fill string) {
	s.mu.Lock()
	s.raster.FillWedge(cx, cy, radius, start, end, fill)
	s.mu.Unlock()
}

func (s *lockedSurface) StrokeLine(x1, y1, x2, y2, width float64, stroke string) {
	s.mu.Lock()
	s.raster.StrokeLine(x1, y1, x2, y2, width, stroke)
	s.mu.Unlock()
}

func (s *lockedSurface) FillCircle(cx, cy, radius float64, fill string) {
	s.mu.Lock()
	s.raster.FillCircle(cx, cy, radius, fill)
	s.mu.Unlock()
}

func (s *lockedSurface) FillSquare(cx, cy, size, rotation float64, fill string) {
	s.mu.Lock()
	s.raster.FillSquare(cx, cy, size, rotation, fill)
	s.mu.Unlock()
}

func (s *lockedSurface) snapshot() (*image.RGBA, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.raster.Image()
	cp := image.NewRGBA(src.Bounds())
	copy(cp.Pix, src.Pix)
	return cp, s.raster.PixelRatio()
}
