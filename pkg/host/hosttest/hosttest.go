// Package hosttest provides an in-memory host.Diagram for tests. Events are
// dispatched synchronously with Emit, drawing goes to a RasterSurface and
// every live listener is counted so tests can check teardown.
package hosttest

import (
	"sync"

	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// Element is a fake node or edge
type Element struct {
	Name     string
	Node     bool
	Parent   bool
	Position geometry.Point
	Width    float64
	CanGrab  bool
}

// NewNode returns a grabbable node of the given rendered width
func NewNode(id string, pos geometry.Point, width float64) *Element {
	return &Element{Name: id, Node: true, Position: pos, Width: width, CanGrab: true}
}

// NewEdge returns an edge whose midpoint is pos
func NewEdge(id string, pos geometry.Point) *Element {
	return &Element{Name: id, Position: pos, Width: 1}
}

func (e *Element) ID() string                       { return e.Name }
func (e *Element) IsNode() bool                     { return e.Node }
func (e *Element) IsParent() bool                   { return e.Parent }
func (e *Element) RenderedPosition() geometry.Point { return e.Position }
func (e *Element) RenderedOuterWidth() float64      { return e.Width }
func (e *Element) Grabbable() bool                  { return e.CanGrab }
func (e *Element) Grabify()                         { e.CanGrab = true }
func (e *Element) Ungrabify()                       { e.CanGrab = false }

type listener struct {
	events   map[string]bool
	selector string
	handler  host.Handler
}

// Diagram is a fake host diagram
type Diagram struct {
	mu        sync.Mutex
	pan       bool
	zoom      bool
	box       bool
	listeners map[int]*listener
	nextID    int

	win       *Window
	container *Container
}

// NewDiagram returns a diagram with panning, zooming and box selection on
func NewDiagram() *Diagram {
	d := &Diagram{
		pan:       true,
		zoom:      true,
		box:       true,
		listeners: make(map[int]*listener),
	}
	d.win = &Window{Ratio: 1, resize: make(map[int]func())}
	d.container = &Container{}
	return d
}

func (d *Diagram) Container() host.Container { return d.container }
func (d *Diagram) Window() host.Window       { return d.win }

// FakeWindow returns the concrete window for tests that adjust it
func (d *Diagram) FakeWindow() *Window { return d.win }

// FakeContainer returns the concrete container
func (d *Diagram) FakeContainer() *Container { return d.container }

func (d *Diagram) UserPanningEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pan
}

func (d *Diagram) SetUserPanningEnabled(enabled bool) {
	d.mu.Lock()
	d.pan = enabled
	d.mu.Unlock()
}

func (d *Diagram) UserZoomingEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.zoom
}

func (d *Diagram) SetUserZoomingEnabled(enabled bool) {
	d.mu.Lock()
	d.zoom = enabled
	d.mu.Unlock()
}

func (d *Diagram) BoxSelectionEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.box
}

func (d *Diagram) SetBoxSelectionEnabled(enabled bool) {
	d.mu.Lock()
	d.box = enabled
	d.mu.Unlock()
}

// On implements host.Diagram
func (d *Diagram) On(events []string, selector string, h host.Handler) host.Unsubscribe {
	l := &listener{events: make(map[string]bool), selector: selector, handler: h}
	for _, e := range events {
		l.events[e] = true
	}

	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// Emit dispatches ev to every matching listener
func (d *Diagram) Emit(ev host.Event) {
	d.mu.Lock()
	var matched []host.Handler
	for id := 0; id < d.nextID; id++ {
		l, ok := d.listeners[id]
		if ok && l.events[ev.Name] && host.Matches(l.selector, ev.Target) {
			matched = append(matched, l.handler)
		}
	}
	d.mu.Unlock()

	for _, h := range matched {
		h(ev)
	}
}

// Trigger emits a pointer event at pos, given relative to the container
func (d *Diagram) Trigger(name string, target host.Element, pos geometry.Point) {
	page := pos.Add(d.container.Origin).Add(d.win.Scroll)
	d.Emit(host.Event{Name: name, Target: target, RenderedPosition: pos, Page: page})
}

// Listeners returns the number of live diagram and window listeners
func (d *Diagram) Listeners() int {
	d.mu.Lock()
	n := len(d.listeners)
	d.mu.Unlock()
	return n + d.win.count()
}

// Window is a fake browser window
type Window struct {
	mu     sync.Mutex
	Ratio  float64
	Scroll geometry.Point
	resize map[int]func()
	nextID int
}

func (w *Window) PixelRatio() float64          { return w.Ratio }
func (w *Window) ScrollOffset() geometry.Point { return w.Scroll }

// OnResize implements host.Window
func (w *Window) OnResize(fn func()) host.Unsubscribe {
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

// Resize notifies every resize listener
func (w *Window) Resize() {
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

func (w *Window) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.resize)
}

// Container is a fake diagram container
type Container struct {
	Origin   geometry.Point
	overlays []*Overlay
}

func (c *Container) Offset() geometry.Point { return c.Origin }

// AttachOverlay implements host.Container
func (c *Container) AttachOverlay(style styling.Declarations) host.Overlay {
	o := &Overlay{Style: style, Raster: canvas.NewRasterSurface()}
	c.overlays = append(c.overlays, o)
	return o
}

// Attached returns the overlays that have not been removed
func (c *Container) Attached() []*Overlay {
	var live []*Overlay
	for _, o := range c.overlays {
		if !o.Removed {
			live = append(live, o)
		}
	}
	return live
}

// Overlay records what the menu rendered into the container
type Overlay struct {
	Style   styling.Declarations
	Parent  *vdom.VNode
	Raster  *canvas.RasterSurface
	Renders int
	Removed bool
	// NoSurface makes Surface report nil
	NoSurface bool
}

func (o *Overlay) Surface() canvas.Surface {
	if o.NoSurface {
		return nil
	}
	return o.Raster
}

func (o *Overlay) Render(parent *vdom.VNode) {
	o.Parent = parent
	o.Renders++
}

func (o *Overlay) Remove() { o.Removed = true }

// Visible reports whether the last rendered parent is displayed
func (o *Overlay) Visible() bool {
	return o.Parent != nil && styling.Parse(o.Parent.Attr("style"))["display"] != "none"
}
