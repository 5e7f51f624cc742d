// Package graphview is an in-memory node-link diagram with a pannable,
// zoomable viewport. It implements host.Diagram, so a radial menu can be
// attached to it outside the browser, and renders itself with gg.
package graphview

import (
	"math"
	"sync"

	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
)

const defaultNodeSize = 8

// Graph is a diagram of nodes and edges seen through a viewport
type Graph struct {
	mu   sync.Mutex
	opts Options

	nodes []*NodeElement
	edges []*EdgeElement

	// viewport: screen = world*scale + offset
	offsetX float64
	offsetY float64
	scale   float64

	pan bool
	zoom bool
	box  bool

	listeners map[int]*listener
	nextID    int

	container *container
	win       *window
	press     *press

	hover    string
	selected string
}

type listener struct {
	events   map[string]bool
	selector string
	handler  host.Handler
}

// New builds a diagram from data
func New(data Data, opts *Options) *Graph {
	o := opts.withDefaults()
	g := &Graph{
		opts:      o,
		scale:     1,
		pan:       true,
		zoom:      true,
		box:       true,
		listeners: make(map[int]*listener),
	}
	g.container = &container{g: g}
	g.win = &window{ratio: o.PixelRatio, resize: make(map[int]func())}

	byID := make(map[string]*NodeElement, len(data.Nodes))
	for _, n := range data.Nodes {
		if n.Size <= 0 {
			n.Size = defaultNodeSize
		}
		el := &NodeElement{g: g, data: n, grabbable: !n.Locked}
		g.nodes = append(g.nodes, el)
		byID[n.ID] = el
	}
	for _, e := range data.Edges {
		src, dst := byID[e.Source], byID[e.Target]
		if src == nil || dst == nil {
			continue
		}
		if e.ID == "" {
			e.ID = e.Source + "-" + e.Target
		}
		g.edges = append(g.edges, &EdgeElement{g: g, data: e, source: src, target: dst})
	}
	return g
}

// Size returns the viewport size in CSS pixels
func (g *Graph) Size() (float64, float64) {
	return g.opts.Width, g.opts.Height
}

// Node returns the node with the given ID, or nil
func (g *Graph) Node(id string) *NodeElement {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.nodes {
		if n.data.ID == id {
			return n
		}
	}
	return nil
}

// Nodes returns every node element
func (g *Graph) Nodes() []*NodeElement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*NodeElement(nil), g.nodes...)
}

// Edges returns every edge element
func (g *Graph) Edges() []*EdgeElement {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*EdgeElement(nil), g.edges...)
}

func (g *Graph) Container() host.Container { return g.container }
func (g *Graph) Window() host.Window       { return g.win }

func (g *Graph) UserPanningEnabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pan
}

func (g *Graph) SetUserPanningEnabled(enabled bool) {
	g.mu.Lock()
	g.pan = enabled
	g.mu.Unlock()
}

func (g *Graph) UserZoomingEnabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.zoom
}

func (g *Graph) SetUserZoomingEnabled(enabled bool) {
	g.mu.Lock()
	g.zoom = enabled
	g.mu.Unlock()
}

func (g *Graph) BoxSelectionEnabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.box
}

func (g *Graph) SetBoxSelectionEnabled(enabled bool) {
	g.mu.Lock()
	g.box = enabled
	g.mu.Unlock()
}

// On implements host.Diagram
func (g *Graph) On(events []string, selector string, h host.Handler) host.Unsubscribe {
	l := &listener{events: make(map[string]bool), selector: selector, handler: h}
	for _, e := range events {
		l.events[e] = true
	}

	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = l
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.listeners, id)
			g.mu.Unlock()
		})
	}
}

// Listeners returns the number of live diagram and window subscriptions
func (g *Graph) Listeners() int {
	g.mu.Lock()
	n := len(g.listeners)
	g.mu.Unlock()
	return n + g.win.count()
}

// Emit dispatches ev to matching listeners in subscription order
func (g *Graph) Emit(ev host.Event) {
	g.mu.Lock()
	var matched []host.Handler
	for id := 0; id < g.nextID; id++ {
		l, ok := g.listeners[id]
		if ok && l.events[ev.Name] && host.Matches(l.selector, ev.Target) {
			matched = append(matched, l.handler)
		}
	}
	g.mu.Unlock()

	for _, h := range matched {
		h(ev)
	}
}

// Resize changes the viewport size and notifies "resize" listeners
func (g *Graph) Resize(width, height float64) {
	g.mu.Lock()
	g.opts.Width, g.opts.Height = width, height
	g.mu.Unlock()
	g.Emit(host.Event{Name: "resize"})
}

// Viewport returns the pan offset and zoom scale
func (g *Graph) Viewport() (offsetX, offsetY, scale float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.offsetX, g.offsetY, g.scale
}

// SetViewport sets the pan offset and zoom scale
func (g *Graph) SetViewport(offsetX, offsetY, scale float64) {
	g.mu.Lock()
	g.offsetX, g.offsetY, g.scale = offsetX, offsetY, g.clampScale(scale)
	g.mu.Unlock()
}

func (g *Graph) clampScale(s float64) float64 {
	return math.Max(g.opts.MinScale, math.Min(g.opts.MaxScale, s))
}

func (g *Graph) toScreen(x, y float64) geometry.Point {
	return geometry.Point{X: x*g.scale + g.offsetX, Y: y*g.scale + g.offsetY}
}

func (g *Graph) toWorld(p geometry.Point) (float64, float64) {
	return (p.X - g.offsetX) / g.scale, (p.Y - g.offsetY) / g.scale
}

// Fit resets the viewport so every node is visible with padding pixels
// of margin
func (g *Graph) Fit(padding float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.nodes) == 0 {
		return
	}
	minx, miny := g.nodes[0].data.X, g.nodes[0].data.Y
	maxx, maxy := minx, miny
	for _, n := range g.nodes {
		minx = math.Min(minx, n.data.X)
		miny = math.Min(miny, n.data.Y)
		maxx = math.Max(maxx, n.data.X)
		maxy = math.Max(maxy, n.data.Y)
	}

	w, h := g.opts.Width, g.opts.Height
	gw := math.Max(maxx-minx, 1)
	gh := math.Max(maxy-miny, 1)
	s := math.Min((w-2*padding)/gw, (h-2*padding)/gh)
	if s <= 0 {
		s = 1
	}
	s = g.clampScale(s)
	g.scale = s
	g.offsetX = w*0.5 - (minx+gw*0.5)*s
	g.offsetY = h*0.5 - (miny+gh*0.5)*s
}

// FocusNode centres the viewport on a node at the given scale
func (g *Graph) FocusNode(id string, scale float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, n := range g.nodes {
		if n.data.ID == id {
			g.scale = g.clampScale(scale)
			g.offsetX = g.opts.Width*0.5 - n.data.X*g.scale
			g.offsetY = g.opts.Height*0.5 - n.data.Y*g.scale
			return
		}
	}
}

// Reset resets zoom and pan to defaults
func (g *Graph) Reset() {
	g.SetViewport(0, 0, 1)
}

// Selected returns the ID of the last tapped node, or ""
func (g *Graph) Selected() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// Hovered returns the ID of the node under an unpressed pointer, or ""
func (g *Graph) Hovered() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hover
}

// Pick returns the element under the screen point: nodes first, then
// edges within a few pixels; nil means the background
func (g *Graph) Pick(p geometry.Point) host.Element {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pickLocked(p)
}

func (g *Graph) pickLocked(p geometry.Point) host.Element {
	wx, wy := g.toWorld(p)

	// topmost node wins
	for i := len(g.nodes) - 1; i >= 0; i-- {
		n := g.nodes[i]
		dx := wx - n.data.X
		dy := wy - n.data.Y
		if dx*dx+dy*dy <= n.data.Size*n.data.Size {
			return n
		}
	}

	const edgeSlop = 4.0 // screen pixels
	for _, e := range g.edges {
		a := g.toScreen(e.source.data.X, e.source.data.Y)
		b := g.toScreen(e.target.data.X, e.target.data.Y)
		if segmentDistance(p, a, b) <= edgeSlop {
			return e
		}
	}
	return nil
}

func segmentDistance(p, a, b geometry.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*ab.X), p.Y-(a.Y+t*ab.Y))
}

// NodeElement is a node as seen by the menu
type NodeElement struct {
	g         *Graph
	data      Node
	grabbable bool
	vx, vy    float64
}

func (n *NodeElement) ID() string     { return n.data.ID }
func (n *NodeElement) IsNode() bool   { return true }
func (n *NodeElement) IsParent() bool { return n.data.Parent }

// Label returns the node label, or its ID when unlabelled
func (n *NodeElement) Label() string { return nonEmpty(n.data.Label, n.data.ID) }

// Position returns the world position
func (n *NodeElement) Position() (float64, float64) {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return n.data.X, n.data.Y
}

// MoveTo sets the world position
func (n *NodeElement) MoveTo(x, y float64) {
	n.g.mu.Lock()
	n.data.X, n.data.Y = x, y
	n.g.mu.Unlock()
}

func (n *NodeElement) RenderedPosition() geometry.Point {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return n.g.toScreen(n.data.X, n.data.Y)
}

func (n *NodeElement) RenderedOuterWidth() float64 {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return 2 * n.data.Size * n.g.scale
}

func (n *NodeElement) Grabbable() bool {
	n.g.mu.Lock()
	defer n.g.mu.Unlock()
	return n.grabbable
}

func (n *NodeElement) Grabify() {
	n.g.mu.Lock()
	n.grabbable = true
	n.g.mu.Unlock()
}

func (n *NodeElement) Ungrabify() {
	n.g.mu.Lock()
	n.grabbable = false
	n.g.mu.Unlock()
}

// EdgeElement is an edge as seen by the menu
type EdgeElement struct {
	g      *Graph
	data   Edge
	source *NodeElement
	target *NodeElement
}

func (e *EdgeElement) ID() string     { return e.data.ID }
func (e *EdgeElement) IsNode() bool   { return false }
func (e *EdgeElement) IsParent() bool { return false }

// Endpoints returns the source and target node IDs
func (e *EdgeElement) Endpoints() (string, string) {
	return e.source.data.ID, e.target.data.ID
}

// RenderedPosition is the screen midpoint of the edge
func (e *EdgeElement) RenderedPosition() geometry.Point {
	e.g.mu.Lock()
	defer e.g.mu.Unlock()
	a := e.g.toScreen(e.source.data.X, e.source.data.Y)
	b := e.g.toScreen(e.target.data.X, e.target.data.Y)
	return geometry.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func (e *EdgeElement) RenderedOuterWidth() float64 {
	e.g.mu.Lock()
	defer e.g.mu.Unlock()
	return e.g.scale
}

// Edges cannot be dragged
func (e *EdgeElement) Grabbable() bool { return false }
func (e *EdgeElement) Grabify()        {}
func (e *EdgeElement) Ungrabify()      {}
