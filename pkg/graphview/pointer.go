package graphview

import (
	"math"

	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
)

// Button identifies the pressed mouse button
type Button int

const (
	// Primary is the left button; it taps, drags nodes and pans
	Primary Button = iota
	// Secondary is the right button; it produces context events
	Secondary
)

// moves shorter than this, in pixels, still count as a tap
const tapThreshold = 3.0

type press struct {
	button Button
	target host.Element
	start  geometry.Point
	last   geometry.Point
	moved  bool
	// world offset between the grabbed node and the pointer
	grabDX, grabDY float64
	grabbed        *NodeElement
}

// PointerDown starts a press at p, given relative to the container.
// It emits tapstart or cxttapstart on the element under the pointer.
func (g *Graph) PointerDown(button Button, p geometry.Point) {
	g.mu.Lock()
	target := g.pickLocked(p)
	pr := &press{button: button, target: target, start: p, last: p}
	if n, ok := target.(*NodeElement); ok && button == Primary && n.grabbable {
		pr.grabbed = n
		wx, wy := g.toWorld(p)
		pr.grabDX, pr.grabDY = n.data.X-wx, n.data.Y-wy
	}
	g.press = pr
	ev := g.eventLocked(startEvent(button), target, p)
	g.mu.Unlock()

	g.Emit(ev)
}

// PointerMove moves the pointer to p. Without a press it only tracks
// hover. While a button is held it drags
// the grabbed node or pans the viewport and emits tapdrag or cxtdrag on
// the pressed element.
func (g *Graph) PointerMove(p geometry.Point) {
	g.mu.Lock()
	pr := g.press
	if pr == nil {
		g.hover = ""
		if n, ok := g.pickLocked(p).(*NodeElement); ok {
			g.hover = n.data.ID
		}
		g.mu.Unlock()
		return
	}

	dx, dy := p.X-pr.last.X, p.Y-pr.last.Y
	pr.last = p
	if !pr.moved && math.Hypot(p.X-pr.start.X, p.Y-pr.start.Y) > tapThreshold {
		pr.moved = true
	}

	if pr.button == Primary {
		switch {
		case pr.grabbed != nil && pr.grabbed.grabbable:
			wx, wy := g.toWorld(p)
			pr.grabbed.data.X = wx + pr.grabDX
			pr.grabbed.data.Y = wy + pr.grabDY
		case pr.target == nil && g.pan:
			g.offsetX += dx
			g.offsetY += dy
		}
	}

	name := "tapdrag"
	if pr.button == Secondary {
		name = "cxtdrag"
	}
	ev := g.eventLocked(name, pr.target, p)
	g.mu.Unlock()

	g.Emit(ev)
}

// PointerUp ends the press at p. It emits tapend or cxttapend and, when
// the pointer barely moved, tap or cxttap. A primary tap also selects the
// node under the pointer.
func (g *Graph) PointerUp(p geometry.Point) {
	g.mu.Lock()
	pr := g.press
	g.press = nil
	if pr == nil {
		g.mu.Unlock()
		return
	}
	target := g.pickLocked(p)
	end := g.eventLocked(endEvent(pr.button), target, p)
	var tap *host.Event
	if !pr.moved {
		ev := g.eventLocked(tapEvent(pr.button), target, p)
		tap = &ev
		if pr.button == Primary {
			g.selected = ""
			if n, ok := target.(*NodeElement); ok {
				g.selected = n.data.ID
			}
		}
	}
	g.mu.Unlock()

	g.Emit(end)
	if tap != nil {
		g.Emit(*tap)
	}
}

// Wheel zooms around p when user zooming is enabled
func (g *Graph) Wheel(p geometry.Point, deltaY float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.zoom {
		return
	}
	factor := 1.0 - math.Max(-0.5, math.Min(0.5, deltaY/500.0))
	wx, wy := g.toWorld(p)
	g.scale = g.clampScale(g.scale * factor)
	g.offsetX = p.X - wx*g.scale
	g.offsetY = p.Y - wy*g.scale
}

func (g *Graph) eventLocked(name string, target host.Element, p geometry.Point) host.Event {
	page := p.Add(g.container.origin).Add(g.win.ScrollOffset())
	return host.Event{
		Name:             name,
		Target:           target,
		RenderedPosition: p,
		Page:             page,
		PreventDefault:   func() {},
	}
}

func startEvent(b Button) string {
	if b == Secondary {
		return "cxttapstart"
	}
	return "tapstart"
}

func endEvent(b Button) string {
	if b == Secondary {
		return "cxttapend"
	}
	return "tapend"
}

func tapEvent(b Button) string {
	if b == Secondary {
		return "cxttap"
	}
	return "tap"
}
