//go:build js && wasm
// +build js,wasm

package cytoscape

import (
	"math"
	"sync"
	"syscall/js"

	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/renderer/dom"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// suppressed are the native events whose default action the overlay
// cancels, so the browser context menu never shows over the wheel
var suppressed = []string{"mousedown", "mousemove", "mouseup", "contextmenu"}

// Diagram adapts a cytoscape core
type Diagram struct {
	cy     js.Value
	win    *window
	dom    *dom.DOMApplier
	window js.Value
}

// New wraps cy, a cytoscape core object
func New(cy js.Value) *Diagram {
	w := js.Global().Get("window")
	return &Diagram{
		cy:     cy,
		win:    &window{js: w},
		dom:    dom.NewDOMApplier(),
		window: w,
	}
}

// Container implements host.Diagram
func (d *Diagram) Container() host.Container {
	return &container{d: d, el: d.cy.Call("container")}
}

// Window implements host.Diagram
func (d *Diagram) Window() host.Window { return d.win }

// UserPanningEnabled implements host.Diagram
func (d *Diagram) UserPanningEnabled() bool { return d.cy.Call("userPanningEnabled").Bool() }

// SetUserPanningEnabled implements host.Diagram
func (d *Diagram) SetUserPanningEnabled(enabled bool) { d.cy.Call("userPanningEnabled", enabled) }

// UserZoomingEnabled implements host.Diagram
func (d *Diagram) UserZoomingEnabled() bool { return d.cy.Call("userZoomingEnabled").Bool() }

// SetUserZoomingEnabled implements host.Diagram
func (d *Diagram) SetUserZoomingEnabled(enabled bool) { d.cy.Call("userZoomingEnabled", enabled) }

// BoxSelectionEnabled implements host.Diagram
func (d *Diagram) BoxSelectionEnabled() bool { return d.cy.Call("boxSelectionEnabled").Bool() }

// SetBoxSelectionEnabled implements host.Diagram
func (d *Diagram) SetBoxSelectionEnabled(enabled bool) { d.cy.Call("boxSelectionEnabled", enabled) }

// On implements host.Diagram
func (d *Diagram) On(events []string, selector string, h host.Handler) host.Unsubscribe {
	names := EventList(events)
	if names == "" {
		return func() {}
	}
	cySelector, filter := Delegation(selector)

	fn := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			return nil
		}
		ev := d.event(args[0])
		if filter && !host.Matches(selector, ev.Target) {
			return nil
		}
		h(ev)
		return nil
	})

	if cySelector == "" {
		d.cy.Call("on", names, fn)
	} else {
		d.cy.Call("on", names, cySelector, fn)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if cySelector == "" {
				d.cy.Call("off", names, fn)
			} else {
				d.cy.Call("off", names, cySelector, fn)
			}
			fn.Release()
		})
	}
}

func (d *Diagram) event(ev js.Value) host.Event {
	out := host.Event{
		Name:           ev.Get("type").String(),
		PreventDefault: func() { ev.Call("preventDefault") },
	}

	target := ev.Get("target")
	if target.Truthy() && !target.Equal(d.cy) && target.Get("isNode").Type() == js.TypeFunction {
		out.Target = &element{v: target}
	}
	if rp := ev.Get("renderedPosition"); rp.Truthy() {
		out.RenderedPosition = point(rp)
	}

	orig := ev.Get("originalEvent")
	if !orig.Truthy() {
		return out
	}
	if orig.Get("pageX").Type() == js.TypeNumber {
		out.Page = geometry.Point{X: orig.Get("pageX").Float(), Y: orig.Get("pageY").Float()}
	}
	if touches := orig.Get("touches"); touches.Truthy() {
		for i := 0; i < touches.Length(); i++ {
			t := touches.Index(i)
			out.Touches = append(out.Touches, geometry.Point{X: t.Get("pageX").Float(), Y: t.Get("pageY").Float()})
		}
	}
	return out
}

func point(v js.Value) geometry.Point {
	return geometry.Point{X: v.Get("x").Float(), Y: v.Get("y").Float()}
}

type element struct {
	v js.Value
}

// Value returns the wrapped cytoscape element
func (e *element) Value() js.Value { return e.v }

func (e *element) ID() string   { return e.v.Call("id").String() }
func (e *element) IsNode() bool { return e.v.Call("isNode").Bool() }

func (e *element) IsParent() bool {
	if e.v.Get("isParent").Type() != js.TypeFunction {
		return false
	}
	return e.v.Call("isParent").Bool()
}

func (e *element) RenderedPosition() geometry.Point {
	if e.IsNode() {
		return point(e.v.Call("renderedPosition"))
	}
	return point(e.v.Call("renderedMidpoint"))
}

func (e *element) RenderedOuterWidth() float64 { return e.v.Call("renderedOuterWidth").Float() }
func (e *element) Grabbable() bool             { return e.v.Call("grabbable").Bool() }
func (e *element) Grabify()                    { e.v.Call("grabify") }
func (e *element) Ungrabify()                  { e.v.Call("ungrabify") }

type window struct {
	js js.Value
}

func (w *window) PixelRatio() float64 {
	if r := w.js.Get("devicePixelRatio"); r.Type() == js.TypeNumber && r.Float() > 0 {
		return r.Float()
	}
	return 1
}

func (w *window) ScrollOffset() geometry.Point {
	return geometry.Point{X: w.js.Get("pageXOffset").Float(), Y: w.js.Get("pageYOffset").Float()}
}

func (w *window) OnResize(fn func()) host.Unsubscribe {
	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	})
	w.js.Call("addEventListener", "resize", cb)

	var once sync.Once
	return func() {
		once.Do(func() {
			w.js.Call("removeEventListener", "resize", cb)
			cb.Release()
		})
	}
}

type container struct {
	d  *Diagram
	el js.Value
}

func (c *container) Offset() geometry.Point {
	rect := c.el.Call("getBoundingClientRect")
	doc := js.Global().Get("document")
	body := doc.Get("body")
	style := c.d.window.Call("getComputedStyle", body)
	parse := js.Global().Get("parseFloat")
	num := func(prop string) float64 {
		v := parse.Invoke(style.Get(prop)).Float()
		if math.IsNaN(v) {
			return 0
		}
		return v
	}

	return PageOffset(
		geometry.Point{X: rect.Get("left").Float(), Y: rect.Get("top").Float()},
		geometry.Point{X: body.Get("scrollLeft").Float(), Y: body.Get("scrollTop").Float()},
		Box{Padding: num("paddingLeft"), Border: num("borderLeftWidth")},
		Box{Padding: num("paddingTop"), Border: num("borderTopWidth")},
	)
}

func (c *container) AttachOverlay(style styling.Declarations) host.Overlay {
	a := c.d.dom
	wrapper := a.Create(vdom.NewElement("div", vdom.Props{"class": "piemenu", "style": style}))
	parent := a.Create(vdom.NewElement("div", nil))
	canvasEl := a.Create(vdom.NewElement("canvas", nil))
	parent.Call("appendChild", canvasEl)
	wrapper.Call("appendChild", parent)
	c.el.Call("insertBefore", wrapper, c.el.Get("firstChild"))

	o := &overlay{dom: a, wrapper: wrapper, parent: parent}
	if s := canvas.NewJSSurface(canvasEl); s != nil {
		o.surface = s
	}

	block := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			args[0].Call("preventDefault")
		}
		return false
	})
	o.block = block
	for _, name := range suppressed {
		wrapper.Call("addEventListener", name, block)
	}
	return o
}

type overlay struct {
	dom     *dom.DOMApplier
	wrapper js.Value
	parent  js.Value
	surface canvas.Surface
	block   js.Func
	once    sync.Once
}

func (o *overlay) Surface() canvas.Surface { return o.surface }

// Render keeps the canvas, the parent's first child, in place
func (o *overlay) Render(parent *vdom.VNode) {
	o.dom.Update(o.parent, parent, 1)
}

func (o *overlay) Remove() {
	o.once.Do(func() {
		for _, name := range suppressed {
			o.wrapper.Call("removeEventListener", name, o.block)
		}
		o.block.Release()
		o.dom.Remove(o.wrapper)
	})
}
