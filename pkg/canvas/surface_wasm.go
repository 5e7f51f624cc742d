//go:build js && wasm
// +build js,wasm

package canvas

import (
	"fmt"
	"math"
	"syscall/js"
)

// JSSurface draws on an HTML canvas element through its 2D context
type JSSurface struct {
	canvas js.Value
	ctx    js.Value
}

// NewJSSurface wraps a canvas element. It returns nil when the element has
// no 2D context, so the engine skips drawing.
func NewJSSurface(canvas js.Value) *JSSurface {
	if canvas.IsUndefined() || canvas.IsNull() {
		return nil
	}
	ctx := canvas.Call("getContext", "2d")
	if !ctx.Truthy() {
		if debugLog != nil {
			debugLog("[Canvas] 2d context unavailable")
		}
		return nil
	}
	return &JSSurface{canvas: canvas, ctx: ctx}
}

// Element returns the wrapped canvas element
func (s *JSSurface) Element() js.Value {
	return s.canvas
}

// Resize implements Surface
func (s *JSSurface) Resize(width, height int, pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	// Set backing store size in device pixels
	s.canvas.Set("width", int(math.Ceil(float64(width)*pixelRatio)))
	s.canvas.Set("height", int(math.Ceil(float64(height)*pixelRatio)))
	style := s.canvas.Get("style")
	style.Set("width", fmt.Sprintf("%dpx", width))
	style.Set("height", fmt.Sprintf("%dpx", height))

	// Normalize to CSS pixel coordinate system
	s.ctx.Call("setTransform", 1, 0, 0, 1, 0, 0)
	s.ctx.Call("scale", pixelRatio, pixelRatio)
}

// Clear implements Surface
func (s *JSSurface) Clear() {
	s.ctx.Call("save")
	s.ctx.Call("setTransform", 1, 0, 0, 1, 0, 0)
	s.ctx.Call("clearRect", 0, 0, s.canvas.Get("width").Int(), s.canvas.Get("height").Int())
	s.ctx.Call("restore")
}

// SetComposite implements Surface
func (s *JSSurface) SetComposite(op Composite) {
	s.ctx.Set("globalCompositeOperation", op.String())
}

// FillWedge implements Surface
func (s *JSSurface) FillWedge(cx, cy, r, start, end float64, fill string) {
	s.ctx.Set("fillStyle", fill)
	s.ctx.Call("beginPath")
	s.ctx.Call("moveTo", cx, cy)
	s.ctx.Call("arc", cx, cy, r, start, end, false)
	s.ctx.Call("closePath")
	s.ctx.Call("fill")
}

// StrokeLine implements Surface
func (s *JSSurface) StrokeLine(x1, y1, x2, y2, width float64, stroke string) {
	s.ctx.Set("strokeStyle", stroke)
	s.ctx.Set("lineWidth", width)
	s.ctx.Call("beginPath")
	s.ctx.Call("moveTo", x1, y1)
	s.ctx.Call("lineTo", x2, y2)
	s.ctx.Call("stroke")
}

// FillCircle implements Surface
func (s *JSSurface) FillCircle(cx, cy, r float64, fill string) {
	s.ctx.Set("fillStyle", fill)
	s.ctx.Call("beginPath")
	s.ctx.Call("arc", cx, cy, r, 0, math.Pi*2)
	s.ctx.Call("fill")
}

// FillSquare implements Surface
func (s *JSSurface) FillSquare(cx, cy, size, rotation float64, fill string) {
	s.ctx.Call("save")
	s.ctx.Set("fillStyle", fill)
	s.ctx.Call("translate", cx, cy)
	s.ctx.Call("rotate", rotation)
	s.ctx.Call("fillRect", -size/2, -size/2, size, size)
	s.ctx.Call("restore")
}
