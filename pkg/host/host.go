// Package host defines the capabilities the radial menu needs from the
// node-link diagram it decorates. The menu never reaches for the diagram
// through globals; a Diagram is handed to it at construction.
package host

import (
	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// Unsubscribe removes a listener. Calling it more than once is a no-op.
type Unsubscribe func()

// Handler receives diagram interaction events
type Handler func(ev Event)

// Event is one interaction event dispatched by the diagram
type Event struct {
	// Name is the event name, e.g. "cxttapstart" or "tapdrag"
	Name string
	// Target is the element under the pointer; nil means the diagram
	// background
	Target Element
	// RenderedPosition is the pointer position relative to the container
	RenderedPosition geometry.Point
	// Page is the pointer position on the page
	Page geometry.Point
	// Touches holds the page positions of active touch points, if any
	Touches []geometry.Point
	// PreventDefault suppresses the native default action; may be nil
	PreventDefault func()
}

// PagePosition returns the first touch point when present, otherwise the
// pointer page position
func (e Event) PagePosition() geometry.Point {
	if len(e.Touches) > 0 {
		return e.Touches[0]
	}
	return e.Page
}

// Element is a node or edge of the diagram
type Element interface {
	ID() string
	IsNode() bool
	// IsParent reports whether the node is a compound node
	IsParent() bool
	// RenderedPosition is the element centre relative to the container
	RenderedPosition() geometry.Point
	// RenderedOuterWidth is the on-screen width including borders
	RenderedOuterWidth() float64
	Grabbable() bool
	Grabify()
	Ungrabify()
}

// Diagram is the capability surface of the host diagram
type Diagram interface {
	Container() Container
	Window() Window

	UserPanningEnabled() bool
	SetUserPanningEnabled(enabled bool)
	UserZoomingEnabled() bool
	SetUserZoomingEnabled(enabled bool)
	BoxSelectionEnabled() bool
	SetBoxSelectionEnabled(enabled bool)

	// On subscribes h to every named event on elements matching selector.
	// An empty selector subscribes globally, background included.
	On(events []string, selector string, h Handler) Unsubscribe
}

// Window reports page-level state
type Window interface {
	// PixelRatio is the number of physical pixels per CSS pixel
	PixelRatio() float64
	// ScrollOffset is the page scroll position
	ScrollOffset() geometry.Point
	// OnResize subscribes fn to window resizes
	OnResize(fn func()) Unsubscribe
}

// Container is the diagram's root element
type Container interface {
	// Offset is the container's position on the page
	Offset() geometry.Point
	// AttachOverlay inserts a wrapper element styled with style as the
	// container's first child. The wrapper holds a parent element whose
	// first child is the drawing canvas. Native mousedown, mousemove,
	// mouseup and contextmenu defaults are suppressed on the wrapper.
	AttachOverlay(style styling.Declarations) Overlay
}

// Overlay is the menu's presence inside the container
type Overlay interface {
	// Surface is the canvas drawing target, or nil when drawing is
	// unavailable
	Surface() canvas.Surface
	// Render replaces the parent element's attributes and every child
	// after the canvas with those of parent
	Render(parent *vdom.VNode)
	// Remove detaches the wrapper from the container
	Remove()
}
