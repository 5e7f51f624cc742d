// Package gesture runs the radial menu interaction: opening the wheel on a
// target, tracking the drag to highlight a command, invoking it on release
// and handing the diagram its own gestures back afterwards.
package gesture

import (
	"sync"

	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/command"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// NoCommand is the active index when nothing is highlighted
const NoCommand = canvas.NoCommand

// DefaultInitialRadius sizes the overlay before the first open
const DefaultInitialRadius = 100

var (
	// targetDragEvents are subscribed on the selector
	targetDragEvents = []string{"cxtdrag", "tapdrag"}
	// globalDragEvents are subscribed on the whole diagram
	globalDragEvents = []string{"tapdrag"}
	resizeEvents     = []string{"resize"}
)

// debugLog is set by platform-specific code
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// State is the phase of the interaction
type State uint8

const (
	// Idle means no menu is shown
	Idle State = iota
	// Tracking means the wheel is shown and drag samples move the highlight
	Tracking
	// Selecting means a command callback is running
	Selecting
)

func (s State) String() string {
	switch s {
	case Tracking:
		return "tracking"
	case Selecting:
		return "selecting"
	default:
		return "idle"
	}
}

// Config holds the behaviour of one controller
type Config struct {
	Commands     []command.Command
	Selector     string
	OpenEvents   []string
	SelectEvents []string

	MenuRadius       float64
	ActivePadding    float64
	SpotlightPadding float64
	Spotlight        geometry.Spotlight
	AtMouse          bool

	// OutsideCancel is how far past the wheel edge a drag may go before it
	// stops selecting. Ignored when OutsideCancelDisabled is set.
	OutsideCancel         float64
	OutsideCancelDisabled bool

	ItemColor           string
	ItemTextShadowColor string

	// InitialRadius sizes the overlay before the first open
	InitialRadius float64
}

// flags are the host settings suspended while a menu is open
type flags struct {
	pan       bool
	zoom      bool
	box       bool
	grabbable bool
}

// Controller owns the gesture session of one menu
type Controller struct {
	mu      sync.Mutex
	diagram host.Diagram
	overlay host.Overlay
	engine  *canvas.Engine
	cfg     Config

	state         State
	target        host.Element
	offset        geometry.Point
	center        geometry.Point
	radius        float64
	spotlight     float64
	containerSize float64
	active        int
	saved         flags

	parentStyle styling.Declarations
	labels      []*vdom.VNode

	unsubscribe []host.Unsubscribe
	destroyed   bool
}

// New creates a controller drawing with engine into overlay and subscribes
// it to the diagram's events
func New(diagram host.Diagram, overlay host.Overlay, engine *canvas.Engine, cfg Config) *Controller {
	if cfg.InitialRadius <= 0 {
		cfg.InitialRadius = DefaultInitialRadius
	}

	c := &Controller{
		diagram: diagram,
		overlay: overlay,
		engine:  engine,
		cfg:     cfg,
		state:   Idle,
		active:  NoCommand,
		radius:  cfg.InitialRadius,
	}
	c.containerSize = geometry.ContainerSize(c.radius, cfg.ActivePadding)
	c.parentStyle = styling.Declarations{
		"display":     "none",
		"width":       px(c.containerSize),
		"height":      px(c.containerSize),
		"position":    "absolute",
		"z-index":     "1",
		"margin-left": px(-cfg.ActivePadding),
		"margin-top":  px(-cfg.ActivePadding),
		"user-select": "none",
	}
	c.render()
	c.listen()
	return c
}

func (c *Controller) listen() {
	rescale := func() { c.Rescale() }
	c.unsubscribe = append(c.unsubscribe,
		c.diagram.Window().OnResize(rescale),
		c.diagram.On(resizeEvents, "", func(host.Event) { rescale() }),
		c.diagram.On(c.cfg.OpenEvents, c.cfg.Selector, c.Open),
		c.diagram.On(targetDragEvents, c.cfg.Selector, c.Drag),
		c.diagram.On(globalDragEvents, "", c.Drag),
		c.diagram.On(c.cfg.SelectEvents, "", func(host.Event) { c.SelectCommand() }),
	)
}

// ContainerSize returns the current edge length of the overlay
func (c *Controller) ContainerSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.containerSize
}

// Open shows the menu for the event's target. An open menu is closed
// first. Nothing happens when there are no commands.
func (c *Controller) Open(ev host.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	if c.state != Idle {
		c.closeLocked()
	}
	if len(c.cfg.Commands) == 0 {
		return
	}

	target := ev.Target
	c.target = target
	c.suspendHost()

	pos := ev.RenderedPosition
	width := 1.0
	node := c.isNodeTarget()
	if node {
		pos = target.RenderedPosition()
		width = target.RenderedOuterWidth()
	}

	c.offset = c.diagram.Container().Offset()
	c.center = pos
	c.spotlight = c.cfg.Spotlight.Radius(width, node)
	c.radius = geometry.OuterRadius(width, c.cfg.MenuRadius)
	c.containerSize = geometry.ContainerSize(c.radius, c.cfg.ActivePadding)
	c.engine.RescaleForDisplayDensity(c.containerSize)

	c.parentStyle = c.parentStyle.Merge(styling.Declarations{
		"width":   px(c.containerSize),
		"height":  px(c.containerSize),
		"display": "block",
		"left":    px(pos.X - c.radius),
		"top":     px(pos.Y - c.radius),
	})
	c.labels = c.buildLabels()
	c.render()

	c.engine.EnqueueBackground(c.backgroundArgs())

	c.active = NoCommand
	c.state = Tracking

	if debugLog != nil {
		debugLog("[Gesture] open", "target", targetID(target), "radius", c.radius, "spotlight", c.spotlight)
	}
}

// Drag updates the highlighted command from a pointer or touch sample
func (c *Controller) Drag(ev host.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Tracking {
		return
	}
	if ev.PreventDefault != nil {
		ev.PreventDefault()
	}

	c.active = NoCommand

	page := ev.PagePosition().Sub(c.diagram.Window().ScrollOffset())
	rel := page.Sub(c.offset).Sub(c.center)
	dx, d, theta := geometry.Polar(rel.X, rel.Y)
	dy := rel.Y

	// the target may have been resized since open
	width := 1.0
	node := c.isNodeTarget()
	if node {
		width = c.target.RenderedOuterWidth()
	}
	c.spotlight = c.cfg.Spotlight.Radius(width, node)
	c.radius = geometry.OuterRadius(width, c.cfg.MenuRadius)

	c.engine.EnqueueBackground(c.backgroundArgs())

	if d < c.spotlight+c.cfg.SpotlightPadding {
		return
	}
	if !c.cfg.OutsideCancelDisabled && d > c.radius+c.cfg.ActivePadding+c.cfg.OutsideCancel {
		return
	}

	c.active = geometry.FindWedge(theta, len(c.cfg.Commands), func(i int) bool {
		return !c.cfg.Commands[i].IsDisabled(c.target)
	})

	c.engine.EnqueueIndicator(canvas.IndicatorArgs{
		DX:              dx * c.radius / d,
		DY:              dy * c.radius / d,
		OuterRadius:     c.radius,
		Angle:           theta,
		SpotlightRadius: c.spotlight,
		ActiveCommand:   c.active,
	})
}

// SelectCommand runs the highlighted command, if any, and closes the menu
// unless the command opened another one. It does nothing when no menu is
// open.
func (c *Controller) SelectCommand() {
	c.mu.Lock()
	if c.state != Tracking {
		c.mu.Unlock()
		return
	}

	idx := c.active
	target := c.target
	var selectFn func(host.Element)
	if idx >= 0 {
		selectFn = c.cfg.Commands[idx].Select
	}
	c.active = NoCommand
	c.state = Selecting
	c.mu.Unlock()

	if selectFn != nil {
		c.invoke(idx, selectFn, target)
	}

	// the command may have opened a new menu, which stays open
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Selecting {
		c.closeLocked()
	}
}

func (c *Controller) invoke(idx int, fn func(host.Element), target host.Element) {
	defer func() {
		if r := recover(); r != nil && debugLog != nil {
			debugLog("[Gesture] command", idx, "panicked:", r)
		}
	}()

	if debugLog != nil {
		debugLog("[Gesture] select", idx, "target", targetID(target))
	}
	fn(target)
}

// Close hides the menu and restores the host's gestures
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if c.state == Idle {
		return
	}

	c.parentStyle = c.parentStyle.Merge(styling.Declarations{"display": "none"})
	c.render()

	c.state = Idle
	c.active = NoCommand
	c.restoreHost()
	c.target = nil

	if debugLog != nil {
		debugLog("[Gesture] close")
	}
}

// Destroy closes the menu, drops every subscription and removes the
// overlay. Later calls do nothing.
func (c *Controller) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.destroyed = true
	c.closeLocked()

	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
	c.overlay.Remove()
}

// Rescale resizes the drawing surface for the current display density
func (c *Controller) Rescale() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.engine.RescaleForDisplayDensity(c.containerSize)
	// resizing clears the surface
	if c.state == Tracking {
		c.engine.EnqueueBackground(c.backgroundArgs())
	}
}

func (c *Controller) suspendHost() {
	d := c.diagram
	c.saved = flags{
		pan:  d.UserPanningEnabled(),
		zoom: d.UserZoomingEnabled(),
		box:  d.BoxSelectionEnabled(),
	}
	d.SetUserZoomingEnabled(false)
	d.SetUserPanningEnabled(false)
	d.SetBoxSelectionEnabled(false)

	if c.target != nil {
		c.saved.grabbable = c.target.Grabbable()
		if c.saved.grabbable {
			c.target.Ungrabify()
		}
	}
}

func (c *Controller) restoreHost() {
	if c.saved.grabbable && c.target != nil {
		c.target.Grabify()
	}
	d := c.diagram
	d.SetUserZoomingEnabled(c.saved.zoom)
	d.SetUserPanningEnabled(c.saved.pan)
	d.SetBoxSelectionEnabled(c.saved.box)
	c.saved = flags{}
}

func (c *Controller) isNodeTarget() bool {
	return c.target != nil && c.target.IsNode() && !c.target.IsParent() && !c.cfg.AtMouse
}

func (c *Controller) backgroundArgs() canvas.BackgroundArgs {
	return canvas.BackgroundArgs{
		OuterRadius:     c.radius,
		SpotlightRadius: c.spotlight,
		ContainerSize:   c.containerSize,
	}
}

// State returns the current phase
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether the menu is shown
func (c *Controller) IsOpen() bool {
	return c.State() != Idle
}

// ActiveCommand returns the highlighted command index or NoCommand
func (c *Controller) ActiveCommand() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Target returns the element the menu is open on; nil when closed or
// opened on the background
func (c *Controller) Target() host.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Center returns the wheel centre relative to the container
func (c *Controller) Center() geometry.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center
}

// OuterRadius returns the current wheel radius
func (c *Controller) OuterRadius() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.radius
}

// SpotlightRadius returns the current spotlight radius
func (c *Controller) SpotlightRadius() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spotlight
}

func targetID(target host.Element) string {
	if target == nil {
		return "<background>"
	}
	return target.ID()
}
