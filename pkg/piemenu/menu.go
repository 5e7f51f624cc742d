// Package piemenu attaches a radial context menu to a node-link diagram.
//
//	menu := piemenu.New(diagram, piemenu.Options{
//		Commands: []command.Command{
//			{Content: command.Text("Remove"), Select: remove},
//		},
//	})
//	defer menu.Destroy()
package piemenu

import (
	"strconv"
	"sync"

	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/gesture"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// WrapperClass is the class of the element inserted into the container
const WrapperClass = "piemenu"

// Menu is one radial menu bound to a diagram
type Menu struct {
	options    Options
	overlay    host.Overlay
	engine     *canvas.Engine
	controller *gesture.Controller
	wrapper    styling.Declarations
	once       sync.Once
}

// New merges opts over the defaults, inserts the overlay into the
// diagram's container, starts the render loop and begins listening for
// menu gestures
func New(diagram host.Diagram, opts Options) *Menu {
	o := opts.WithDefaults()

	wrapper := styling.Declarations{
		"position":       "absolute",
		"z-index":        strconv.Itoa(o.ZIndex),
		"user-select":    "none",
		"pointer-events": "none",
	}
	overlay := diagram.Container().AttachOverlay(wrapper)

	engine := canvas.NewEngine(overlay.Surface(), o.Clock, diagram.Window().PixelRatio)
	engine.Configure(o.renderConfig())

	size := geometry.ContainerSize(gesture.DefaultInitialRadius, o.ActivePadding)
	engine.SetSize(size)
	engine.RescaleForDisplayDensity(size)
	engine.Start()

	return &Menu{
		options:    o,
		overlay:    overlay,
		engine:     engine,
		controller: gesture.New(diagram, overlay, engine, o.gestureConfig()),
		wrapper:    wrapper,
	}
}

// Destroy stops the render loop, drops every listener and removes the
// overlay. It is safe to call more than once.
func (m *Menu) Destroy() {
	m.once.Do(func() {
		m.engine.Stop()
		m.controller.Destroy()
	})
}

// IsOpen reports whether the wheel is shown
func (m *Menu) IsOpen() bool {
	return m.controller.IsOpen()
}

// ActiveCommand returns the highlighted command or gesture.NoCommand
func (m *Menu) ActiveCommand() int {
	return m.controller.ActiveCommand()
}

// Controller exposes the gesture controller, e.g. for hosts that feed it
// events directly
func (m *Menu) Controller() *gesture.Controller {
	return m.controller
}

// Engine exposes the render engine
func (m *Menu) Engine() *canvas.Engine {
	return m.engine
}

// Options returns the merged configuration
func (m *Menu) Options() Options {
	return m.options
}

// Markup returns the full overlay tree: the wrapper, the menu parent, the
// canvas and the label cells
func (m *Menu) Markup() *vdom.VNode {
	parent := m.controller.Tree()
	size := strconv.Itoa(int(m.controller.ContainerSize()))
	canvasEl := vdom.VNode{
		Kind:  vdom.KindElement,
		Tag:   "canvas",
		Props: vdom.Props{"width": size, "height": size},
	}
	parent.Kids = append([]vdom.VNode{canvasEl}, parent.Kids...)

	return vdom.NewElement("div",
		vdom.Props{"class": WrapperClass, "style": m.wrapper.Merge()},
		parent,
	)
}
