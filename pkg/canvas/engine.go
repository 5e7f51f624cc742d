// Package canvas draws the radial menu wheel: the sector background with
// its separators and spotlight hole, and the highlighted sector with its
// direction indicator. Draw requests are coalesced and applied once per
// frame by a scheduler loop.
package canvas

import (
	"math"
	"sync"

	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/scheduler"
)

// NoCommand marks an indicator request without a highlighted sector
const NoCommand = -1

// cutColor is used for erasing; only its alpha matters
const cutColor = "white"

// debugLog is set by platform-specific code
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Config holds the fixed visual parameters of one wheel
type Config struct {
	FillColor       string
	ActiveFillColor string
	// WedgeColors has one entry per command; "" falls back to FillColor
	WedgeColors      []string
	ActivePadding    float64
	IndicatorSize    float64
	SeparatorWidth   float64
	SpotlightPadding float64
}

// BackgroundArgs is a request to redraw the sector wheel
type BackgroundArgs struct {
	OuterRadius     float64
	SpotlightRadius float64
	ContainerSize   float64
}

// IndicatorArgs is a request to draw the highlighted sector and pointer
type IndicatorArgs struct {
	// DX, DY is the drag direction scaled to the outer radius (screen
	// coordinates, y down)
	DX, DY          float64
	OuterRadius     float64
	Angle           float64 // math angle of the drag, radians
	SpotlightRadius float64
	ActiveCommand   int // NoCommand when nothing is highlighted
}

// Engine owns a drawing surface and the pending draw requests
type Engine struct {
	mu         sync.Mutex
	surface    Surface
	pixelRatio func() float64
	config     Config

	background scheduler.Slot[BackgroundArgs]
	indicator  scheduler.Slot[IndicatorArgs]
	loop       *scheduler.Loop
}

// NewEngine creates a render engine. A nil surface is allowed: every draw
// is then skipped. A nil clock uses the platform default; a nil pixelRatio
// reports 1.
func NewEngine(surface Surface, clock scheduler.Clock, pixelRatio func() float64) *Engine {
	if pixelRatio == nil {
		pixelRatio = func() float64 { return 1 }
	}
	e := &Engine{
		surface:    surface,
		pixelRatio: pixelRatio,
	}
	e.loop = scheduler.NewLoop(clock, e.Tick)
	return e
}

// Configure sets the visual parameters
func (e *Engine) Configure(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = cfg
	e.config.WedgeColors = append([]string(nil), cfg.WedgeColors...)
}

// Config returns the current visual parameters
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// SetSize sizes the surface to a square of the given edge at density 1
func (e *Engine) SetSize(containerSize float64) {
	e.resize(containerSize, 1)
}

// RescaleForDisplayDensity sizes the surface to a square of the given
// logical edge backed by pixelRatio physical pixels per logical pixel
func (e *Engine) RescaleForDisplayDensity(containerSize float64) {
	e.resize(containerSize, e.pixelRatio())
}

func (e *Engine) resize(size, ratio float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.surface == nil {
		return
	}
	if ratio <= 0 {
		ratio = 1
	}
	edge := int(math.Ceil(size))
	e.surface.Resize(edge, edge, ratio)
}

// EnqueueBackground schedules a background redraw; only the latest request
// before the next frame is drawn
func (e *Engine) EnqueueBackground(args BackgroundArgs) {
	e.background.Put(args)
}

// EnqueueIndicator schedules an indicator draw; only the latest request
// before the next frame is drawn
func (e *Engine) EnqueueIndicator(args IndicatorArgs) {
	e.indicator.Put(args)
}

// Start begins the frame loop
func (e *Engine) Start() {
	e.loop.Start()
}

// Stop ends the frame loop; no frame runs after Stop returns
func (e *Engine) Stop() {
	e.loop.Stop()
}

// Running reports whether the frame loop is active
func (e *Engine) Running() bool {
	return e.loop.IsRunning()
}

// Tick drains both request slots, drawing at most one background and one
// indicator. The loop calls it every frame; it may also be called directly.
func (e *Engine) Tick() {
	bg, hasBG := e.background.Take()
	ind, hasInd := e.indicator.Take()
	if !hasBG && !hasInd {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.surface == nil {
		return
	}
	if hasBG {
		e.drawBackground(bg)
	}
	if hasInd {
		e.drawIndicator(ind)
	}
}

func (e *Engine) drawBackground(args BackgroundArgs) {
	s := e.surface
	cfg := e.config
	n := len(cfg.WedgeColors)
	c := args.OuterRadius + cfg.ActivePadding

	s.SetComposite(SourceOver)
	s.Clear()

	for i := 0; i < n; i++ {
		fill := cfg.FillColor
		if cfg.WedgeColors[i] != "" {
			fill = cfg.WedgeColors[i]
		}
		start, end := geometry.WedgeAngles(i, n)
		s.FillWedge(c, c, args.OuterRadius, start, end, fill)
	}

	// Separators and the spotlight must be real holes so the diagram
	// shows through them
	s.SetComposite(DestinationOut)
	for i := 0; i < n; i++ {
		start, _ := geometry.WedgeAngles(i, n)
		x := c + args.OuterRadius*math.Cos(start)
		y := c + args.OuterRadius*math.Sin(start)
		s.StrokeLine(c, c, x, y, cfg.SeparatorWidth, cutColor)
	}
	s.FillCircle(c, c, args.SpotlightRadius+cfg.SpotlightPadding, cutColor)
	s.SetComposite(SourceOver)

	if debugLog != nil {
		debugLog("[Canvas] background drawn", "radius", args.OuterRadius, "spotlight", args.SpotlightRadius)
	}
}

func (e *Engine) drawIndicator(args IndicatorArgs) {
	s := e.surface
	cfg := e.config
	n := len(cfg.WedgeColors)

	if args.ActiveCommand < 0 || args.ActiveCommand >= n || args.OuterRadius <= 0 {
		return
	}

	c := args.OuterRadius + cfg.ActivePadding
	start, end := geometry.WedgeAngles(args.ActiveCommand, n)

	s.SetComposite(SourceOver)
	s.FillWedge(c, c, args.OuterRadius+cfg.ActivePadding, start, end, cfg.ActiveFillColor)

	s.SetComposite(DestinationOut)

	hole := args.SpotlightRadius + cfg.SpotlightPadding
	reach := hole - cfg.IndicatorSize/4
	tx := c + args.DX/args.OuterRadius*reach
	ty := c + args.DY/args.OuterRadius*reach
	size := geometry.IndicatorSize(cfg.IndicatorSize, args.SpotlightRadius, cfg.SpotlightPadding)
	s.FillSquare(tx, ty, size, math.Pi/4-args.Angle, cutColor)

	s.FillCircle(c, c, hole, cutColor)
	s.SetComposite(SourceOver)
}
