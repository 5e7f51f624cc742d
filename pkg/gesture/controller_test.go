package gesture

import (
	"math"
	"testing"

	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/command"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/host/hosttest"
	"github.com/recera/piemenu/pkg/scheduler"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

type fixture struct {
	ctrl    *Controller
	diagram *hosttest.Diagram
	overlay *hosttest.Overlay
	engine  *canvas.Engine
	clock   *scheduler.ManualClock
	node    *hosttest.Element
}

func testCommands(n int) []command.Command {
	cmds := make([]command.Command, n)
	for i := range cmds {
		cmds[i] = command.Command{Content: command.Text(string(rune('A' + i)))}
	}
	return cmds
}

func baseConfig() Config {
	return Config{
		Commands:            testCommands(4),
		Selector:            "node",
		OpenEvents:          []string{"cxttapstart"},
		SelectEvents:        []string{"tap"},
		MenuRadius:          100,
		ActivePadding:       20,
		SpotlightPadding:    4,
		Spotlight:           geometry.Spotlight{Min: 24, Max: 38},
		OutsideCancel:       1,
		ItemColor:           "black",
		ItemTextShadowColor: "transparent",
	}
}

func newFixture(t testing.TB, mutate func(cfg *Config)) *fixture {
	t.Helper()
	cfg := baseConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	d := hosttest.NewDiagram()
	ov := d.FakeContainer().AttachOverlay(nil).(*hosttest.Overlay)
	clock := scheduler.NewManualClock()
	eng := canvas.NewEngine(ov.Surface(), clock, d.Window().PixelRatio)

	colors := make([]string, len(cfg.Commands))
	for i, cmd := range cfg.Commands {
		colors[i] = cmd.FillColor
	}
	eng.Configure(canvas.Config{
		FillColor:        "rgb(255, 0, 0)",
		ActiveFillColor:  "rgb(0, 0, 255)",
		WedgeColors:      colors,
		ActivePadding:    cfg.ActivePadding,
		IndicatorSize:    24,
		SeparatorWidth:   3,
		SpotlightPadding: cfg.SpotlightPadding,
	})

	return &fixture{
		ctrl:    New(d, ov, eng, cfg),
		diagram: d,
		overlay: ov,
		engine:  eng,
		clock:   clock,
		node:    hosttest.NewNode("n1", geometry.Point{X: 200, Y: 200}, 40),
	}
}

func (f *fixture) open(target host.Element) {
	f.diagram.Trigger("cxttapstart", target, target.RenderedPosition())
}

// dragToward drags from the wheel centre along (ux, uy) for dist pixels
func (f *fixture) dragToward(ux, uy, dist float64) {
	c := f.ctrl.Center()
	l := math.Hypot(ux, uy)
	pos := geometry.Point{X: c.X + ux/l*dist, Y: c.Y + uy/l*dist}
	f.diagram.Trigger("tapdrag", nil, pos)
}

func (f *fixture) hostFlags() [3]bool {
	return [3]bool{
		f.diagram.UserPanningEnabled(),
		f.diagram.UserZoomingEnabled(),
		f.diagram.BoxSelectionEnabled(),
	}
}

func TestController_EndToEnd(t *testing.T) {
	var selected host.Element
	calls := 0
	f := newFixture(t, func(cfg *Config) {
		cfg.Commands[0].Select = func(target host.Element) {
			calls++
			selected = target
		}
	})

	f.open(f.node)

	if !f.ctrl.IsOpen() || f.ctrl.State() != Tracking {
		t.Fatalf("state = %v, want tracking", f.ctrl.State())
	}
	if got := f.ctrl.SpotlightRadius(); got != 24 {
		t.Errorf("spotlight radius = %v, want 24 (clamped to min)", got)
	}
	if got := f.ctrl.OuterRadius(); got != 120 {
		t.Errorf("outer radius = %v, want 120", got)
	}
	if got := f.ctrl.ContainerSize(); got != 280 {
		t.Errorf("container size = %v, want 280", got)
	}

	// straight up
	f.diagram.Trigger("tapdrag", f.node, geometry.Point{X: 200.01, Y: 100})
	if got := f.ctrl.ActiveCommand(); got != 0 {
		t.Fatalf("active command = %d, want 0", got)
	}

	f.diagram.Trigger("tap", nil, geometry.Point{X: 200, Y: 100})

	if calls != 1 || selected != f.node {
		t.Errorf("select calls = %d, target = %v; want 1 call on the node", calls, selected)
	}
	if f.ctrl.IsOpen() {
		t.Error("menu should close after select")
	}
	if f.ctrl.ActiveCommand() != NoCommand {
		t.Error("active command should be cleared")
	}
	if f.overlay.Visible() {
		t.Error("overlay parent should be hidden")
	}
}

func TestController_Wedges(t *testing.T) {
	tests := []struct {
		name   string
		ux, uy float64
		want   int
	}{
		{"up right", 1, -1, 0},
		{"down right", 1, 1, 1},
		{"down left", -1, 1, 2},
		{"up left", -1, -1, 3},
		{"just right of up", 0.01, -1, 0},
		{"just left of up", -0.01, -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.open(f.node)
			f.dragToward(tt.ux, tt.uy, 80)
			if got := f.ctrl.ActiveCommand(); got != tt.want {
				t.Errorf("active command = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestController_SpotlightYieldsNoCommand(t *testing.T) {
	f := newFixture(t, nil)
	f.open(f.node)

	// spotlight 24 + padding 4
	for _, dist := range []float64{0.5, 10, 27.9} {
		for deg := 0; deg < 360; deg += 15 {
			rad := float64(deg) * math.Pi / 180
			f.dragToward(math.Cos(rad), math.Sin(rad), dist)
			if got := f.ctrl.ActiveCommand(); got != NoCommand {
				t.Fatalf("d=%v angle=%d: active = %d, want none", dist, deg, got)
			}
		}
	}

	f.dragToward(1, -1, 29)
	if got := f.ctrl.ActiveCommand(); got != 0 {
		t.Errorf("just past the spotlight: active = %d, want 0", got)
	}
}

func TestController_OutsideCancel(t *testing.T) {
	tests := []struct {
		name     string
		disabled bool
		cancel   float64
		dist     float64
		want     int
	}{
		// limit is 120 + 20 + 1
		{"inside the limit", false, 1, 140, 1},
		{"past the limit", false, 1, 146, NoCommand},
		{"larger threshold", false, 50, 146, 1},
		{"disabled", true, 0, 1200, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(cfg *Config) {
				cfg.OutsideCancel = tt.cancel
				cfg.OutsideCancelDisabled = tt.disabled
			})
			f.open(f.node)
			f.dragToward(1, 1, tt.dist)
			if got := f.ctrl.ActiveCommand(); got != tt.want {
				t.Errorf("active = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestController_DisabledCommands(t *testing.T) {
	locked := hosttest.NewNode("locked", geometry.Point{X: 100, Y: 100}, 30)
	f := newFixture(t, func(cfg *Config) {
		cfg.Commands[0].Disabled = command.Always()
		cfg.Commands[1].Disabled = command.When(func(target host.Element) bool {
			return target != nil && target.ID() == "locked"
		})
		cfg.Commands[0].Select = func(host.Element) { t.Error("disabled command selected") }
	})

	f.open(f.node)
	for deg := -89; deg < 0; deg += 8 {
		rad := float64(deg) * math.Pi / 180
		f.dragToward(math.Cos(rad), math.Sin(rad), 80)
		if got := f.ctrl.ActiveCommand(); got != NoCommand {
			t.Fatalf("angle %d: active = %d, want none over a disabled sector", deg, got)
		}
	}
	f.dragToward(1, 1, 80)
	if got := f.ctrl.ActiveCommand(); got != 1 {
		t.Errorf("predicate false: active = %d, want 1", got)
	}
	f.ctrl.Close()

	f.open(locked)
	f.dragToward(1, 1, 80)
	if got := f.ctrl.ActiveCommand(); got != NoCommand {
		t.Errorf("predicate true: active = %d, want none", got)
	}
	f.dragToward(-1, 1, 80)
	if got := f.ctrl.ActiveCommand(); got != 2 {
		t.Errorf("enabled neighbour: active = %d, want 2", got)
	}

	f.dragToward(1, -1, 80)
	f.diagram.Trigger("tap", nil, geometry.Point{})
	if f.ctrl.IsOpen() {
		t.Error("menu should close")
	}
}

func TestController_SuspendsAndRestoresHost(t *testing.T) {
	f := newFixture(t, nil)
	f.diagram.SetBoxSelectionEnabled(false)
	before := f.hostFlags()

	f.open(f.node)
	if got := f.hostFlags(); got != [3]bool{} {
		t.Errorf("flags while open = %v, want all disabled", got)
	}
	if f.node.Grabbable() {
		t.Error("target should be ungrabified while open")
	}

	f.ctrl.Close()
	if got := f.hostFlags(); got != before {
		t.Errorf("flags after close = %v, want %v", got, before)
	}
	if !f.node.Grabbable() {
		t.Error("target should be grabbable again")
	}
}

func TestController_UngrabbableTargetStaysUngrabbable(t *testing.T) {
	f := newFixture(t, nil)
	f.node.CanGrab = false

	f.open(f.node)
	f.ctrl.Close()

	if f.node.Grabbable() {
		t.Error("close must not grabify a target that was not grabbable")
	}
}

func TestController_DoubleOpen(t *testing.T) {
	f := newFixture(t, nil)
	other := hosttest.NewNode("n2", geometry.Point{X: 400, Y: 300}, 60)
	before := f.hostFlags()

	f.open(f.node)
	f.open(other)

	if f.ctrl.Target() != other {
		t.Fatalf("target = %v, want the second node", f.ctrl.Target())
	}
	if f.ctrl.State() != Tracking {
		t.Errorf("state = %v, want tracking", f.ctrl.State())
	}
	if !f.node.Grabbable() {
		t.Error("first target should be restored when the second session opens")
	}
	if other.Grabbable() {
		t.Error("second target should be ungrabified")
	}
	if got := f.ctrl.Center(); got != other.Position {
		t.Errorf("center = %v, want %v", got, other.Position)
	}
	if got := f.ctrl.SpotlightRadius(); got != 30 {
		t.Errorf("spotlight radius = %v, want 30", got)
	}

	f.ctrl.SelectCommand()
	if got := f.hostFlags(); got != before {
		t.Errorf("flags after close = %v, want the values saved before the first open %v", got, before)
	}
	if !other.Grabbable() {
		t.Error("second target should be grabbable after close")
	}
}

func TestController_SelectWithoutActiveCommand(t *testing.T) {
	called := false
	f := newFixture(t, func(cfg *Config) {
		for i := range cfg.Commands {
			cfg.Commands[i].Select = func(host.Element) { called = true }
		}
	})
	before := f.hostFlags()

	f.open(f.node)
	f.dragToward(1, 0, 5) // inside the spotlight
	f.ctrl.SelectCommand()

	if called {
		t.Error("no callback should run without an active command")
	}
	if f.ctrl.IsOpen() {
		t.Error("menu should close")
	}
	if got := f.hostFlags(); got != before {
		t.Errorf("flags = %v, want %v", got, before)
	}
}

func TestController_SelectWhileIdleIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.diagram.SetUserPanningEnabled(false)

	f.ctrl.SelectCommand()
	f.ctrl.Close()

	if f.diagram.UserPanningEnabled() {
		t.Error("closing an idle menu must not touch host flags")
	}
	if f.overlay.Renders != 1 {
		t.Errorf("renders = %d, want only the initial render", f.overlay.Renders)
	}
}

func TestController_CommandWithoutSelectJustCloses(t *testing.T) {
	f := newFixture(t, nil)
	f.open(f.node)
	f.dragToward(1, 1, 80)
	f.ctrl.SelectCommand()

	if f.ctrl.IsOpen() {
		t.Error("menu should close")
	}
}

func TestController_PanickingSelectStillCloses(t *testing.T) {
	var logged []interface{}
	SetDebugLog(func(args ...interface{}) { logged = append(logged, args...) })
	defer SetDebugLog(nil)

	f := newFixture(t, func(cfg *Config) {
		cfg.Commands[1].Select = func(host.Element) { panic("boom") }
	})
	before := f.hostFlags()

	f.open(f.node)
	f.dragToward(1, 1, 80)
	f.ctrl.SelectCommand()

	if f.ctrl.IsOpen() {
		t.Error("menu should close after a panicking command")
	}
	if got := f.hostFlags(); got != before {
		t.Errorf("flags = %v, want %v", got, before)
	}
	if len(logged) == 0 {
		t.Error("panic should be logged")
	}
}

func TestController_SelectThatReopensStaysOpen(t *testing.T) {
	other := hosttest.NewNode("n2", geometry.Point{X: 100, Y: 100}, 30)
	var f *fixture
	f = newFixture(t, func(cfg *Config) {
		cfg.Commands[1].Select = func(host.Element) { f.open(other) }
	})
	before := f.hostFlags()

	f.open(f.node)
	f.dragToward(1, 1, 80)
	f.ctrl.SelectCommand()

	if !f.ctrl.IsOpen() {
		t.Fatal("menu opened by the command should stay open")
	}
	if got := f.ctrl.State(); got != Tracking {
		t.Errorf("state = %v, want Tracking", got)
	}
	if f.hostFlags() == before {
		t.Error("host gestures should stay suspended for the new menu")
	}

	f.ctrl.Close()
	if got := f.hostFlags(); got != before {
		t.Errorf("flags after close = %v, want %v", got, before)
	}
}

func TestController_EmptyCommandsNeverOpen(t *testing.T) {
	f := newFixture(t, func(cfg *Config) { cfg.Commands = nil })
	f.open(f.node)

	if f.ctrl.IsOpen() {
		t.Error("menu without commands should not open")
	}
	if got := f.hostFlags(); got != [3]bool{true, true, true} {
		t.Errorf("flags = %v, want untouched", got)
	}
	if !f.node.Grabbable() {
		t.Error("target should stay grabbable")
	}
}

func TestController_DragWhileIdleIsIgnored(t *testing.T) {
	f := newFixture(t, nil)
	prevented := false
	f.diagram.Emit(host.Event{
		Name:           "tapdrag",
		Page:           geometry.Point{X: 10, Y: 10},
		PreventDefault: func() { prevented = true },
	})

	if prevented {
		t.Error("idle drag should not touch the event")
	}
	if f.ctrl.ActiveCommand() != NoCommand {
		t.Error("idle drag should not highlight")
	}
}

func TestController_BackgroundTarget(t *testing.T) {
	f := newFixture(t, func(cfg *Config) { cfg.Selector = "" })

	f.diagram.Trigger("cxttapstart", nil, geometry.Point{X: 50, Y: 60})

	if !f.ctrl.IsOpen() || f.ctrl.Target() != nil {
		t.Fatal("menu should open on the background")
	}
	if got := f.ctrl.SpotlightRadius(); got != 24 {
		t.Errorf("spotlight = %v, want 24", got)
	}
	if got := f.ctrl.OuterRadius(); got != 100.5 {
		t.Errorf("outer radius = %v, want 100.5", got)
	}
	if got := f.ctrl.Center(); got != (geometry.Point{X: 50, Y: 60}) {
		t.Errorf("center = %v", got)
	}
}

func TestController_AtMouseAndAdaptive(t *testing.T) {
	big := hosttest.NewNode("big", geometry.Point{X: 300, Y: 300}, 120)

	tests := []struct {
		name       string
		mutate     func(cfg *Config)
		wantSpot   float64
		wantRadius float64
		wantCenter geometry.Point
	}{
		{"clamped to max", nil, 38, 160, big.Position},
		{"adaptive", func(cfg *Config) { cfg.Spotlight.Adaptive = true }, 60, 160, big.Position},
		{"at mouse", func(cfg *Config) { cfg.AtMouse = true }, 24, 100.5, geometry.Point{X: 310, Y: 290}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.mutate)
			f.diagram.Trigger("cxttapstart", big, geometry.Point{X: 310, Y: 290})

			if got := f.ctrl.SpotlightRadius(); got != tt.wantSpot {
				t.Errorf("spotlight = %v, want %v", got, tt.wantSpot)
			}
			if got := f.ctrl.OuterRadius(); got != tt.wantRadius {
				t.Errorf("radius = %v, want %v", got, tt.wantRadius)
			}
			if got := f.ctrl.Center(); got != tt.wantCenter {
				t.Errorf("center = %v, want %v", got, tt.wantCenter)
			}
		})
	}
}

func TestController_RadiusFollowsTargetDuringDrag(t *testing.T) {
	f := newFixture(t, nil)
	f.open(f.node)

	f.node.Width = 70
	f.dragToward(1, 1, 80)

	if got := f.ctrl.OuterRadius(); got != 135 {
		t.Errorf("outer radius = %v, want 135", got)
	}
	if got := f.ctrl.SpotlightRadius(); got != 35 {
		t.Errorf("spotlight = %v, want 35", got)
	}
}

func TestController_PageOffsets(t *testing.T) {
	f := newFixture(t, nil)
	f.diagram.FakeContainer().Origin = geometry.Point{X: 40, Y: 70}
	f.diagram.FakeWindow().Scroll = geometry.Point{X: 5, Y: 300}

	f.open(f.node)
	f.dragToward(-1, -1, 80)
	if got := f.ctrl.ActiveCommand(); got != 3 {
		t.Errorf("active = %d, want 3", got)
	}

	// touches take precedence over the pointer
	prevented := false
	f.diagram.Emit(host.Event{
		Name:           "tapdrag",
		Page:           geometry.Point{X: 0, Y: 0},
		Touches:        []geometry.Point{{X: 245 + 60, Y: 570 + 60}},
		PreventDefault: func() { prevented = true },
	})
	if got := f.ctrl.ActiveCommand(); got != 1 {
		t.Errorf("touch drag active = %d, want 1", got)
	}
	if !prevented {
		t.Error("drag should prevent the native default")
	}
}

func TestController_Labels(t *testing.T) {
	f := newFixture(t, func(cfg *Config) {
		cfg.Commands[2].Disabled = command.Always()
		cfg.Commands[3].ContentStyle = styling.Declarations{"font-size": "20px", "width": "10px"}
	})
	f.open(f.node)

	parent := f.overlay.Parent
	if parent == nil || parent.Class() != ParentClass {
		t.Fatalf("parent = %+v", parent)
	}

	style := styling.Parse(parent.Attr("style"))
	for prop, want := range map[string]string{
		"display": "block",
		"width":   "280px",
		"left":    "80px",
		"top":     "80px",
	} {
		if style[prop] != want {
			t.Errorf("parent %s = %q, want %q", prop, style[prop], want)
		}
	}

	items := parent.FindAll(ItemClass)
	if len(items) != 4 {
		t.Fatalf("items = %d, want 4", len(items))
	}

	first := styling.Parse(items[0].Attr("style"))
	if first["margin-left"] != "16.971px" || first["margin-top"] != "-84.853px" {
		t.Errorf("first label margins = %q, %q", first["margin-left"], first["margin-top"])
	}
	if first["width"] != "67.882px" {
		t.Errorf("first label width = %q", first["width"])
	}

	contents := parent.FindAll(ContentClass)
	if len(contents) != 4 {
		t.Fatalf("contents = %d, want 4", len(contents))
	}
	if op := styling.Parse(contents[2].Attr("style"))["opacity"]; op != DisabledOpacity {
		t.Errorf("disabled opacity = %q", op)
	}
	if op := styling.Parse(contents[0].Attr("style"))["opacity"]; op != "" {
		t.Errorf("enabled opacity = %q, want unset", op)
	}
	last := styling.Parse(contents[3].Attr("style"))
	if last["font-size"] != "20px" || last["width"] != "10px" {
		t.Errorf("content style not merged: %v", last)
	}
	if txt := contents[1].Kids[0]; txt.Kind != vdom.KindText || txt.Text != "B" {
		t.Errorf("content = %+v, want text B", txt)
	}

	f.ctrl.Close()
	if f.overlay.Visible() {
		t.Error("overlay should be hidden after close")
	}
}

func TestController_DrawsWheel(t *testing.T) {
	f := newFixture(t, nil)
	f.open(f.node)
	f.engine.Tick()

	// canvas centre is radius + active padding
	const c = 140.0
	at := func(angle, d float64) (float64, float64) {
		return c + d*math.Cos(angle), c + d*math.Sin(angle)
	}

	x, y := at(-math.Pi/4, 70)
	if px := f.overlay.Raster.At(x, y); px.R != 255 || px.A != 255 {
		t.Errorf("background sector = %+v, want red", px)
	}

	f.dragToward(1, -1, 80)
	f.engine.Tick()
	if px := f.overlay.Raster.At(x, y); px.B != 255 || px.R != 0 {
		t.Errorf("active sector = %+v, want blue", px)
	}
	if px := f.overlay.Raster.At(c, c); px.A != 0 {
		t.Errorf("spotlight alpha = %d, want 0", px.A)
	}

	// moving into the spotlight clears the highlight on the next frame
	f.dragToward(1, -1, 5)
	f.engine.Tick()
	if px := f.overlay.Raster.At(x, y); px.R != 255 || px.B != 0 {
		t.Errorf("sector after leaving = %+v, want red", px)
	}
}

func TestController_ResizeRescales(t *testing.T) {
	f := newFixture(t, nil)
	f.open(f.node)

	f.diagram.FakeWindow().Ratio = 2
	f.diagram.FakeWindow().Resize()
	if got := f.overlay.Raster.Image().Bounds().Dx(); got != 560 {
		t.Errorf("physical width after window resize = %d, want 560", got)
	}

	f.diagram.FakeWindow().Ratio = 3
	f.diagram.Emit(host.Event{Name: "resize"})
	if got := f.overlay.Raster.Image().Bounds().Dx(); got != 840 {
		t.Errorf("physical width after diagram resize = %d, want 840", got)
	}
}

func TestController_Destroy(t *testing.T) {
	d := hosttest.NewDiagram()
	baseline := d.Listeners()

	ov := d.FakeContainer().AttachOverlay(nil).(*hosttest.Overlay)
	eng := canvas.NewEngine(ov.Surface(), scheduler.NewManualClock(), nil)
	ctrl := New(d, ov, eng, baseConfig())

	if d.Listeners() == baseline {
		t.Fatal("controller should subscribe to the diagram")
	}

	node := hosttest.NewNode("n", geometry.Point{X: 10, Y: 10}, 20)
	d.Trigger("cxttapstart", node, node.Position)

	ctrl.Destroy()
	ctrl.Destroy()

	if got := d.Listeners(); got != baseline {
		t.Errorf("listeners = %d, want baseline %d", got, baseline)
	}
	if !ov.Removed {
		t.Error("overlay should be removed")
	}
	if !node.Grabbable() || !d.UserPanningEnabled() {
		t.Error("destroy should restore the host")
	}

	d.Trigger("cxttapstart", node, node.Position)
	ctrl.Open(host.Event{Target: node})
	if ctrl.IsOpen() {
		t.Error("destroyed controller must not open")
	}
}
