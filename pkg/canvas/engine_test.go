package canvas

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/recera/piemenu/pkg/scheduler"
)

const (
	outer  = 100.0
	spot   = 10.0
	center = outer + 20 // outer radius + active padding
)

func testConfig(n int) Config {
	return Config{
		FillColor:        "rgb(255, 0, 0)",
		ActiveFillColor:  "rgb(0, 0, 255)",
		WedgeColors:      make([]string, n),
		ActivePadding:    20,
		IndicatorSize:    24,
		SeparatorWidth:   3,
		SpotlightPadding: 4,
	}
}

func background() BackgroundArgs {
	return BackgroundArgs{OuterRadius: outer, SpotlightRadius: spot, ContainerSize: (outer + 20) * 2}
}

func newRasterEngine(t *testing.T, n int) (*Engine, *RasterSurface, *scheduler.ManualClock) {
	t.Helper()
	surface := NewRasterSurface()
	clock := scheduler.NewManualClock()
	e := NewEngine(surface, clock, nil)
	e.Configure(testConfig(n))
	e.SetSize(background().ContainerSize)
	return e, surface, clock
}

// polarPoint returns the point at distance d from the wheel centre along
// the given screen angle
func polarPoint(angle, d float64) (float64, float64) {
	return center + d*math.Cos(angle), center + d*math.Sin(angle)
}

func TestEngine_Background(t *testing.T) {
	e, s, clock := newRasterEngine(t, 4)
	e.Start()
	e.EnqueueBackground(background())
	clock.Advance()

	tests := []struct {
		name  string
		x, y  float64
		alpha uint8
		red   bool
	}{
		{"first sector", 0, 0, 255, true},
		{"spotlight hole", center, center, 0, false},
		{"separator at top", center, center - 60, 0, false},
		{"separator at right", center + 60, center, 0, false},
		{"outside the wheel", 5, 5, 0, false},
	}
	x, y := polarPoint(-math.Pi/4, 60)
	tests[0].x, tests[0].y = x, y

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px := s.At(tt.x, tt.y)
			if px.A != tt.alpha {
				t.Errorf("alpha at (%.1f, %.1f) = %d, want %d", tt.x, tt.y, px.A, tt.alpha)
			}
			if tt.red && (px.R != 255 || px.B != 0) {
				t.Errorf("pixel = %+v, want red", px)
			}
		})
	}
}

func TestEngine_WedgeColorOverride(t *testing.T) {
	e, s, _ := newRasterEngine(t, 4)
	cfg := testConfig(4)
	cfg.WedgeColors[2] = "#00ff00"
	e.Configure(cfg)

	e.EnqueueBackground(background())
	e.Tick()

	// third sector spans bottom to left
	x, y := polarPoint(3*math.Pi/4, 60)
	if px := s.At(x, y); px.G != 255 || px.R != 0 || px.A != 255 {
		t.Errorf("overridden sector = %+v, want green", px)
	}
	x, y = polarPoint(math.Pi/4, 60)
	if px := s.At(x, y); px.R != 255 || px.G != 0 {
		t.Errorf("default sector = %+v, want red", px)
	}
}

func TestEngine_Indicator(t *testing.T) {
	e, s, _ := newRasterEngine(t, 4)
	e.EnqueueBackground(background())
	e.Tick()

	// drag towards the lower right: second sector
	d := outer / math.Sqrt2
	e.EnqueueIndicator(IndicatorArgs{
		DX: d, DY: d,
		OuterRadius:     outer,
		Angle:           -math.Pi / 4,
		SpotlightRadius: spot,
		ActiveCommand:   1,
	})
	e.Tick()

	x, y := polarPoint(math.Pi/4, 60)
	if px := s.At(x, y); px.B != 255 || px.R != 0 || px.A != 255 {
		t.Errorf("active sector = %+v, want blue", px)
	}

	// the highlight extends into the active padding ring
	x, y = polarPoint(math.Pi/4, outer+10)
	if px := s.At(x, y); px.B != 255 {
		t.Errorf("active padding ring = %+v, want blue", px)
	}

	x, y = polarPoint(-math.Pi/4, 60)
	if px := s.At(x, y); px.R != 255 || px.B != 0 {
		t.Errorf("inactive sector = %+v, want red", px)
	}

	if px := s.At(center, center); px.A != 0 {
		t.Errorf("spotlight should be recut after the highlight, alpha = %d", px.A)
	}
}

func TestEngine_IndicatorWithoutCommandDrawsNothing(t *testing.T) {
	e, s, _ := newRasterEngine(t, 4)
	e.EnqueueBackground(background())
	e.Tick()

	before := append([]uint8(nil), s.Image().Pix...)

	e.EnqueueIndicator(IndicatorArgs{OuterRadius: outer, SpotlightRadius: spot, ActiveCommand: NoCommand})
	e.Tick()

	after := s.Image().Pix
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("surface changed at byte %d", i)
		}
	}
}

func TestEngine_CoalescesRequests(t *testing.T) {
	rec := &recordingSurface{}
	e := NewEngine(rec, scheduler.NewManualClock(), nil)
	e.Configure(testConfig(3))

	for i := 0; i < 5; i++ {
		args := background()
		args.OuterRadius = float64(50 + i)
		e.EnqueueBackground(args)
	}
	e.Tick()

	if got := rec.count("FillWedge"); got != 3 {
		t.Errorf("FillWedge calls = %d, want 3 (one background)", got)
	}
	if got := rec.calls[len(rec.calls)-1]; got != "SetComposite(source-over)" {
		t.Errorf("last call = %q, want composite restored", got)
	}
	if !strings.Contains(strings.Join(rec.calls, "\n"), "FillWedge(74.0") {
		t.Errorf("latest request not drawn: %v", rec.calls)
	}

	rec.calls = nil
	e.Tick()
	if len(rec.calls) != 0 {
		t.Errorf("empty tick drew %d calls", len(rec.calls))
	}
}

func TestEngine_BackgroundCallOrder(t *testing.T) {
	rec := &recordingSurface{}
	e := NewEngine(rec, nil, nil)
	e.Configure(testConfig(2))
	e.EnqueueBackground(background())
	e.Tick()

	want := []string{
		"SetComposite(source-over)",
		"Clear",
		"FillWedge",
		"FillWedge",
		"SetComposite(destination-out)",
		"StrokeLine",
		"StrokeLine",
		"FillCircle",
		"SetComposite(source-over)",
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %d entries", rec.calls, len(want))
	}
	for i, w := range want {
		if !strings.HasPrefix(rec.calls[i], w) {
			t.Errorf("call %d = %q, want %q", i, rec.calls[i], w)
		}
	}
}

func TestEngine_SeparatorPerWedge(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		rec := &recordingSurface{}
		e := NewEngine(rec, nil, nil)
		e.Configure(testConfig(n))
		e.EnqueueBackground(background())
		e.Tick()

		if got := rec.count("StrokeLine(3.0)"); got != n {
			t.Errorf("%d wedges: StrokeLine calls = %d, want %d", n, got, n)
		}
	}
}

func TestEngine_NilSurface(t *testing.T) {
	clock := scheduler.NewManualClock()
	e := NewEngine(nil, clock, nil)
	e.Configure(testConfig(4))
	e.SetSize(240)
	e.RescaleForDisplayDensity(240)
	e.Start()
	e.EnqueueBackground(background())
	e.EnqueueIndicator(IndicatorArgs{OuterRadius: outer, ActiveCommand: 0})
	clock.Advance()
	e.Stop()

	if e.background.Pending() || e.indicator.Pending() {
		t.Error("requests should be drained even without a surface")
	}
}

func TestEngine_StopHaltsDrawing(t *testing.T) {
	rec := &recordingSurface{}
	clock := scheduler.NewManualClock()
	e := NewEngine(rec, clock, nil)
	e.Configure(testConfig(4))

	e.Start()
	if !e.Running() {
		t.Fatal("engine should be running")
	}
	e.Stop()
	e.EnqueueBackground(background())
	clock.Advance()

	if len(rec.calls) != 0 {
		t.Errorf("stopped engine drew %v", rec.calls)
	}
}

func TestEngine_RescaleForDisplayDensity(t *testing.T) {
	s := NewRasterSurface()
	e := NewEngine(s, nil, func() float64 { return 2 })

	e.SetSize(240)
	if got := s.Image().Bounds().Dx(); got != 240 {
		t.Errorf("SetSize width = %d, want 240", got)
	}

	e.RescaleForDisplayDensity(240)
	if got := s.Image().Bounds().Dx(); got != 480 {
		t.Errorf("physical width = %d, want 480", got)
	}
	if w, h := s.Size(); w != 240 || h != 240 {
		t.Errorf("logical size = %dx%d, want 240x240", w, h)
	}

	e.Configure(testConfig(4))
	e.EnqueueBackground(background())
	e.Tick()
	x, y := polarPoint(-math.Pi/4, 60)
	if px := s.At(x, y); px.R != 255 || px.A != 255 {
		t.Errorf("scaled sector = %+v, want red", px)
	}
	if px := s.At(center, center); px.A != 0 {
		t.Errorf("scaled spotlight alpha = %d, want 0", px.A)
	}
}

type recordingSurface struct {
	calls []string
}

func (r *recordingSurface) record(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recordingSurface) count(prefix string) int {
	n := 0
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (r *recordingSurface) Resize(w, h int, ratio float64) { r.record("Resize(%d,%d,%.1f)", w, h, ratio) }
func (r *recordingSurface) Clear()                         { r.record("Clear") }
func (r *recordingSurface) SetComposite(op Composite)      { r.record("SetComposite(%s)", op) }

func (r *recordingSurface) FillWedge(cx, cy, rad, start, end float64, fill string) {
	r.record("FillWedge(%.1f,%.1f,%.1f)", cx, cy, rad)
}

func (r *recordingSurface) StrokeLine(x1, y1, x2, y2, width float64, stroke string) {
	r.record("StrokeLine(%.1f)", width)
}

func (r *recordingSurface) FillCircle(cx, cy, rad float64, fill string) {
	r.record("FillCircle(%.1f)", rad)
}

func (r *recordingSurface) FillSquare(cx, cy, size, rotation float64, fill string) {
	r.record("FillSquare(%.1f)", size)
}
