package geometry

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func TestWedgeWidth_SumsToFullTurn(t *testing.T) {
	for n := 1; n <= 16; n++ {
		total := 0.0
		for i := 0; i < n; i++ {
			start, end := WedgeAngles(i, n)
			width := end - start
			if math.Abs(width-TwoPi/float64(n)) > tolerance {
				t.Errorf("n=%d wedge %d width = %v, want %v", n, i, width, TwoPi/float64(n))
			}
			total += width
		}
		if math.Abs(total-TwoPi) > tolerance {
			t.Errorf("n=%d total width = %v, want 2π", n, total)
		}
	}
}

func TestWedgeWidth_NoCommands(t *testing.T) {
	if got := WedgeWidth(0); got != 0 {
		t.Errorf("WedgeWidth(0) = %v, want 0", got)
	}
	if got := FindWedge(1, 0, nil); got != -1 {
		t.Errorf("FindWedge with no wedges = %d, want -1", got)
	}
}

func TestWedgeAngles_StartAtTopClockwise(t *testing.T) {
	start, _ := WedgeAngles(0, 4)
	if math.Abs(start+HalfPi) > tolerance {
		t.Errorf("wedge 0 starts at %v, want -π/2 (top)", start)
	}

	// wedge 1 of 4 sits in the lower-right quadrant on screen
	mid := MidAngle(1, 4)
	if x, y := math.Cos(mid), math.Sin(mid); x <= 0 || y <= 0 {
		t.Errorf("wedge 1 mid direction = (%v, %v), want lower right", x, y)
	}
}

func TestPolar(t *testing.T) {
	tests := []struct {
		name      string
		dx, dy    float64
		wantTheta float64
		wantD     float64
	}{
		{"right", 100, 0, 0, 100},
		{"up", 0.01, -100, HalfPi, 100},
		{"left", -100, 0, math.Pi, 100},
		{"down", 0.01, 100, 3 * HalfPi, 100},
		{"up right", 50, -50, math.Pi / 4, math.Sqrt(5000)},
		{"down left", -50, 50, 5 * math.Pi / 4, math.Sqrt(5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d, theta := Polar(tt.dx, tt.dy)
			if math.Abs(theta-tt.wantTheta) > 1e-3 {
				t.Errorf("theta = %v, want %v", theta, tt.wantTheta)
			}
			if math.Abs(d-tt.wantD) > 1e-3 {
				t.Errorf("d = %v, want %v", d, tt.wantD)
			}
		})
	}
}

func TestPolar_ZeroDeltaIsNudged(t *testing.T) {
	dx, d, theta := Polar(0, -80)
	if dx != ZeroDeltaNudge {
		t.Errorf("dx = %v, want %v", dx, ZeroDeltaNudge)
	}
	if math.IsNaN(theta) || math.IsNaN(d) {
		t.Fatalf("angle undefined: d=%v theta=%v", d, theta)
	}
	if math.Abs(theta-HalfPi) > 1e-3 {
		t.Errorf("theta = %v, want ~π/2", theta)
	}
}

func TestFindWedge_StraightUpIsFirst(t *testing.T) {
	_, _, theta := Polar(0.01, -100)
	if got := FindWedge(theta, 4, nil); got != 0 {
		t.Errorf("FindWedge(up) = %d, want 0", got)
	}
}

func TestFindWedge_BoundaryBelongsToOneSide(t *testing.T) {
	for n := 1; n <= 12; n++ {
		for b := 0; b < n; b++ {
			// math angle of the clockwise boundary at the start of wedge b
			theta := HalfPi - WedgeWidth(n)*float64(b)
			owners := 0
			for i := 0; i < n; i++ {
				if WedgeContains(i, n, theta) {
					owners++
				}
			}
			if owners != 1 {
				t.Errorf("n=%d boundary %d owned by %d wedges, want 1", n, b, owners)
			}
		}
	}

	// the boundary between wedges 0 and 1 of 4 lies on the positive x axis
	_, _, theta := Polar(100, 0)
	if got := FindWedge(theta, 4, nil); got != 1 {
		t.Errorf("boundary 0|1 assigned to %d, want 1 (lower edge inclusive)", got)
	}
}

func TestFindWedge_EveryAngleHasAnOwner(t *testing.T) {
	for n := 1; n <= 9; n++ {
		for step := 0; step < 720; step++ {
			theta := TwoPi * float64(step) / 720
			if got := FindWedge(theta, n, nil); got < 0 || got >= n {
				t.Fatalf("n=%d theta=%v assigned to %d", n, theta, got)
			}
		}
	}
}

func TestFindWedge_DisabledReportsNone(t *testing.T) {
	disabled := map[int]bool{0: true}
	enabled := func(i int) bool { return !disabled[i] }

	_, _, up := Polar(0.01, -100)
	if got := FindWedge(up, 4, enabled); got != -1 {
		t.Errorf("FindWedge over disabled wedge = %d, want -1", got)
	}

	// just left of straight down
	_, _, down := Polar(-0.01, 100)
	if got := FindWedge(down, 4, enabled); got != 2 {
		t.Errorf("FindWedge(down) = %d, want 2", got)
	}
}

func TestSpotlightRadius(t *testing.T) {
	s := Spotlight{Min: 24, Max: 38}

	tests := []struct {
		name     string
		spot     Spotlight
		width    float64
		node     bool
		expected float64
	}{
		{"small node clamps to min", s, 40, true, 24},
		{"mid node", s, 60, true, 30},
		{"large node clamps to max", s, 200, true, 38},
		{"adaptive node is unclamped", Spotlight{Min: 24, Max: 38, Adaptive: true}, 200, true, 100},
		{"background uses nominal width", s, 500, false, 24},
		{"adaptive background still clamps", Spotlight{Min: 24, Max: 38, Adaptive: true}, 500, false, 24},
		{"zero bounds ignored", Spotlight{}, 500, false, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spot.Radius(tt.width, tt.node); got != tt.expected {
				t.Errorf("Radius() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestOuterRadiusAndContainer(t *testing.T) {
	r := OuterRadius(40, 100)
	if r != 120 {
		t.Errorf("OuterRadius = %v, want 120", r)
	}
	if got := ContainerSize(r, 20); got != 280 {
		t.Errorf("ContainerSize = %v, want 280", got)
	}
}

func TestIndicatorSize_Clamped(t *testing.T) {
	if got := IndicatorSize(24, 10, 4); got != 14 {
		t.Errorf("IndicatorSize = %v, want 14", got)
	}
	if got := IndicatorSize(24, 38, 4); got != 24 {
		t.Errorf("IndicatorSize = %v, want 24", got)
	}
}

func TestLabel(t *testing.T) {
	box := Label(0, 4, 120, 24)

	// wedge 0 of 4 is centred at 45° clockwise from the top: upper right
	if box.Center.X <= 0 || box.Center.Y >= 0 {
		t.Errorf("label 0 centre = %+v, want upper right", box.Center)
	}
	dist := math.Hypot(box.Center.X, box.Center.Y)
	if math.Abs(dist-72) > tolerance {
		t.Errorf("label distance = %v, want 72", dist)
	}
	want := 96 * math.Cos(math.Pi/4)
	if math.Abs(box.Size-want) > tolerance {
		t.Errorf("label size = %v, want %v", box.Size, want)
	}

	// a single wedge is centred at the bottom and spans the full ring
	single := Label(0, 1, 120, 24)
	if math.Abs(single.Size-96) > tolerance {
		t.Errorf("single label size = %v, want 96", single.Size)
	}
}
