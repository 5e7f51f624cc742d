// Package geometry holds the angle and radius math shared by the wheel
// renderer and the gesture controller.
//
// Two angle conventions are used. Math angles (theta) grow counterclockwise
// with y pointing up, which is what the drag computation produces. Screen
// angles grow clockwise with y pointing down, which is what 2D drawing
// surfaces expect. Wedge 0 starts at the top of the wheel and wedges follow
// each other clockwise.
package geometry

import "math"

const (
	// HalfPi is the math angle of the top of the wheel.
	HalfPi = math.Pi / 2
	// TwoPi is a full turn.
	TwoPi = 2 * math.Pi
	// ZeroDeltaNudge replaces a horizontal drag delta of exactly zero.
	ZeroDeltaNudge = 0.01
)

// Point is a position in CSS pixels.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// WedgeWidth returns the angular width of one of n equal wedges.
func WedgeWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return TwoPi / float64(n)
}

// WedgeAngles returns the screen angles bounding wedge i of n. The wedge
// runs clockwise from start to end.
func WedgeAngles(i, n int) (start, end float64) {
	d := WedgeWidth(n)
	start = -HalfPi + d*float64(i)
	return start, start + d
}

// MidAngle returns the screen angle halfway through wedge i of n.
func MidAngle(i, n int) float64 {
	start, end := WedgeAngles(i, n)
	return (start + end) / 2
}

// ClockwiseFromTop converts a math angle to the clockwise angle measured
// from the top of the wheel, normalised to [0, 2π).
func ClockwiseFromTop(theta float64) float64 {
	phi := math.Mod(HalfPi-theta, TwoPi)
	if phi < 0 {
		phi += TwoPi
	}
	if phi >= TwoPi {
		phi = 0
	}
	return phi
}

// WedgeContains reports whether the math angle theta falls in wedge i of n.
// Wedges are closed on the edge reached first when travelling clockwise
// from the top and open on the other, so every angle belongs to exactly
// one wedge.
func WedgeContains(i, n int, theta float64) bool {
	if n <= 0 || i < 0 || i >= n {
		return false
	}
	return wedgeOf(theta, n) == i
}

func wedgeOf(theta float64, n int) int {
	idx := int(ClockwiseFromTop(theta) / WedgeWidth(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// FindWedge walks the n wedges in order and returns the first one that
// contains theta and is accepted by enabled. It returns -1 when no wedge
// qualifies. A nil enabled accepts every wedge.
func FindWedge(theta float64, n int, enabled func(i int) bool) int {
	for i := 0; i < n; i++ {
		if !WedgeContains(i, n, theta) {
			continue
		}
		if enabled == nil || enabled(i) {
			return i
		}
	}
	return -1
}

// Polar converts an overlay-local drag delta (screen coordinates, y down) to
// its distance from the centre and its math angle in [0, 2π).
//
// The angle uses the law of cosines on the triangle formed by the delta and
// its horizontal component, then mirrors into the lower half-plane when the
// pointer is below the centre. A zero horizontal delta is nudged to
// ZeroDeltaNudge so the angle stays defined; the adjusted dx is returned.
func Polar(dx, dy float64) (adjustedDX, d, theta float64) {
	if dx == 0 {
		dx = ZeroDeltaNudge
	}

	d = math.Sqrt(dx*dx + dy*dy)
	cosTheta := (dy*dy - d*d - dx*dx) / (-2 * d * dx)
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	theta = math.Acos(cosTheta)

	if dy > 0 {
		theta = math.Pi + math.Abs(theta-math.Pi)
	}
	if theta >= TwoPi {
		theta -= TwoPi
	}

	return dx, d, theta
}

// Spotlight describes how the central hole is sized.
type Spotlight struct {
	Min      float64
	Max      float64
	Adaptive bool
}

// Radius returns the spotlight radius for a target of the given rendered
// outer width. Node targets are clamped to [Min, Max] unless Adaptive is set;
// other targets (edges, the background, at-mouse mode) always use a nominal
// width of 1 clamped to [Min, Max]. A zero bound is ignored.
func (s Spotlight) Radius(renderedOuterWidth float64, nodeTarget bool) float64 {
	clamp := true
	if nodeTarget {
		clamp = !s.Adaptive
	} else {
		renderedOuterWidth = 1
	}

	r := renderedOuterWidth / 2
	if clamp && s.Min != 0 {
		r = math.Max(r, s.Min)
	}
	if clamp && s.Max != 0 {
		r = math.Min(r, s.Max)
	}
	return r
}

// OuterRadius returns the wheel radius for a target of the given rendered
// outer width: half the width plus the configured menu radius.
func OuterRadius(renderedOuterWidth, menuRadius float64) float64 {
	return renderedOuterWidth/2 + menuRadius
}

// ContainerSize returns the edge length of the square overlay that holds a
// wheel of the given radius, including room for the raised active wedge.
func ContainerSize(outerRadius, activePadding float64) float64 {
	return (outerRadius + activePadding) * 2
}

// IndicatorSize clamps the pointer glyph so it never grows past the
// spotlight edge.
func IndicatorSize(indicatorSize, spotlightRadius, spotlightPadding float64) float64 {
	if limit := spotlightRadius + spotlightPadding; indicatorSize > limit {
		return limit
	}
	return indicatorSize
}

// LabelBox is the square cell holding one command label, relative to the
// wheel centre.
type LabelBox struct {
	// Center of the cell, screen coordinates relative to the wheel centre.
	Center Point
	// Size is the edge length of the cell.
	Size float64
}

// Label places the label for wedge i of n midway across the ring between
// the spotlight and the outer radius. The cell edge is the larger of the
// horizontal and vertical extent of the ring along the mid angle.
func Label(i, n int, outerRadius, spotlightRadius float64) LabelBox {
	mid := MidAngle(i, n)
	r := (outerRadius + spotlightRadius) / 2
	ring := outerRadius - spotlightRadius

	width := math.Abs(ring * math.Cos(mid))
	height := math.Abs(ring * math.Sin(mid))

	return LabelBox{
		Center: Point{X: r * math.Cos(mid), Y: r * math.Sin(mid)},
		Size:   math.Max(width, height),
	}
}
