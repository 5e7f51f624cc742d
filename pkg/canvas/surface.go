package canvas

// Composite selects how subsequent drawing combines with the surface
type Composite uint8

const (
	// SourceOver paints over existing pixels
	SourceOver Composite = iota
	// DestinationOut erases existing pixels wherever the shape is drawn
	DestinationOut
)

func (c Composite) String() string {
	switch c {
	case DestinationOut:
		return "destination-out"
	default:
		return "source-over"
	}
}

// Surface is the 2D drawing target of the wheel. Coordinates are logical
// (CSS) pixels; angles are screen angles in radians, clockwise from the
// positive x axis. Colours are CSS colour strings.
type Surface interface {
	// Resize sets the logical size and the physical density. It clears the
	// surface and resets the transform to a plain density scale.
	Resize(width, height int, pixelRatio float64)
	// Clear erases the whole surface
	Clear()
	// SetComposite selects the compositing mode for later drawing
	SetComposite(op Composite)
	// FillWedge fills the pie slice from start to end, clockwise
	FillWedge(cx, cy, r, start, end float64, fill string)
	// StrokeLine strokes a straight segment
	StrokeLine(x1, y1, x2, y2, width float64, stroke string)
	// FillCircle fills a full disc
	FillCircle(cx, cy, r float64, fill string)
	// FillSquare fills a square of the given edge centred on (cx, cy) and
	// rotated clockwise by rotation
	FillSquare(cx, cy, size, rotation float64, fill string)
}
