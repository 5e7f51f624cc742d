package graphview

// Node represents a graph node
type Node struct {
	ID    string  `yaml:"id"`
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Size  float64 `yaml:"size"` // radius in world units, default 8
	Color string  `yaml:"color"`
	// Locked nodes start ungrabbable
	Locked bool `yaml:"locked"`
	// Parent marks a compound node
	Parent bool `yaml:"parent"`
}

// Edge represents a graph edge between two nodes by ID
type Edge struct {
	ID     string `yaml:"id"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Color  string `yaml:"color"`
}

// Data holds the graph data
type Data struct {
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges"`
}

// Options configures the diagram behavior and style
type Options struct {
	// Viewport
	Width      float64 // default 800
	Height     float64 // default 600
	MinScale   float64 // default 0.2
	MaxScale   float64 // default 5.0
	PixelRatio float64 // default 1

	// Layout
	Repulsion       float64 // default 2000
	SpringLength    float64 // default 80
	SpringStiffness float64 // default 0.05
	Damping         float64 // default 0.85
	Gravity         float64 // default 0.01; negative disables

	// Rendering
	BackgroundColor string // default "#0b0e14"
	NodeColor       string // default "#6ea8fe"
	EdgeColor       string // default "#39424e"
	LabelColor      string // default "#eaeef3"
}

func (o *Options) withDefaults() Options {
	d := Options{
		Width:           800,
		Height:          600,
		MinScale:        0.2,
		MaxScale:        5.0,
		PixelRatio:      1,
		Repulsion:       2000,
		SpringLength:    80,
		SpringStiffness: 0.05,
		Damping:         0.85,
		Gravity:         0.01, // Small centering force by default
		BackgroundColor: "#0b0e14",
		NodeColor:       "#6ea8fe",
		EdgeColor:       "#39424e",
		LabelColor:      "#eaeef3",
	}
	if o == nil {
		return d
	}
	if o.Width != 0 {
		d.Width = o.Width
	}
	if o.Height != 0 {
		d.Height = o.Height
	}
	if o.MinScale != 0 {
		d.MinScale = o.MinScale
	}
	if o.MaxScale != 0 {
		d.MaxScale = o.MaxScale
	}
	if o.PixelRatio != 0 {
		d.PixelRatio = o.PixelRatio
	}
	if o.Repulsion != 0 {
		d.Repulsion = o.Repulsion
	}
	if o.SpringLength != 0 {
		d.SpringLength = o.SpringLength
	}
	if o.SpringStiffness != 0 {
		d.SpringStiffness = o.SpringStiffness
	}
	if o.Damping != 0 {
		d.Damping = o.Damping
	}
	// Gravity can be switched off with a negative value
	if o.Gravity > 0 {
		d.Gravity = o.Gravity
	} else if o.Gravity < 0 {
		d.Gravity = 0
	}
	if o.BackgroundColor != "" {
		d.BackgroundColor = o.BackgroundColor
	}
	if o.NodeColor != "" {
		d.NodeColor = o.NodeColor
	}
	if o.EdgeColor != "" {
		d.EdgeColor = o.EdgeColor
	}
	if o.LabelColor != "" {
		d.LabelColor = o.LabelColor
	}
	return d
}

func nonEmpty(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
