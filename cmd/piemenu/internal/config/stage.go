package config

import (
	"fmt"
	"math"

	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/graphview"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/piemenu"
	"github.com/recera/piemenu/pkg/scheduler"
)

// Stage is a scene brought to life: a diagram with the menu attached
type Stage struct {
	Graph *graphview.Graph
	Menu  *piemenu.Menu
}

// Build creates the diagram, runs the layout, fits the viewport and
// attaches the menu. A nil clock uses the platform default.
func (s *Scene) Build(clock scheduler.Clock, onSelect func(name string, target host.Element)) *Stage {
	g := graphview.New(s.Graph, s.GraphOptions())
	if s.Layout > 0 {
		g.Layout(s.Layout, 0.016)
	}
	if s.Fit > 0 {
		g.Fit(s.Fit)
	}

	opts := s.Menu
	opts.Commands = s.MenuCommands(onSelect)
	opts.Clock = clock

	return &Stage{Graph: g, Menu: piemenu.New(g, opts)}
}

// Perform plays the gesture against the diagram. It fails when the menu
// does not open.
func (st *Stage) Perform(gs Gesture) error {
	var at geometry.Point
	switch {
	case gs.Target != "":
		el := st.find(gs.Target)
		if el == nil {
			return fmt.Errorf("gesture: no element %q", gs.Target)
		}
		at = el.RenderedPosition()
	case len(gs.At) == 2:
		at = geometry.Point{X: gs.At[0], Y: gs.At[1]}
	default:
		w, h := st.Graph.Size()
		at = geometry.Point{X: w / 2, Y: h / 2}
	}

	button := graphview.Secondary
	if gs.Button == "primary" {
		button = graphview.Primary
	}
	st.Graph.PointerDown(button, at)
	if !st.Menu.IsOpen() {
		st.Graph.PointerUp(at)
		return fmt.Errorf("gesture: the menu did not open at %v", at)
	}

	pointer := at
	if gs.Distance > 0 {
		rad := gs.Angle * math.Pi / 180
		centre := st.Menu.Controller().Center()
		pointer = geometry.Point{
			X: centre.X + gs.Distance*math.Sin(rad),
			Y: centre.Y - gs.Distance*math.Cos(rad),
		}
		st.Graph.PointerMove(pointer)
	}
	if gs.Release {
		st.Graph.PointerUp(pointer)
	}
	return nil
}

// Close detaches the menu
func (st *Stage) Close() {
	st.Menu.Destroy()
}

func (st *Stage) find(id string) host.Element {
	if n := st.Graph.Node(id); n != nil {
		return n
	}
	for _, e := range st.Graph.Edges() {
		if e.ID() == id {
			return e
		}
	}
	return nil
}
