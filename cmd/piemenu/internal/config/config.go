// Package config loads piemenu scene files. A scene describes a diagram,
// the menu attached to it and an optional scripted gesture.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/recera/piemenu/pkg/command"
	"github.com/recera/piemenu/pkg/graphview"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/piemenu"
	"github.com/recera/piemenu/pkg/styling"
)

// Scene is the root of a scene file
type Scene struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PixelRatio float64 `yaml:"pixelRatio"`

	// Fit pads the viewport around every node; 0 keeps the identity viewport
	Fit float64 `yaml:"fit"`
	// Layout runs this many force layout ticks before anything is shown
	Layout int `yaml:"layout"`

	Background string `yaml:"background"`

	Menu     piemenu.Options `yaml:"menu"`
	Commands []Command       `yaml:"commands"`
	Graph    graphview.Data  `yaml:"graph"`
	Gesture  Gesture         `yaml:"gesture"`
}

// Command is a menu entry. Exactly one of Label and HTML is shown.
type Command struct {
	Label     string `yaml:"label"`
	HTML      string `yaml:"html"`
	FillColor string `yaml:"fillColor"`
	Disabled  bool   `yaml:"disabled"`
	// DisabledFor disables the command for targets with these IDs;
	// "core" names the background
	DisabledFor  []string `yaml:"disabledFor"`
	ContentStyle string   `yaml:"contentStyle"`
}

// Name is the label used in logs
func (c Command) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return c.HTML
}

// Gesture scripts one open and drag of the menu
type Gesture struct {
	// Target is the node or edge ID to open on; empty opens on the
	// background at At
	Target string    `yaml:"target"`
	At     []float64 `yaml:"at"`
	// Button is "secondary" (default) or "primary"
	Button string `yaml:"button"`
	// Angle in degrees clockwise from twelve o'clock and Distance in
	// pixels place the pointer after opening; Distance 0 skips the drag
	Angle    float64 `yaml:"angle"`
	Distance float64 `yaml:"distance"`
	// Release lifts the pointer at the end, selecting the command
	Release bool `yaml:"release"`
}

// Load reads and parses a scene file
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a scene and checks it
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports the first inconsistency in the scene
func (s *Scene) Validate() error {
	for i, c := range s.Commands {
		if c.Label != "" && c.HTML != "" {
			return fmt.Errorf("command %d: label and html are exclusive", i)
		}
		if c.FillColor != "" {
			if _, err := styling.ParseColor(c.FillColor); err != nil {
				return fmt.Errorf("command %d: %w", i, err)
			}
		}
	}

	ids := make(map[string]bool, len(s.Graph.Nodes))
	for _, n := range s.Graph.Nodes {
		if n.ID == "" {
			return fmt.Errorf("graph: node without id")
		}
		if ids[n.ID] {
			return fmt.Errorf("graph: duplicate node %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range s.Graph.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("graph: edge %s-%s references an unknown node", e.Source, e.Target)
		}
	}

	switch s.Gesture.Button {
	case "", "primary", "secondary":
	default:
		return fmt.Errorf("gesture: unknown button %q", s.Gesture.Button)
	}
	if len(s.Gesture.At) != 0 && len(s.Gesture.At) != 2 {
		return fmt.Errorf("gesture: at needs two coordinates")
	}
	return nil
}

// MenuCommands turns the scene commands into menu commands. onSelect is
// called with the command name and the menu target.
func (s *Scene) MenuCommands(onSelect func(name string, target host.Element)) []command.Command {
	cmds := make([]command.Command, len(s.Commands))
	for i, c := range s.Commands {
		c := c
		content := command.Text(c.Label)
		if c.HTML != "" {
			content = command.HTML(c.HTML)
		}

		cmd := command.Command{
			Content:      content,
			FillColor:    c.FillColor,
			ContentStyle: styling.Parse(c.ContentStyle),
			Disabled:     command.Static(c.Disabled),
		}
		if len(c.DisabledFor) > 0 && !c.Disabled {
			blocked := make(map[string]bool, len(c.DisabledFor))
			for _, id := range c.DisabledFor {
				blocked[id] = true
			}
			cmd.Disabled = command.When(func(target host.Element) bool {
				if target == nil {
					return blocked["core"]
				}
				return blocked[target.ID()]
			})
		}
		if onSelect != nil {
			cmd.Select = func(target host.Element) { onSelect(c.Name(), target) }
		}
		cmds[i] = cmd
	}
	return cmds
}

// GraphOptions returns the diagram options of the scene
func (s *Scene) GraphOptions() *graphview.Options {
	return &graphview.Options{
		Width:           s.Width,
		Height:          s.Height,
		PixelRatio:      s.PixelRatio,
		BackgroundColor: s.Background,
	}
}
