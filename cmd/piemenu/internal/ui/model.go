// Package ui is a terminal playground for the radial menu. The diagram is
// drawn with half-block characters and the terminal mouse drives it:
// right-press opens the menu, dragging highlights, release selects.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/piemenu/cmd/piemenu/internal/config"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/graphview"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/scheduler"
)

// DefaultCellSize is the number of diagram pixels per half-block pixel
const DefaultCellSize = 6

const frameInterval = 50 * time.Millisecond

// KeyMap defines the playground shortcuts
type KeyMap struct {
	Fit    key.Binding
	Reset  key.Binding
	Layout key.Binding
	Close  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fit, k.Reset, k.Layout},
		{k.Close, k.Help, k.Quit},
	}
}

var DefaultKeyMap = KeyMap{
	Fit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset view"),
	),
	Layout: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "run layout"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close menu"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

type tickMsg time.Time

// selection is shared by every copy of the model
type selection struct {
	last string
}

// Model is the playground state
type Model struct {
	scene *config.Scene
	stage *config.Stage
	clock *scheduler.ManualClock

	width    int
	height   int
	cellSize float64
	fitted   bool

	keys     KeyMap
	help     help.Model
	selected *selection
	status   string
	quitting bool
}

// NewModel builds the scene. A nil clock uses the platform frame clock;
// tests pass a ManualClock and advance it themselves.
func NewModel(scene *config.Scene, clock *scheduler.ManualClock) Model {
	sel := &selection{}
	var c scheduler.Clock
	if clock != nil {
		c = clock
	}
	stage := scene.Build(c, func(name string, target host.Element) {
		id := "background"
		if target != nil {
			id = target.ID()
		}
		sel.last = fmt.Sprintf("%s on %s", name, id)
	})

	return Model{
		scene:    scene,
		stage:    stage,
		clock:    clock,
		cellSize: DefaultCellSize,
		keys:     DefaultKeyMap,
		help:     help.New(),
		selected: sel,
		status:   "right-drag to open the menu",
	}
}

// Stage exposes the diagram and menu
func (m Model) Stage() *config.Stage { return m.stage }

// Status returns the status line text
func (m Model) Status() string { return m.status }

// Close releases the menu; call it after the program exits
func (m Model) Close() { m.stage.Close() }

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the redraw ticker
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles terminal events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		w, h := m.canvasSize()
		m.stage.Graph.Resize(float64(w)*m.cellSize, float64(h*2)*m.cellSize)
		if !m.fitted && m.scene.Fit > 0 {
			m.stage.Graph.Fit(m.scene.Fit)
			m.fitted = true
		}
		return m, nil

	case tickMsg:
		if m.clock != nil {
			m.clock.Advance()
		}
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Fit):
			m.stage.Graph.Fit(nonZero(m.scene.Fit, 40))
		case key.Matches(msg, m.keys.Reset):
			m.stage.Graph.Reset()
		case key.Matches(msg, m.keys.Layout):
			m.stage.Graph.Layout(30, 0.016)
		case key.Matches(msg, m.keys.Close):
			m.stage.Menu.Controller().Close()
			m.status = "menu closed"
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	g := m.stage.Graph
	p := m.toDiagram(msg.X, msg.Y)
	before := m.selected.last

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonRight:
			g.PointerDown(graphview.Secondary, p)
		case tea.MouseButtonLeft:
			g.PointerDown(graphview.Primary, p)
		case tea.MouseButtonWheelUp:
			g.Wheel(p, -100)
		case tea.MouseButtonWheelDown:
			g.Wheel(p, 100)
		}
	case tea.MouseActionMotion:
		g.PointerMove(p)
	case tea.MouseActionRelease:
		g.PointerUp(p)
	}

	switch {
	case m.selected.last != before:
		m.status = "selected " + m.selected.last
	case m.stage.Menu.IsOpen():
		if idx := m.stage.Menu.ActiveCommand(); idx >= 0 && idx < len(m.scene.Commands) {
			m.status = "release to run " + m.scene.Commands[idx].Name()
		} else {
			m.status = "drag onto a command"
		}
	}
}

// toDiagram maps a terminal cell to the centre of its upper half-block
func (m Model) toDiagram(x, y int) geometry.Point {
	return geometry.Point{
		X: (float64(x) + 0.5) * m.cellSize,
		Y: (float64(y*2) + 0.5) * m.cellSize,
	}
}

// canvasSize is the drawing area in cells; two lines are kept for the
// status and help lines
func (m Model) canvasSize() (int, int) {
	w, h := m.width, m.height-2
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func nonZero(v, def float64) float64 {
	if v != 0 {
		return v
	}
	return def
}
