package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#eaeef3")).
			Background(lipgloss.Color("#440381")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

// View renders the diagram, the status line and the help line
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	w, h := m.canvasSize()
	var b strings.Builder
	b.WriteString(HalfBlocks(m.stage.Graph.Snapshot(), w, h))
	b.WriteString("\n")
	b.WriteString(statusStyle.Width(m.width).Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusLine() string {
	ox, oy, scale := m.stage.Graph.Viewport()
	return fmt.Sprintf("%s  ·  zoom %.2f  pan %.0f,%.0f", m.status, scale, ox, oy)
}

// HalfBlocks downsamples img to cols x rows*2 pixels and draws each pair
// of vertical pixels as one upper half-block cell
func HalfBlocks(img image.Image, cols, rows int) string {
	small := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	cache := make(map[[2]color.RGBA]lipgloss.Style)
	var b strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < cols; x++ {
			top := small.RGBAAt(x, y*2)
			bottom := small.RGBAAt(x, y*2+1)
			pair := [2]color.RGBA{top, bottom}
			st, ok := cache[pair]
			if !ok {
				st = lipgloss.NewStyle().
					Foreground(lipgloss.Color(hex(top))).
					Background(lipgloss.Color(hex(bottom)))
				cache[pair] = st
			}
			b.WriteString(st.Render("▀"))
		}
	}
	return b.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
