package gesture

import (
	"fmt"
	"math"
	"strconv"

	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// Class names of the overlay elements
const (
	ParentClass  = "piemenu-parent"
	ItemClass    = "piemenu-item"
	ContentClass = "piemenu-content"
)

// DisabledOpacity is applied to the content of disabled commands
const DisabledOpacity = "0.333"

// buildLabels lays out one cell per command across the ring between the
// spotlight and the outer radius
func (c *Controller) buildLabels() []*vdom.VNode {
	n := len(c.cfg.Commands)
	shadow := textShadow(c.cfg.ItemTextShadowColor)
	labels := make([]*vdom.VNode, 0, n)

	for i, cmd := range c.cfg.Commands {
		box := geometry.Label(i, n, c.radius, c.spotlight)
		size := px(box.Size)

		item := styling.Declarations{
			"color":       c.cfg.ItemColor,
			"cursor":      "default",
			"display":     "table",
			"text-align":  "center",
			"position":    "absolute",
			"text-shadow": shadow,
			"left":        "50%",
			"top":         "50%",
			"min-height":  size,
			"width":       size,
			"height":      size,
			"margin-left": px(box.Center.X - box.Size/2),
			"margin-top":  px(box.Center.Y - box.Size/2),
		}

		content := styling.Declarations{
			"width":          size,
			"height":         size,
			"vertical-align": "middle",
			"display":        "table-cell",
		}.Merge(cmd.ContentStyle)
		if cmd.IsDisabled(c.target) {
			content["opacity"] = DisabledOpacity
		}

		labels = append(labels, vdom.NewElement("div",
			vdom.Props{"class": ItemClass, "style": item},
			vdom.NewElement("div", vdom.Props{"class": ContentClass, "style": content}, cmd.Content),
		))
	}
	return labels
}

// Tree returns the overlay parent element as last rendered
func (c *Controller) Tree() *vdom.VNode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree()
}

func (c *Controller) tree() *vdom.VNode {
	return vdom.NewElement("div",
		vdom.Props{"class": ParentClass, "style": c.parentStyle.Merge()},
		c.labels...,
	)
}

func (c *Controller) render() {
	c.overlay.Render(c.tree())
}

func textShadow(color string) string {
	return fmt.Sprintf("-1px -1px 2px %[1]s, 1px -1px 2px %[1]s, -1px 1px 2px %[1]s, 1px 1px 1px %[1]s", color)
}

func px(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
