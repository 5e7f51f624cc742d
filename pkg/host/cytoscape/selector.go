// Package cytoscape binds a Cytoscape.js instance to host.Diagram so the
// radial menu can run in the browser. The binding itself only builds under
// js/wasm.
package cytoscape

import (
	"strings"

	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/host"
)

// Delegation decides how a menu selector is subscribed. Cytoscape has no
// selector for the background, so selectors naming "core" are subscribed
// globally and matched on our side.
func Delegation(selector string) (cySelector string, filter bool) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return "", false
	}
	for _, part := range strings.Split(selector, ",") {
		if strings.TrimSpace(part) == "core" {
			return "", true
		}
	}
	return selector, false
}

// EventList joins event names the way cy.on expects them
func EventList(events []string) string {
	return strings.Join(host.SplitEvents(events...), " ")
}

// Box is the padding plus border of the document body on one axis
type Box struct {
	Padding float64
	Border  float64
}

// PageOffset places a container on the page from its client rect origin,
// the body scroll and the body's left and top boxes
func PageOffset(rect, bodyScroll geometry.Point, left, top Box) geometry.Point {
	return geometry.Point{
		X: rect.X + bodyScroll.X + left.Padding + left.Border,
		Y: rect.Y + bodyScroll.Y + top.Padding + top.Border,
	}
}
