package cytoscape

import (
	"testing"

	"github.com/recera/piemenu/pkg/geometry"
)

func TestDelegation(t *testing.T) {
	tests := []struct {
		selector string
		cy       string
		filter   bool
	}{
		{"", "", false},
		{"node", "node", false},
		{" node, edge ", "node, edge", false},
		{"node[weight > 3]", "node[weight > 3]", false},
		{"node, core", "", true},
		{"core", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			cy, filter := Delegation(tt.selector)
			if cy != tt.cy || filter != tt.filter {
				t.Errorf("Delegation(%q) = %q, %v; want %q, %v", tt.selector, cy, filter, tt.cy, tt.filter)
			}
		})
	}
}

func TestEventList(t *testing.T) {
	got := EventList([]string{"cxtdrag tapdrag", "taphold"})
	if got != "cxtdrag tapdrag taphold" {
		t.Errorf("EventList = %q", got)
	}
	if got := EventList(nil); got != "" {
		t.Errorf("EventList(nil) = %q", got)
	}
}

func TestPageOffset(t *testing.T) {
	got := PageOffset(
		geometry.Point{X: 10, Y: 20},
		geometry.Point{X: 0, Y: 100},
		Box{Padding: 8, Border: 1},
		Box{Padding: 4},
	)
	if got != (geometry.Point{X: 19, Y: 124}) {
		t.Errorf("PageOffset = %+v", got)
	}
}
