// Package command describes the entries of a radial menu
package command

import (
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/styling"
	"github.com/recera/piemenu/pkg/vdom"
)

// Command is one slice of the wheel. Commands are fixed when the menu is
// built; their order decides their position, clockwise from the top.
type Command struct {
	// Content is shown centred in the slice
	Content *vdom.VNode
	// FillColor overrides the wheel fill for this slice when set
	FillColor string
	// ContentStyle is merged over the label cell style
	ContentStyle styling.Declarations
	// Select runs when the command is chosen. The target is nil when the
	// menu was opened on the diagram background.
	Select func(target host.Element)
	// Disabled keeps the slice from being highlighted or chosen
	Disabled Disabled
}

// IsDisabled evaluates the command's disabled state for target
func (c Command) IsDisabled(target host.Element) bool {
	return c.Disabled.Eval(target)
}

// Text returns plain-text content
func Text(s string) *vdom.VNode {
	return vdom.NewText(s)
}

// HTML returns content rendered from trusted markup
func HTML(markup string) *vdom.VNode {
	return vdom.NewRaw(markup)
}

type disabledKind uint8

const (
	disabledStatic disabledKind = iota
	disabledPredicate
)

// Disabled is either a fixed flag or a predicate over the menu target.
// The zero value is a command that is always enabled.
type Disabled struct {
	kind  disabledKind
	value bool
	pred  func(target host.Element) bool
}

// Enabled returns a Disabled that never disables
func Enabled() Disabled {
	return Disabled{}
}

// Always returns a Disabled that always disables
func Always() Disabled {
	return Disabled{value: true}
}

// Static returns a fixed Disabled flag
func Static(disabled bool) Disabled {
	return Disabled{value: disabled}
}

// When returns a Disabled decided per target. A nil predicate never
// disables.
func When(pred func(target host.Element) bool) Disabled {
	if pred == nil {
		return Disabled{}
	}
	return Disabled{kind: disabledPredicate, pred: pred}
}

// IsPredicate reports whether the state depends on the target
func (d Disabled) IsPredicate() bool {
	return d.kind == disabledPredicate
}

// Eval returns the disabled state for target
func (d Disabled) Eval(target host.Element) bool {
	if d.kind == disabledPredicate {
		return d.pred(target)
	}
	return d.value
}
