// Package dom builds browser DOM nodes from vdom trees. The builder itself
// only exists under js/wasm; the attribute rules here are shared so they can
// be checked on any platform.
package dom

import "github.com/recera/piemenu/pkg/vdom"

// Binding says how an attribute reaches an element
type Binding struct {
	// Property is the DOM property written instead of calling setAttribute
	Property string
	// Bool marks properties that take a boolean
	Bool bool
}

// Bind returns the binding for attr. ok is false for attributes that go
// through setAttribute.
func Bind(attr string) (b Binding, ok bool) {
	switch attr {
	case "class":
		return Binding{Property: "className"}, true
	case "for":
		return Binding{Property: "htmlFor"}, true
	case "checked", "selected", "disabled", "readonly", "required":
		return Binding{Property: attr, Bool: true}, true
	}
	return Binding{}, false
}

// Skip reports whether a prop never reaches the DOM
func Skip(name string) bool {
	return name == "key" || name == "ref" || (len(name) > 2 && name[0] == 'o' && name[1] == 'n')
}

// Flatten inlines the children of fragments so kids holds only elements,
// text and raw markup
func Flatten(kids []vdom.VNode) []vdom.VNode {
	out := make([]vdom.VNode, 0, len(kids))
	for _, k := range kids {
		if k.Kind == vdom.KindFragment {
			out = append(out, Flatten(k.Kids)...)
			continue
		}
		out = append(out, k)
	}
	return out
}
