//go:build js && wasm
// +build js,wasm

package dom

import (
	"syscall/js"

	"github.com/recera/piemenu/pkg/vdom"
)

// DOMApplier turns vdom trees into browser DOM nodes
type DOMApplier struct {
	document js.Value
}

// NewDOMApplier creates a new DOM applier
func NewDOMApplier() *DOMApplier {
	return &DOMApplier{
		document: js.Global().Get("document"),
	}
}

// Create builds the DOM for vnode. Fragments and raw markup come back as a
// DocumentFragment; nil builds nothing and returns undefined.
func (a *DOMApplier) Create(vnode *vdom.VNode) js.Value {
	if vnode == nil {
		return js.Undefined()
	}

	switch vnode.Kind {
	case vdom.KindText:
		return a.document.Call("createTextNode", vnode.Text)

	case vdom.KindRaw:
		// a template parses markup without running scripts
		tpl := a.document.Call("createElement", "template")
		tpl.Set("innerHTML", vnode.Text)
		return tpl.Get("content")

	case vdom.KindFragment:
		frag := a.document.Call("createDocumentFragment")
		a.appendAll(frag, vnode.Kids)
		return frag

	case vdom.KindElement:
		elem := a.document.Call("createElement", vnode.Tag)
		a.SetAttributes(elem, vnode.Props)
		a.appendAll(elem, vnode.Kids)
		return elem

	default:
		return js.Undefined()
	}
}

func (a *DOMApplier) appendAll(parent js.Value, kids []vdom.VNode) {
	for i := range kids {
		child := a.Create(&kids[i])
		if !child.IsUndefined() {
			parent.Call("appendChild", child)
		}
	}
}

// SetAttributes makes the element's attributes exactly props. Attributes
// the element carries that props does not name are removed.
func (a *DOMApplier) SetAttributes(elem js.Value, props vdom.Props) {
	attrs := elem.Get("attributes")
	for i := attrs.Length() - 1; i >= 0; i-- {
		name := attrs.Index(i).Get("name").String()
		if _, keep := props[name]; !keep {
			a.removeAttribute(elem, name)
		}
	}

	for name := range props {
		if Skip(name) {
			continue
		}
		value := (vdom.VNode{Props: props}).Attr(name)
		a.setAttribute(elem, name, value)
	}
}

func (a *DOMApplier) setAttribute(elem js.Value, name, value string) {
	if b, ok := Bind(name); ok {
		if b.Bool {
			elem.Set(b.Property, value == "true")
		} else {
			elem.Set(b.Property, value)
		}
		return
	}
	elem.Call("setAttribute", name, value)
}

func (a *DOMApplier) removeAttribute(elem js.Value, name string) {
	if b, ok := Bind(name); ok {
		if b.Bool {
			elem.Set(b.Property, false)
		} else {
			elem.Set(b.Property, "")
		}
	}
	elem.Call("removeAttribute", name)
}

// ReplaceChildren drops every child of elem after the first keep and
// appends kids in their place
func (a *DOMApplier) ReplaceChildren(elem js.Value, keep int, kids []vdom.VNode) {
	nodes := elem.Get("childNodes")
	for nodes.Length() > keep {
		elem.Call("removeChild", elem.Get("lastChild"))
	}
	a.appendAll(elem, Flatten(kids))
}

// Update applies vnode's attributes and children to an existing element,
// leaving its first keep children in place
func (a *DOMApplier) Update(elem js.Value, vnode *vdom.VNode, keep int) {
	if vnode == nil || vnode.Kind != vdom.KindElement {
		return
	}
	a.SetAttributes(elem, vnode.Props)
	a.ReplaceChildren(elem, keep, vnode.Kids)
}

// Remove detaches elem from its parent, if any
func (a *DOMApplier) Remove(elem js.Value) {
	parent := elem.Get("parentNode")
	if !parent.IsNull() && !parent.IsUndefined() {
		parent.Call("removeChild", elem)
	}
}
