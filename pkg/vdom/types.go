package vdom

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents a DOM element node
	KindElement VKind = iota
	// KindText represents a text node, escaped on output
	KindText
	// KindRaw represents trusted markup inserted verbatim
	KindRaw
	// KindFragment represents multiple children without a parent
	KindFragment
)

// Props represents the properties/attributes of a VNode
type Props map[string]any

// VNode represents a virtual DOM node.
// Once built a tree is treated as immutable; hosts may keep it around.
type VNode struct {
	// Kind determines the type of this node
	Kind VKind

	// Tag is the element tag name (e.g., "div", "canvas")
	// Only used when Kind == KindElement
	Tag string

	// Props contains the attributes for this node, including "class" and "style"
	Props Props

	// Kids contains child nodes
	Kids []VNode

	// Text content (KindText and KindRaw)
	Text string
}

// NewElement creates a new element VNode
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  collect(children),
	}
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// NewRaw creates a VNode holding markup that is emitted without escaping
func NewRaw(markup string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: markup,
	}
}

// NewFragment creates a new fragment VNode
func NewFragment(children ...*VNode) *VNode {
	return &VNode{
		Kind: KindFragment,
		Kids: collect(children),
	}
}

func collect(children []*VNode) []VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return kids
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// Class returns the class attribute, or "" when unset
func (v VNode) Class() string {
	s, _ := v.Props["class"].(string)
	return s
}

// Attr returns an attribute rendered as a string, or "" when unset
func (v VNode) Attr(name string) string {
	switch val := v.Props[name].(type) {
	case nil:
		return ""
	case string:
		return val
	case interface{ String() string }:
		return val.String()
	default:
		return ""
	}
}

// Walk visits v and every descendant depth-first. Returning false from fn
// skips the children of the visited node.
func (v *VNode) Walk(fn func(n *VNode) bool) {
	if v == nil || !fn(v) {
		return
	}
	for i := range v.Kids {
		v.Kids[i].Walk(fn)
	}
}

// FindAll returns every node in the tree whose class attribute equals class
func (v *VNode) FindAll(class string) []*VNode {
	var found []*VNode
	v.Walk(func(n *VNode) bool {
		if n.IsElement() && n.Class() == class {
			found = append(found, n)
		}
		return true
	})
	return found
}
