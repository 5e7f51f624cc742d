package html

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/recera/piemenu/pkg/vdom"
)

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
	"wbr":   true,
}

// HTMLApplier renders VNodes to HTML
type HTMLApplier struct {
	w   io.Writer
	err error
}

// NewHTMLApplier creates a new HTML applier
func NewHTMLApplier(w io.Writer) *HTMLApplier {
	return &HTMLApplier{w: w}
}

// Apply renders a VNode tree to HTML
func (a *HTMLApplier) Apply(node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	a.renderNode(node)
	return a.err
}

// write helper that tracks errors
func (a *HTMLApplier) write(s string) {
	if a.err != nil {
		return
	}
	_, a.err = io.WriteString(a.w, s)
}

func (a *HTMLApplier) renderNode(node *vdom.VNode) {
	if node == nil || a.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		a.write(html.EscapeString(node.Text))

	case vdom.KindRaw:
		// Command content is trusted markup supplied by the application
		a.write(node.Text)

	case vdom.KindElement:
		a.renderElement(node)

	case vdom.KindFragment:
		for i := range node.Kids {
			a.renderNode(&node.Kids[i])
		}
	}
}

func (a *HTMLApplier) renderElement(node *vdom.VNode) {
	a.write("<")
	a.write(node.Tag)

	// Sorted so identical trees always produce identical markup
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]

		if b, ok := value.(bool); ok {
			if b {
				a.write(" ")
				a.write(key)
			}
			continue
		}

		valueStr := fmt.Sprintf("%v", value)
		if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(valueStr), "javascript:") {
			valueStr = "#"
		}

		a.write(" ")
		a.write(key)
		a.write(`="`)
		a.write(html.EscapeString(valueStr))
		a.write(`"`)
	}

	a.write(">")

	if voidElements[node.Tag] {
		return
	}

	for i := range node.Kids {
		a.renderNode(&node.Kids[i])
	}

	a.write("</")
	a.write(node.Tag)
	a.write(">")
}

// RenderToString is a convenience function to render a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := NewHTMLApplier(&buf).Apply(node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
