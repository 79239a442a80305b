// Package dom models rendered forms as a small typed tree. A Node is one of
// *Element (a container), *Control (a native form control: input, select or
// textarea), *Text or *Raw. Renderers build trees through a Builder, the
// locator walks them and the constraint provider reads control state from
// them. Trees are plain values: nothing here talks to a browser.
package dom

import "strings"

// Node is the sealed union of tree nodes.
type Node interface {
	isNode()
}

// Element is a container element such as form, div, label or option.
type Element struct {
	Tag      string
	Attrs    Attrs
	Children []Node
}

func (*Element) isNode() {}

// Control is a form control carrying a name, a value and validity. It is
// structurally an element; select controls keep their options as children.
type Control struct {
	Element
	customValidity string
}

func (*Control) isNode() {}

// Text is an escaped text node.
type Text struct {
	Data string
}

func (*Text) isNode() {}

// Raw is pre-sanitized markup emitted verbatim. It is opaque to traversal.
type Raw struct {
	HTML string
}

func (*Raw) isNode() {}

// Fragment returns a tag-less container that serializes only its children.
func Fragment(children ...Node) *Element {
	return &Element{Children: compact(children)}
}

// Children returns the child list of a node; leaves have none.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Element:
		if v == nil {
			return nil
		}
		return v.Children
	case *Control:
		if v == nil {
			return nil
		}
		return v.Children
	case *Text, *Raw, nil:
		return nil
	default:
		return nil
	}
}

// TextContent concatenates the text of every descendant Text node.
func TextContent(n Node) string {
	var builder strings.Builder
	collectText(n, &builder)
	return builder.String()
}

func collectText(n Node, builder *strings.Builder) {
	if text, ok := n.(*Text); ok && text != nil {
		builder.WriteString(text.Data)
		return
	}
	for _, child := range Children(n) {
		collectText(child, builder)
	}
}

var controlTags = map[string]struct{}{
	"input":    {},
	"select":   {},
	"textarea": {},
}

// IsControlTag reports whether elements with the tag are form controls.
func IsControlTag(tag string) bool {
	_, ok := controlTags[strings.ToLower(tag)]
	return ok
}

func compact(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		if node == nil || isNilNode(node) {
			continue
		}
		out = append(out, node)
	}
	return out
}

func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Element:
		return v == nil
	case *Control:
		return v == nil
	case *Text:
		return v == nil
	case *Raw:
		return v == nil
	default:
		return false
	}
}
