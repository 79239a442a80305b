// Package locator finds the live form control for a field name inside a
// rendered tree, however deeply custom render hooks nested it.
package locator

import "github.com/goliatone/go-schemaform/pkg/dom"

// Locate returns the first control named name below root. Direct children
// are checked first; otherwise each child is searched depth-first in document
// order and the first match wins. The root itself is never matched. A miss is
// a normal outcome and reports false.
func Locate(root dom.Node, name string) (*dom.Control, bool) {
	children := dom.Children(root)
	if len(children) == 0 {
		return nil, false
	}

	for _, child := range children {
		if control, ok := child.(*dom.Control); ok && control != nil && control.Name() == name {
			return control, true
		}
	}

	for _, child := range children {
		if control, ok := Locate(child, name); ok {
			return control, true
		}
	}
	return nil, false
}

// Group returns every control named name below root in document order. Radio
// groups share a name, so the constraint provider uses this to evaluate the
// group as a whole.
func Group(root dom.Node, name string) []*dom.Control {
	var out []*dom.Control
	Walk(root, func(control *dom.Control) bool {
		if control.Name() == name {
			out = append(out, control)
		}
		return true
	})
	return out
}

// Walk visits every control below root in document order until visit
// returns false.
func Walk(root dom.Node, visit func(*dom.Control) bool) {
	walk(root, visit)
}

func walk(node dom.Node, visit func(*dom.Control) bool) bool {
	for _, child := range dom.Children(node) {
		if control, ok := child.(*dom.Control); ok && control != nil {
			if !visit(control) {
				return false
			}
		}
		if !walk(child, visit) {
			return false
		}
	}
	return true
}
