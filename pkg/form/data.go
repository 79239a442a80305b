package form

import (
	"net/url"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/locator"
)

// Data builds the form data set of a rendered tree: the name/value pairs a
// browser would submit. Disabled and unnamed controls are skipped, as are
// unchecked checkboxes and radios. A checkbox without a value submits "on".
func Data(root dom.Node) url.Values {
	return collect(root, true)
}

// state is the data set used to carry user state across a re-render. A
// single select without an explicit selection contributes nothing, so the
// re-render does not pin the platform default as selected.
func state(root dom.Node) url.Values {
	return collect(root, false)
}

func collect(root dom.Node, implicitSelect bool) url.Values {
	values := url.Values{}
	locator.Walk(root, func(control *dom.Control) bool {
		name := control.Name()
		if name == "" || control.Disabled() {
			return true
		}
		switch control.Tag {
		case "select":
			selected := control.SelectedValues()
			if !implicitSelect {
				selected = explicitSelection(control)
			}
			for _, value := range selected {
				values.Add(name, value)
			}
			return true
		case "textarea":
			values.Add(name, control.Value())
			return true
		}
		switch control.Type() {
		case "checkbox", "radio":
			if !control.Checked() {
				return true
			}
			value := "on"
			if control.Attrs.Has("value") {
				value = control.Value()
			}
			values.Add(name, value)
		case "button", "reset", "submit", "image", "file":
		default:
			values.Add(name, control.Value())
		}
		return true
	})
	return values
}

func explicitSelection(control *dom.Control) []string {
	var out []string
	for _, option := range control.Options() {
		if option.Attrs.Has("selected") {
			out = append(out, dom.OptionValue(option))
		}
	}
	return out
}
