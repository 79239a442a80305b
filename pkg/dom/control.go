package dom

import "strings"

// Name returns the control's name attribute.
func (c *Control) Name() string {
	return c.Attrs.Value("name")
}

// Type mirrors the DOM `type` property: the input type (default "text"),
// "select-one"/"select-multiple" for selects and "textarea".
func (c *Control) Type() string {
	switch c.Tag {
	case "select":
		if c.Multiple() {
			return "select-multiple"
		}
		return "select-one"
	case "textarea":
		return "textarea"
	default:
		kind := strings.ToLower(strings.TrimSpace(c.Attrs.Value("type")))
		if kind == "" {
			return "text"
		}
		return kind
	}
}

// Value returns the current value. Selects report their first selected value.
func (c *Control) Value() string {
	switch c.Tag {
	case "textarea":
		return TextContent(c)
	case "select":
		selected := c.SelectedValues()
		if len(selected) == 0 {
			return ""
		}
		return selected[0]
	default:
		return c.Attrs.Value("value")
	}
}

// SetValue replaces the current value.
func (c *Control) SetValue(value string) {
	switch c.Tag {
	case "textarea":
		c.Children = []Node{&Text{Data: value}}
	case "select":
		c.SelectValues(value)
	default:
		c.Attrs.Set(A("value", value))
	}
}

// Checked reports the checkedness of checkbox and radio inputs.
func (c *Control) Checked() bool {
	return c.Attrs.Has("checked")
}

// SetChecked toggles the checked attribute.
func (c *Control) SetChecked(on bool) {
	c.Attrs.Toggle("checked", on)
}

// Required reports the required attribute.
func (c *Control) Required() bool {
	return c.Attrs.Has("required")
}

// Disabled reports the disabled attribute.
func (c *Control) Disabled() bool {
	return c.Attrs.Has("disabled")
}

// Multiple reports the multiple attribute.
func (c *Control) Multiple() bool {
	return c.Attrs.Has("multiple")
}

// Options returns the option elements of a select in document order,
// including those nested in optgroups.
func (c *Control) Options() []*Element {
	if c.Tag != "select" {
		return nil
	}
	var out []*Element
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, node := range nodes {
			el, ok := node.(*Element)
			if !ok || el == nil {
				continue
			}
			switch el.Tag {
			case "option":
				out = append(out, el)
			case "optgroup":
				walk(el.Children)
			}
		}
	}
	walk(c.Children)
	return out
}

// OptionValue returns the submitted value of an option element.
func OptionValue(option *Element) string {
	if value, ok := option.Attrs.Get("value"); ok {
		return value
	}
	return strings.TrimSpace(TextContent(option))
}

// SelectedValues returns the values of selected options. A single select
// with no explicit selection reports its first option, matching the
// platform's default selectedness.
func (c *Control) SelectedValues() []string {
	options := c.Options()
	var out []string
	for _, option := range options {
		if option.Attrs.Has("selected") {
			out = append(out, OptionValue(option))
		}
	}
	if len(out) == 0 && !c.Multiple() && len(options) > 0 {
		out = append(out, OptionValue(options[0]))
	}
	return out
}

// SelectValues marks the options whose value is listed as selected and
// clears every other option. Single selects keep only the first match.
func (c *Control) SelectValues(values ...string) {
	wanted := make(map[string]struct{}, len(values))
	for _, value := range values {
		wanted[value] = struct{}{}
	}
	matched := false
	for _, option := range c.Options() {
		_, hit := wanted[OptionValue(option)]
		if hit && (c.Multiple() || !matched) {
			option.Attrs.Toggle("selected", true)
			matched = true
			continue
		}
		option.Attrs.Toggle("selected", false)
	}
}

// SetCustomValidity records a custom error message; the empty string clears
// it. The message is state, not markup.
func (c *Control) SetCustomValidity(message string) {
	c.customValidity = message
}

// CustomValidity returns the message set through SetCustomValidity.
func (c *Control) CustomValidity() string {
	return c.customValidity
}
