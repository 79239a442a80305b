package render

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
)

// ChildFunc wraps the control rendered for a field. It receives the field
// descriptor, including Validity once a validation pass has run, and may
// return nil to omit the field entirely.
type ChildFunc func(b dom.Builder, control dom.Node, field model.Field) dom.Node

// RadioFunc wraps one radio input of a group together with its label.
type RadioFunc func(b dom.Builder, control dom.Node, label string) dom.Node

// Hooks groups the optional render hooks. Nil hooks fall back to
// DefaultChild and DefaultRadio.
type Hooks struct {
	Child ChildFunc
	Radio RadioFunc
}

// DefaultChild returns the control unwrapped.
func DefaultChild(_ dom.Builder, control dom.Node, _ model.Field) dom.Node {
	return control
}

// DefaultRadio renders `<label>{control}{label}</label>`.
func DefaultRadio(b dom.Builder, control dom.Node, label string) dom.Node {
	return b.El("label", nil, control, b.Text(label))
}

func (h Hooks) child() ChildFunc {
	if h.Child != nil {
		return h.Child
	}
	return DefaultChild
}

func (h Hooks) radio() RadioFunc {
	if h.Radio != nil {
		return h.Radio
	}
	return DefaultRadio
}

// Field renders one descriptor and passes the result through the child hook.
// Malformed descriptors fail with a *model.FieldError.
func Field(b dom.Builder, field model.Field, hooks Hooks) (dom.Node, error) {
	if b == nil {
		b = dom.NewBuilder()
	}

	var control dom.Node
	switch field.Type.Class() {
	case model.ClassText:
		control = textControl(b, field)
	case model.ClassSelect:
		if len(field.Options) == 0 {
			return nil, missingOptions(field)
		}
		control = selectControl(b, field)
	case model.ClassRadio:
		if len(field.Options) == 0 {
			return nil, missingOptions(field)
		}
		control = radioGroup(b, field, hooks.radio())
	case model.ClassCheckbox:
		control = checkboxControl(b, field)
	case model.ClassInvalid:
		return nil, &model.FieldError{
			Index: -1,
			Name:  field.Name,
			Err:   fmt.Errorf("%w %q", model.ErrUnknownKind, field.Type),
		}
	}

	return hooks.child()(b, control, field), nil
}

func missingOptions(field model.Field) error {
	return &model.FieldError{
		Index: -1,
		Name:  field.Name,
		Err:   fmt.Errorf("%w for %s fields", model.ErrMissingOptions, field.Type.Normalize()),
	}
}

func textControl(b dom.Builder, field model.Field) dom.Node {
	attrs := dom.Attrs{dom.A("name", field.Name)}
	if field.Required {
		attrs = append(attrs, dom.Bool("required"))
	}
	attrs = append(attrs,
		dom.A("type", field.InputType()),
		dom.A("value", field.Value),
	)
	if field.Min != "" {
		attrs = append(attrs, dom.A("min", field.Min))
	}
	if field.Max != "" {
		attrs = append(attrs, dom.A("max", field.Max))
	}
	if field.MinLength != nil {
		attrs = append(attrs, dom.A("minlength", strconv.Itoa(*field.MinLength)))
	}
	if field.MaxLength != nil {
		attrs = append(attrs, dom.A("maxlength", strconv.Itoa(*field.MaxLength)))
	}
	if field.Pattern != "" {
		attrs = append(attrs, dom.A("pattern", field.Pattern))
	}
	return b.El("input", attrs)
}

func selectControl(b dom.Builder, field model.Field) dom.Node {
	var attrs dom.Attrs
	if field.Multiple {
		attrs = append(attrs, dom.Bool("multiple"))
	}
	attrs = append(attrs, dom.A("name", field.Name))
	if field.Required {
		attrs = append(attrs, dom.Bool("required"))
	}

	options := make([]dom.Node, 0, len(field.Options))
	for _, option := range field.Options {
		optionAttrs := dom.Attrs{dom.A("value", option.Value)}
		if field.IsSelected(option.Value) {
			optionAttrs = append(optionAttrs, dom.Bool("selected"))
		}
		options = append(options, b.El("option", optionAttrs, b.Text(option.Label)))
	}
	return b.El("select", attrs, options...)
}

// radioGroup distributes the group-level required flag to every radio so
// each one carries the constraint independently.
func radioGroup(b dom.Builder, field model.Field, wrap RadioFunc) dom.Node {
	radios := make([]dom.Node, 0, len(field.Options))
	for _, option := range field.Options {
		attrs := dom.Attrs{
			dom.A("name", field.Name),
			dom.A("type", "radio"),
			dom.A("value", option.Value),
		}
		if option.Value == field.Value {
			attrs = append(attrs, dom.Bool("checked"))
		}
		if field.Required {
			attrs = append(attrs, dom.Bool("required"))
		}
		radios = append(radios, wrap(b, b.El("input", attrs), option.Label))
	}
	return b.El("div", nil, radios...)
}

func checkboxControl(b dom.Builder, field model.Field) dom.Node {
	attrs := dom.Attrs{dom.A("name", field.Name)}
	if field.Required {
		attrs = append(attrs, dom.Bool("required"))
	}
	attrs = append(attrs, dom.A("type", "checkbox"))
	if field.Value != "" {
		attrs = append(attrs, dom.A("value", field.Value))
	}
	if field.Checked {
		attrs = append(attrs, dom.Bool("checked"))
	}
	return b.El("input", attrs)
}
