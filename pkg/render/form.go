package render

import (
	"fmt"
	"net/url"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
)

// Option configures a Form render pass.
type Option func(*config)

type config struct {
	builder dom.Builder
	hooks   Hooks
	values  url.Values
	hidden  []HiddenField
	attrs   dom.Attrs
}

// WithBuilder supplies the tree builder handed to fields and hooks.
func WithBuilder(builder dom.Builder) Option {
	return func(cfg *config) {
		if builder != nil {
			cfg.builder = builder
		}
	}
}

// WithHooks sets both render hooks at once.
func WithHooks(hooks Hooks) Option {
	return func(cfg *config) {
		cfg.hooks = hooks
	}
}

// WithChildRenderer overrides the per-field wrapper.
func WithChildRenderer(fn ChildFunc) Option {
	return func(cfg *config) {
		cfg.hooks.Child = fn
	}
}

// WithRadioRenderer overrides the per-option radio wrapper.
func WithRadioRenderer(fn RadioFunc) Option {
	return func(cfg *config) {
		cfg.hooks.Radio = fn
	}
}

// WithValues renders a submission on top of the schema defaults. See
// ApplyValues for the merge rules.
func WithValues(values url.Values) Option {
	return func(cfg *config) {
		cfg.values = values
	}
}

// WithHiddenFields appends hidden inputs (CSRF tokens, versions) after the
// schema fields.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(cfg *config) {
		cfg.hidden = append(cfg.hidden, fields...)
	}
}

// WithAttrs adds form attributes such as action or method. They follow the
// novalidate attribute.
func WithAttrs(attrs ...dom.Attr) Option {
	return func(cfg *config) {
		cfg.attrs = append(cfg.attrs, attrs...)
	}
}

// Form renders the schema into a single form element with native validation
// disabled, one child per field in schema order. The schema is validated
// first; contract violations are returned as *model.FieldError values.
func Form(schema model.Schema, options ...Option) (*dom.Element, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.builder == nil {
		cfg.builder = dom.NewBuilder()
	}

	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("render: invalid schema: %w", err)
	}

	fields := schema
	if cfg.values != nil {
		fields = ApplyValues(schema, cfg.values)
	}

	children := make([]dom.Node, 0, len(fields)+len(cfg.hidden))
	for _, field := range fields {
		node, err := Field(cfg.builder, field, cfg.hooks)
		if err != nil {
			return nil, fmt.Errorf("render: field %q: %w", field.Name, err)
		}
		if node != nil {
			children = append(children, node)
		}
	}

	hidden, err := hiddenInputs(cfg.builder, schema, cfg.hidden)
	if err != nil {
		return nil, err
	}
	children = append(children, hidden...)

	attrs := dom.Attrs{dom.Bool("novalidate")}
	attrs = append(attrs, cfg.attrs...)

	form := dom.Fragment(children...)
	form.Tag = "form"
	form.Attrs = attrs
	return form, nil
}

// HTML renders the schema and serializes the result.
func HTML(schema model.Schema, options ...Option) (string, error) {
	form, err := Form(schema, options...)
	if err != nil {
		return "", err
	}
	return dom.HTML(form), nil
}

func hiddenInputs(b dom.Builder, schema model.Schema, fields []HiddenField) ([]dom.Node, error) {
	sorted := SortedHiddenFields(MergeHiddenFields(nil, fields...))
	if len(sorted) == 0 {
		return nil, nil
	}
	out := make([]dom.Node, 0, len(sorted))
	for _, field := range sorted {
		if _, clash := schema.Lookup(field.Name); clash {
			return nil, fmt.Errorf("render: hidden field %q collides with a schema field", field.Name)
		}
		out = append(out, b.El("input", dom.Attrs{
			dom.A("name", field.Name),
			dom.A("type", "hidden"),
			dom.A("value", field.Value),
		}))
	}
	return out, nil
}
