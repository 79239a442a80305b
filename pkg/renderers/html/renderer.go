// Package html renders a schema as a server-side <form> fragment.
package html

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
)

// Option configures the HTML renderer.
type Option func(*Renderer)

// WithHooks sets the hooks used when a request carries none.
func WithHooks(hooks render.Hooks) Option {
	return func(r *Renderer) {
		r.hooks = hooks
	}
}

// WithSubmitLabel appends a submit button with the given label to the form.
func WithSubmitLabel(label string) Option {
	return func(r *Renderer) {
		r.submitLabel = label
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer emits the form fragment produced by render.Form, preceded by a
// list of form-level errors when the request carries any.
type Renderer struct {
	hooks       render.Hooks
	submitLabel string
	logger      *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer. Without WithHooks it wraps every control
// with FieldChild.
func New(options ...Option) *Renderer {
	r := &Renderer{
		hooks:  render.Hooks{Child: FieldChild},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the schema with the request's values, validity and errors.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	node, err := r.Node(schema, options)
	if err != nil {
		return nil, err
	}
	return []byte(dom.HTML(node)), nil
}

// Node renders the fragment as a tree so page renderers can embed it.
func (r *Renderer) Node(schema model.Schema, options render.RenderOptions) (dom.Node, error) {
	prepared, formErrors := options.Prepare(schema)

	hooks := options.Hooks
	if hooks.Child == nil {
		hooks.Child = r.hooks.Child
	}
	if hooks.Radio == nil {
		hooks.Radio = r.hooks.Radio
	}
	formOptions := append(options.FormOptions(), render.WithHooks(hooks))

	form, err := render.Form(prepared, formOptions...)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	if r.submitLabel != "" {
		b := dom.NewBuilder()
		form.Children = append(form.Children, b.El("button", dom.Attrs{dom.A("type", "submit")}, b.Text(r.submitLabel)))
	}
	r.logger.Debug("form rendered", zap.Int("fields", len(prepared)), zap.Int("form_errors", len(formErrors)))

	if len(formErrors) == 0 {
		return form, nil
	}
	return dom.Fragment(ErrorList(dom.NewBuilder(), formErrors), form), nil
}

// ErrorList renders form-level messages.
func ErrorList(b dom.Builder, messages []string) dom.Node {
	items := make([]dom.Node, 0, len(messages))
	for _, message := range messages {
		items = append(items, b.El("li", nil, b.Text(message)))
	}
	return b.El("ul", dom.Attrs{dom.Class("schemaform-errors"), dom.A("role", "alert")}, items...)
}

// FieldChild wraps a control with its name as a label and, once the field
// has been validated and failed, its validation message.
func FieldChild(b dom.Builder, control dom.Node, field model.Field) dom.Node {
	class := "schemaform-field"
	if field.Validity != nil && !field.Validity.Valid {
		class += " is-invalid"
	}
	children := []dom.Node{b.El("span", dom.Attrs{dom.Class("schemaform-label")}, b.Text(field.Name))}

	switch field.Type.Class() {
	case model.ClassRadio:
		children = append(children, control)
	default:
		children = []dom.Node{b.El("label", nil, append(children, control)...)}
	}
	if field.Validity != nil && !field.Validity.Valid && field.Validity.Message != "" {
		children = append(children, b.El("p", dom.Attrs{dom.Class("schemaform-message")}, b.Text(field.Validity.Message)))
	}
	return b.El("div", dom.Attrs{dom.Class(class), dom.A("data-field", field.Name)}, children...)
}
