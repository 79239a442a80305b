package render

import (
	"net/url"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
)

// RenderOptions describe per-request data output renderers use without
// mutating the caller's schema.
type RenderOptions struct {
	// Hooks override field and radio markup.
	Hooks Hooks
	// Values renders a submission on top of the schema defaults.
	Values url.Values
	// Validity attaches snapshots from a previous validation pass so hooks
	// can reflect them.
	Validity map[string]model.Validity
	// Errors carries server-side messages keyed by field path. Field errors
	// become customError validity; unmatched paths become form errors.
	Errors map[string][]string
	// Hidden fields are emitted after the schema fields.
	Hidden []HiddenField
	// Action and Method populate the form element attributes.
	Action string
	Method string
	// Title is used by page-level renderers.
	Title string
	// Theme carries go-theme tokens, CSS variables and asset resolution for
	// page-level renderers.
	Theme *theme.RendererConfig
}

// Prepare derives the schema a renderer should draw: validity snapshots and
// server errors attached, caller schema untouched. Form-level messages are
// returned separately.
func (o RenderOptions) Prepare(schema model.Schema) (model.Schema, []string) {
	mapping := MapErrorPayload(schema, o.Errors)

	validity := make(map[string]model.Validity, len(o.Validity)+len(mapping.Fields))
	for name, state := range o.Validity {
		validity[name] = state
	}
	for name, state := range mapping.CustomValidity() {
		if previous, ok := validity[name]; ok {
			state = mergeCustom(previous, state)
		}
		validity[name] = state
	}
	if len(validity) == 0 {
		return schema.Clone(), mapping.Form
	}
	return schema.WithValidity(validity), mapping.Form
}

// FormOptions translates the request data into Form options.
func (o RenderOptions) FormOptions() []Option {
	options := []Option{WithHooks(o.Hooks)}
	if o.Values != nil {
		options = append(options, WithValues(o.Values))
	}
	if len(o.Hidden) > 0 {
		options = append(options, WithHiddenFields(o.Hidden...))
	}
	if action := strings.TrimSpace(o.Action); action != "" {
		options = append(options, WithAttrs(dom.A("action", action)))
	}
	if method := strings.TrimSpace(o.Method); method != "" {
		options = append(options, WithAttrs(dom.A("method", strings.ToLower(method))))
	}
	return options
}

func mergeCustom(previous, custom model.Validity) model.Validity {
	previous.Valid = false
	previous.CustomError = true
	if previous.Message == "" {
		previous.Message = custom.Message
	} else {
		previous.Message = previous.Message + " " + custom.Message
	}
	return previous
}
