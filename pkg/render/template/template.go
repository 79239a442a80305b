// Package template defines the template engine seam used by renderers that
// wrap the form fragment in a larger document.
package template

import "io"

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract. Renderers depend on this interface so callers can swap engines.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
