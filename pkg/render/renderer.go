package render

import (
	"context"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// Renderer converts a schema into a byte representation: a bare form
// fragment, a full page, or a terminal session's collected values.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema model.Schema, options RenderOptions) ([]byte, error)
}
