package schemaform

import (
	"io/fs"

	"github.com/goliatone/go-schemaform/pkg/renderers/page"
)

// EmbeddedTemplates exposes the built-in page template so callers can reuse
// or extend it without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return page.TemplatesFS()
}
