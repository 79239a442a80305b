package page

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplateName is the entry template looked up in the template bundle.
const TemplateName = "page.html"

// TemplateExtension is the extension the page engine appends to bare
// template names.
const TemplateExtension = ".html"

// StylesheetAsset is the go-theme asset key resolved for the page stylesheet.
const StylesheetAsset = "page.stylesheet"

// TemplatesFS exposes the embedded template bundle so callers can start a
// custom bundle from it.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
