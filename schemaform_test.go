package schemaform_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaform "github.com/goliatone/go-schemaform"
	"github.com/goliatone/go-schemaform/pkg/orchestrator"
	"github.com/goliatone/go-schemaform/pkg/renderers/page"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

func TestGenerateHTML_FromFS(t *testing.T) {
	files := fstest.MapFS{
		"forms/contact.yaml": {Data: []byte("- name: message\n  required: true\n- name: email\n  type: email\n")},
	}
	preset, err := schemaform.WithPreset([]byte("order: [email]\n"))
	require.NoError(t, err)

	out, err := schemaform.GenerateHTML(context.Background(),
		schema.SourceFromFS("forms/contact.yaml"), "", "html",
		orchestrator.WithLoader(schemaform.NewLoader(schema.WithFileSystem(files))),
		preset,
	)
	require.NoError(t, err)

	html := string(out)
	assert.True(t, strings.HasPrefix(html, `<form novalidate="novalidate">`))
	assert.Less(t, strings.Index(html, `name="email"`), strings.Index(html, `name="message"`))
}

func TestGenerateHTMLFromDocument(t *testing.T) {
	doc, err := schema.NewDocument(schema.SourceFromFile("inline.json"), []byte(`[{"name":"q","type":"search"}]`))
	require.NoError(t, err)

	out, err := schemaform.GenerateHTMLFromDocument(context.Background(), doc, "", "page")
	require.NoError(t, err)
	assert.Contains(t, string(out), `<input name="q" type="search" value="">`)
	assert.Contains(t, string(out), "<!DOCTYPE html>")
}

func TestWithPreset_RejectsMalformedInput(t *testing.T) {
	_, err := schemaform.WithPreset([]byte("omit: {"))
	assert.Error(t, err)
}

func TestEmbeddedTemplates(t *testing.T) {
	raw, err := fs.ReadFile(schemaform.EmbeddedTemplates(), page.TemplateName)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "{{ form|safe }}")
}
