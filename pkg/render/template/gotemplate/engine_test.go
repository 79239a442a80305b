package gotemplate_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/render/template/gotemplate"
)

var templates = fstest.MapFS{
	"hello.tpl":      {Data: []byte(`Hello {{ name }}!`)},
	"use-global.tpl": {Data: []byte(`env={{ settings.env }}`)},
	"use-filter.tpl": {Data: []byte(`{{ name|schemaform_shout }}`)},
	"broken.tpl":     {Data: []byte(`{% if %}`)},
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithFS(templates))
	require.NoError(t, err)
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var written bytes.Buffer
	out, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &written)
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada!", out)
	assert.Equal(t, out, written.String())

	out, err = engine.Render("hello.tpl", struct {
		Name string `json:"name"`
	}{Name: "Grace"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Grace!", out)

	out, err = engine.Render(`{{ a|trim }}`, map[string]any{"a": "  x  "})
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestEngine_GlobalContext(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(templates),
		gotemplate.WithGlobalData(map[string]any{"settings": map[string]any{"env": "dev"}}),
	)
	require.NoError(t, err)

	out, err := engine.RenderTemplate("use-global", nil)
	require.NoError(t, err)
	assert.Equal(t, "env=dev", out)

	require.NoError(t, engine.GlobalContext(map[string]any{"settings": map[string]any{"env": "staging"}}))
	out, err = engine.RenderTemplate("use-global", nil)
	require.NoError(t, err)
	assert.Equal(t, "env=staging", out)
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	require.NoError(t, engine.RegisterFilter("schemaform_shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	}))

	out, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ADA!", out)

	assert.Error(t, engine.RegisterFilter("schemaform_shout", func(input any, _ any) (any, error) { return input, nil }))
	assert.Error(t, engine.RegisterFilter("", nil))
}

func TestEngine_Failures(t *testing.T) {
	_, err := gotemplate.New()
	assert.ErrorContains(t, err, "need to provide either base dir or fs.FS")

	engine := newEngine(t)
	_, err = engine.RenderTemplate("missing", nil)
	assert.ErrorContains(t, err, `load template "missing.tpl"`)
	assert.Error(t, engine.Preload("broken"))
	assert.NoError(t, engine.Preload("hello"))
}

func TestEngine_Extension(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(fstest.MapFS{"page.html": {Data: []byte(`<p>{{ title }}</p>`)}}),
		gotemplate.WithExtension("html"),
	)
	require.NoError(t, err)

	out, err := engine.RenderTemplate("page", map[string]any{"title": "<b>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;b&gt;</p>", out)
}
