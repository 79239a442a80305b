package page_test

import (
	"context"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-schemaform/pkg/renderers/html"
	"github.com/goliatone/go-schemaform/pkg/renderers/page"
)

var contact = model.Schema{{Name: "email", Type: model.KindEmail, Required: true}}

func TestRenderer_DefaultTemplate(t *testing.T) {
	r, err := page.New(page.WithIntro(`<p>Hello<script>alert(1)</script></p>`))
	require.NoError(t, err)

	cfg := &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456"},
		AssetURL: func(key string) string {
			if key == page.StylesheetAsset {
				return "/assets/acme/page.css"
			}
			return ""
		},
	}
	out, err := r.Render(context.Background(), contact, render.RenderOptions{
		Title:  "<Sign up>",
		Theme:  cfg,
		Errors: map[string][]string{"": {"Try again."}},
	})
	require.NoError(t, err)

	got := string(out)
	for _, want := range []string{
		`<html lang="en">`,
		`<title>&lt;Sign up&gt;</title>`,
		`<link rel="stylesheet" href="/assets/acme/page.css">`,
		"--brand: #123456;",
		`<body data-theme="acme" data-variant="dark">`,
		`<div class="schemaform-intro"><p>Hello</p></div>`,
		`<ul class="schemaform-errors" role="alert"><li>Try again.</li></ul>`,
		`<input name="email" required="required" type="email" value="">`,
		`<button type="submit">Submit</button></form>`,
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "alert(1)")
}

func TestRenderer_WithoutTheme(t *testing.T) {
	r, err := page.New()
	require.NoError(t, err)

	out, err := r.Render(context.Background(), contact, render.RenderOptions{})
	require.NoError(t, err)

	got := string(out)
	assert.Contains(t, got, "<title>Form</title>")
	assert.Contains(t, got, "<body>")
	assert.NotContains(t, got, "stylesheet")
	assert.NotContains(t, got, "<style>")
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{page.TemplateName: {Data: []byte(`{{ title }}|{{ form|safe }}`)}}
	r, err := page.New(
		page.WithTemplatesFS(files),
		page.WithFormRenderer(html.New(html.WithHooks(render.Hooks{}))),
	)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), model.Schema{{Name: "q"}}, render.RenderOptions{Title: "Search"})
	require.NoError(t, err)
	assert.Equal(t, `Search|<form novalidate="novalidate"><input name="q" type="text" value=""></form>`, string(out))

	_, err = page.New(page.WithTemplatesFS(fstest.MapFS{}))
	assert.Error(t, err)
}

func TestRenderer_TemplateRenderer(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(fstest.MapFS{page.TemplateName: {Data: []byte(`{{ brand }}: {{ title }}`)}}),
		gotemplate.WithExtension(page.TemplateExtension),
		gotemplate.WithGlobalData(map[string]any{"brand": "Acme"}),
	)
	require.NoError(t, err)

	r, err := page.New(page.WithTemplateRenderer(engine), page.WithTemplatesFS(fstest.MapFS{}))
	require.NoError(t, err)

	out, err := r.Render(context.Background(), contact, render.RenderOptions{Title: "Join"})
	require.NoError(t, err)
	assert.Equal(t, "Acme: Join", string(out))
}

func TestRenderer_Failures(t *testing.T) {
	r, err := page.New()
	require.NoError(t, err)

	_, err = r.Render(context.Background(), model.Schema{{Name: "s", Type: model.KindSelect}}, render.RenderOptions{})
	assert.ErrorIs(t, err, model.ErrMissingOptions)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, contact, render.RenderOptions{})
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, "page", r.Name())
	assert.Equal(t, "text/html; charset=utf-8", r.ContentType())
}
