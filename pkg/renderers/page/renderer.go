// Package page renders a schema form inside a complete HTML document through
// a template engine. go-theme configuration supplies CSS variables and the
// stylesheet URL.
package page

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	rendertemplate "github.com/goliatone/go-schemaform/pkg/render/template"
	"github.com/goliatone/go-schemaform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-schemaform/pkg/renderers/html"
)

// Option configures the page renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	engine    rendertemplate.TemplateRenderer
	form      *html.Renderer
	intro     string
	lang      string
	policy    *bluemonday.Policy
	logger    *zap.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The
// bundle must contain TemplateName.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templates = os.DirFS(path)
	}
}

// WithTemplateRenderer supplies a preconfigured template engine. It must be
// able to render TemplateName; template bundle options are then ignored.
func WithTemplateRenderer(engine rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithFormRenderer replaces the renderer producing the form fragment.
func WithFormRenderer(renderer *html.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.form = renderer
		}
	}
}

// WithIntro sets markup shown above the form. It is sanitized with the
// renderer's policy.
func WithIntro(markup string) Option {
	return func(cfg *config) {
		cfg.intro = markup
	}
}

// WithLang sets the document language.
func WithLang(lang string) Option {
	return func(cfg *config) {
		if lang = strings.TrimSpace(lang); lang != "" {
			cfg.lang = lang
		}
	}
}

// WithPolicy replaces the bluemonday policy applied to the intro.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer produces standalone HTML documents.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	form      *html.Renderer
	intro     string
	lang      string
	logger    *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the page renderer and compiles its template.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templates: TemplatesFS(),
		lang:      "en",
		policy:    bluemonday.UGCPolicy(),
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.form == nil {
		cfg.form = html.New(html.WithSubmitLabel("Submit"), html.WithLogger(cfg.logger))
	}

	engine := cfg.engine
	if engine == nil {
		if cfg.templates == nil {
			return nil, errors.New("page renderer: template fs is nil")
		}
		built, err := gotemplate.New(
			gotemplate.WithFS(cfg.templates),
			gotemplate.WithExtension(TemplateExtension),
		)
		if err != nil {
			return nil, fmt.Errorf("page renderer: configure template renderer: %w", err)
		}
		if err := built.Preload(TemplateName); err != nil {
			return nil, fmt.Errorf("page renderer: compile %s: %w", TemplateName, err)
		}
		engine = built
	}

	return &Renderer{
		templates: engine,
		form:      cfg.form,
		intro:     cfg.policy.Sanitize(cfg.intro),
		lang:      cfg.lang,
		logger:    cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "page"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws the form fragment and places it in the page template.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fragment, err := r.form.Node(schema, options)
	if err != nil {
		return nil, fmt.Errorf("page renderer: %w", err)
	}

	title := strings.TrimSpace(options.Title)
	if title == "" {
		title = "Form"
	}
	themeCtx := buildThemeContext(options.Theme)

	data := map[string]any{
		"title":      title,
		"lang":       r.lang,
		"intro":      r.intro,
		"form":       dom.HTML(fragment),
		"theme":      themeCtx,
		"stylesheet": stylesheetURL(options.Theme),
	}

	out, err := r.templates.RenderTemplate(TemplateName, data)
	if err != nil {
		return nil, fmt.Errorf("page renderer: render template: %w", err)
	}
	r.logger.Debug("page rendered", zap.String("title", title), zap.String("theme", themeCtx.Name))
	return []byte(out), nil
}

type pageTheme struct {
	Name         string
	Variant      string
	Tokens       map[string]string
	CSSVars      map[string]string
	CSSVarsStyle string
}

func buildThemeContext(cfg *theme.RendererConfig) pageTheme {
	if cfg == nil {
		return pageTheme{}
	}
	ctx := pageTheme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  copyStringMap(cfg.Tokens),
		CSSVars: copyStringMap(cfg.CSSVars),
	}
	ctx.CSSVarsStyle = cssVarsStyle(ctx.CSSVars)
	return ctx
}

func stylesheetURL(cfg *theme.RendererConfig) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	return strings.TrimSpace(cfg.AssetURL(StylesheetAsset))
}

func copyStringMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(strings.NewReplacer("<", "", ">", "", ";", "").Replace(vars[key]))
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
