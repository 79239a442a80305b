package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/internal/loader"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/renderers/html"
	"github.com/goliatone/go-schemaform/pkg/renderers/page"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(l schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can rewrite schemas
// after decoding but before rendering.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector resolves go-theme selections into renderer
// configuration for requests that do not carry one.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithDefaultTheme sets the theme and variant selected when a request names
// none.
func WithDefaultTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.defaultTheme = name
		o.defaultVariant = variant
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the full pipeline from schema document to
// rendered output. It applies sensible defaults (file/fs/HTTP loader, html
// and page renderers) while remaining open to dependency injection for
// advanced callers.
type Orchestrator struct {
	loader          schema.Loader
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render a form.
type Request struct {
	// Source identifies where the schema document lives. Optional when
	// Document or Schema is supplied.
	Source schema.Source

	// Document allows callers to bypass the loader when they already hold
	// the payload.
	Document *schema.Document

	// Schema bypasses loading and decoding entirely.
	Schema model.Schema

	// Format forces a document encoding instead of detecting it.
	Format schema.Format

	// OperationID selects the OpenAPI operation for OpenAPI documents.
	OperationID string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request instructions such as prefilled
	// values, validity or server-side errors that renderers can surface.
	RenderOptions render.RenderOptions

	// ThemeName and ThemeVariant pick a go-theme selection when
	// RenderOptions.Theme is nil and a selector is configured.
	ThemeName    string
	ThemeVariant string
}

// Generate executes the load → decode → transform → render sequence and
// returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	resolved, err := o.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Theme == nil {
		options.Theme, err = o.resolveTheme(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
	}

	output, err := renderer.Render(ctx, resolved, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Resolve runs the pipeline up to rendering and returns the validated
// schema.
func (o *Orchestrator) Resolve(ctx context.Context, req Request) (model.Schema, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	var (
		out model.Schema
		err error
	)
	if req.Schema != nil {
		out = req.Schema.Clone()
	} else {
		doc, err := o.resolveDocument(ctx, req)
		if err != nil {
			return nil, err
		}
		out, err = doc.Decode(ctx, schema.DecodeOptions{Format: req.Format, OperationID: req.OperationID})
		if err != nil {
			return nil, fmt.Errorf("orchestrator: decode: %w", err)
		}
	}

	if o.transformer != nil {
		out, err = o.transformer.Transform(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	o.logger.Debug("schema resolved", zap.Int("fields", len(out)))
	return out, nil
}

// Renderer returns the named renderer, or the default one for an empty name.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source, document or schema is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.defaultTheme
	}
	if variant == "" {
		variant = o.defaultVariant
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	return RendererConfig(selection), nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = loader.New(schema.NewLoaderOptions())
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(html.New(html.WithLogger(o.logger)))
		renderer, err := page.New(page.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
