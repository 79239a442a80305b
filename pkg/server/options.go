package server

import (
	"context"
	"net/http"
	"net/url"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

// SubmitFunc receives a submission that passed constraint validation. A
// non-empty error payload rejects it; keys are matched to fields the same
// way render.MapErrorPayload does, so "/body/email" or "email" both land on
// the email field and unknown keys become form-level messages.
type SubmitFunc func(ctx context.Context, values url.Values) (map[string][]string, error)

// TokenFunc returns the CSRF token expected for a request.
type TokenFunc func(r *http.Request) string

// Option configures a Handler.
type Option func(*Handler)

// WithRenderer replaces the renderer used for GET and rejected submissions.
func WithRenderer(renderer render.Renderer) Option {
	return func(h *Handler) {
		if renderer != nil {
			h.renderer = renderer
		}
	}
}

// WithSubmitHandler registers the callback that accepts valid submissions.
func WithSubmitHandler(fn SubmitFunc) Option {
	return func(h *Handler) {
		h.submit = fn
	}
}

// WithCSRF emits a hidden token field on every render and rejects posts
// whose field does not match.
func WithCSRF(field string, token TokenFunc) Option {
	return func(h *Handler) {
		if field == "" || token == nil {
			return
		}
		h.csrfField = field
		h.csrfToken = token
	}
}

// WithProvider replaces the validity provider submissions are checked with.
func WithProvider(provider validation.ValidityProvider) Option {
	return func(h *Handler) {
		h.provider = provider
	}
}

// WithTitle sets the page title passed to renderers.
func WithTitle(title string) Option {
	return func(h *Handler) {
		h.title = title
	}
}

// WithTheme passes go-theme configuration to renderers.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(h *Handler) {
		h.theme = cfg
	}
}

// WithSuccessRedirect answers accepted browser submissions with a 303 to
// location instead of re-rendering the form.
func WithSuccessRedirect(location string) Option {
	return func(h *Handler) {
		h.successRedirect = location
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}
