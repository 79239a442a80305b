// Package server serves a schema form over HTTP. GET renders the form; POST
// parses the submission, validates it against the rendered controls and
// either hands it to the submit callback or re-renders the form with the
// submitted values and validation messages.
package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	theme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/renderers/page"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

const defaultMaxBodyBytes = 1 << 20

// Handler is an http.Handler hosting one schema. The schema can be swapped
// while serving.
type Handler struct {
	mu     sync.RWMutex
	schema model.Schema

	renderer        render.Renderer
	submit          SubmitFunc
	provider        validation.ValidityProvider
	csrfField       string
	csrfToken       TokenFunc
	title           string
	theme           *theme.RendererConfig
	successRedirect string
	maxBodyBytes    int64
	logger          *zap.Logger
}

var _ http.Handler = (*Handler)(nil)

// New validates schema and builds the handler. Without WithRenderer forms
// are served as full pages.
func New(schema model.Schema, options ...Option) (*Handler, error) {
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	h := &Handler{
		schema:       schema.Clone(),
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	if h.renderer == nil {
		renderer, err := page.New(page.WithLogger(h.logger))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		h.renderer = renderer
	}
	return h, nil
}

// Schema returns a copy of the served schema.
func (h *Handler) Schema() model.Schema {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.schema.Clone()
}

// SetSchema swaps the served schema. Invalid schemas are rejected and the
// previous one stays in place.
func (h *Handler) SetSchema(schema model.Schema) error {
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	h.mu.Lock()
	h.schema = schema.Clone()
	h.mu.Unlock()
	h.logger.Info("schema swapped", zap.Int("fields", len(schema)))
	return nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	rec.Header().Set("X-Request-ID", requestID)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(rec, r, http.StatusOK, h.Schema(), render.RenderOptions{})
	case http.MethodPost:
		h.handleSubmit(rec, r)
	default:
		rec.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(rec, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}

	h.logger.Info("request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)),
	)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "malformed form submission", http.StatusBadRequest)
		return
	}

	values := cloneValues(r.PostForm)
	if h.csrfField != "" {
		expected := h.csrfToken(r)
		got := values.Get(h.csrfField)
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			h.logger.Warn("csrf token mismatch", zap.String("path", r.URL.Path))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		values.Del(h.csrfField)
	}

	schema := h.Schema()
	live, err := form.New(schema, form.WithProvider(h.provider), form.WithLogger(h.logger))
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := live.Apply(values); err != nil {
		h.fail(w, err)
		return
	}
	result, err := live.Validate(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	if !result.Valid {
		h.logger.Debug("submission rejected", zap.Strings("invalid", result.Invalid()))
		h.reject(w, r, schema, values, result.Validity(), nil)
		return
	}

	if h.submit != nil {
		payload, err := h.submit(r.Context(), values)
		if err != nil {
			h.fail(w, err)
			return
		}
		if len(payload) > 0 {
			h.logger.Debug("submission rejected by handler", zap.Int("errors", len(payload)))
			h.reject(w, r, schema, values, result.Validity(), payload)
			return
		}
	}

	if wantsJSON(r) {
		h.writeJSON(w, http.StatusOK, response{Valid: true, Values: values})
		return
	}
	if h.successRedirect != "" {
		http.Redirect(w, r, h.successRedirect, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, schema, render.RenderOptions{Values: values})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, schema model.Schema, values url.Values, validity map[string]model.Validity, payload map[string][]string) {
	if wantsJSON(r) {
		resp := response{Valid: false, Values: values}
		for _, field := range schema {
			state, ok := validity[field.Name]
			if ok && !state.Valid {
				resp.Issues = append(resp.Issues, validation.Issue{Field: field.Name, Message: state.Message})
			}
		}
		mapping := render.MapErrorPayload(schema, payload)
		resp.Errors = mapping.Fields
		resp.FormErrors = mapping.Form
		h.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, schema, render.RenderOptions{
		Values:   values,
		Validity: validity,
		Errors:   payload,
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, schema model.Schema, options render.RenderOptions) {
	options.Method = http.MethodPost
	options.Title = h.title
	options.Theme = h.theme
	if h.csrfField != "" {
		options.Hidden = append(options.Hidden, render.CSRFToken(h.csrfField, h.csrfToken(r)))
	}

	out, err := h.renderer.Render(r.Context(), schema, options)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(out); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}

type response struct {
	Valid      bool                `json:"valid"`
	Values     url.Values          `json:"values,omitempty"`
	Issues     []validation.Issue  `json:"issues,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"formErrors,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body response) {
	payload, err := json.Marshal(body)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, list := range values {
		out[key] = append([]string(nil), list...)
	}
	return out
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}
