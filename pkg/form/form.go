// Package form hosts a rendered schema form: it owns the schema, the render
// hooks, the live tree and the validity attached by the last validation pass.
// Re-renders requested by validation are deferred to an update-tick Queue and
// happen on Flush, never inside the pass that requested them.
package form

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/locator"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

// Option configures a Form.
type Option func(*config)

type config struct {
	hooks    render.Hooks
	render   []render.Option
	provider validation.ValidityProvider
	queue    *Queue
	logger   *zap.Logger
}

// WithHooks sets both render hooks.
func WithHooks(hooks render.Hooks) Option {
	return func(cfg *config) {
		cfg.hooks = hooks
	}
}

// WithChildRenderer overrides the per-field wrapper.
func WithChildRenderer(fn render.ChildFunc) Option {
	return func(cfg *config) {
		cfg.hooks.Child = fn
	}
}

// WithRadioRenderer overrides the per-option radio wrapper.
func WithRadioRenderer(fn render.RadioFunc) Option {
	return func(cfg *config) {
		cfg.hooks.Radio = fn
	}
}

// WithRenderOptions passes extra options (hidden fields, form attributes, a
// custom builder) to every render.
func WithRenderOptions(options ...render.Option) Option {
	return func(cfg *config) {
		cfg.render = append(cfg.render, options...)
	}
}

// WithProvider replaces the validity provider.
func WithProvider(provider validation.ValidityProvider) Option {
	return func(cfg *config) {
		cfg.provider = provider
	}
}

// WithQueue shares an update-tick queue between forms.
func WithQueue(queue *Queue) Option {
	return func(cfg *config) {
		if queue != nil {
			cfg.queue = queue
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

// Form is a live rendered form.
type Form struct {
	mu         sync.Mutex
	schema     model.Schema
	hooks      render.Hooks
	renderOpts []render.Option
	validity   map[string]model.Validity
	custom     map[string]string
	formErrors []string
	tree       *dom.Element
	handlers   []SubmitHandler

	queue       *Queue
	coordinator *validation.Coordinator
	logger      *zap.Logger
}

// New renders schema and returns the hosting Form. The schema is validated
// up front and a malformed one is rejected.
func New(schema model.Schema, options ...Option) (*Form, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.queue == nil {
		cfg.queue = NewQueue()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	f := &Form{
		schema:     schema.Clone(),
		hooks:      cfg.hooks,
		renderOpts: cfg.render,
		queue:      cfg.queue,
		logger:     cfg.logger,
	}
	f.coordinator = validation.New(
		validation.WithProvider(cfg.provider),
		validation.WithScheduler(cfg.queue),
		validation.WithRerender(f.applyValidity),
		validation.WithLogger(cfg.logger),
	)

	if err := f.rebuildLocked(nil); err != nil {
		return nil, err
	}
	return f, nil
}

// Tree returns the live tree. Mutating its controls stands in for user
// interaction and is picked up by the next validation pass and re-render.
func (f *Form) Tree() *dom.Element {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tree
}

// HTML serializes the live tree.
func (f *Form) HTML() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return dom.HTML(f.tree)
}

// Schema returns a copy of the hosted schema.
func (f *Form) Schema() model.Schema {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema.Clone()
}

// Validity returns the snapshots attached by the last settled pass.
func (f *Form) Validity() map[string]model.Validity {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]model.Validity, len(f.validity))
	for name, state := range f.validity {
		out[name] = state
	}
	return out
}

// Values returns the current form data set.
func (f *Form) Values() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Data(f.tree)
}

// FormErrors returns messages from SetCustomErrors that matched no field.
func (f *Form) FormErrors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.formErrors...)
}

// SetSchema replaces the schema and re-renders from its defaults. Validity
// and custom errors from the previous schema are dropped.
func (f *Form) SetSchema(schema model.Schema) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous, validity, custom := f.schema, f.validity, f.custom
	f.schema = schema.Clone()
	f.validity = nil
	f.custom = nil
	if err := f.rebuildLocked(nil); err != nil {
		f.schema, f.validity, f.custom = previous, validity, custom
		return err
	}
	f.formErrors = nil
	return nil
}

// Apply replaces the form state with a complete submission, as when a
// browser posts the form. See render.ApplyValues for the merge rules.
func (f *Form) Apply(values url.Values) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rebuildLocked(values)
}

// Set changes one field as a user would and clears its custom error.
func (f *Form) Set(name string, values ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.schema.Lookup(name); !ok {
		return fmt.Errorf("form: unknown field %q", name)
	}
	data := state(f.tree)
	if len(values) == 0 {
		data.Del(name)
	} else {
		data[name] = append([]string(nil), values...)
	}
	delete(f.custom, name)
	return f.rebuildLocked(data)
}

// SetCustomErrors attaches server-side messages. Paths are matched to fields
// with render.MapErrorPayload; matched fields get a custom error on their
// controls, the rest become form errors. A nil payload clears everything.
func (f *Form) SetCustomErrors(payload map[string][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mapping := render.MapErrorPayload(f.schema, payload)
	for _, control := range f.customControlsLocked() {
		control.SetCustomValidity("")
	}
	f.custom = nil
	for name, state := range mapping.CustomValidity() {
		if f.custom == nil {
			f.custom = make(map[string]string)
		}
		f.custom[name] = state.Message
	}
	f.formErrors = mapping.Form
	f.applyCustomLocked()
}

// OnSubmit registers a handler notified with every submission, whether it
// resolves or rejects.
func (f *Form) OnSubmit(handler SubmitHandler) {
	if handler == nil {
		return
	}
	f.mu.Lock()
	f.handlers = append(f.handlers, handler)
	f.mu.Unlock()
}

// Validate runs a validation pass against the live tree without notifying
// submit handlers. The re-render it requests runs on the next Flush.
func (f *Form) Validate(ctx context.Context) (validation.Result, error) {
	return f.pass(ctx).Result()
}

// Submit runs a validation pass and returns its settled handle after passing
// it to every submit handler.
func (f *Form) Submit(ctx context.Context) *validation.Submission {
	sub := f.pass(ctx)
	f.mu.Lock()
	handlers := append([]SubmitHandler(nil), f.handlers...)
	f.mu.Unlock()

	for _, handler := range handlers {
		handler(sub)
	}
	return sub
}

func (f *Form) pass(ctx context.Context) *validation.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.coordinator.Submit(ctx, f.schema, f.tree)
}

// Dispatch delivers an event to the form. A submit event has its default
// action prevented and starts a submission; other events are ignored and
// yield nil.
func (f *Form) Dispatch(ctx context.Context, event *Event) *validation.Submission {
	if event == nil || event.Type != EventSubmit {
		return nil
	}
	event.PreventDefault()
	f.logger.Debug("submit event intercepted")
	return f.Submit(ctx)
}

// NextTick queues fn on the form's update-tick queue.
func (f *Form) NextTick(fn func()) {
	f.queue.NextTick(fn)
}

// Flush runs pending update-tick work, including deferred re-renders.
func (f *Form) Flush() int {
	return f.queue.Flush()
}

func (f *Form) applyValidity(schema model.Schema) {
	f.mu.Lock()
	defer f.mu.Unlock()

	validity := make(map[string]model.Validity, len(schema))
	for _, field := range schema {
		if field.Validity == nil {
			continue
		}
		if _, ok := f.schema.Lookup(field.Name); !ok {
			continue
		}
		validity[field.Name] = *field.Validity
	}
	f.validity = validity
	if err := f.rebuildLocked(state(f.tree)); err != nil {
		f.logger.Warn("re-render failed", zap.Error(err))
	}
}

// rebuildLocked renders the schema with attached validity. values, when
// non-nil, carries the form state to keep across the render.
func (f *Form) rebuildLocked(values url.Values) error {
	schema := f.schema
	if len(f.validity) > 0 {
		schema = schema.WithValidity(f.validity)
	}

	options := make([]render.Option, 0, len(f.renderOpts)+2)
	options = append(options, f.renderOpts...)
	options = append(options, render.WithHooks(f.hooks))
	if values != nil {
		options = append(options, render.WithValues(values))
	}

	tree, err := render.Form(schema, options...)
	if err != nil {
		return fmt.Errorf("form: render: %w", err)
	}
	f.tree = tree
	f.applyCustomLocked()
	return nil
}

func (f *Form) applyCustomLocked() {
	for name, message := range f.custom {
		for _, control := range locator.Group(f.tree, name) {
			control.SetCustomValidity(message)
		}
	}
}

func (f *Form) customControlsLocked() []*dom.Control {
	var out []*dom.Control
	for name := range f.custom {
		out = append(out, locator.Group(f.tree, name)...)
	}
	return out
}
