package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

// noneLabel is offered for optional radio groups so the user can leave them
// unchecked.
const noneLabel = "(none)"

var errBadSelection = errors.New("selection out of range")

// Renderer implements render.Renderer for terminal-driven sessions. Fields
// are prompted in schema order and every answer is checked against the
// constraints of a live form before moving on. The output is the form data
// set the answers produce.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	provider          validation.ValidityProvider
	submitTransformer SubmitTransformer
	theme             Theme
	logger            *zap.Logger
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (render.Renderer, error) {
	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every visible field and returns the serialized values.
// options.Values prefill the answers, options.Errors are shown as help on
// the matching prompt and options.Hidden are carried into the output.
func (r *Renderer) Render(ctx context.Context, schema model.Schema, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	formOptions := []form.Option{form.WithProvider(r.provider), form.WithLogger(r.logger)}
	if len(options.Hidden) > 0 {
		formOptions = append(formOptions, form.WithRenderOptions(render.WithHiddenFields(options.Hidden...)))
	}
	live, err := form.New(schema, formOptions...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	if options.Values != nil {
		if err := live.Apply(options.Values); err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
	}

	s := &session{
		renderer: r,
		form:     live,
		help:     render.MapErrorPayload(schema, options.Errors).Fields,
	}
	live.SetCustomErrors(options.Errors)
	for _, message := range live.FormErrors() {
		r.info(ctx, r.theme.ErrorPrefix+message)
	}

	for _, field := range schema {
		if field.Type.Normalize() == model.KindHidden {
			continue
		}
		if err := s.prompt(ctx, field); err != nil {
			return nil, err
		}
	}

	result, err := live.Validate(ctx)
	live.Flush()
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	if !result.Valid {
		return nil, &ValidationError{Issues: result.Issues()}
	}

	values := live.Values()
	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	r.logger.Debug("tui session complete", zap.Int("fields", len(schema)))
	return r.serialize(schema, values)
}

func (r *Renderer) info(ctx context.Context, message string) {
	if err := r.driver.Info(ctx, r.theme.InfoPrefix+message); err != nil {
		r.logger.Debug("tui info failed", zap.Error(err))
	}
}

type session struct {
	renderer *Renderer
	form     *form.Form
	help     map[string][]string
}

// prompt asks for a field until its answer satisfies the field constraints.
func (s *session) prompt(ctx context.Context, field model.Field) error {
	for {
		answer, err := s.ask(ctx, field)
		if errors.Is(err, errBadSelection) {
			s.renderer.info(ctx, fmt.Sprintf("%sInvalid %s selection", s.renderer.theme.ErrorPrefix, field.Name))
			continue
		}
		if err != nil {
			return err
		}
		state, err := s.answer(ctx, field.Name, answer)
		if err != nil {
			return err
		}
		if state.Valid {
			return nil
		}
		s.renderer.info(ctx, fmt.Sprintf("%sInvalid %s: %s", s.renderer.theme.ErrorPrefix, field.Name, state.Message))
	}
}

// answer applies values to the live form and reports the field's validity.
func (s *session) answer(ctx context.Context, name string, values []string) (model.Validity, error) {
	if err := s.form.Set(name, values...); err != nil {
		return model.Validity{}, fmt.Errorf("tui: %w", err)
	}
	result, err := s.form.Validate(ctx)
	s.form.Flush()
	if err != nil {
		return model.Validity{}, fmt.Errorf("tui: validate: %w", err)
	}
	field, ok := result.Fields[name]
	if !ok || field.Validity == nil {
		return model.ValidState(), nil
	}
	return *field.Validity, nil
}

func (s *session) ask(ctx context.Context, field model.Field) ([]string, error) {
	driver := s.renderer.driver
	message := s.renderer.theme.PromptPrefix + field.Name
	help := strings.Join(s.help[field.Name], " ")
	current := s.form.Values()[field.Name]

	switch field.Type.Class() {
	case model.ClassCheckbox:
		expected := field.Value
		if expected == "" {
			expected = "on"
		}
		checked, err := driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: contains(current, expected),
			Help:    help,
		})
		if err != nil || !checked {
			return nil, err
		}
		return []string{expected}, nil

	case model.ClassSelect, model.ClassRadio:
		labels := optionLabels(field.Options)
		cfg := SelectConfig{Message: message, Options: labels, Help: help, DefaultIndex: -1}
		if field.Multiple {
			cfg.Defaults = optionIndices(field.Options, current)
			indices, err := driver.MultiSelect(ctx, cfg)
			if err != nil {
				return nil, err
			}
			out := make([]string, 0, len(indices))
			for _, idx := range indices {
				if idx < 0 || idx >= len(field.Options) {
					return nil, errBadSelection
				}
				out = append(out, field.Options[idx].Value)
			}
			return out, nil
		}
		optional := field.Type.Class() == model.ClassRadio && !field.Required
		if optional {
			cfg.Options = append(cfg.Options, noneLabel)
		}
		if selected := optionIndices(field.Options, current); len(selected) > 0 {
			cfg.DefaultIndex = selected[0]
		}
		idx, err := driver.Select(ctx, cfg)
		if err != nil {
			return nil, err
		}
		switch {
		case optional && idx == len(field.Options):
			return nil, nil
		case idx < 0 || idx >= len(field.Options):
			return nil, errBadSelection
		}
		return []string{field.Options[idx].Value}, nil

	default:
		cfg := InputConfig{
			Message: message,
			Default: first(current),
			Help:    help,
			Validator: func(answer string) error {
				state, err := s.answer(ctx, field.Name, []string{answer})
				if err != nil {
					return err
				}
				if !state.Valid {
					return errors.New(state.Message)
				}
				return nil
			},
		}
		var (
			answer string
			err    error
		)
		if field.Type.Normalize() == model.KindPassword {
			answer, err = driver.Password(ctx, cfg)
		} else {
			answer, err = driver.Input(ctx, cfg)
		}
		if err != nil {
			return nil, err
		}
		return []string{answer}, nil
	}
}

func (r *Renderer) serialize(schema model.Schema, values url.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(schema, values)), nil
	default:
		return json.Marshal(jsonPayload(schema, values))
	}
}

// jsonPayload keeps multiple selects as arrays, even when empty, and every
// other entry as a single string.
func jsonPayload(schema model.Schema, values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for _, field := range schema {
		if field.Multiple && field.Type.Class() == model.ClassSelect {
			out[field.Name] = append([]string{}, values[field.Name]...)
		}
	}
	for name, list := range values {
		if _, ok := out[name]; ok {
			continue
		}
		if len(list) == 1 {
			out[name] = list[0]
			continue
		}
		out[name] = list
	}
	return out
}

func prettyPrint(schema model.Schema, values url.Values) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(values))
	write := func(name string) {
		list, ok := values[name]
		if !ok {
			return
		}
		seen[name] = struct{}{}
		fmt.Fprintf(&b, "%s=%s\n", name, strings.Join(list, ", "))
	}
	for _, field := range schema {
		write(field.Name)
	}
	rest := make([]string, 0, len(values))
	for name := range values {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		write(name)
	}
	return b.String()
}

func optionLabels(options []model.Option) []string {
	out := make([]string, 0, len(options))
	for _, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		out = append(out, label)
	}
	return out
}

func optionIndices(options []model.Option, values []string) []int {
	var out []int
	for i, option := range options {
		if contains(values, option.Value) {
			out = append(out, i)
		}
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
