package tui

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	passwords    []string
	infoMessages []string
	inputConfigs []InputConfig
	selectConfig []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	passPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.inputConfigs = append(s.inputConfigs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectConfig = append(s.selectConfig, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

var signup = model.Schema{
	{Name: "name", Required: true},
	{
		Name:     "plan",
		Type:     model.KindRadio,
		Required: true,
		Options:  []model.Option{{Label: "Free", Value: "free"}, {Label: "Pro", Value: "pro"}},
	},
	{
		Name:     "tags",
		Type:     model.KindSelect,
		Multiple: true,
		Options:  []model.Option{{Label: "Go", Value: "go"}, {Label: "Web", Value: "web"}},
	},
	{Name: "agree", Type: model.KindCheckbox, Required: true},
}

func newRenderer(t *testing.T, options ...Option) render.Renderer {
	t.Helper()
	r, err := New(options...)
	require.NoError(t, err)
	return r
}

func TestRender_CollectsEveryFieldClass(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Ada"},
		selectIdx: []int{1},
		multiIdx:  [][]int{{0, 1}},
		confirm:   []bool{false, true},
	}
	r := newRenderer(t, WithPromptDriver(driver))

	out, err := r.Render(context.Background(), signup, render.RenderOptions{})
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"Ada","plan":"pro","tags":["go","web"],"agree":"on"}`, string(out))
	assert.Equal(t, []string{
		"Invalid name: Please fill out this field.",
		"Invalid agree: Please check this box if you want to proceed.",
	}, driver.infoMessages)
	assert.Equal(t, []string{"Free", "Pro"}, driver.selectConfig[0].Options, "required radios offer no empty choice")
}

func TestRender_NumberConstraints(t *testing.T) {
	driver := &stubDriver{inputs: []string{"0", "abc", "5"}}
	r := newRenderer(t, WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))

	schema := model.Schema{{Name: "count", Type: model.KindNumber, Required: true, Min: "1"}}
	out, err := r.Render(context.Background(), schema, render.RenderOptions{})
	require.NoError(t, err)

	assert.JSONEq(t, `{"count":"5"}`, string(out))
	require.Len(t, driver.infoMessages, 2)
	assert.Equal(t, "! Invalid count: Value must be greater than or equal to 1.", driver.infoMessages[0])
	assert.Equal(t, 3, driver.inputPos)
}

func TestRender_PrefillAndServerErrors(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Grace"},
		selectIdx: []int{0},
		multiIdx:  [][]int{{}},
		confirm:   []bool{true},
	}
	r := newRenderer(t, WithPromptDriver(driver))

	_, err := r.Render(context.Background(), signup, render.RenderOptions{
		Values: url.Values{"name": {"Ada"}, "plan": {"pro"}},
		Errors: map[string][]string{
			"/body/name": {"Already taken."},
			"general":    {"Try again later."},
		},
	})
	require.NoError(t, err)

	require.Len(t, driver.inputConfigs, 1)
	assert.Equal(t, "Ada", driver.inputConfigs[0].Default)
	assert.Equal(t, "Already taken.", driver.inputConfigs[0].Help)
	assert.Equal(t, 1, driver.selectConfig[0].DefaultIndex)
	assert.Contains(t, driver.infoMessages, "Try again later.")
}

func TestRender_OptionalRadioCanStayEmpty(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{2}}
	r := newRenderer(t, WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))

	schema := model.Schema{{
		Name:    "size",
		Type:    model.KindRadio,
		Options: []model.Option{{Label: "S", Value: "s"}, {Label: "M", Value: "m"}},
	}}
	out, err := r.Render(context.Background(), schema, render.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "", string(out))
	assert.Equal(t, []string{"S", "M", noneLabel}, driver.selectConfig[0].Options)
}

func TestRender_BadSelectionIsRetried(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{7, 0}}
	r := newRenderer(t, WithPromptDriver(driver))

	schema := model.Schema{{
		Name:    "size",
		Type:    model.KindSelect,
		Options: []model.Option{{Label: "S", Value: "s"}},
	}}
	out, err := r.Render(context.Background(), schema, render.RenderOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":"s"}`, string(out))
	assert.Equal(t, []string{"Invalid size selection"}, driver.infoMessages)
}

func TestRender_PrettyOutputWithHiddenFields(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ada"}, passwords: []string{"s3cret"}}
	r := newRenderer(t, WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	schema := model.Schema{
		{Name: "user"},
		{Name: "secret", Type: model.KindPassword},
		{Name: "ref", Type: model.KindHidden, Value: "home"},
	}
	out, err := r.Render(context.Background(), schema, render.RenderOptions{
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "t0k")},
	})
	require.NoError(t, err)
	assert.Equal(t, "user=Ada\nsecret=s3cret\nref=home\n_csrf=t0k\n", string(out))
	assert.Equal(t, "text/plain", r.ContentType())
}

func TestRender_SubmitTransformer(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Ada"}}
	r := newRenderer(t,
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(func(values url.Values) (url.Values, error) {
			values.Set("source", "cli")
			return values, nil
		}),
	)

	out, err := r.Render(context.Background(), model.Schema{{Name: "user"}}, render.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "source=cli&user=Ada", string(out))

	failing := newRenderer(t,
		WithPromptDriver(&stubDriver{inputs: []string{"Ada"}}),
		WithSubmitTransformer(func(url.Values) (url.Values, error) { return nil, errors.New("boom") }),
	)
	_, err = failing.Render(context.Background(), model.Schema{{Name: "user"}}, render.RenderOptions{})
	assert.ErrorContains(t, err, "submit transformer: boom")
}

func TestRender_UnpromptedInvalidFields(t *testing.T) {
	provider := validation.ProviderFunc(func(_ dom.Node, control *dom.Control) model.Validity {
		if control.Name() == "token" {
			return model.Validity{CustomError: true, Message: "stale token"}
		}
		return model.ValidState()
	})
	r := newRenderer(t, WithPromptDriver(&stubDriver{inputs: []string{"Ada"}}), WithProvider(provider))

	schema := model.Schema{{Name: "user"}, {Name: "token", Type: model.KindHidden}}
	_, err := r.Render(context.Background(), schema, render.RenderOptions{})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, []validation.Issue{{Field: "token", Message: "stale token"}}, validationErr.Issues)
}

func TestRender_Failures(t *testing.T) {
	r := newRenderer(t, WithPromptDriver(&stubDriver{err: ErrAborted}))
	_, err := r.Render(context.Background(), model.Schema{{Name: "user"}}, render.RenderOptions{})
	assert.ErrorIs(t, err, ErrAborted)

	_, err = r.Render(context.Background(), model.Schema{{Name: "a"}, {Name: "a"}}, render.RenderOptions{})
	assert.ErrorIs(t, err, model.ErrDuplicateName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, model.Schema{{Name: "user"}}, render.RenderOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t, WithPromptDriver(&stubDriver{}))
	assert.Equal(t, "tui", r.Name())
	assert.Equal(t, "application/json", r.ContentType())
	assert.Equal(t, "application/x-www-form-urlencoded",
		newRenderer(t, WithOutputFormat(OutputFormatFormURLEncoded)).ContentType())
}
