package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/internal/config"
	"github.com/goliatone/go-schemaform/pkg/renderers/tui"
)

const signupYAML = `- name: email
  type: email
  required: true
- name: plan
  type: radio
  required: true
  options:
    - label: Free
      value: free
    - label: Pro
      value: pro
`

func writeSchema(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func execute(a *app, stdin string, args ...string) (string, error) {
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	path := writeSchema(t, signupYAML)

	out, err := execute(&app{}, "email=ada@example.com", "render", path, "--renderer", "html", "--values", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `<form novalidate="novalidate">`))
	assert.Contains(t, out, `<input name="email" required="required" type="email" value="ada@example.com">`)

	target := filepath.Join(t.TempDir(), "form.html")
	_, err = execute(&app{}, "", "render", path, "--renderer", "page", "--title", "Join", "-o", target)
	require.NoError(t, err)
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), "<title>Join</title>")

	_, err = execute(&app{}, "", "render", path, "--format", "toml")
	assert.ErrorContains(t, err, `unknown schema format "toml"`)
}

func TestValidateCommand(t *testing.T) {
	path := writeSchema(t, signupYAML)

	out, err := execute(&app{}, `{"email":"bad"}`, "validate", path)
	assert.ErrorIs(t, err, errInvalidSubmission)
	assert.JSONEq(t, `{
		"valid": false,
		"issues": [
			{"field": "email", "message": "Please enter an email address."},
			{"field": "plan", "message": "Please select one of these options."}
		]
	}`, out)

	out, err = execute(&app{}, "email=ada%40example.com&plan=pro", "validate", path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid": true}`, out)
}

func TestValidateCommand_Preset(t *testing.T) {
	path := writeSchema(t, signupYAML)
	preset := filepath.Join(filepath.Dir(path), "preset.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("omit: [plan]\n"), 0o644))

	out, err := execute(&app{}, `{"email":"ada@example.com"}`, "validate", path, "--preset", preset)
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid": true}`, out)
}

type scriptedPrompts struct {
	inputs  []string
	selects []int
}

func (s *scriptedPrompts) Input(context.Context, tui.InputConfig) (string, error) {
	answer := s.inputs[0]
	s.inputs = s.inputs[1:]
	return answer, nil
}

func (s *scriptedPrompts) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *scriptedPrompts) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, nil
}

func (s *scriptedPrompts) Select(context.Context, tui.SelectConfig) (int, error) {
	answer := s.selects[0]
	s.selects = s.selects[1:]
	return answer, nil
}

func (s *scriptedPrompts) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, nil
}

func (s *scriptedPrompts) Info(context.Context, string) error {
	return nil
}

func TestFillCommand(t *testing.T) {
	path := writeSchema(t, signupYAML)
	prompts := &scriptedPrompts{inputs: []string{"ada@example.com"}, selects: []int{1}}

	out, err := execute(&app{prompts: prompts}, "", "fill", path)
	require.NoError(t, err)
	assert.Equal(t, `{"email":"ada@example.com","plan":"pro"}`+"\n", out)

	_, err = execute(&app{prompts: prompts}, "", "fill", path, "--output-format", "xml")
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestServe_ReloadsWatchedSchema(t *testing.T) {
	path := writeSchema(t, signupYAML)
	cfg := config.DefaultConfig()
	cfg.Schema.Source = path
	cfg.Schema.Watch = true
	cfg.Renderer.Name = "html"
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler, err := newHandler(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, cfg, handler.handler, listener, handler.reload, zap.NewNop())
	}()

	client := &http.Client{Timeout: 2 * time.Second}
	defer client.CloseIdleConnections()
	get := func() string {
		resp, err := client.Get("http://" + listener.Addr().String() + "/")
		if err != nil {
			return ""
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body)
	}

	assert.Contains(t, get(), `name="email"`)

	updated := signupYAML + "- name: nickname\n  minLength: 2\n"
	assert.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return false
		}
		return strings.Contains(get(), `name="nickname"`)
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
