package orchestrator_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/orchestrator"
)

var presetBase = model.Schema{
	{Name: "notes"},
	{Name: "plan", Type: model.KindSelect, Options: []model.Option{{Label: "Free", Value: "free"}}},
	{Name: "email", Type: model.KindEmail},
}

func TestPresetTransformer_YAML(t *testing.T) {
	preset, err := orchestrator.NewPresetTransformer([]byte(`
omit: [notes]
order: [email]
fields:
  email:
    required: true
    pattern: ".+@example\\.com"
  plan:
    type: radio
    rename: tier
`))
	require.NoError(t, err)

	got, err := preset.Transform(context.Background(), presetBase)
	require.NoError(t, err)

	want := model.Schema{
		{Name: "email", Type: model.KindEmail, Required: true, Pattern: `.+@example\.com`},
		{Name: "tier", Type: model.KindRadio, Options: []model.Option{{Label: "Free", Value: "free"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("preset mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"notes", "plan", "email"}, presetBase.Names(), "input untouched")
}

func TestPresetTransformer_JSONFromFS(t *testing.T) {
	files := fstest.MapFS{"presets/a.json": {Data: []byte(`{"fields":{"notes":{"maxLength":140,"value":"n/a"}}}`)}}
	preset, err := orchestrator.NewPresetTransformerFromFS(files, "presets/a.json")
	require.NoError(t, err)

	got, err := preset.Transform(context.Background(), presetBase)
	require.NoError(t, err)
	require.NotNil(t, got[0].MaxLength)
	assert.Equal(t, 140, *got[0].MaxLength)
	assert.Equal(t, "n/a", got[0].Value)
}

func TestPresetTransformer_Errors(t *testing.T) {
	_, err := orchestrator.NewPresetTransformer([]byte("  "))
	assert.Error(t, err)

	_, err = orchestrator.NewPresetTransformer([]byte("colour: red\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = orchestrator.NewPresetTransformerFromFS(nil, "a.json")
	assert.Error(t, err)

	preset, err := orchestrator.NewPresetTransformer([]byte(`{"fields":{"ghost":{"required":true}}}`))
	require.NoError(t, err)
	_, err = preset.Transform(context.Background(), presetBase)
	assert.ErrorContains(t, err, `field "ghost" not found`)
}

func TestChain(t *testing.T) {
	first := orchestrator.TransformerFunc(func(_ context.Context, s model.Schema) (model.Schema, error) {
		return append(s, model.Field{Name: "b"}), nil
	})
	second := orchestrator.TransformerFunc(func(_ context.Context, s model.Schema) (model.Schema, error) {
		return s[1:], nil
	})
	got, err := orchestrator.Chain(first, nil, second).Transform(context.Background(), model.Schema{{Name: "a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got.Names())
}
