package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// Transformer rewrites a schema before rendering. Implementations can
// rename fields, tighten constraints or drop fields entirely.
type Transformer interface {
	Transform(ctx context.Context, schema model.Schema) (model.Schema, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, schema model.Schema) (model.Schema, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, schema model.Schema) (model.Schema, error) {
	if fn == nil {
		return schema, nil
	}
	return fn(ctx, schema)
}

// Chain runs transformers in order, feeding each the previous output.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, schema model.Schema) (model.Schema, error) {
		var err error
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if schema, err = t.Transform(ctx, schema); err != nil {
				return nil, err
			}
		}
		return schema, nil
	})
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document:
//
//	omit: [internal_notes]
//	order: [email, plan]
//	fields:
//	  email: {required: true, pattern: ".+@example\\.com"}
//	  plan: {type: radio, rename: tier}
//
// Fields listed in order move to the front in that order; the rest keep
// their relative position. Renames apply last.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Omit   []string              `json:"omit" yaml:"omit"`
	Order  []string              `json:"order" yaml:"order"`
	Fields map[string]fieldPatch `json:"fields" yaml:"fields"`
}

type fieldPatch struct {
	Rename    string         `json:"rename" yaml:"rename"`
	Type      model.Kind     `json:"type" yaml:"type"`
	Value     *string        `json:"value" yaml:"value"`
	Required  *bool          `json:"required" yaml:"required"`
	Options   []model.Option `json:"options" yaml:"options"`
	Min       *string        `json:"min" yaml:"min"`
	Max       *string        `json:"max" yaml:"max"`
	MinLength *int           `json:"minLength" yaml:"minLength"`
	MaxLength *int           `json:"maxLength" yaml:"maxLength"`
	Pattern   *string        `json:"pattern" yaml:"pattern"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &document); err != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", err)
		}
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(trimmed))
		decoder.KnownFields(true)
		if err := decoder.Decode(&document); err != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", err)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the declarative patches onto a copy of the schema.
func (t *PresetTransformer) Transform(ctx context.Context, schema model.Schema) (model.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := schema.Clone()
	for name := range t.document.Fields {
		if _, ok := out.Lookup(name); !ok {
			return nil, fmt.Errorf("preset transformer: field %q not found", name)
		}
	}

	if len(t.document.Omit) > 0 {
		omit := make(map[string]struct{}, len(t.document.Omit))
		for _, name := range t.document.Omit {
			omit[name] = struct{}{}
		}
		kept := out[:0]
		for _, field := range out {
			if _, ok := omit[field.Name]; !ok {
				kept = append(kept, field)
			}
		}
		out = kept
	}

	out = reorder(out, t.document.Order)
	for i := range out {
		if patch, ok := t.document.Fields[out[i].Name]; ok {
			applyFieldPatch(&out[i], patch)
		}
	}
	return out, nil
}

func reorder(schema model.Schema, order []string) model.Schema {
	if len(order) == 0 {
		return schema
	}
	out := make(model.Schema, 0, len(schema))
	placed := make(map[string]struct{}, len(order))
	for _, name := range order {
		if field, ok := schema.Lookup(name); ok {
			if _, dup := placed[name]; dup {
				continue
			}
			out = append(out, field)
			placed[name] = struct{}{}
		}
	}
	for _, field := range schema {
		if _, ok := placed[field.Name]; !ok {
			out = append(out, field)
		}
	}
	return out
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Type != "" {
		field.Type = patch.Type
	}
	if patch.Value != nil {
		field.Value = *patch.Value
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if len(patch.Options) > 0 {
		field.Options = append([]model.Option(nil), patch.Options...)
	}
	if patch.Min != nil {
		field.Min = *patch.Min
	}
	if patch.Max != nil {
		field.Max = *patch.Max
	}
	if patch.MinLength != nil {
		value := *patch.MinLength
		field.MinLength = &value
	}
	if patch.MaxLength != nil {
		value := *patch.MaxLength
		field.MaxLength = &value
	}
	if patch.Pattern != nil {
		field.Pattern = *patch.Pattern
	}
	if rename := strings.TrimSpace(patch.Rename); rename != "" {
		field.Name = rename
	}
}
