package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
)

// MustLoadSchema loads a JSON schema fixture, failing the test on error.
func MustLoadSchema(t *testing.T, path string) model.Schema {
	t.Helper()

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

// LoadSchema reads a JSON fixture into a Schema for callers managing setup
// outside of *testing.T.
func LoadSchema(path string) (model.Schema, error) {
	if path == "" {
		return nil, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read schema: %w", err)
	}
	var out model.Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal schema: %w", err)
	}
	return out, nil
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file with surrounding whitespace trimmed.
func MustReadGolden(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return strings.TrimSpace(string(data))
}

// AssertGolden compares output against a golden file, rewriting it instead
// when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path string, output string) {
	t.Helper()
	if WriteMaybeGolden(t, path, []byte(output)) {
		return
	}
	want := MustReadGolden(t, path)
	if diff := CompareGolden(want, strings.TrimSpace(output)); diff != "" {
		t.Fatalf("output mismatch for %s (-want +got):\n%s", path, diff)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// StatusChild is a child hook that wraps each control with the field name
// and a YEAH/NOPE indicator derived from its validity.
func StatusChild(b dom.Builder, control dom.Node, field model.Field) dom.Node {
	status := ""
	if field.Validity != nil {
		status = "NOPE"
		if field.Validity.Valid {
			status = "YEAH"
		}
	}
	return b.El("div", dom.Attrs{dom.Class("foo")},
		b.El("p", nil, b.Text(field.Name)),
		b.El("label", dom.Attrs{dom.Class("bar")},
			b.El("p", nil, b.Text(status)),
			control,
		),
	)
}

// BoxedRadio is a radio hook placing the label above a wrapped control.
func BoxedRadio(b dom.Builder, control dom.Node, label string) dom.Node {
	return b.El("div", dom.Attrs{dom.Class("baz")},
		b.El("p", nil, b.Text(label)),
		b.El("span", dom.Attrs{dom.Class("kek")}, control),
	)
}

// CustomHooks bundles StatusChild and BoxedRadio.
func CustomHooks() render.Hooks {
	return render.Hooks{Child: StatusChild, Radio: BoxedRadio}
}
