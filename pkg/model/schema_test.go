package model_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/model"
)

func TestKindClass(t *testing.T) {
	cases := map[model.Kind]model.Class{
		"":          model.ClassText,
		"text":      model.ClassText,
		" Email ":   model.ClassText,
		"number":    model.ClassText,
		"select":    model.ClassSelect,
		"radio":     model.ClassRadio,
		"CHECKBOX":  model.ClassCheckbox,
		"textarea":  model.ClassInvalid,
		"signature": model.ClassInvalid,
	}
	for kind, want := range cases {
		if got := kind.Class(); got != want {
			t.Fatalf("Kind(%q).Class() = %s, want %s", kind, got, want)
		}
	}
}

func TestSchemaValidate_Accepts(t *testing.T) {
	schema := model.Schema{
		{Name: "field1", Value: "Hello", Required: true},
		{Name: "leselect", Type: model.KindSelect, Options: []model.Option{{Label: "One", Value: "1"}}},
		{Name: "lecb", Type: model.KindCheckbox},
	}
	if err := schema.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestSchemaValidate_ReportsEveryViolation(t *testing.T) {
	schema := model.Schema{
		{Name: "dup"},
		{Name: "dup"},
		{Name: ""},
		{Name: "choice", Type: model.KindRadio},
		{Name: "odd", Type: "signature"},
	}

	err := schema.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, target := range []error{model.ErrDuplicateName, model.ErrEmptyName, model.ErrMissingOptions, model.ErrUnknownKind} {
		if !errors.Is(err, target) {
			t.Fatalf("expected %v in %v", target, err)
		}
	}

	var fieldErr *model.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *FieldError, got %T", err)
	}
	if fieldErr.Name != "dup" || fieldErr.Index != 1 {
		t.Fatalf("unexpected first field error: %+v", fieldErr)
	}
}

func TestSchemaWithValidity_DoesNotMutateSource(t *testing.T) {
	schema := model.Schema{{Name: "a"}, {Name: "b"}}

	derived := schema.WithValidity(map[string]model.Validity{
		"b": {Valid: false, ValueMissing: true},
	})

	if schema[1].Validity != nil {
		t.Fatalf("source schema mutated")
	}
	if derived[0].Validity != nil {
		t.Fatalf("unexpected validity on field a")
	}
	want := &model.Validity{ValueMissing: true}
	if diff := cmp.Diff(want, derived[1].Validity); diff != "" {
		t.Fatalf("validity mismatch (-want +got):\n%s", diff)
	}

	if cleared := derived.WithoutValidity(); cleared[1].Validity != nil {
		t.Fatalf("expected validity cleared")
	}
}

func TestFieldIsSelected(t *testing.T) {
	field := model.Field{Value: "2", Values: []string{"3"}}
	for value, want := range map[string]bool{"1": false, "2": true, "3": true} {
		if got := field.IsSelected(value); got != want {
			t.Fatalf("IsSelected(%q) = %v, want %v", value, got, want)
		}
	}
}
