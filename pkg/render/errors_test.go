package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
)

func TestMapErrorPayload(t *testing.T) {
	schema := model.Schema{
		{Name: "name"},
		{Name: "email", Type: model.KindEmail},
		{Name: "tags", Type: model.KindSelect, Multiple: true, Options: []model.Option{{Label: "A", Value: "a"}}},
	}

	payload := map[string][]string{
		"/body/name":              {"Name is required"},
		"$.email":                 {" Email taken ", "Email taken"},
		"data.tags[0]":            {"Tags must be unique"},
		"non_field_errors":        {"Form level error"},
		"request/body/unknown":    {"Should fall back to form errors"},
		"":                        {"Unscoped form error"},
		"request.payload.email~1": {"   "},
	}

	mapped := render.MapErrorPayload(schema, payload)

	wantFields := map[string][]string{
		"name":  {"Name is required"},
		"email": {"Email taken"},
		"tags":  {"Tags must be unique"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}

	validity := mapped.CustomValidity()
	if got := validity["email"]; got.Valid || !got.CustomError || got.Message != "Email taken" {
		t.Fatalf("unexpected custom validity: %+v", got)
	}
}

func TestRenderOptionsPrepare_MergesValidityAndErrors(t *testing.T) {
	schema := model.Schema{{Name: "a"}, {Name: "b"}}
	opts := render.RenderOptions{
		Validity: map[string]model.Validity{"a": {Valid: true}, "b": {ValueMissing: true, Message: "Please fill out this field."}},
		Errors:   map[string][]string{"b": {"Already used"}, "form": {"Try again"}},
	}

	prepared, formErrors := opts.Prepare(schema)

	if schema[0].Validity != nil {
		t.Fatalf("caller schema mutated")
	}
	if !prepared[0].Validity.Valid {
		t.Fatalf("expected a to stay valid")
	}
	want := &model.Validity{
		ValueMissing: true,
		CustomError:  true,
		Message:      "Please fill out this field. Already used",
	}
	if diff := cmp.Diff(want, prepared[1].Validity); diff != "" {
		t.Fatalf("merged validity mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Try again"}, formErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
