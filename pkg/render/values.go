package render

import (
	"net/url"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// ApplyValues returns a copy of the schema with a form submission merged in.
// The values describe a complete submission, so a checkbox, radio group or
// select absent from values renders unchecked/unselected. Text-like fields
// absent from values keep their schema default, since a custom renderer may
// have omitted them.
func ApplyValues(schema model.Schema, values url.Values) model.Schema {
	out := schema.Clone()
	for i := range out {
		field := &out[i]
		submitted, present := values[field.Name]

		switch field.Type.Class() {
		case model.ClassText:
			if present {
				field.Value = first(submitted)
			}
		case model.ClassSelect, model.ClassRadio:
			field.Value = first(submitted)
			field.Values = nil
			if field.Multiple && len(submitted) > 1 {
				field.Values = append([]string(nil), submitted[1:]...)
			}
		case model.ClassCheckbox:
			expected := field.Value
			if expected == "" {
				expected = "on"
			}
			field.Checked = contains(submitted, expected)
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
