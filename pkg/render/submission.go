package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a hidden input emitted after the schema fields. Hidden
// fields never take part in validation.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken carries an anti-forgery token under the backend's field name
// (for example "_csrf").
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// VersionField carries an optimistic-locking version.
func VersionField(name string, version any) HiddenField {
	return Hidden(name, version)
}

// MergeHiddenFields overlays fields onto base. Blank names are dropped and
// later fields win on collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for name, value := range base {
		if key := strings.TrimSpace(name); key != "" {
			out[key] = value
		}
	}
	for _, field := range fields {
		if key := strings.TrimSpace(field.Name); key != "" {
			out[key] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields orders hidden fields by name so output is deterministic.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: fields[name]})
	}
	return out
}
