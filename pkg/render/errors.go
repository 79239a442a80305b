package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// ErrorMapping splits a server error payload into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrorPayload normalises server error payloads keyed by JSON pointers,
// dotted paths or wrapper-prefixed paths ("/body/email", "$.email",
// "data.tags[0]") onto schema field names. Unknown paths are kept as
// form-level errors so messages are not lost.
func MapErrorPayload(schema model.Schema, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	names := make(map[string]struct{}, len(schema))
	for _, field := range schema {
		names[field.Name] = struct{}{}
	}

	for raw, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		name, ok := matchField(raw, names)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[name] = append(mapping.Fields[name], messages...)
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// CustomValidity converts field errors into customError snapshots.
func (m ErrorMapping) CustomValidity() map[string]model.Validity {
	if len(m.Fields) == 0 {
		return nil
	}
	out := make(map[string]model.Validity, len(m.Fields))
	for name, messages := range m.Fields {
		out[name] = model.Validity{
			CustomError: true,
			Message:     strings.Join(messages, " "),
		}
	}
	return out
}

func matchField(raw string, names map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := pathSegments(raw)
	if len(segments) == 0 {
		return "", false
	}
	if _, ok := names[strings.Join(segments, ".")]; ok {
		return strings.Join(segments, "."), true
	}
	for _, segment := range segments {
		if _, ok := names[segment]; ok {
			return segment, true
		}
	}
	return "", false
}

var wrapperSegments = map[string]struct{}{
	"body": {}, "request": {}, "payload": {}, "data": {}, "attributes": {},
}

func pathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment == "" {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		if len(out) == 0 {
			if _, wrapper := wrapperSegments[strings.ToLower(segment)]; wrapper {
				continue
			}
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
