package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// ExtensionKey is the OpenAPI vendor extension read from request body
// properties. Supported keys: "type" (field kind override, e.g. "radio"),
// "order" (integer position) and "labels" (option labels keyed by value).
const ExtensionKey = "x-schemaform"

var (
	// ErrOperationNotFound is returned when the requested operation is absent.
	ErrOperationNotFound = errors.New("schema: openapi operation not found")
	// ErrNoRequestBody is returned when the operation has no object body.
	ErrNoRequestBody = errors.New("schema: openapi operation has no object request body")
)

var requestMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// FromOpenAPI converts the request body of an OpenAPI 3 operation into a
// schema. With an empty operationID the document must contain exactly one
// operation with a request body. Properties become fields ordered by the
// "order" extension, then by name.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (model.Schema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}

	operation, err := findOperation(doc, operationID)
	if err != nil {
		return nil, err
	}
	body := requestSchema(operation.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRequestBody, operationLabel(operation, operationID))
	}
	return convertProperties(body), nil
}

func findOperation(doc *openapi3.T, operationID string) (*openapi3.Operation, error) {
	if doc.Paths == nil {
		return nil, ErrOperationNotFound
	}

	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for key := range paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var candidates []*openapi3.Operation
	for _, key := range keys {
		item := paths[key]
		if item == nil {
			continue
		}
		for _, method := range []string{"POST", "PUT", "PATCH", "GET", "DELETE"} {
			operation := item.GetOperation(method)
			if operation == nil {
				continue
			}
			if operationID != "" {
				if operation.OperationID == operationID {
					return operation, nil
				}
				continue
			}
			if operation.RequestBody != nil {
				candidates = append(candidates, operation)
			}
		}
	}

	if operationID != "" {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	switch len(candidates) {
	case 0:
		return nil, ErrOperationNotFound
	case 1:
		return candidates[0], nil
	default:
		return nil, fmt.Errorf("schema: openapi document has %d operations with request bodies; select one by operation id", len(candidates))
	}
}

func operationLabel(operation *openapi3.Operation, fallback string) string {
	if operation != nil && operation.OperationID != "" {
		return operation.OperationID
	}
	return fallback
}

func requestSchema(ref *openapi3.RequestBodyRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil {
		return nil
	}
	content := ref.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

type orderedField struct {
	order int
	field model.Field
}

func convertProperties(body *openapi3.Schema) model.Schema {
	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	fields := make([]orderedField, 0, len(body.Properties))
	for name, ref := range body.Properties {
		if ref == nil || ref.Value == nil || ref.Value.ReadOnly {
			continue
		}
		ext := readExtension(ref.Value.Extensions)
		field := convertProperty(name, ref.Value, ext)
		field.Required = required[name]
		fields = append(fields, orderedField{order: ext.order, field: field})
	}

	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].order != fields[j].order {
			return fields[i].order < fields[j].order
		}
		return fields[i].field.Name < fields[j].field.Name
	})

	out := make(model.Schema, 0, len(fields))
	for _, entry := range fields {
		out = append(out, entry.field)
	}
	return out
}

func convertProperty(name string, src *openapi3.Schema, ext extension) model.Field {
	field := model.Field{Name: name}
	kind := firstSchemaType(src.Type)

	switch {
	case kind == openapi3.TypeBoolean:
		field.Type = model.KindCheckbox
		field.Value = "true"
		if checked, ok := src.Default.(bool); ok {
			field.Checked = checked
		}
	case kind == openapi3.TypeArray && src.Items != nil && src.Items.Value != nil && len(src.Items.Value.Enum) > 0:
		field.Type = model.KindSelect
		field.Multiple = true
		field.Options = enumOptions(src.Items.Value.Enum, ext.labels)
		if defaults, ok := src.Default.([]any); ok {
			for i, value := range defaults {
				if i == 0 {
					field.Value = stringify(value)
					continue
				}
				field.Values = append(field.Values, stringify(value))
			}
		}
	case len(src.Enum) > 0:
		field.Type = model.KindSelect
		field.Options = enumOptions(src.Enum, ext.labels)
		field.Value = stringify(src.Default)
	default:
		field.Type = textKind(kind, src.Format)
		field.Value = stringify(src.Default)
		if src.Min != nil {
			field.Min = formatFloat(*src.Min)
		}
		if src.Max != nil {
			field.Max = formatFloat(*src.Max)
		}
		if kind == openapi3.TypeString {
			if src.MinLength > 0 {
				value := int(src.MinLength)
				field.MinLength = &value
			}
			if src.MaxLength != nil {
				value := int(*src.MaxLength)
				field.MaxLength = &value
			}
			field.Pattern = src.Pattern
		}
	}

	if ext.kind != "" {
		override := model.Kind(ext.kind).Normalize()
		switch {
		case override == model.KindRadio && len(field.Options) > 0 && !field.Multiple:
			field.Type = model.KindRadio
		case override.Class() == model.ClassText && field.Type.Class() == model.ClassText:
			field.Type = override
		}
	}
	return field
}

func textKind(kind, format string) model.Kind {
	switch kind {
	case openapi3.TypeInteger, openapi3.TypeNumber:
		return model.KindNumber
	}
	switch strings.ToLower(format) {
	case "email":
		return model.KindEmail
	case "uri", "url":
		return model.KindURL
	case "password":
		return model.KindPassword
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	case "time":
		return "time"
	}
	return model.KindText
}

func enumOptions(values []any, labels map[string]string) []model.Option {
	out := make([]model.Option, 0, len(values))
	for _, value := range values {
		text := stringify(value)
		label := text
		if custom, ok := labels[text]; ok && custom != "" {
			label = custom
		}
		out = append(out, model.Option{Label: label, Value: text})
	}
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	for _, value := range values {
		if value != openapi3.TypeNull {
			return value
		}
	}
	return ""
}

type extension struct {
	kind   string
	order  int
	labels map[string]string
}

func readExtension(raw map[string]any) extension {
	ext := extension{order: 1 << 30}
	values, ok := raw[ExtensionKey].(map[string]any)
	if !ok {
		return ext
	}
	if kind, ok := values["type"].(string); ok {
		ext.kind = kind
	}
	switch order := values["order"].(type) {
	case float64:
		ext.order = int(order)
	case int:
		ext.order = order
	}
	if labels, ok := values["labels"].(map[string]any); ok {
		ext.labels = make(map[string]string, len(labels))
		for key, value := range labels {
			ext.labels[key] = stringify(value)
		}
	}
	return ext
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
