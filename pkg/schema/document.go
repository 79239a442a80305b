// Package schema loads field schemas from files, fs.FS entries and URLs. A
// document is either a JSON or YAML list of field descriptors, or an OpenAPI 3
// document whose operation request body is converted into fields.
package schema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// Format is the encoding of a schema document.
type Format string

const (
	FormatAuto    Format = ""
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatOpenAPI Format = "openapi"
)

// ErrEmptyDocument is returned for documents without content.
var ErrEmptyDocument = errors.New("schema: raw document is empty")

// Document wraps the raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, ErrEmptyDocument
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format detects the document encoding from its content, falling back to the
// location's extension.
func (d Document) Format() Format {
	return DetectFormat(d.Location(), d.raw)
}

// DecodeOptions tune Decode.
type DecodeOptions struct {
	// Format forces an encoding instead of detecting it.
	Format Format
	// OperationID selects the OpenAPI operation to convert.
	OperationID string
}

// Decode converts the document into a schema and validates it.
func (d Document) Decode(ctx context.Context, opts DecodeOptions) (model.Schema, error) {
	format := opts.Format
	if format == FormatAuto {
		format = d.Format()
	}

	var (
		out model.Schema
		err error
	)
	switch format {
	case FormatJSON:
		out, err = DecodeJSON(d.raw)
	case FormatYAML:
		out, err = DecodeYAML(d.raw)
	case FormatOpenAPI:
		out, err = FromOpenAPI(ctx, d.raw, opts.OperationID)
	default:
		err = fmt.Errorf("schema: unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", d.Location(), err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", d.Location(), err)
	}
	return out, nil
}

// DetectFormat inspects content first: a mapping with a top-level "openapi"
// key is OpenAPI, a leading '[' or '{' is JSON. The extension decides when the
// content is ambiguous.
func DetectFormat(location string, raw []byte) Format {
	trimmed := bytes.TrimSpace(raw)
	if looksLikeOpenAPI(trimmed) {
		return FormatOpenAPI
	}
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	switch strings.ToLower(path.Ext(location)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

func looksLikeOpenAPI(raw []byte) bool {
	if len(raw) == 0 || raw[0] == '[' {
		return false
	}
	var probe struct {
		OpenAPI string `json:"openapi" yaml:"openapi"`
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &probe); err != nil {
			return false
		}
		return probe.OpenAPI != ""
	}
	if err := yaml.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return probe.OpenAPI != ""
}

// DecodeJSON decodes a JSON list of field descriptors.
func DecodeJSON(raw []byte) (model.Schema, error) {
	var out model.Schema
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return out, nil
}

// DecodeYAML decodes a YAML list of field descriptors.
func DecodeYAML(raw []byte) (model.Schema, error) {
	var out model.Schema
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&out); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return out, nil
}
