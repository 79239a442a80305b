package main

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemaform/pkg/orchestrator"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// schemaFlags are the flags every command reading a schema accepts.
type schemaFlags struct {
	format      string
	operationID string
	preset      string
}

func (f *schemaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "schema encoding (json, yaml, openapi); detected when empty")
	cmd.Flags().StringVar(&f.operationID, "operation", "", "OpenAPI operation ID to convert")
	cmd.Flags().StringVar(&f.preset, "preset", "", "YAML or JSON preset that reorders, hides or patches fields")
}

func (f schemaFlags) request(raw string) (orchestrator.Request, error) {
	src, err := schema.ParseSource(raw)
	if err != nil {
		return orchestrator.Request{}, err
	}
	format, err := parseFormat(f.format)
	if err != nil {
		return orchestrator.Request{}, err
	}
	return orchestrator.Request{
		Source:      src,
		Format:      format,
		OperationID: f.operationID,
	}, nil
}

func (f schemaFlags) orchestrator(a *app, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	options = append([]orchestrator.Option{
		orchestrator.WithLogger(a.logger),
		orchestrator.WithLoader(newLoader()),
	}, options...)
	if f.preset != "" {
		preset, err := loadPreset(f.preset)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(preset))
	}
	return orchestrator.New(options...), nil
}

func loadPreset(path string) (*orchestrator.PresetTransformer, error) {
	preset, err := orchestrator.NewPresetTransformerFromFS(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return preset, nil
}

func parseFormat(raw string) (schema.Format, error) {
	switch format := schema.Format(strings.ToLower(strings.TrimSpace(raw))); format {
	case schema.FormatAuto, schema.FormatJSON, schema.FormatYAML, schema.FormatOpenAPI:
		return format, nil
	default:
		return "", fmt.Errorf("unknown schema format %q", raw)
	}
}

// readValues reads submitted values from path ("-" for stdin). JSON objects
// and URL-encoded query strings are both accepted.
func readValues(path string, stdin io.Reader) (url.Values, error) {
	if path == "" {
		return nil, nil
	}
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		return decodeJSONValues(raw)
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return values, nil
}

func decodeJSONValues(raw []byte) (url.Values, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	values := make(url.Values, len(payload))
	for name, value := range payload {
		switch v := value.(type) {
		case nil:
		case []any:
			list := make([]string, 0, len(v))
			for _, item := range v {
				if item != nil {
					list = append(list, scalar(item))
				}
			}
			values[name] = list
		default:
			values[name] = []string{scalar(v)}
		}
	}
	return values, nil
}

func scalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "on"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// readErrors reads a server error payload: a JSON object mapping field
// paths to a message or a list of messages.
func readErrors(path string) (map[string][]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read errors: %w", err)
	}
	values, err := decodeJSONValues(raw)
	if err != nil {
		return nil, fmt.Errorf("errors payload: %w", err)
	}
	return values, nil
}

func sortedKeys(values map[string][]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
