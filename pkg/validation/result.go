package validation

import (
	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
)

// Result is the aggregate outcome of one validation pass.
type Result struct {
	// Valid is true when every located control satisfied its constraints.
	Valid bool
	// Controls maps field names to the located controls. It is the success
	// payload handed to submit listeners; radio groups map to their first
	// radio.
	Controls map[string]*dom.Control
	// Fields maps field names to their descriptor with Validity attached.
	Fields map[string]model.Field
	// Order lists field names in schema order.
	Order []string
	// Missing lists fields whose control was not present in the tree. They
	// are reported valid.
	Missing []string
}

// Issue describes one failing field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Schema returns the fields in schema order with validity attached.
func (r Result) Schema() model.Schema {
	out := make(model.Schema, 0, len(r.Order))
	for _, name := range r.Order {
		if field, ok := r.Fields[name]; ok {
			out = append(out, field.Clone())
		}
	}
	return out
}

// Validity returns the per-field validity snapshots.
func (r Result) Validity() map[string]model.Validity {
	out := make(map[string]model.Validity, len(r.Fields))
	for name, field := range r.Fields {
		if field.Validity != nil {
			out[name] = *field.Validity
		}
	}
	return out
}

// Issues lists failing fields in schema order.
func (r Result) Issues() []Issue {
	var issues []Issue
	for _, name := range r.Order {
		field, ok := r.Fields[name]
		if !ok || field.Validity == nil || field.Validity.Valid {
			continue
		}
		issues = append(issues, Issue{Field: name, Message: field.Validity.Message})
	}
	return issues
}

// Invalid lists the names of failing fields in schema order.
func (r Result) Invalid() []string {
	issues := r.Issues()
	if len(issues) == 0 {
		return nil
	}
	names := make([]string, 0, len(issues))
	for _, issue := range issues {
		names = append(names, issue.Field)
	}
	return names
}
