package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyName is returned when a descriptor has no name.
	ErrEmptyName = errors.New("model: field name is required")
	// ErrDuplicateName is returned when two descriptors share a name.
	ErrDuplicateName = errors.New("model: duplicate field name")
	// ErrUnknownKind is returned for a type outside the supported kinds.
	ErrUnknownKind = errors.New("model: unknown field type")
	// ErrMissingOptions is returned for select and radio fields without options.
	ErrMissingOptions = errors.New("model: options are required")
)

// FieldError reports a caller-contract violation for one descriptor.
type FieldError struct {
	Index int
	Name  string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%v (field #%d)", e.Err, e.Index)
	}
	return fmt.Sprintf("%v (field %q)", e.Err, e.Name)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Schema is the ordered list of descriptors rendered into one form.
type Schema []Field

// Validate checks the caller contract: every field is named, names are
// unique, kinds are known and choice kinds carry options. All violations are
// reported, joined in schema order.
func (s Schema) Validate() error {
	var errs []error
	seen := make(map[string]int, len(s))
	for idx, field := range s {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			errs = append(errs, &FieldError{Index: idx, Err: ErrEmptyName})
			continue
		}
		if _, exists := seen[name]; exists {
			errs = append(errs, &FieldError{Index: idx, Name: name, Err: ErrDuplicateName})
			continue
		}
		seen[name] = idx

		switch field.Type.Class() {
		case ClassInvalid:
			errs = append(errs, &FieldError{
				Index: idx,
				Name:  name,
				Err:   fmt.Errorf("%w %q", ErrUnknownKind, field.Type),
			})
		case ClassSelect, ClassRadio:
			if len(field.Options) == 0 {
				errs = append(errs, &FieldError{
					Index: idx,
					Name:  name,
					Err:   fmt.Errorf("%w for %s fields", ErrMissingOptions, field.Type.Normalize()),
				})
			}
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy so derived schemas never alias caller data.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	for i, field := range s {
		out[i] = field.Clone()
	}
	return out
}

// WithValidity returns a copy of the schema with the supplied snapshots
// attached. Fields absent from the map keep whatever validity they carried.
func (s Schema) WithValidity(validity map[string]Validity) Schema {
	out := s.Clone()
	for i := range out {
		if state, ok := validity[out[i].Name]; ok {
			snapshot := state
			out[i].Validity = &snapshot
		}
	}
	return out
}

// WithoutValidity returns a copy with every attached snapshot cleared.
func (s Schema) WithoutValidity() Schema {
	out := s.Clone()
	for i := range out {
		out[i].Validity = nil
	}
	return out
}

// Names returns field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, field := range s {
		names = append(names, field.Name)
	}
	return names
}

// Lookup finds a descriptor by name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, field := range s {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
