package model

import "strings"

// Kind is the declared field type. The zero value renders as a text input.
type Kind string

const (
	KindText     Kind = "text"
	KindSelect   Kind = "select"
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"

	KindEmail    Kind = "email"
	KindURL      Kind = "url"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindRange    Kind = "range"
	KindHidden   Kind = "hidden"
)

// Class is the closed set of control shapes a Kind renders as.
type Class int

const (
	ClassInvalid Class = iota
	ClassText
	ClassSelect
	ClassRadio
	ClassCheckbox
)

func (c Class) String() string {
	switch c {
	case ClassText:
		return "text"
	case ClassSelect:
		return "select"
	case ClassRadio:
		return "radio"
	case ClassCheckbox:
		return "checkbox"
	default:
		return "invalid"
	}
}

// textLikeKinds lists the native input types rendered as a single <input>.
var textLikeKinds = map[Kind]struct{}{
	KindText:         {},
	KindEmail:        {},
	KindURL:          {},
	KindPassword:     {},
	KindNumber:       {},
	KindRange:        {},
	KindHidden:       {},
	"tel":            {},
	"search":         {},
	"date":           {},
	"time":           {},
	"datetime-local": {},
	"month":          {},
	"week":           {},
	"color":          {},
}

// Normalize returns the kind with surrounding space and case removed, mapping
// the empty kind to KindText.
func (k Kind) Normalize() Kind {
	trimmed := Kind(strings.ToLower(strings.TrimSpace(string(k))))
	if trimmed == "" {
		return KindText
	}
	return trimmed
}

// Class resolves the control shape for the kind.
func (k Kind) Class() Class {
	switch norm := k.Normalize(); norm {
	case KindSelect:
		return ClassSelect
	case KindRadio:
		return ClassRadio
	case KindCheckbox:
		return ClassCheckbox
	default:
		if _, ok := textLikeKinds[norm]; ok {
			return ClassText
		}
		return ClassInvalid
	}
}

// Option is one entry of a select or radio group.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Validity mirrors the platform ValidityState for one control.
type Validity struct {
	Valid           bool   `json:"valid"`
	ValueMissing    bool   `json:"valueMissing,omitempty"`
	TypeMismatch    bool   `json:"typeMismatch,omitempty"`
	PatternMismatch bool   `json:"patternMismatch,omitempty"`
	TooLong         bool   `json:"tooLong,omitempty"`
	TooShort        bool   `json:"tooShort,omitempty"`
	RangeUnderflow  bool   `json:"rangeUnderflow,omitempty"`
	RangeOverflow   bool   `json:"rangeOverflow,omitempty"`
	BadInput        bool   `json:"badInput,omitempty"`
	CustomError     bool   `json:"customError,omitempty"`
	Message         string `json:"validationMessage,omitempty"`
}

// ValidState is the snapshot of a control that satisfies every constraint.
func ValidState() Validity {
	return Validity{Valid: true}
}

// Field describes one logical form field. Struct tags let schemas be decoded
// straight from JSON or YAML documents.
type Field struct {
	Name     string   `json:"name" yaml:"name"`
	Type     Kind     `json:"type,omitempty" yaml:"type,omitempty"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty"`
	Values   []string `json:"values,omitempty" yaml:"values,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Checked  bool     `json:"checked,omitempty" yaml:"checked,omitempty"`
	Multiple bool     `json:"multiple,omitempty" yaml:"multiple,omitempty"`
	Options  []Option `json:"options,omitempty" yaml:"options,omitempty"`

	Min       string `json:"min,omitempty" yaml:"min,omitempty"`
	Max       string `json:"max,omitempty" yaml:"max,omitempty"`
	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`

	// Validity is attached by the validation coordinator; callers leave it nil.
	Validity *Validity `json:"validity,omitempty" yaml:"-"`
}

// InputType returns the value of the rendered `type` attribute.
func (f Field) InputType() string {
	return string(f.Type.Normalize())
}

// IsSelected reports whether an option value is pre-selected.
func (f Field) IsSelected(value string) bool {
	if value == f.Value {
		return true
	}
	for _, candidate := range f.Values {
		if candidate == value {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	out := f
	if f.Values != nil {
		out.Values = append([]string(nil), f.Values...)
	}
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.MinLength != nil {
		value := *f.MinLength
		out.MinLength = &value
	}
	if f.MaxLength != nil {
		value := *f.MaxLength
		out.MaxLength = &value
	}
	if f.Validity != nil {
		validity := *f.Validity
		out.Validity = &validity
	}
	return out
}
