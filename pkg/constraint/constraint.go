// Package constraint evaluates the native HTML constraint-validation rules
// against controls in a rendered tree. It stands in for the browser's
// ValidityState when forms are validated on the server or in tests.
package constraint

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/locator"
	"github.com/goliatone/go-schemaform/pkg/model"
)

// Option configures a Provider.
type Option func(*Provider)

// WithMessages overrides the default validation messages.
func WithMessages(messages Messages) Option {
	return func(p *Provider) {
		p.messages = messages.withDefaults()
	}
}

// Provider checks one control at a time. It is safe for concurrent use;
// compiled patterns are cached.
type Provider struct {
	messages Messages

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// New returns a Provider using browser-style messages.
func New(options ...Option) *Provider {
	p := &Provider{
		messages: DefaultMessages(),
		patterns: make(map[string]*regexp.Regexp),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Check computes the validity of control. scope is the form root, used to
// evaluate radio groups as a whole. Barred controls (disabled, hidden,
// buttons) are always valid.
func (p *Provider) Check(scope dom.Node, control *dom.Control) model.Validity {
	if control == nil {
		return model.ValidState()
	}
	if barred(control) {
		return model.ValidState()
	}

	var state model.Validity
	switch control.Tag {
	case "select":
		p.checkSelect(control, &state)
	case "textarea":
		p.checkText(control, "textarea", &state)
	default:
		switch kind := control.Type(); kind {
		case "checkbox":
			if control.Required() && !control.Checked() {
				state.ValueMissing = true
				state.Message = p.messages.CheckboxMissing
			}
		case "radio":
			p.checkRadio(scope, control, &state)
		default:
			p.checkText(control, kind, &state)
		}
	}

	if custom := control.CustomValidity(); custom != "" {
		state.CustomError = true
		state.Message = custom
	}

	state.Valid = !(state.ValueMissing || state.TypeMismatch || state.PatternMismatch ||
		state.TooLong || state.TooShort || state.RangeUnderflow || state.RangeOverflow ||
		state.BadInput || state.CustomError)
	if state.Valid {
		state.Message = ""
	}
	return state
}

func barred(control *dom.Control) bool {
	if control.Disabled() {
		return true
	}
	switch control.Tag {
	case "select":
		return false
	case "textarea":
		return control.Attrs.Has("readonly")
	}
	switch control.Type() {
	case "hidden", "button", "reset", "submit", "image":
		return true
	case "checkbox", "radio", "range", "color":
		return false
	default:
		return control.Attrs.Has("readonly")
	}
}

func (p *Provider) checkSelect(control *dom.Control, state *model.Validity) {
	if !control.Required() {
		return
	}
	selected := control.SelectedValues()
	missing := len(selected) == 0
	if !missing && !control.Multiple() {
		// A single select whose selection is its empty first option counts
		// as missing (the placeholder option rule).
		options := control.Options()
		missing = selected[0] == "" && len(options) > 0 && dom.OptionValue(options[0]) == ""
	}
	if missing {
		state.ValueMissing = true
		state.Message = p.messages.SelectMissing
	}
}

func (p *Provider) checkRadio(scope dom.Node, control *dom.Control, state *model.Validity) {
	group := []*dom.Control{control}
	if scope != nil {
		if members := locator.Group(scope, control.Name()); len(members) > 0 {
			group = members
		}
	}
	required, checked := false, false
	for _, member := range group {
		if member.Type() != "radio" {
			continue
		}
		required = required || member.Required()
		checked = checked || member.Checked()
	}
	if required && !checked {
		state.ValueMissing = true
		state.Message = p.messages.RadioMissing
	}
}

func (p *Provider) checkText(control *dom.Control, kind string, state *model.Validity) {
	value := sanitizeValue(kind, control.Value())

	if value == "" {
		if control.Required() {
			state.ValueMissing = true
			state.Message = p.messages.ValueMissing
		}
		return
	}

	switch kind {
	case "email":
		if !validEmails(value, control.Multiple()) {
			state.TypeMismatch = true
			state.Message = p.messages.EmailMismatch
			return
		}
	case "url":
		if !validURL(value) {
			state.TypeMismatch = true
			state.Message = p.messages.URLMismatch
			return
		}
	case "number", "range":
		p.checkNumber(control, value, state)
		return
	}

	length := utf8.RuneCountInString(value)
	if limit, ok := intAttr(control, "maxlength"); ok && length > limit {
		state.TooLong = true
		state.Message = fmt.Sprintf(p.messages.TooLong, limit, length)
		return
	}
	if limit, ok := intAttr(control, "minlength"); ok && length < limit {
		state.TooShort = true
		state.Message = fmt.Sprintf(p.messages.TooShort, limit, length)
		return
	}

	if pattern, ok := control.Attrs.Get("pattern"); ok && pattern != "" && kind != "textarea" {
		if re := p.compile(pattern); re != nil && !re.MatchString(value) {
			state.PatternMismatch = true
			state.Message = p.messages.PatternMismatch
		}
	}
}

func (p *Provider) checkNumber(control *dom.Control, value string, state *model.Validity) {
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(number, 0) || math.IsNaN(number) {
		state.BadInput = true
		state.Message = p.messages.BadNumber
		return
	}
	if limit, ok := floatAttr(control, "min"); ok && number < limit {
		state.RangeUnderflow = true
		state.Message = fmt.Sprintf(p.messages.RangeUnderflow, formatNumber(limit))
		return
	}
	if limit, ok := floatAttr(control, "max"); ok && number > limit {
		state.RangeOverflow = true
		state.Message = fmt.Sprintf(p.messages.RangeOverflow, formatNumber(limit))
	}
}

// sanitizeValue applies the value sanitization of the input type: line
// breaks are stripped from single-line inputs, and url, email and number
// values are also trimmed.
func sanitizeValue(kind, value string) string {
	switch kind {
	case "textarea":
		return value
	case "email", "url", "number", "range":
		return strings.Trim(value, " \t\n\r\f")
	default:
		return strings.NewReplacer("\r", "", "\n", "").Replace(value)
	}
}

// compile anchors the pattern the way the pattern attribute is anchored.
// Patterns RE2 cannot compile are ignored, as browsers ignore invalid
// patterns.
func (p *Provider) compile(pattern string) *regexp.Regexp {
	p.mu.RLock()
	re, ok := p.patterns[pattern]
	p.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		re = nil
	}
	p.mu.Lock()
	p.patterns[pattern] = re
	p.mu.Unlock()
	return re
}

func validEmails(value string, multiple bool) bool {
	candidates := []string{value}
	if multiple {
		candidates = strings.Split(value, ",")
	}
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			return false
		}
		addr, err := mail.ParseAddress(candidate)
		if err != nil || addr.Address != candidate || addr.Name != "" {
			return false
		}
		at := strings.LastIndex(candidate, "@")
		if at <= 0 || at == len(candidate)-1 {
			return false
		}
	}
	return true
}

func validURL(value string) bool {
	parsed, err := url.Parse(value)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && (parsed.Host != "" || parsed.Opaque != "" || parsed.Path != "")
}

func intAttr(control *dom.Control, key string) (int, bool) {
	raw, ok := control.Attrs.Get(key)
	if !ok {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

func floatAttr(control *dom.Control, key string) (float64, bool) {
	raw, ok := control.Attrs.Get(key)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
