package form

import "github.com/goliatone/go-schemaform/pkg/validation"

// EventSubmit is the type of the native form submit event.
const EventSubmit = "submit"

// Event is a dispatched form event.
type Event struct {
	Type             string
	defaultPrevented bool
}

// NewSubmitEvent returns a submit event.
func NewSubmitEvent() *Event {
	return &Event{Type: EventSubmit}
}

// PreventDefault suppresses the native action of the event.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// SubmitHandler observes every settled submission, resolved or rejected. The
// handle is the one returned by Submit and Dispatch.
type SubmitHandler func(sub *validation.Submission)
