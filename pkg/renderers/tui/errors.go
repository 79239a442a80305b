package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/validation"
)

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is matched by ValidationError.
	ErrInvalid = errors.New("tui: collected values are invalid")
)

// ValidationError reports fields that still fail their constraints once every
// prompt has been answered, typically fields that are never prompted such as
// hidden inputs.
type ValidationError struct {
	Issues []validation.Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalid, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}
