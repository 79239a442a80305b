package validation

import (
	"github.com/goliatone/go-schemaform/pkg/constraint"
	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/model"
)

// ValidityProvider reports the validity of one rendered control. scope is the
// form root so group constraints (radio buttons) can be evaluated as a whole.
type ValidityProvider interface {
	Check(scope dom.Node, control *dom.Control) model.Validity
}

// ProviderFunc adapts a function to ValidityProvider.
type ProviderFunc func(scope dom.Node, control *dom.Control) model.Validity

// Check implements ValidityProvider.
func (fn ProviderFunc) Check(scope dom.Node, control *dom.Control) model.Validity {
	return fn(scope, control)
}

var _ ValidityProvider = (*constraint.Provider)(nil)

// DefaultProvider returns the HTML constraint-validation provider.
func DefaultProvider() ValidityProvider {
	return constraint.New()
}
