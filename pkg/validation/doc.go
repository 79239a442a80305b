// Package validation coordinates a whole-form validation pass: it finds the
// live control for every schema field, asks a ValidityProvider for its
// validity, and settles one aggregate Result keyed by field name. After a pass
// settles the coordinator schedules a re-render so custom field renderers can
// reflect the new validity; it never touches the tree itself.
package validation
