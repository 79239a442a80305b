// Package model defines the field descriptors a form is rendered from. A
// Schema is an ordered list of Field values; each Field carries the name used
// both as the control's `name` attribute and as the key of aggregate
// validation results. Field kinds are plain strings on the wire (`text`,
// `select`, `radio`, `checkbox`, plus the other native input types) but
// collapse onto the closed Class variant so renderers can switch on them
// exhaustively. Validity is never supplied by callers: the validation
// coordinator attaches it to derived copies of the schema so a re-render can
// reflect the outcome of the last submission attempt.
package model
