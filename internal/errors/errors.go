// Package errors implements the error taxonomy from the diagnostic
// pipeline's error handling design: a closed Kind enum plus a SmartError
// wrapper that carries an optional remediation hint. Only cmd/kubectl-smart
// translates a Kind into an exit code and a user-facing message. Internal
// packages return *SmartError for classified failures; some return plain
// errors, which KindOf reports as Fatal.
package errors

import "fmt"

// Kind is the closed error taxonomy.
type Kind string

const (
	InputError  Kind = "InputError"
	NotFound    Kind = "NotFound"
	Forbidden   Kind = "Forbidden"
	Timeout     Kind = "Timeout"
	Unavailable Kind = "Unavailable"
	ParseError  Kind = "ParseError"
	Fatal       Kind = "Fatal"
)

// SmartError wraps an underlying error with a classification and an
// optional remediation hint shown to the user.
type SmartError struct {
	Kind      Kind
	Component string
	Hint      string
	Err       error
}

func (e *SmartError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *SmartError) Unwrap() error { return e.Err }

// New wraps err under kind, attributing it to component (e.g. a collector
// or parser name) for --debug output.
func New(kind Kind, component string, err error) *SmartError {
	return &SmartError{Kind: kind, Component: component, Err: err}
}

// WithHint attaches a remediation hint and returns the receiver for
// chaining at the call site.
func (e *SmartError) WithHint(hint string) *SmartError {
	e.Hint = hint
	return e
}

// Wrap decorates err with additional context while preserving Kind.
func Wrap(err *SmartError, format string, args ...any) *SmartError {
	if err == nil {
		return nil
	}
	return &SmartError{
		Kind:      err.Kind,
		Component: err.Component,
		Hint:      err.Hint,
		Err:       fmt.Errorf(format+": %w", append(args, err.Err)...),
	}
}

// KindOf returns the Kind of err if it is a *SmartError, or Fatal for any
// other non-nil error, and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if se, ok := err.(*SmartError); ok {
		return se.Kind
	}
	return Fatal
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
