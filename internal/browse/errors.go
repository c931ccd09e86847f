package browse

import "fmt"

// The error taxonomy surfaced to the user. Every failure maps to one of
// these; the detail message is shown verbatim as a notice and the view
// keeps its last good state.

// ValidationError reports a missing or malformed field, caught locally
// before submission where feasible.
type ValidationError struct {
	Detail string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %v", e.Detail, e.Fields)
	}
	return e.Detail
}

// ConflictError reports a duplicate unique key, e.g. an admin username
// that already exists.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

// PolicyError reports an operation forbidden by a business rule, e.g.
// self-deletion or exceeding the comparison selection limit.
type PolicyError struct {
	Detail string
}

func (e *PolicyError) Error() string { return e.Detail }

// NotFoundError reports a stale id.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// NetworkError reports a transport failure or a non-2xx response
// without a structured body.
type NetworkError struct {
	Detail string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ErrSelectionFull is returned when a third keyboard is toggled into a
// full comparison selection.
var ErrSelectionFull = &PolicyError{Detail: "comparison is limited to two keyboards"}
