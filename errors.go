package main

import "fmt"

// CatalogError reports malformed or inconsistent gear data. Loading fails
// before any search starts.
type CatalogError struct {
	Msg string
	Err error
}

func (e *CatalogError) Error() string {
	if e.Err != nil {
		return "catalog: " + e.Msg + ": " + e.Err.Error()
	}
	return "catalog: " + e.Msg
}

func (e *CatalogError) Unwrap() error { return e.Err }

func catalogErrf(format string, args ...any) *CatalogError {
	return &CatalogError{Msg: fmt.Sprintf(format, args...)}
}

// ConstraintError reports that no build can satisfy the request. It is a
// structured outcome, not a failure of the search itself.
type ConstraintError struct {
	Reason string
}

func (e *ConstraintError) Error() string {
	return "no build satisfies constraints: " + e.Reason
}

func constraintErrf(format string, args ...any) *ConstraintError {
	return &ConstraintError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports an impossible internal state. Partition and Combo
// locate the enumeration position for reproduction; both are -1 when the
// violation happened outside the search loop.
type InvariantError struct {
	Msg       string
	Partition int
	Combo     int64
}

func (e *InvariantError) Error() string {
	if e.Partition >= 0 {
		return fmt.Sprintf("internal invariant violated: %s (partition %d, combination %d)", e.Msg, e.Partition, e.Combo)
	}
	return "internal invariant violated: " + e.Msg
}

func invariantErrf(format string, args ...any) *InvariantError {
	return &InvariantError{Msg: fmt.Sprintf(format, args...), Partition: -1, Combo: -1}
}
