package permission

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is reported for unknown company, role, permission, template or membership ids.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is reported when the caller lacks the manage capability in the company.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is reported for constraint violations, e.g. deleting a referenced role.
	ErrConflict = errors.New("conflict")

	// ErrValidation is reported for malformed input such as an unknown grant type.
	ErrValidation = errors.New("validation failed")

	// ErrStoreNil is returned by constructors when no data access handle was passed.
	ErrStoreNil = errors.New("permission store is nil")
)

// Result is the outcome of an engine operation. Expected failures (not found,
// unauthorized, conflict, validation) are carried in Err; the operation itself
// only returns an error for infrastructure problems.
type Result struct {
	// Err wraps one of the sentinel errors when the operation was refused.
	Err error
	// ID is the id of the entity the operation created or targeted, if any.
	ID uint
	// Changes are the change log entries written by the operation.
	Changes []uint
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Reason is the human readable failure reason, empty on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}

	return r.Err.Error()
}

func failure(kind error, format string, args ...any) Result {
	return Result{Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))}
}

// refusal converts an expected failure raised inside a transaction back into a Result.
// Anything that is not one of the sentinel errors stays an infrastructure error.
func refusal(err error) (Result, error) {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrValidation):
		return Result{Err: err}, nil
	default:
		return Result{}, err
	}
}
