package trackable

// These are the error chain helpers of the standard library, so that
// code tracking its errors can import this package alone.

import (
	stderrors "errors"

	"go.uber.org/multierr"
)

// Unwrap returns the result of calling the Unwrap method on err, if err's
// type contains an Unwrap method returning error.
// Otherwise, Unwrap returns nil.
func Unwrap(err error) error { return stderrors.Unwrap(err) }

// Is reports whether any error in err's chain matches target.
//
// The chain consists of err itself followed by the sequence of errors obtained by
// repeatedly calling Unwrap.
//
// An error is considered to match a target if it is equal to that target or if
// it implements a method Is(error) bool such that Is(target) returns true.
// TrackableErrors match targets of the same kind, see IsKind.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target, and if so, sets
// target to that error value and returns true. Otherwise, it returns false.
//
// As panics if target is not a non-nil pointer to either a type that implements
// error, or to any interface type.
func As(err error, target interface{}) bool { return stderrors.As(err, target) }

// Join returns an error that wraps the given errors. Any nil error
// values are discarded. Join returns nil if every value in errs is nil,
// and the only non-nil error when there is just one.
//
// Since errors are joined with go.uber.org/multierr, the result can be
// split again with Errors.
func Join(errs ...error) error { return multierr.Combine(errs...) }

// Errors splits an error built by Join into the errors it holds. A nil
// err gives an empty slice, and any other error a slice of itself.
func Errors(err error) []error { return multierr.Errors(err) }
