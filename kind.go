package trackable

import "errors"

// ErrorKind is the constraint on the classification of a
// TrackableError. Kinds are compared with == to tell errors apart, and
// printed with the `%v` verb: give kind types a String method when
// their default formatting is not readable.
type ErrorKind interface {
	comparable
}

// IsKind reports whether any TrackableError[K] in the chain of err has
// the given kind.
func IsKind[K ErrorKind](err error, kind K) bool {
	return errors.Is(err, &TrackableError[K]{kind: kind})
}

// KindOf returns the kind of the first TrackableError[K] in the chain
// of err.
func KindOf[K ErrorKind](err error) (kind K, ok bool) {
	var te *TrackableError[K]
	if !errors.As(err, &te) || te == nil {
		return kind, false
	}
	return te.kind, true
}

// Failed is a general purpose kind, for code that does not need finer
// classification.
type Failed struct{}

func (Failed) String() string { return "Failed" }

// Failure is the error type of the Failed kind.
//
// It also shows how application error types are defined on top of
// TrackableError: embedding the pointer promotes every method (error,
// fmt.Formatter, Trackable, Is, As, Report and JSON marshaling), so the
// new type is a TrackableError in every respect but its name:
//
//	type Kind int
//
//	const (
//	    NotFound Kind = iota
//	    Invalid
//	)
//
//	type Error struct{ *trackable.TrackableError[Kind] }
//
//	func NewError(kind Kind) Error { return Error{trackable.New(kind)} }
//
// Conversions are lossless both ways: Error{te} wraps a
// *TrackableError[Kind], and e.TrackableError unwraps it.
type Failure struct {
	*TrackableError[Failed]
}

// NewFailure returns a Failure with no cause.
func NewFailure() Failure { return Failure{New(Failed{})} }

// FailureFrom converts a TrackableError of the Failed kind.
func FailureFrom(err *TrackableError[Failed]) Failure { return Failure{err} }
