package trackable

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// TrackableError is an error classified by a kind K, optionally caused
// by another error, and carrying a History of the locations it was
// tracked at on its way up the call stack.
//
// The zero value is not useful: build one with New, Errorf, Wrap,
// WithoutHistory or TakeOver. All of these give the error a recording
// history except WithoutHistory, and a history slot is never added or
// replaced afterwards.
//
// A nil *TrackableError behaves as an absent error for tracking
// purposes: tracking it is a no-op.
//
// Tracking appends to the history of the error in place, and histories
// are not synchronized. Create a TrackableError for each failure and
// hand it to one goroutine at a time. Do not store one in a package
// variable as a sentinel: every failure returning it would add to the
// same history. Match errors by kind instead:
//
//	func load(key string) error {
//	    return trackable.New(NotFound) // a new value per failure
//	}
//
//	if trackable.IsKind(err, NotFound) { ... }
type TrackableError[K ErrorKind] struct {
	kind    K
	cause   error
	history *History[Location]
}

var _ interface { // Assert interface implementation.
	error
	Trackable[Location]
	Reporter
	Unwrap() error
	Is(error) bool
	As(interface{}) bool
	fmt.Formatter
	json.Marshaler
} = (*TrackableError[Failed])(nil)

// New returns an error of the given kind with no cause. Call it for
// each failure, since the error records its own history.
func New[K ErrorKind](kind K) *TrackableError[K] {
	return &TrackableError[K]{
		kind:    kind,
		history: NewHistory[Location](true),
	}
}

// Errorf returns an error of the given kind caused by the formatted
// message. As with fmt.Errorf, the `%w` verb keeps the wrapped error in
// the chain.
func Errorf[K ErrorKind](kind K, format string, args ...interface{}) *TrackableError[K] {
	return &TrackableError[K]{
		kind:    kind,
		cause:   fmt.Errorf(format, args...),
		history: NewHistory[Location](true),
	}
}

// Wrap classifies err under the given kind, keeping it as the cause. A
// nil err gives the same result as New. As with New, the result is
// meant for one failure; err itself can be shared.
func Wrap[K ErrorKind](kind K, err error) *TrackableError[K] {
	if isNil(err) {
		return New(kind)
	}
	return &TrackableError[K]{
		kind:    kind,
		cause:   err,
		history: NewHistory[Location](true),
	}
}

// WithoutHistory returns an error of the given kind that has no history
// slot: tracking it is a no-op for its whole lifetime, and
// EnableTracking cannot turn it on.
func WithoutHistory[K ErrorKind](kind K, cause error) *TrackableError[K] {
	if isNil(cause) {
		cause = nil
	}
	return &TrackableError[K]{kind: kind, cause: cause}
}

// TakeOver re-classifies src under a new kind. The result takes a copy
// of the cause and the history of src, so tracking continues where src
// left off; the kind of src is dropped. A nil src gives the same result
// as New.
func TakeOver[K ErrorKind, S ErrorKind](kind K, src *TrackableError[S]) *TrackableError[K] {
	if src == nil {
		return New(kind)
	}
	return &TrackableError[K]{
		kind:    kind,
		cause:   src.cause,
		history: src.history.Clone(),
	}
}

// Kind returns the classification of the error.
func (e *TrackableError[K]) Kind() (kind K) {
	if e == nil {
		return
	}
	return e.kind
}

// Cause returns the underlying error, if any.
func (e *TrackableError[K]) Cause() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func (e *TrackableError[K]) Unwrap() error { return e.Cause() }

// History returns the tracking history of the error, or nil when the
// error has no history slot.
func (e *TrackableError[K]) History() *History[Location] {
	if e == nil {
		return nil
	}
	return e.history
}

// EnableTracking turns recording on. It does nothing when the error has
// no history slot.
func (e *TrackableError[K]) EnableTracking() { e.History().Enable() }

// DisableTracking turns recording off, keeping the recorded events. It
// does nothing when the error has no history slot.
func (e *TrackableError[K]) DisableTracking() { e.History().Disable() }

// InTracking reports whether tracking this error records a location.
func (e *TrackableError[K]) InTracking() bool { return e.History().Enabled() }

func (e *TrackableError[K]) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	e.writeHeader(&b)
	return b.String()
}

func (e *TrackableError[K]) writeHeader(w io.Writer) {
	fmt.Fprintf(w, "%v", e.kind)
	if e.cause == nil {
		return
	}
	io.WriteString(w, causePrefix)
	io.WriteString(w, e.cause.Error())
	io.WriteString(w, causeSuffix)
}

const (
	causePrefix = " (cause; "
	causeSuffix = ")"
)

// Format renders the error. The following verbs are supported:
//
//	%s    the kind, followed by " (cause; <cause>)" when there is a cause
//	%v    same as %s
//	%q    same as %s but quoted
//	%#v   a Go representation of the kind and cause
//	%+v   the report: same as %s, followed by the HISTORY block when
//	      any location was recorded
//
// Causes and notes are printed verbatim. Use Report.EncodeText for a
// rendering that can be parsed back whatever the text it holds.
func (e *TrackableError[K]) Format(s fmt.State, verb rune) {
	if e == nil {
		io.WriteString(s, "<nil>")
		return
	}
	switch verb {
	case 'v':
		if s.Flag('+') {
			e.writeHeader(s)
			if e.history.Len() > 0 {
				io.WriteString(s, "\n")
				e.history.writeBlock(s)
			}
			return
		}
		if s.Flag('#') {
			var cause string
			if e.cause != nil {
				cause = e.cause.Error()
			}
			fmt.Fprintf(s, "&trackable.TrackableError{%#v, %q}", e.kind, cause)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	default:
		// empty
	}
}

// Is reports whether target is a TrackableError, or an error type
// embedding one, with the same kind.
func (e *TrackableError[K]) Is(target error) bool {
	t, ok := target.(interface{ trackableError() *TrackableError[K] })
	if !ok {
		return false
	}
	other := t.trackableError()
	if e == nil || other == nil {
		return e == other
	}
	return e.kind == other.kind
}

// As lets errors.As extract the *TrackableError from error types that
// embed it.
func (e *TrackableError[K]) As(target interface{}) bool {
	if p, ok := target.(**TrackableError[K]); ok {
		*p = e
		return true
	}
	return false
}

// trackableError is promoted to the types embedding *TrackableError,
// which is how Is recognizes them.
func (e *TrackableError[K]) trackableError() *TrackableError[K] { return e }

// Report returns a snapshot of the error with the kind and cause
// rendered as text.
func (e *TrackableError[K]) Report() Report {
	if e == nil {
		return Report{}
	}
	r := Report{
		Kind:     fmt.Sprintf("%v", e.kind),
		Tracking: e.history.Enabled(),
	}
	if e.cause != nil {
		r.Cause = e.cause.Error()
	}
	if e.history != nil {
		r.History = e.history.Events()
	}
	return r
}

func (e *TrackableError[K]) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}
	return json.Marshal(e.Report())
}
