package trackable

import (
	"errors"
	"fmt"
	stdruntime "runtime"
	"strings"

	"github.com/secureworks/trackable/internal/runtime"
	"github.com/secureworks/trackable/internal/source"
)

// Assert returns nil when cond holds. Otherwise it returns a
// TrackableError of the given kind, tracked at the caller, whose cause
// quotes the condition:
//
//	func addPositive(a, b float64) (float64, error) {
//	    if err := trackable.Assert(a > 0.0 && b > 0.0, trackable.Failed{}); err != nil {
//	        return 0, err
//	    }
//	    return a + b, nil
//	}
//
//	// Failed (cause; assertion failed: `a > 0.0 && b > 0.0`)
//
// The optional msgAndArgs are appended to the message, the first being
// a format string when more than one is given.
func Assert[K ErrorKind](cond bool, kind K, msgAndArgs ...interface{}) error {
	if cond {
		return nil
	}
	fr := runtime.Caller(1)
	msg := "assertion failed"
	if args, ok := source.CallArgs(fr.File, fr.Line, "Assert"); ok && len(args) > 0 {
		msg += ": `" + args[0] + "`"
	}
	return failAt(kind, fr, withDetail(msg, msgAndArgs))
}

// AssertEqual returns nil when left == right. Otherwise it returns a
// TrackableError of the given kind, tracked at the caller, whose cause
// quotes the comparison along with both operands:
//
//	// Failed (cause; assertion failed: `got == want` (left: `1`, right: `2`))
func AssertEqual[T comparable, K ErrorKind](left, right T, kind K, msgAndArgs ...interface{}) error {
	if left == right {
		return nil
	}
	fr := runtime.Caller(1)
	return failAt(kind, fr, comparisonMessage(fr, "AssertEqual", "==", left, right, msgAndArgs))
}

// AssertNotEqual returns nil when left != right, and a TrackableError
// of the given kind otherwise, like AssertEqual does.
func AssertNotEqual[T comparable, K ErrorKind](left, right T, kind K, msgAndArgs ...interface{}) error {
	if left != right {
		return nil
	}
	fr := runtime.Caller(1)
	return failAt(kind, fr, comparisonMessage(fr, "AssertNotEqual", "!=", left, right, msgAndArgs))
}

// AssertSome returns the value v points to, or a TrackableError of the
// given kind when v is nil:
//
//	n, err := trackable.AssertSome(cache.Lookup(key), trackable.Failed{})
//
//	// Failed (cause; assertion failed: `cache.Lookup(key) != nil`)
func AssertSome[T any, K ErrorKind](v *T, kind K, msgAndArgs ...interface{}) (T, error) {
	if v != nil {
		return *v, nil
	}
	fr := runtime.Caller(1)
	msg := "assertion failed"
	if args, ok := source.CallArgs(fr.File, fr.Line, "AssertSome"); ok && len(args) > 0 {
		msg += ": `" + args[0] + " != nil`"
	}
	var zero T
	return zero, failAt(kind, fr, withDetail(msg, msgAndArgs))
}

// Fail returns a TrackableError of the given kind with no cause,
// tracked at the caller.
//
//	if !ok {
//	    return trackable.Fail(trackable.Failed{})
//	}
func Fail[K ErrorKind](kind K) error {
	te := New(kind)
	te.history.Add(locationFromFrame(runtime.Caller(1), ""))
	return te
}

// Failf returns a TrackableError of the given kind caused by the
// formatted message, tracked at the caller.
func Failf[K ErrorKind](kind K, format string, args ...interface{}) error {
	te := Errorf(kind, format, args...)
	te.history.Add(locationFromFrame(runtime.Caller(1), ""))
	return te
}

// Must returns v when err is nil. Otherwise it tracks err at the caller
// and panics with a message quoting the call expression and the report
// of the error:
//
//	conf := trackable.Must(loadConfig(path))
//
// Use it where an error can only be a bug, as with the regexp.MustCompile
// family: it never turns an error into a panic on its own.
func Must[T any](v T, err error) T {
	if isNil(err) {
		return v
	}
	panic(mustMessage(runtime.Caller(1), "Must", err))
}

// MustTrack is Must for functions that only return an error.
func MustTrack(err error) {
	if isNil(err) {
		return
	}
	panic(mustMessage(runtime.Caller(1), "MustTrack", err))
}

func mustMessage(fr stdruntime.Frame, fn string, err error) string {
	err = TrackFunc(err, func() Location { return locationFromFrame(fr, "") })
	expr := "<unknown>"
	if args, ok := source.CallArgs(fr.File, fr.Line, fn); ok {
		expr = strings.Join(args, ", ")
	}
	return fmt.Sprintf("\nEXPRESSION: %s\nERROR: %+v\n", expr, err)
}

func failAt[K ErrorKind](kind K, fr stdruntime.Frame, msg string) error {
	te := Wrap(kind, errors.New(msg))
	te.history.Add(locationFromFrame(fr, ""))
	return te
}

func comparisonMessage(fr stdruntime.Frame, fn, op string, left, right interface{}, msgAndArgs []interface{}) string {
	l, r := "left", "right"
	if args, ok := source.CallArgs(fr.File, fr.Line, fn); ok && len(args) > 1 {
		l, r = args[0], args[1]
	}
	msg := fmt.Sprintf("assertion failed: `%s %s %s` (left: `%#v`, right: `%#v`)", l, op, r, left, right)
	return withDetail(msg, msgAndArgs)
}

// withDetail appends the optional caller message to an assertion
// message.
func withDetail(msg string, msgAndArgs []interface{}) string {
	var detail string
	switch len(msgAndArgs) {
	case 0:
		return msg
	case 1:
		if s, ok := msgAndArgs[0].(string); ok {
			detail = s
		} else {
			detail = fmt.Sprintf("%+v", msgAndArgs[0])
		}
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			detail = fmt.Sprintf(format, msgAndArgs[1:]...)
		} else {
			detail = fmt.Sprint(msgAndArgs...)
		}
	}
	if detail == "" {
		return msg
	}
	return msg + "; " + detail
}
