// Package trackable records where an error travelled on its way up the
// call stack, without capturing full stack traces.
//
// # Error context
//
// When we write the following:
//
//	if err != nil {
//	    return err
//	}
//
// ... the error reaches its handler with no trace of the path it took.
// Stack traces answer the question at the point of creation only, and
// errors often cross goroutines, channels and retries before anybody
// looks at them.
//
// This package takes the other approach: each function an error passes
// through can record its own location, explicitly, by tracking it:
//
//	if err != nil {
//	    return trackable.Track(err)
//	}
//
// The recorded locations make up the History of the error, in the order
// they were tracked.
//
// # Trackable errors
//
// Locations are recorded in a TrackableError, which pairs a kind (any
// comparable value classifying the error) with an optional cause:
//
//	type Kind string
//
//	const NotFound Kind = "NotFound"
//
//	err := trackable.Wrap(NotFound, os.ErrNotExist)
//
// Track looks for a TrackableError anywhere in the chain of the error it
// is given, so errors wrapped with fmt.Errorf and the `%w` verb keep
// being tracked. Errors without one are returned untouched. Track is a
// no-op for nil errors, and for errors whose tracking was turned off
// with DisableTracking; in that case nothing is captured at all.
//
// Application error types are defined by embedding the pointer type,
// see Failure for an example.
//
// # One error value per failure
//
// Tracking changes the error it is given: the location is appended to
// its history in place. A TrackableError therefore belongs to the
// failure it describes, and to one goroutine at a time. Package level
// sentinels such as
//
//	var ErrNotFound = trackable.New(NotFound) // don't
//
// would gather the histories of every failure returning them, and race
// when tracked concurrently. Return a new error for each failure and
// match on the kind, which plays the role of the sentinel:
//
//	return trackable.New(NotFound)
//	// ...
//	if trackable.IsKind(err, NotFound) { ... }
//
// errors.Is also matches errors of the same kind:
// errors.Is(err, trackable.New(NotFound)) holds.
//
// # Assertions
//
// Assert, AssertEqual, AssertNotEqual and AssertSome return a tracked
// error when their condition does not hold, quoting the condition as
// written in the source:
//
//	if err := trackable.Assert(n > 0, trackable.Failed{}); err != nil {
//	    return err
//	}
//
// Must and MustTrack panic with the report of a non-nil error.
//
// # Formatted printing of errors
//
// All error values returned from this package implement fmt.Formatter
// and can be formatted by the fmt package. The following verbs are
// supported:
//
//	%s    print the kind and the cause, without the history
//	%v    same as %s
//	%q    same as %s but quoted
//	%#v   prints the go-syntax representation of the kind & cause
//	%+v   extended format. Prints the kind & cause followed by the history
//
// The extended format looks like this:
//
//	Failed (cause; something wrong)
//	HISTORY:
//	  [0] at /src/app/load.go:12
//	  [1] at /src/app/main.go:40 -- loading settings
//
// Causes and notes are printed verbatim. Report.EncodeText gives the
// same layout with line breaks escaped, which ErrorFromBytes parses
// back. Errors also marshal to JSON as a Report.
package trackable
