package trackable

import (
	"errors"
	"fmt"

	"github.com/secureworks/trackable/internal/runtime"
)

// Trackable is implemented by values that can carry a History of
// tracking events of type E.
//
// History returns nil when the value has no history slot, in which
// case tracking is structurally absent. EnableTracking and
// DisableTracking toggle the recording mode of the history in place;
// they do nothing when there is no history slot.
//
// *TrackableError implements Trackable[Location], and so does every
// error type embedding it.
type Trackable[E any] interface {
	History() *History[E]
	EnableTracking()
	DisableTracking()
}

// TrackEvent adds the event built by makeEvent to the history of t and
// returns t. The factory is only called when t has a history slot and
// that history is recording, so that nothing is built on the disabled
// path. A nil t is returned as is.
func TrackEvent[T Trackable[E], E any](t T, makeEvent func() E) T {
	if isNil(t) {
		return t
	}
	h := t.History()
	if !h.Enabled() {
		return t
	}
	h.Add(makeEvent())
	return t
}

// TrackWith tracks the caller's location on a value whose events are
// not plain Locations: fromLocation converts the caller's Location,
// carrying the given note, into the event type.
func TrackWith[T Trackable[E], E any](t T, fromLocation func(Location) E, note string) T {
	if isNil(t) {
		return t
	}
	h := t.History()
	if !h.Enabled() {
		return t
	}
	h.Add(fromLocation(locationFromFrame(runtime.Caller(1), note)))
	return t
}

// InTracking reports whether t currently records events.
func InTracking[E any](t Trackable[E]) bool {
	if isNil(t) {
		return false
	}
	return t.History().Enabled()
}

// Track records the caller's location in the history of the first
// Trackable[Location] found in the chain of err, and returns err.
//
//	if err := load(); err != nil {
//	    return trackable.Track(err)
//	}
//
// A nil err is returned as nil. Errors without a trackable link in
// their chain, or whose history is disabled, are returned untouched and
// no location is captured.
func Track(err error) error {
	return trackErr(err, nil)
}

// TrackNote is Track with a note attached to the recorded location.
func TrackNote(err error, note string) error {
	return trackErr(err, func() string { return note })
}

// Trackf is Track with a formatted note attached to the recorded
// location. The note is only formatted when the location is recorded.
func Trackf(err error, format string, args ...interface{}) error {
	return trackErr(err, func() string { return fmt.Sprintf(format, args...) })
}

// TrackResult tracks the error half of a (value, error) pair:
//
//	return trackable.TrackResult(strconv.Atoi(s))
func TrackResult[T any](v T, err error) (T, error) {
	return v, trackErr(err, nil)
}

// TrackFunc records the Location built by makeLocation in the history
// of the first Trackable[Location] found in the chain of err, and
// returns err. As with TrackEvent the factory is only called when the
// history is recording.
func TrackFunc(err error, makeLocation func() Location) error {
	if t, ok := trackerOf(err); ok {
		TrackEvent(t, makeLocation)
	}
	return err
}

// trackErr must be called directly from the exported entry point so
// that the recorded frame is the entry point's caller.
//
//go:noinline
func trackErr(err error, note func() string) error {
	t, ok := trackerOf(err)
	if !ok {
		return err
	}
	h := t.History()
	if !h.Enabled() {
		return err
	}
	var msg string
	if note != nil {
		msg = note()
	}
	h.Add(locationFromFrame(runtime.Caller(2), msg))
	return err
}

// trackerOf finds the first Trackable[Location] in the chain of err.
func trackerOf(err error) (Trackable[Location], bool) {
	if isNil(err) {
		return nil, false
	}
	var t Trackable[Location]
	if !errors.As(err, &t) || isNil(t) {
		return nil, false
	}
	return t, true
}
