package trackable

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
)

// History is the ordered, append-only log of tracking events recorded
// for one error value. Events are kept in the order they were added,
// which is the chronological order of tracking.
//
// A History is either enabled, in which case Add appends, or disabled,
// in which case Add drops the event. Toggling never touches the events
// already recorded.
//
// A nil *History stands for "no history slot": every method is safe to
// call on it and behaves as a disabled, empty history.
//
// Histories are not synchronized: they belong to the error value that
// owns them, and through it to one goroutine at a time.
type History[E any] struct {
	events  []E
	enabled bool
}

var _ interface { // Assert interface implementation.
	fmt.Formatter
	json.Marshaler
	json.Unmarshaler
} = (*History[Location])(nil)

// NewHistory returns an empty History in the given mode.
func NewHistory[E any](enabled bool) *History[E] {
	return &History[E]{enabled: enabled}
}

// Add appends the event if the history is enabled. Otherwise the event
// is silently dropped.
func (h *History[E]) Add(event E) {
	if h == nil || !h.enabled {
		return
	}
	h.events = append(h.events, event)
}

// Enable turns recording on.
func (h *History[E]) Enable() {
	if h != nil {
		h.enabled = true
	}
}

// Disable turns recording off. Recorded events are kept.
func (h *History[E]) Disable() {
	if h != nil {
		h.enabled = false
	}
}

// Enabled reports whether new events are recorded.
func (h *History[E]) Enabled() bool {
	return h != nil && h.enabled
}

// Len returns the number of recorded events.
func (h *History[E]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.events)
}

// Events returns a copy of the recorded events in append order.
func (h *History[E]) Events() []E {
	if h == nil {
		return nil
	}
	return slices.Clone(h.events)
}

// All iterates over the recorded events in append order, yielding the
// index of each event along with it.
func (h *History[E]) All() iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		if h == nil {
			return
		}
		for i, e := range h.events {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the history.
func (h *History[E]) Clone() *History[E] {
	if h == nil {
		return nil
	}
	return &History[E]{events: slices.Clone(h.events), enabled: h.enabled}
}

// Format renders the history. The `%+v` verb prints the block used in
// error reports:
//
//	HISTORY:
//	  [0] at /src/pkg/a.go:10
//	  [1] at /src/pkg/b.go:20 -- note
//
// The `%v` and `%s` verbs print the events as a bracketed list, and
// `%d` prints the number of events.
func (h *History[E]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			h.writeBlock(s)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, "[")
		for i, e := range h.All() {
			if i > 0 {
				io.WriteString(s, " ")
			}
			fmt.Fprintf(s, "%v", e)
		}
		io.WriteString(s, "]")
	case 'd':
		io.WriteString(s, strconv.Itoa(h.Len()))
	default:
		// empty
	}
}

const historyHeader = "HISTORY:"

func (h *History[E]) writeBlock(w io.Writer) {
	io.WriteString(w, historyHeader+"\n")
	for i, e := range h.All() {
		fmt.Fprintf(w, "  [%d] %v\n", i, e)
	}
}

// historyJSON is the wire shape of a History.
type historyJSON[E any] struct {
	Enabled bool `json:"enabled"`
	Events  []E  `json:"events"`
}

func (h *History[E]) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}
	events := h.events
	if events == nil {
		events = []E{}
	}
	return json.Marshal(historyJSON[E]{Enabled: h.enabled, Events: events})
}

func (h *History[E]) UnmarshalJSON(byt []byte) error {
	var raw historyJSON[E]
	if err := json.Unmarshal(byt, &raw); err != nil {
		return err
	}
	h.enabled = raw.Enabled
	h.events = raw.Events
	return nil
}
