package trackable

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Report is a snapshot of a TrackableError in which the kind and the
// cause are rendered as text. It is what tracked errors marshal to, and
// what is recovered when parsing their rendering, so it can cross
// process boundaries.
type Report struct {
	Kind     string     `json:"kind"              yaml:"kind"`
	Cause    string     `json:"cause,omitempty"   yaml:"cause,omitempty"`
	Tracking bool       `json:"tracking"          yaml:"tracking"`
	History  []Location `json:"history,omitempty" yaml:"history,omitempty"`
}

// Reporter is implemented by every TrackableError and by the types
// embedding one.
type Reporter interface {
	Report() Report
}

// ReportFrom returns the report of the first Reporter in the chain of
// err.
func ReportFrom(err error) (Report, bool) {
	if isNil(err) {
		return Report{}, false
	}
	var r Reporter
	if !errors.As(err, &r) || isNil(r) {
		return Report{}, false
	}
	return r.Report(), true
}

// KindName is the kind of errors rebuilt from a Report, where only the
// rendering of the kind survives.
type KindName string

// Rebuild rebuilds a TrackableError from the report. Its cause, if any,
// is a plain error with the reported message.
func (r Report) Rebuild() *TrackableError[KindName] {
	te := &TrackableError[KindName]{
		kind:    KindName(r.Kind),
		history: NewHistory[Location](true),
	}
	if r.Cause != "" {
		te.cause = errors.New(r.Cause)
	}
	for _, loc := range r.History {
		te.history.Add(loc)
	}
	if !r.Tracking {
		te.history.Disable()
	}
	return te
}

// Format renders the report the way the `%+v` verb renders the error
// it was taken from.
func (r Report) Format(s fmt.State, verb rune) {
	r.Rebuild().Format(s, verb)
}

// EncodeText renders the report in the layout of the `%+v` verb, with
// backslashes, newlines, carriage returns and tabs in the kind, the
// cause and the notes escaped as `\\`, `\n`, `\r` and `\t`. Every
// report then takes one line plus one line per location, which is what
// ReportFromBytes expects.
func (r Report) EncodeText() []byte {
	var b bytes.Buffer
	b.WriteString(escaper.Replace(r.Kind))
	if r.Cause != "" {
		b.WriteString(causePrefix)
		b.WriteString(escaper.Replace(r.Cause))
		b.WriteString(causeSuffix)
	}
	if len(r.History) == 0 {
		return b.Bytes()
	}
	b.WriteString("\n" + historyHeader + "\n")
	for i, loc := range r.History {
		b.WriteString("  [" + strconv.Itoa(i) + "] at ")
		b.WriteString(loc.File())
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(loc.Line()), 10))
		if msg := loc.Message(); msg != "" {
			b.WriteString(messageSeparator)
			b.WriteString(escaper.Replace(msg))
		}
		b.WriteByte('\n')
	}
	return b.Bytes()
}

var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")
)
