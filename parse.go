package trackable

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrMalformedReport is wrapped by the errors returned when a
	// rendering cannot be parsed back.
	ErrMalformedReport = errors.New("malformed error report")

	// ErrMalformedLocation is wrapped by the errors returned when a
	// history line cannot be parsed back.
	ErrMalformedLocation = errors.New("malformed history location")
)

// ReportFromBytes parses the text encoding of a report, as produced by
// Report.EncodeText, into a Report. The `%+v` rendering of an error is
// the same text as long as its kind, cause and notes hold no backslash,
// newline, carriage return or tab. Surrounding whitespace is ignored.
// Package paths are not part of the encoding, so the parsed locations
// have none.
func ReportFromBytes(byt []byte) (Report, error) {
	byt = bytes.TrimSpace(byt)
	if len(byt) == 0 {
		return Report{}, fmt.Errorf("%w: empty input", ErrMalformedReport)
	}

	header, rest, hasHistory := bytes.Cut(byt, []byte{'\n'})
	r := parseHeader(string(header))
	if !hasHistory {
		return r, nil
	}

	h, err := HistoryFromBytes(rest)
	if err != nil {
		return r, err
	}
	r.History = h.Events()
	return r, nil
}

// ReportFromJSON parses a Report from its JSON encoding, as produced
// by marshaling a TrackableError.
func ReportFromJSON(byt []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(byt, &r); err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrMalformedReport, err)
	}
	return r, nil
}

// ErrorFromBytes parses the text encoding of a report, as
// ReportFromBytes does, and rebuilds the error. Only the rendering of
// the kind survives, as a KindName.
func ErrorFromBytes(byt []byte) (*TrackableError[KindName], error) {
	r, err := ReportFromBytes(byt)
	if err != nil {
		return nil, err
	}
	return r.Rebuild(), nil
}

// HistoryFromBytes parses the HISTORY block of a text encoded report
// into an enabled History. The "HISTORY:" header line is
// required; an empty input gives an empty history.
func HistoryFromBytes(byt []byte) (*History[Location], error) {
	h := NewHistory[Location](true)
	byt = bytes.TrimSpace(byt)
	if len(byt) == 0 {
		return h, nil
	}

	lines := strings.Split(string(byt), "\n")
	if strings.TrimSpace(lines[0]) != historyHeader {
		return h, fmt.Errorf("%w: %q: expected %q", ErrMalformedReport, lines[0], historyHeader)
	}
	for i, line := range lines[1:] {
		loc, err := parseHistoryLine(strings.TrimRight(strings.TrimLeft(line, " \t"), "\r"), i)
		if err != nil {
			return h, err
		}
		h.Add(loc)
	}
	return h, nil
}

func parseHeader(header string) Report {
	header = strings.TrimRight(header, "\r")
	r := Report{Kind: unescaper.Replace(header), Tracking: true}
	if !strings.HasSuffix(header, causeSuffix) {
		return r
	}
	idx := strings.Index(header, causePrefix)
	if idx < 0 {
		return r
	}
	r.Kind = unescaper.Replace(header[:idx])
	r.Cause = unescaper.Replace(header[idx+len(causePrefix) : len(header)-len(causeSuffix)])
	return r
}

// parseHistoryLine parses "[<index>] at <file>:<line>[ -- <message>]".
func parseHistoryLine(line string, index int) (Location, error) {
	prefix := "[" + strconv.Itoa(index) + "] at "
	if !strings.HasPrefix(line, prefix) {
		return Location{}, fmt.Errorf("%w: %q: expected prefix %q", ErrMalformedLocation, line, prefix)
	}
	rest := line[len(prefix):]

	var message string
	if pos, msg, ok := strings.Cut(rest, messageSeparator); ok {
		rest, message = pos, unescaper.Replace(msg)
	}

	colon := strings.LastIndexByte(rest, ':')
	if colon < 0 {
		return Location{}, fmt.Errorf("%w: %q: missing line number", ErrMalformedLocation, line)
	}
	n, err := strconv.ParseUint(rest[colon+1:], 10, 32)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q: unparsable line number: %w", ErrMalformedLocation, line, err)
	}
	return NewLocation("", rest[:colon], uint32(n), message), nil
}
