package trackable

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Location records where a tracking event happened: the package the
// tracked function belongs to, the file and line of the call site, and
// an optional free-text message.
//
// Locations are meant to be seen, so they implement the following
// formatting verbs:
//
//	"%s"  – at <file>:<line>, suffixed by " -- <message>" when there is one
//	"%v"  – the same as `%s`
//	"%q"  – the same as `%s` but wrapped in `"` delimiters
//	"%d"  – the line number
//	"%+v" – the same as `%s` with the package path after the line number
//	"%#v" – a Go representation with the type (`trackable.Location`)
//
// Marshaling as JSON returns an object with the location data:
//
//	{"package":"example.com/pkg","file":"/src/pkg/a.go","line":10,"message":"note"}
//
// A Location is immutable, so no setters are provided.
type Location struct {
	pkg     string
	file    string
	line    uint32
	message string
}

var _ interface { // Assert interface implementation.
	fmt.Stringer
	fmt.Formatter
	json.Marshaler
	json.Unmarshaler
} = (*Location)(nil)

// NewLocation creates a Location from its parts. Nothing is validated:
// locations are advisory.
func NewLocation(pkg string, file string, line uint32, message string) Location {
	return Location{
		pkg:     pkg,
		file:    file,
		line:    line,
		message: message,
	}
}

// Package returns the import path of the package the location is in.
func (l Location) Package() string { return l.pkg }

// File returns the source file of the location.
func (l Location) File() string { return l.file }

// Line returns the line number of the location.
func (l Location) Line() uint32 { return l.line }

// Message returns the note attached to the location, if any.
func (l Location) Message() string { return l.message }

func (l Location) String() string {
	var b strings.Builder
	l.write(&b, false)
	return b.String()
}

func (l Location) write(w io.Writer, withPkg bool) {
	io.WriteString(w, "at ")
	io.WriteString(w, l.file)
	io.WriteString(w, ":")
	io.WriteString(w, strconv.FormatUint(uint64(l.line), 10))
	if withPkg && l.pkg != "" {
		io.WriteString(w, " ("+l.pkg+")")
	}
	if l.message != "" {
		io.WriteString(w, messageSeparator)
		io.WriteString(w, l.message)
	}
}

func (l Location) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		switch {
		case s.Flag('+'):
			l.write(s, true)
		case s.Flag('#'):
			fmt.Fprintf(s, "trackable.Location{Package:%q, File:%q, Line:%d, Message:%q}",
				l.pkg, l.file, l.line, l.message)
		default:
			l.write(s, false)
		}
	case 's':
		l.write(s, false)
	case 'q':
		fmt.Fprintf(s, "%q", l.String())
	case 'd':
		io.WriteString(s, strconv.FormatUint(uint64(l.line), 10))
	default:
		// empty
	}
}

// locationJSON is the wire shape of a Location.
type locationJSON struct {
	Package string `json:"package"           yaml:"package"`
	File    string `json:"file"              yaml:"file"`
	Line    uint32 `json:"line"              yaml:"line"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(locationJSON{
		Package: l.pkg,
		File:    l.file,
		Line:    l.line,
		Message: l.message,
	})
}

func (l *Location) UnmarshalJSON(byt []byte) error {
	var raw locationJSON
	if err := json.Unmarshal(byt, &raw); err != nil {
		return err
	}
	*l = NewLocation(raw.Package, raw.File, raw.Line, raw.Message)
	return nil
}

// MarshalYAML gives YAML encoders the same shape as the JSON encoding.
func (l Location) MarshalYAML() (interface{}, error) {
	return locationJSON{
		Package: l.pkg,
		File:    l.file,
		Line:    l.line,
		Message: l.message,
	}, nil
}

const messageSeparator = " -- "
