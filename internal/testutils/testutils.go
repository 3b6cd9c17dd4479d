package testutils

import (
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertLinesMatch breaks up the formatted value into lines and
// matches each with a regex per. An empty pattern only matches an empty
// line.
func AssertLinesMatch(t *testing.T, arg interface{}, format string, expected interface{}) bool {
	t.Helper()

	got := fmt.Sprintf(format, arg)
	gotLines := strings.Split(got, "\n")

	var wantLines []string
	switch want := expected.(type) {
	case string:
		wantLines = strings.Split(want, "\n")
	case []string:
		wantLines = want
	default:
		t.Fatalf("bad expected value passed: only handles string and []string: %#v", expected)
	}

	if !assert.Len(t, gotLines, len(wantLines), "line count of %q", got) {
		return false
	}

	ok := true
	for i, w := range wantLines {
		if w == "" {
			ok = assert.Empty(t, gotLines[i], "line %d", i+1) && ok
			continue
		}
		ok = assert.Regexp(t, w, gotLines[i], "line %d", i+1) && ok
	}
	return ok
}

// Line returns the line number it is called from, so tests can pin
// the expected location of a call made on the same line.
//
//go:noinline
func Line() uint32 {
	_, _, line, _ := runtime.Caller(1)
	return uint32(line)
}

// File returns the path of the file it is called from.
//
//go:noinline
func File() string {
	_, file, _, _ := runtime.Caller(1)
	return file
}
