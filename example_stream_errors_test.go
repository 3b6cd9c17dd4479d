package trackable_test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/secureworks/trackable"
)

var splitTokensOn = []byte("\n\n")

// Crate a scanner that tokenizes on two newlines.
func tokenizer(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, splitTokensOn); i >= 0 {
		// We have a full newline-terminated line.
		return i + 2, data[0:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type resourceKind string

const notFound resourceKind = "NotFound"

// Here we can see that it's straighforward to send errors over some
// pipe by serializing into bytes. The text encoding escapes line breaks
// so that reports keep their layout, and only the rendering of the kind
// survives the trip.
func Example_streamErrors() {
	r, w := io.Pipe()

	go func() {
		var errs = []error{
			trackable.Trackf(trackable.Errorf(trackable.Failed{}, "inner context: %w", io.EOF), "outer context"),
			trackable.New(notFound),
			trackable.WithoutHistory(trackable.Failed{}, errors.New("multi\nline cause")),
		}

		for _, err := range errs {
			r, _ := trackable.ReportFrom(err)
			fmt.Fprintf(w, "%s%s", r.EncodeText(), splitTokensOn)
		}

		w.Close()
	}()

	scanner := bufio.NewScanner(r)
	scanner.Split(tokenizer)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		err, _ := trackable.ErrorFromBytes(scanner.Bytes())
		pprintf("READ IN ERROR: %s\n\n", strings.TrimRight(fmt.Sprintf("%+v", err), "\n"))
	}

	// Output:
	// READ IN ERROR: Failed (cause; inner context: EOF)
	// HISTORY:
	//   [0] at /home/testuser/pkgs/trackable/example_stream_errors_test.go:0 -- outer context
	//
	// READ IN ERROR: NotFound
	//
	// READ IN ERROR: Failed (cause; multi
	// line cause)
}
