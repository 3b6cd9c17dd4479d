package trackable_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secureworks/trackable"
)

func TestErrorFromBytes_RoundTrip(t *testing.T) {
	orig := trackable.Wrap(NotFound, errors.New("key\t\"a\"\nmissing \\ here"))
	_ = trackable.Track(orig)
	_ = trackable.TrackNote(orig, "note with -- separator\nand newline")
	_ = trackable.Trackf(orig, "retry %d", 3)

	encoded := orig.Report().EncodeText()
	err, perr := trackable.ErrorFromBytes(encoded)
	require.NoError(t, perr)

	assert.Equal(t, trackable.KindName("NotFound"), err.Kind())
	assert.Equal(t, orig.Cause().Error(), err.Cause().Error())
	assert.Equal(t, fmt.Sprintf("%+v", orig), fmt.Sprintf("%+v", err))
	assert.Equal(t, string(encoded), string(err.Report().EncodeText()))

	want := orig.History().Events()
	got := err.History().Events()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].File(), got[i].File())
		assert.Equal(t, want[i].Line(), got[i].Line())
		assert.Equal(t, want[i].Message(), got[i].Message())
		assert.Empty(t, got[i].Package())
	}
}

func TestReport_EncodeText(t *testing.T) {
	r := trackable.Report{
		Kind:     "Bad\tKind",
		Cause:    "C:\\tmp\nnext",
		Tracking: true,
		History: []trackable.Location{
			trackable.NewLocation("p", "/a.go", 1, ""),
			trackable.NewLocation("p", "/b.go", 2, `path C:\new`),
		},
	}
	assert.Equal(t,
		`Bad\tKind (cause; C:\\tmp\nnext)`+"\nHISTORY:\n  [0] at /a.go:1\n  [1] at /b.go:2 -- path C:\\\\new\n",
		string(r.EncodeText()))

	got, err := trackable.ReportFromBytes(r.EncodeText())
	require.NoError(t, err)
	assert.Equal(t, r.Kind, got.Kind)
	assert.Equal(t, r.Cause, got.Cause)
	assert.Equal(t, `path C:\new`, got.History[1].Message())

	assert.Equal(t, "NotFound", string(trackable.Report{Kind: "NotFound"}.EncodeText()))
}

func TestReportFromBytes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  trackable.Report
	}{
		{
			name:  "kind only",
			input: "NotFound",
			want:  trackable.Report{Kind: "NotFound", Tracking: true},
		},
		{
			name:  "with cause and spaces",
			input: "\n  Failed (cause; open x.txt: no such file)\n\n",
			want:  trackable.Report{Kind: "Failed", Cause: "open x.txt: no such file", Tracking: true},
		},
		{
			name:  "cause with parens",
			input: "Failed (cause; a (cause; b))",
			want:  trackable.Report{Kind: "Failed", Cause: "a (cause; b)", Tracking: true},
		},
		{
			name:  "not a cause",
			input: "Kind (with parens)",
			want:  trackable.Report{Kind: "Kind (with parens)", Tracking: true},
		},
		{
			name:  "history",
			input: "Failed\nHISTORY:\n  [0] at C:/src/a.go:10\n  [1] at /src/b.go:20 -- x:1\n",
			want: trackable.Report{Kind: "Failed", Tracking: true, History: []trackable.Location{
				trackable.NewLocation("", "C:/src/a.go", 10, ""),
				trackable.NewLocation("", "/src/b.go", 20, "x:1"),
			}},
		},
		{
			name:  "empty history block",
			input: "Failed\nHISTORY:",
			want:  trackable.Report{Kind: "Failed", Tracking: true, History: []trackable.Location{}},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := trackable.ReportFromBytes([]byte(tt.input))
			require.NoError(t, err)
			if len(tt.want.History) == 0 {
				assert.Empty(t, got.History)
				got.History, tt.want.History = nil, nil
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportFromBytes_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "  \n", trackable.ErrMalformedReport},
		{"no history header", "Failed\n  [0] at a.go:1", trackable.ErrMalformedReport},
		{"bad index", "Failed\nHISTORY:\n  [1] at a.go:1", trackable.ErrMalformedLocation},
		{"no at", "Failed\nHISTORY:\n  [0] a.go:1", trackable.ErrMalformedLocation},
		{"no line", "Failed\nHISTORY:\n  [0] at a.go", trackable.ErrMalformedLocation},
		{"bad line", "Failed\nHISTORY:\n  [0] at a.go:x", trackable.ErrMalformedLocation},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trackable.ReportFromBytes([]byte(tt.input))
			assert.ErrorIs(t, err, tt.want)

			_, err = trackable.ErrorFromBytes([]byte(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHistoryFromBytes(t *testing.T) {
	h, err := trackable.HistoryFromBytes(nil)
	require.NoError(t, err)
	assert.True(t, h.Enabled())
	assert.Equal(t, 0, h.Len())

	orig := trackable.NewHistory[trackable.Location](true)
	orig.Add(trackable.NewLocation("", "/a.go", 1, ""))
	orig.Add(trackable.NewLocation("", "/b.go", 2, "two"))

	h, err = trackable.HistoryFromBytes([]byte(fmt.Sprintf("%+v", orig)))
	require.NoError(t, err)
	assert.Equal(t, orig.Events(), h.Events())
}

func TestReportFromJSON(t *testing.T) {
	orig := trackable.Wrap(InvalidInput, errors.New("bad"))
	_ = trackable.TrackNote(orig, "n")
	orig.DisableTracking()

	byt, err := json.Marshal(orig)
	require.NoError(t, err)

	r, err := trackable.ReportFromJSON(byt)
	require.NoError(t, err)
	assert.Equal(t, orig.Report(), r)
	assert.False(t, r.Tracking)

	_, err = trackable.ReportFromJSON([]byte(`{"kind":`))
	assert.ErrorIs(t, err, trackable.ErrMalformedReport)
}
