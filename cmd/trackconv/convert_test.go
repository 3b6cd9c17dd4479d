package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/secureworks/trackable"
)

const textReports = `Failed (cause; disk full)
HISTORY:
  [0] at /src/app/a.go:10
  [1] at /src/app/b.go:20 -- saving

NotFound
`

var jsonReports = []string{
	`{"kind":"Failed","cause":"disk full","tracking":true,"history":[` +
		`{"package":"","file":"/src/app/a.go","line":10},` +
		`{"package":"","file":"/src/app/b.go","line":20,"message":"saving"}]}`,
	`{"kind":"NotFound","tracking":true}`,
}

func TestConverter_TextToJSON(t *testing.T) {
	conv, err := newConverter(formatText, formatJSON, true, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := conv.Convert(strings.NewReader(textReports), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(jsonReports))
	for i, want := range jsonReports {
		assert.JSONEq(t, want, lines[i], "report %d", i)
	}
}

func TestConverter_JSONToText(t *testing.T) {
	conv, err := newConverter(formatJSON, formatText, true, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := conv.Convert(strings.NewReader(strings.Join(jsonReports, "\n")), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, textReports, out.String())
}

func TestConverter_EscapedText(t *testing.T) {
	input := `{"kind":"Failed","cause":"C:\\tmp\nnext","tracking":true,` +
		`"history":[{"package":"","file":"/a.go","line":1,"message":"tab\there"}]}`

	toText, err := newConverter(formatJSON, formatText, true, zap.NewNop())
	require.NoError(t, err)
	var text bytes.Buffer
	_, err = toText.Convert(strings.NewReader(input), &text)
	require.NoError(t, err)
	assert.Equal(t, `Failed (cause; C:\\tmp\nnext)`+"\nHISTORY:\n"+`  [0] at /a.go:1 -- tab\there`+"\n", text.String())

	toJSON, err := newConverter(formatText, formatJSON, true, zap.NewNop())
	require.NoError(t, err)
	var out bytes.Buffer
	_, err = toJSON.Convert(&text, &out)
	require.NoError(t, err)
	assert.JSONEq(t, input, out.String())
}

func TestConverter_TextToYAML(t *testing.T) {
	conv, err := newConverter(formatText, formatYAML, true, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = conv.Convert(strings.NewReader(textReports), &out)
	require.NoError(t, err)

	docs := strings.Split(out.String(), "---\n")
	require.Len(t, docs, 3)
	assert.Empty(t, docs[0])
	assert.Contains(t, docs[1], "kind: Failed")
	assert.Contains(t, docs[1], "cause: disk full")
	assert.Contains(t, docs[1], "message: saving")
	assert.Contains(t, docs[2], "kind: NotFound")
	assert.NotContains(t, docs[2], "history")
}

func TestConverter_SkipsMalformed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	conv, err := newConverter(formatText, formatJSON, false, zap.New(core))
	require.NoError(t, err)

	input := "Broken\nHISTORY:\n  [0] nowhere\n\n" + textReports
	var out bytes.Buffer
	n, err := conv.Convert(strings.NewReader(input), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "skipping report", logs.All()[0].Message)
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "report at line 1")
}

func TestConverter_Strict(t *testing.T) {
	conv, err := newConverter(formatText, formatJSON, true, zap.NewNop())
	require.NoError(t, err)

	_, err = conv.Convert(strings.NewReader(textReports+"\nBroken\nHISTORY:\n  [3] at x.go:1\n"), new(bytes.Buffer))
	require.Error(t, err)
	assert.ErrorIs(t, err, trackable.ErrMalformedLocation)
	assert.Contains(t, err.Error(), "report at line 8")
}

func TestConverter_MalformedJSON(t *testing.T) {
	conv, err := newConverter(formatJSON, formatText, false, zap.NewNop())
	require.NoError(t, err)

	n, err := conv.Convert(strings.NewReader(jsonReports[0]+"\n{\"kind\":}"), new(bytes.Buffer))
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, trackable.ErrMalformedReport)
}

func TestNewConverter_Formats(t *testing.T) {
	_, err := newConverter(formatYAML, formatJSON, false, zap.NewNop())
	assert.EqualError(t, err, `unsupported input format "yaml"`)

	_, err = newConverter(formatText, "xml", false, zap.NewNop())
	assert.EqualError(t, err, `unsupported output format "xml"`)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "errors.log")
	out := filepath.Join(dir, "errors.json")
	require.NoError(t, os.WriteFile(in, []byte(textReports), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--to", "json", "--output", out, "--log.level", "error", in}, nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	byt, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(byt)), "\n"), 2)
}

func TestRun_Stdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", "json", "-t", "text", "--log.level", "error"},
		strings.NewReader(strings.Join(jsonReports, "\n")), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, textReports, stdout.String())
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"--help"}, nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "trackconv")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"--to", "xml"}, nil, &stdout, &stderr))
	assert.NotEmpty(t, stderr.String())

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"--log.level", "loud"}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid log level")

	missing := filepath.Join(t.TempDir(), "missing.log")
	assert.Equal(t, 1, run([]string{"--log.level", "fatal", missing}, nil, &stdout, &stderr))
}
