package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/secureworks/trackable"
	"github.com/secureworks/trackable/trackzap"
)

// Supported report formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// converter reads error reports in one format and writes them in
// another.
type converter struct {
	from   string
	to     string
	strict bool
	logger *zap.Logger

	written int
}

func newConverter(from, to string, strict bool, logger *zap.Logger) (*converter, error) {
	switch from {
	case formatText, formatJSON:
	default:
		return nil, fmt.Errorf("unsupported input format %q", from)
	}
	switch to {
	case formatText, formatJSON, formatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", to)
	}
	return &converter{from: from, to: to, strict: strict, logger: logger}, nil
}

// Convert converts every report read from r, and returns the number of
// reports written to w.
func (c *converter) Convert(r io.Reader, w io.Writer) (int, error) {
	before := c.written
	var err error
	switch c.from {
	case formatText:
		err = c.readText(r, w)
	case formatJSON:
		err = c.readJSON(r, w)
	}
	return c.written - before, err
}

// readText reads text encoded reports separated by blank lines.
func (c *converter) readText(r io.Reader, w io.Writer) error {
	var (
		block  bytes.Buffer
		lineNo int
		start  int
	)
	flush := func() error {
		if block.Len() == 0 {
			return nil
		}
		defer block.Reset()
		rep, err := trackable.ReportFromBytes(block.Bytes())
		if err != nil {
			err = fmt.Errorf("report at line %d: %w", start, err)
			if c.strict {
				return err
			}
			c.logger.Warn("skipping report", trackzap.Error(err))
			return nil
		}
		return c.write(w, rep)
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		if block.Len() == 0 {
			start = lineNo
		}
		block.WriteString(line)
		block.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}

// readJSON reads a stream of JSON reports.
func (c *converter) readJSON(r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(r)
	for n := 0; ; n++ {
		var rep trackable.Report
		err := dec.Decode(&rep)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			// The decoder cannot resync after a syntax error.
			return fmt.Errorf("report %d: %w: %w", n, trackable.ErrMalformedReport, err)
		}
		if rep.Kind == "" {
			err = fmt.Errorf("report %d: %w: missing kind", n, trackable.ErrMalformedReport)
			if c.strict {
				return err
			}
			c.logger.Warn("skipping report", trackzap.Error(err))
			continue
		}
		if err := c.write(w, rep); err != nil {
			return err
		}
	}
}

func (c *converter) write(w io.Writer, rep trackable.Report) (err error) {
	switch c.to {
	case formatText:
		if c.written > 0 {
			_, err = io.WriteString(w, "\n")
		}
		if err == nil {
			_, err = w.Write(append(bytes.TrimRight(rep.EncodeText(), "\n"), '\n'))
		}
	case formatJSON:
		err = json.NewEncoder(w).Encode(rep)
	case formatYAML:
		var byt []byte
		if byt, err = yaml.Marshal(rep); err == nil {
			_, err = w.Write(append([]byte("---\n"), byt...))
		}
	}
	if err != nil {
		return err
	}
	c.written++
	c.logger.Debug("converted report", zap.String("kind", rep.Kind), zap.Int("events", len(rep.History)))
	return nil
}
