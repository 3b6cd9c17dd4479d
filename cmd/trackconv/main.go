// Command trackconv converts tracked error reports between their text
// rendering and JSON or YAML.
//
//	trackconv --from text --to json errors.log
//	some-service 2>&1 | trackconv -f json -t yaml
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/secureworks/trackable"
	"github.com/secureworks/trackable/trackzap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if flags.WroteHelp(err) {
		fmt.Fprintln(stdout, err)
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	logger, err := opts.Log.Build()
	if err != nil {
		fmt.Fprintln(stderr, "cannot build logger:", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	if err := convertAll(opts, logger, stdin, stdout); err != nil {
		logger.Error("conversion failed", trackzap.Error(err))
		return 1
	}
	return 0
}

func convertAll(opts *options, logger *zap.Logger, stdin io.Reader, stdout io.Writer) (err error) {
	conv, err := newConverter(opts.From, opts.To, opts.Strict, logger)
	if err != nil {
		return err
	}

	out := stdout
	if opts.Output != "" && opts.Output != "-" {
		f, createErr := os.Create(opts.Output)
		if createErr != nil {
			return trackable.Wrap(trackable.Failed{}, createErr)
		}
		defer multierr.AppendInvoke(&err, multierr.Close(f))
		out = f
	}

	inputs := opts.Args.Inputs
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, name := range inputs {
		n, err := convertInput(conv, name, stdin, out)
		if err != nil {
			return trackable.Trackf(err, "converting %s", name)
		}
		logger.Info("converted input", zap.String("input", name), zap.Int("reports", n))
	}
	return nil
}

func convertInput(conv *converter, name string, stdin io.Reader, out io.Writer) (n int, err error) {
	in := stdin
	if name != "-" {
		f, openErr := os.Open(name)
		if openErr != nil {
			return 0, trackable.Wrap(trackable.Failed{}, openErr)
		}
		defer multierr.AppendInvoke(&err, multierr.Close(f))
		in = f
	}
	n, err = conv.Convert(in, out)
	if err != nil {
		return n, trackable.Wrap(trackable.Failed{}, err)
	}
	return n, nil
}
