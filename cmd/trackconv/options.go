package main

import (
	"fmt"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap/zapcore"
)

// options are read from the command line, with environment fallbacks.
type options struct {
	From   string `short:"f" long:"from" env:"TRACKCONV_FROM" default:"text" choice:"text" choice:"json" description:"format of the input reports"`
	To     string `short:"t" long:"to"   env:"TRACKCONV_TO"   default:"json" choice:"text" choice:"json" choice:"yaml" description:"format of the output reports"`
	Output string `short:"o" long:"output" default:"-" description:"file to write to, - for stdout"`
	Strict bool   `long:"strict" description:"fail on the first malformed report instead of skipping it"`

	Log logCfg `group:"Logging" namespace:"log"`

	Args struct {
		Inputs []string `positional-arg-name:"FILE" description:"files to read from, - or none for stdin"`
	} `positional-args:"yes"`
}

type logCfg struct {
	Level    string `long:"level"    env:"TRACKCONV_LOG_LEVEL" default:"warn" description:"minimum level logged"`
	Encoding string `long:"encoding" default:"console" choice:"console" choice:"json" description:"log encoding"`
}

// parseOptions parses args, which exclude the program name. The help
// text, when requested, is reported as flags.ErrHelp.
func parseOptions(args []string) (*options, error) {
	opts := new(options)
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "trackconv"
	parser.Usage = "[OPTIONS] [FILE...]"
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	if _, err := zapcore.ParseLevel(opts.Log.Level); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return opts, nil
}
