package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/rmrobinson/openweather/config"
	"github.com/spf13/pflag"
)

// Mode is the operation a single invocation performs.
type Mode int

const (
	// ModeQuery prints the weather for the current location.
	ModeQuery Mode = iota
	// ModeEditConfig opens the config file in the user's editor.
	ModeEditConfig
	// ModeHelp prints usage.
	ModeHelp
	// ModeVersion prints the program version.
	ModeVersion
)

var (
	// ErrUsage is returned if the command line can't be parsed.
	ErrUsage = errors.New("invalid usage")
)

// Command is a parsed command line.
type Command struct {
	Mode      Mode
	Overrides config.Overrides
}

const usage = `openweather: current weather for where you are

Usage:
  openweather query [flags]    query weather (alias: q)
  openweather edit             edit the config file (aliases: e, config, init)
  openweather --version        print version

Query flags:
%s`

// Usage returns the help text.
func Usage() string {
	return fmt.Sprintf(usage, newQueryFlags().fs.FlagUsages())
}

// Parse interprets the command line arguments, excluding the program name.
func Parse(args []string) (*Command, error) {
	if len(args) == 0 {
		return nil, errors.Wrap(ErrUsage, "missing subcommand")
	}

	switch args[0] {
	case "-h", "--help", "help":
		return &Command{Mode: ModeHelp}, nil
	case "-V", "--version", "version":
		return &Command{Mode: ModeVersion}, nil
	case "query", "q":
		return parseQuery(args[1:])
	case "edit", "e", "config", "init":
		return parseEdit(args[1:])
	}

	return nil, errors.Wrapf(ErrUsage, "unknown subcommand %q", args[0])
}

type queryFlags struct {
	fs *pflag.FlagSet

	mode     config.GeometryMode
	apiKey   *string
	minutely *bool
	hourly   *bool
	daily    *bool
}

func newQueryFlags() *queryFlags {
	qf := &queryFlags{
		fs: newFlagSet("query"),
	}
	qf.apiKey = qf.fs.String("api-key", "", "api key (should be set in config file)")
	qf.fs.Var(&qf.mode, "mode", "geometry mode (should be set in config file)")
	qf.minutely = qf.fs.Bool("minutely", false, "include minutely forecast")
	qf.hourly = qf.fs.Bool("hourly", false, "include hourly forecast")
	qf.daily = qf.fs.Bool("daily", false, "include daily forecast")
	return qf
}

func parseQuery(args []string) (*Command, error) {
	qf := newQueryFlags()
	if err := qf.fs.Parse(joinBoolValues(args)); err != nil {
		if err == pflag.ErrHelp {
			return &Command{Mode: ModeHelp}, nil
		}
		return nil, errors.Wrap(ErrUsage, err.Error())
	}
	if qf.fs.NArg() > 0 {
		return nil, errors.Wrapf(ErrUsage, "unexpected argument %q", qf.fs.Arg(0))
	}

	cmd := &Command{Mode: ModeQuery}
	if qf.fs.Changed("api-key") {
		cmd.Overrides.APIKey = qf.apiKey
	}
	if qf.fs.Changed("mode") {
		cmd.Overrides.GeometryMode = &qf.mode
	}
	if qf.fs.Changed("minutely") {
		cmd.Overrides.Minutely = qf.minutely
	}
	if qf.fs.Changed("hourly") {
		cmd.Overrides.Hourly = qf.hourly
	}
	if qf.fs.Changed("daily") {
		cmd.Overrides.Daily = qf.daily
	}
	return cmd, nil
}

// joinBoolValues rewrites "--hourly false" as "--hourly=false" so toggles accept a separate value.
func joinBoolValues(args []string) []string {
	ret := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--minutely", "--hourly", "--daily":
			if i+1 < len(args) {
				switch strings.ToLower(args[i+1]) {
				case "true", "false":
					arg += "=" + strings.ToLower(args[i+1])
					i++
				}
			}
		case "--":
			return append(ret, args[i:]...)
		}
		ret = append(ret, arg)
	}
	return ret
}

func parseEdit(args []string) (*Command, error) {
	fs := newFlagSet("edit")
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return &Command{Mode: ModeHelp}, nil
		}
		return nil, errors.Wrap(ErrUsage, err.Error())
	}
	if fs.NArg() > 0 {
		return nil, errors.Wrapf(ErrUsage, "unexpected argument %q", fs.Arg(0))
	}
	return &Command{Mode: ModeEditConfig}, nil
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	// Errors are reported once by the caller.
	fs.SetOutput(&bytes.Buffer{})
	fs.Usage = func() {}
	return fs
}
