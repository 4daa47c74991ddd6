// Command splinefit fits, evaluates and inspects B-splines on CSV data.
//
// Usage:
//
//	splinefit <command> [flags]
//
// Commands:
//
//	interp     interpolate x,y rows; prints the spline as k/t/c rows
//	lsq        least-squares fit on --knots (a third column is used as weights)
//	eval-grid  read a spline printed by interp or lsq, evaluate it on --grid points
//	design     write the sparse design matrix of the x column to --out
//	entropy    differential entropy of the first column
//
// Input is read from --in or stdin; lines starting with '#' and a header line
// are skipped. Logs go to stderr at --log-level (or $SPLINEFIT_LOG_LEVEL).
//
// Example:
//
//	splinefit interp -k 3 --bc natural < samples.csv | splinefit eval-grid --grid 200 --workers 4
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const envLogLevel = "SPLINEFIT_LOG_LEVEL"

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

var errNoCommand = errors.New("no command given")

// env is the process surface run needs; tests substitute buffers.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

// flags holds every command-line flag; each command binds the ones it uses.
type flags struct {
	in, out  string
	k        int
	knots    string
	bc       string
	solver   string
	grid     int
	workers  int
	half     bool
	method   string
	window   int
	logLevel string
}

// config is what a command runs against.
type config struct {
	flags
	stdin  io.Reader
	stdout io.Writer
	log    *slog.Logger
	p      *message.Printer
}

// runError marks a failure of the command body, as opposed to bad usage.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	}))
}

func run(args []string, e env) int {
	c := &config{p: message.NewPrinter(language.English)}
	root := newRootCmd(c, e.getenv)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(e.stdin)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)

	cmd, err := root.ExecuteC()
	var re *runError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &re):
		c.log.Error("failed", "err", re.err)
		return exitFail
	}
	fmt.Fprintf(e.stderr, "splinefit: %v\n\n%s", err, cmd.UsageString())

	return exitUsage
}

func newRootCmd(c *config, getenv func(string) string) *cobra.Command {
	root := &cobra.Command{
		Use:               "splinefit",
		Short:             "Fit, evaluate and inspect B-splines on CSV data",
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := c.logLevel
			if level == "" {
				level = getenv(envLogLevel)
			}
			logger, err := newLogger(cmd.ErrOrStderr(), level)
			if err != nil {
				return err
			}
			c.log = logger.With("command", cmd.Name())
			c.stdin, c.stdout = cmd.InOrStdin(), cmd.OutOrStdout()

			return nil
		},
		RunE: func(*cobra.Command, []string) error { return errNoCommand },
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&c.in, "in", "i", "", "input CSV file (default stdin)")
	pf.StringVarP(&c.out, "out", "o", "", "output file (default stdout; required by design)")
	pf.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (default $"+envLogLevel+" or info)")

	root.AddCommand(
		interpCmd(c),
		lsqCmd(c),
		evalGridCmd(c),
		designCmd(c),
		entropyCmd(c),
	)

	return root
}

// action adapts a command body to cobra; its failures become runErrors.
func action(c *config, fn func(*config) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		if err := fn(c); err != nil {
			return &runError{err: err}
		}
		return nil
	}
}

// newLogger builds the stderr logger. An empty level means info.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl := slog.LevelInfo
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("bad log level %q: %w", level, err)
		}
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: "15:04:05",
	})), nil
}
