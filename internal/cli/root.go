package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/urfave/cli/v3"
)

// Exit statuses returned by ExitCode.
const (
	ExitAccepted    = 0
	ExitRejected    = 1
	ExitOperational = 2
)

var version = "dev"

// NewCommand builds the cptool root command. Inputs without files are read from in;
// reports go to out and logs to errOut.
func NewCommand(in io.Reader, out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  "cptool",
		Usage:                 "Strict validator and generator for competitive programming inputs",
		Version:               version,
		EnableShellCompletion: true,
		Writer:                out,
		ErrWriter:             errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("CPTOOL_DEBUG"),
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "write logs as JSON",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			slog.SetDefault(newLogger(errOut, cmd.Bool("debug"), cmd.Bool("log-json")))
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCmd(in, out),
			genCmd(out),
			buildCmd(out),
			grammarsCmd(out),
			showCmd(out),
			schemaCmd(out),
		},
	}
}

func newLogger(w io.Writer, debug, asJSON bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ExitCode maps the result of running the root command to a process exit status.
// Operational errors are reported on errOut.
func ExitCode(err error, errOut io.Writer) int {
	switch {
	case err == nil:
		return ExitAccepted
	case apperr.IsFormatViolation(err):
		return ExitRejected
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return ExitOperational
	}
}
