package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/cptool/internal/report"
	"github.com/DjordjeVuckovic/cptool/internal/storage/factory"
	"github.com/DjordjeVuckovic/cptool/internal/validation"
	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func validateCmd(in io.Reader, out io.Writer) *cli.Command {
	flags := []cli.Flag{
		grammarFlag(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"o"},
			Value:   formatTable,
			Usage:   "report format (table, json)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "print nothing, report only through the exit status",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Value: 4,
			Usage: "number of files checked at once",
		},
	}

	return &cli.Command{
		Name:      "validate",
		Usage:     "Check that inputs match a grammar exactly",
		ArgsUsage: "[FILE...]",
		Description: `Check every FILE, or standard input when no file is given, against the grammar.
Every byte must be accounted for: integers within bounds, single separators,
exact line terminators and nothing after the last rule.

Exit status is 0 when all inputs are accepted, 1 when any input is rejected
and 2 on any other error.

Verdicts are stored when STORAGE_TYPE is set (in_mem, file, pg or es).`,
		Flags: append(flags, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := cmd.String("format")
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown report format: %q, valid formats are: table, json", format)
			}

			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			cfg, err := factory.LoadEnv()
			if err != nil {
				return err
			}
			backend, err := factory.NewBackend(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open verdict storage: %w", err)
			}
			defer backend.Close()

			svc := validation.NewService(reg,
				validation.WithStorer(backend.Storer),
				validation.WithConcurrency(cmd.Int("concurrency")),
			)

			name := cmd.String("grammar")
			verdicts, err := run(ctx, svc, name, cmd.Args().Slice(), in)
			if err != nil {
				return err
			}

			if !cmd.Bool("quiet") {
				rep := report.Generate(name, verdicts)
				if format == formatJSON {
					err = report.WriteJSON(rep, out)
				} else {
					err = report.WriteTable(rep, out)
				}
				if err != nil {
					return err
				}
			}

			return rejection(verdicts)
		},
	}
}

func run(ctx context.Context, svc *validation.Service, name string, paths []string, in io.Reader) ([]*verdict.Verdict, error) {
	if len(paths) == 0 {
		if isTerminal(in) {
			slog.Info("reading input from the terminal, end it with Ctrl-D")
		}
		v, err := svc.Validate(ctx, name, "", in)
		if err != nil {
			return nil, err
		}
		return []*verdict.Verdict{v}, nil
	}
	return svc.ValidateAll(ctx, name, paths)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// rejection returns the first rejected verdict as an error, or nil when all were accepted.
func rejection(verdicts []*verdict.Verdict) error {
	var first *verdict.Verdict
	rejected := 0
	for _, v := range verdicts {
		if v.Accepted {
			continue
		}
		if first == nil {
			first = v
		}
		rejected++
	}
	if first == nil {
		return nil
	}

	slog.Debug("inputs rejected", "rejected", rejected, "total", len(verdicts))
	if len(verdicts) == 1 {
		return first.Err()
	}
	return fmt.Errorf("%d of %d inputs rejected, first %s: %w", rejected, len(verdicts), first.Source, first.Err())
}
