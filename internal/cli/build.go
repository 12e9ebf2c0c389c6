package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/DjordjeVuckovic/cptool/internal/problem"
	"github.com/DjordjeVuckovic/cptool/internal/storage/factory"
	"github.com/DjordjeVuckovic/cptool/internal/validation"
	"github.com/urfave/cli/v3"
)

func buildCmd(out io.Writer) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"out"},
			Value:   "tests",
			Usage:   "directory the generated inputs are written to",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"o"},
			Value:   formatTable,
			Usage:   "summary format (table, json)",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Value: 4,
			Usage: "number of files checked at once",
		},
	}

	return &cli.Command{
		Name:      "build",
		Usage:     "Generate and validate the test data of a problem",
		ArgsUsage: "PROBLEM_FILE",
		Description: `Read a problem file, generate every case of every bundle into the output
directory as <bundle>-<index>.in and validate each one against the problem's
grammar. The summary lists the tasks, their scoring and the total score.

Exit status is 1 when the grammar rejects a generated case and 2 on any other error.`,
		Flags: append(flags, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one problem file, got %d arguments", cmd.Args().Len())
			}
			format := cmd.String("format")
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown summary format: %q, valid formats are: table, json", format)
			}

			path := cmd.Args().First()
			p, err := problem.LoadFromFile(path)
			if err != nil {
				return err
			}

			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			if p.GrammarFile != "" {
				gf := filepath.Join(filepath.Dir(path), p.GrammarFile)
				if err := reg.LoadFile(gf); err != nil {
					return err
				}
				slog.Debug("problem grammar loaded", "path", gf)
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

			res, buildErr := problem.NewBuilder(reg, svc).Build(ctx, p, cmd.String("output-dir"))
			if res == nil {
				return buildErr
			}
			if format == formatJSON {
				err = problem.WriteJSON(res, out)
			} else {
				err = problem.WriteTable(res, out)
			}
			if err != nil {
				return err
			}
			return buildErr
		},
	}
}
