package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/cptool/internal/generator"
	"github.com/urfave/cli/v3"
)

func genCmd(out io.Writer) *cli.Command {
	flags := []cli.Flag{
		grammarFlag(),
		&cli.StringSliceFlag{
			Name:    "bound",
			Aliases: []string{"b"},
			Usage:   "narrow a named integer to a range, as name=low:high (repeatable)",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "output file path (default: stdout)",
		},
	}

	return &cli.Command{
		Name:      "gen",
		Usage:     "Generate a random input accepted by a grammar",
		ArgsUsage: "[ARGS...]",
		Description: `Write one input instance of the grammar. The random source is seeded from
ARGS, so the same grammar and arguments always produce the same bytes.`,
		Flags: append(flags, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			g, err := reg.Get(cmd.String("grammar"))
			if err != nil {
				return err
			}

			var opts []generator.Option
			for _, spec := range cmd.StringSlice("bound") {
				opt, err := parseBound(spec)
				if err != nil {
					return err
				}
				opts = append(opts, opt)
			}

			w := out
			if path := cmd.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() {
					if err := f.Close(); err != nil {
						slog.Warn("failed to close output file", "path", path, "error", err)
					}
				}()
				w = f
			}

			args := cmd.Args().Slice()
			slog.Debug("generating input", "grammar", g.Name, "seed", generator.Seed(args))
			return generator.New(g, args, opts...).Generate(w)
		},
	}
}

// parseBound reads name=low:high.
func parseBound(spec string) (generator.Option, error) {
	name, rng, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return nil, fmt.Errorf("invalid bound %q, expected name=low:high", spec)
	}
	lowStr, highStr, ok := strings.Cut(rng, ":")
	if !ok {
		return nil, fmt.Errorf("invalid bound %q, expected name=low:high", spec)
	}
	low, err := strconv.ParseInt(lowStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid lower bound in %q: %w", spec, err)
	}
	high, err := strconv.ParseInt(highStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid upper bound in %q: %w", spec, err)
	}
	if low > high {
		return nil, fmt.Errorf("invalid bound %q: low is greater than high", spec)
	}
	return generator.WithBound(name, low, high), nil
}
