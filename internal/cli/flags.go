package cli

import (
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/cptool/internal/grammar"
	"github.com/DjordjeVuckovic/cptool/internal/registry"
	"github.com/urfave/cli/v3"
)

func grammarFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "grammar",
		Aliases:  []string{"g"},
		Usage:    "name of the grammar to use",
		Required: true,
		Sources:  cli.EnvVars("CPTOOL_GRAMMAR"),
	}
}

// registryFlags configure where grammars come from.
func registryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "grammar-dir",
			Aliases: []string{"d"},
			Usage:   "directory of YAML grammar definitions",
			Sources: cli.EnvVars("GRAMMAR_DIR"),
		},
		&cli.Int64Flag{
			Name:  "max-value",
			Usage: "upper bound V for values in the builtin grammars",
			Value: grammar.DefaultV,
		},
		&cli.Int64Flag{
			Name:  "max-count",
			Usage: "upper bound N for counts in the builtin grammars",
			Value: grammar.DefaultN,
		},
	}
}

func loadRegistry(cmd *cli.Command) (*registry.Registry, error) {
	v, n := cmd.Int64("max-value"), cmd.Int64("max-count")
	if v < 1 || n < 1 {
		return nil, fmt.Errorf("--max-value and --max-count must be positive, got %d and %d", v, n)
	}

	reg := registry.New()
	reg.Register(grammar.APlusB(v))
	reg.Register(grammar.Sum(n, v))

	if dir := cmd.String("grammar-dir"); dir != "" {
		loaded, err := reg.LoadDir(dir)
		if err != nil {
			return nil, err
		}
		slog.Debug("grammars loaded", "dir", dir, "count", loaded)
	}
	return reg, nil
}
