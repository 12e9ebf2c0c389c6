package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/cptool/internal/definition"
	"github.com/DjordjeVuckovic/cptool/pkg/schema"
	"github.com/urfave/cli/v3"
)

const schemaBaseID = "https://schemas.cptool.dev"

// schemaCmd prints the JSON Schema of grammar definition files, for editors
// that validate YAML against a schema.
func schemaCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON Schema of grammar definition files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "write the schema to this file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			b, err := schema.NewGenerator(schema.WithBaseID(schemaBaseID)).GenerateJSON(definition.Definition{})
			if err != nil {
				return err
			}
			b = append(b, '\n')

			if path := cmd.String("output"); path != "" {
				if err := os.WriteFile(path, b, 0o644); err != nil {
					return fmt.Errorf("failed to write schema: %w", err)
				}
				return nil
			}
			_, err = out.Write(b)
			return err
		},
	}
}
