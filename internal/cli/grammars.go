package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/cptool/internal/definition"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func grammarsCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "grammars",
		Usage: "List known grammars",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "show the rules of every grammar",
			},
		}, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			header := []string{"NAME", "DESCRIPTION"}
			if cmd.Bool("verbose") {
				header = append(header, "RULES")
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader(header)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")

			for _, name := range reg.Names() {
				g, err := reg.Get(name)
				if err != nil {
					return err
				}
				row := []string{g.Name, g.Description}
				if cmd.Bool("verbose") {
					row = append(row, g.String())
				}
				table.Append(row)
			}
			table.Render()
			return nil
		},
	}
}

func showCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a grammar as a definition file",
		ArgsUsage: "NAME",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"o"},
				Value:   "yaml",
				Usage:   "output format (yaml, json)",
			},
		}, registryFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("show takes exactly one grammar name, got %d", cmd.NArg())
			}
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			g, err := reg.Get(cmd.Args().First())
			if err != nil {
				return err
			}
			def, err := definition.FromGrammar(g)
			if err != nil {
				return err
			}

			switch format := cmd.String("format"); format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(def); err != nil {
					return fmt.Errorf("failed to encode definition: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(def)
			default:
				return fmt.Errorf("unknown output format: %q, valid formats are: yaml, json", format)
			}
		},
	}
}
