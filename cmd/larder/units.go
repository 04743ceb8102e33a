package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/cognicore/larder/pkg/larder/units"
)

func unitsCmd() *cli.Command {
	return &cli.Command{
		Name:  "units",
		Usage: "List the unit catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "units",
				Usage: "Extra units YAML file (overrides config)",
			},
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.String("output")
			if err := checkOutput(out, true); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.IsSet("units") {
				cfg.UnitsPath = cmd.String("units")
			}

			catalog := units.Default()
			if cfg.UnitsPath != "" {
				catalog, err = units.LoadFromYAML(cfg.UnitsPath, catalog)
				if err != nil {
					return fmt.Errorf("load units: %w", err)
				}
			}

			w := cmd.Root().Writer
			if out == outputTable {
				return writeUnitsTable(w, catalog.Units())
			}
			return writeOutput(w, out, map[string][]units.Unit{"units": catalog.Units()})
		},
	}
}

func writeUnitsTable(w io.Writer, list []units.Unit) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tKIND\tDIMENSION\tBASE\tRATIO\tALIASES")
	for _, u := range list {
		names := append(append([]string{}, u.Aliases...), u.Abbreviations...)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%s\n",
			u.Symbol, u.Kind, u.Dimension, u.Base, u.Ratio, strings.Join(names, ", "))
	}
	return tw.Flush()
}
