package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/cognicore/larder/pkg/larder"
	"github.com/cognicore/larder/pkg/larder/config"
	"github.com/cognicore/larder/pkg/larder/report"
)

type formatOutput struct {
	Results []larder.Result `json:"results" yaml:"results"`
	Report  report.Report   `json:"report" yaml:"report"`
}

func formatCmd() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Format ingredient lines",
		ArgsUsage: "[line...]",
		Description: `Format ingredient lines given as arguments, read from --file, or read
from stdin, one per line. Blank lines are ignored.

Each line becomes an ingredient matched against the pantry or a reference
to another recipe. Failed lines are listed in the report and make the
command exit non-zero.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read lines from a file (- for stdin)",
			},
			&cli.StringFlag{
				Name:  "pantry",
				Usage: "Pantry YAML file (overrides config)",
			},
			&cli.StringFlag{
				Name:  "sqlite",
				Usage: "Pantry SQLite database (overrides config)",
			},
			&cli.StringFlag{
				Name:  "units",
				Usage: "Extra units YAML file (overrides config)",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "What to do with unmatched pantry items (raise, log, skip)",
			},
			&cli.BoolFlag{
				Name:  "fuzzy",
				Usage: "Enable approximate pantry matching",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Lines formatted in parallel (0 means one per CPU)",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "Stop at the first failed line",
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
			applyFormatFlags(cmd, cfg)

			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			lines, err := readLines(cmd)
			if err != nil {
				return err
			}

			comp, err := load(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer comp.Close()

			batch, err := comp.Formatter.FormatBatch(ctx, lines)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if out == outputTable {
				err = writeResultsTable(w, batch)
			} else {
				err = writeOutput(w, out, formatOutput{Results: batch.Results, Report: batch.Report})
			}
			if err != nil {
				return fmt.Errorf("write results: %w", err)
			}

			if !batch.Report.OK() {
				log.Debug("failed lines", zap.Error(batch.Err()))
				return fmt.Errorf("%d of %d lines failed", batch.Report.Failed, batch.Report.Lines)
			}
			return nil
		},
	}
}

func applyFormatFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("pantry") {
		cfg.Pantry = config.PantryConfig{Path: cmd.String("pantry")}
	}
	if cmd.IsSet("sqlite") {
		cfg.Pantry = config.PantryConfig{SQLite: cmd.String("sqlite")}
	}
	if cmd.IsSet("units") {
		cfg.UnitsPath = cmd.String("units")
	}
	if cmd.IsSet("policy") {
		cfg.Policies.UnmatchedPantry = strings.ToLower(cmd.String("policy"))
	}
	if cmd.IsSet("fuzzy") {
		cfg.Matching.Fuzzy = cmd.Bool("fuzzy")
	}
	if cmd.IsSet("workers") {
		cfg.Batch.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("fail-fast") {
		cfg.Batch.FailFast = cmd.Bool("fail-fast")
	}
}

// readLines collects input lines from the arguments, --file or stdin.
func readLines(cmd *cli.Command) ([]string, error) {
	if cmd.Args().Present() {
		return nonBlank(cmd.Args().Slice()), nil
	}

	path := cmd.String("file")
	if path == "" || path == "-" {
		return scanLines(cmd.Root().Reader)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scanLines(f)
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return nonBlank(lines), nil
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func writeResultsTable(w io.Writer, batch *larder.Batch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUANTITY\tUNIT\tITEM\tPANTRY\tGROCERY")
	for _, r := range batch.Results {
		switch {
		case r.Recipe != nil:
			fmt.Fprintf(tw, "%g\t\t%s\trecipe\t\n", r.Recipe.Quantity, r.Recipe.Title)
		case r.Ingredient != nil:
			ing := r.Ingredient
			unit, pantry, grocery := "", "-", ""
			if ing.Unit != nil {
				unit = ing.Unit.Symbol
			}
			if ing.Entry != nil {
				pantry = ing.Entry.TrueIngredient
			}
			if ing.Grocery != nil {
				grocery = strings.TrimSpace(fmt.Sprintf("%g %s", ing.Grocery.Quantity, ing.Grocery.Unit))
			}
			fmt.Fprintf(tw, "%g\t%s\t%s\t%s\t%s\n", ing.Quantity, unit, ing.Item, pantry, grocery)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, batch.Report.String())
	return err
}
