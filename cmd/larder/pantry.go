package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/cognicore/larder/pkg/larder/config"
	"github.com/cognicore/larder/pkg/larder/pantry"
	"github.com/cognicore/larder/pkg/larder/store"
	"github.com/cognicore/larder/pkg/larder/store/sqlite"
	"github.com/cognicore/larder/pkg/larder/store/yamlstore"
)

func pantryCmd() *cli.Command {
	return &cli.Command{
		Name:  "pantry",
		Usage: "Inspect and maintain the pantry",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List pantry entries",
				Flags: append(storeFlags(), outputFlag()),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					out := cmd.String("output")
					if err := checkOutput(out, true); err != nil {
						return err
					}
					st, err := openPantry(ctx, cmd)
					if err != nil {
						return err
					}
					defer st.Close()

					entries, err := st.Entries(ctx)
					if err != nil {
						return err
					}
					w := cmd.Root().Writer
					if out == outputTable {
						return writePantryTable(w, entries)
					}
					if out == outputYAML {
						data, err := yamlstore.Encode(entries)
						if err != nil {
							return err
						}
						_, err = w.Write(data)
						return err
					}
					return writeOutput(w, out, map[string][]pantry.Entry{"pantry": entries})
				},
			},
			{
				Name:  "import",
				Usage: "Copy a YAML pantry into a SQLite database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Source pantry YAML file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Destination SQLite database (created if missing)",
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					log, err := newLogger(cmd, cfg)
					if err != nil {
						return err
					}
					defer log.Sync() //nolint:errcheck

					src, err := yamlstore.Open(cmd.String("from"))
					if err != nil {
						return err
					}
					defer src.Close()

					// Reject pantries the formatter could not index.
					if _, err := store.LoadSnapshot(ctx, src); err != nil {
						return err
					}

					dst, err := sqlite.OpenSQLite(ctx, cmd.String("to"))
					if err != nil {
						return err
					}
					defer dst.Close()

					n, err := store.Copy(ctx, dst, src)
					if err != nil {
						return fmt.Errorf("import pantry: %w", err)
					}
					log.Info("imported pantry",
						zap.String("from", cmd.String("from")),
						zap.String("to", cmd.String("to")),
						zap.Int("entries", n))
					_, err = fmt.Fprintf(cmd.Root().Writer, "imported %d entries\n", n)
					return err
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove pantry entries by name",
				ArgsUsage: "<name...>",
				Flags:     storeFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if !cmd.Args().Present() {
						return errors.New("remove: at least one entry name required")
					}
					st, err := openPantry(ctx, cmd)
					if err != nil {
						return err
					}
					defer st.Close()

					for _, name := range cmd.Args().Slice() {
						if err := st.DeleteEntry(ctx, name); err != nil {
							return fmt.Errorf("remove %q: %w", name, err)
						}
					}
					return nil
				},
			},
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "pantry",
			Usage: "Pantry YAML file (overrides config)",
		},
		&cli.StringFlag{
			Name:  "sqlite",
			Usage: "Pantry SQLite database (overrides config)",
		},
	}
}

// openPantry opens the store named by the flags, or by the configuration.
func openPantry(ctx context.Context, cmd *cli.Command) (store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	pc := cfg.Pantry
	if cmd.IsSet("pantry") {
		pc = config.PantryConfig{Path: cmd.String("pantry")}
	}
	if cmd.IsSet("sqlite") {
		pc = config.PantryConfig{SQLite: cmd.String("sqlite")}
	}
	if pc.Path == "" && pc.SQLite == "" {
		return nil, errors.New("no pantry configured: set --pantry, --sqlite or pantry in --config")
	}
	return config.OpenStore(ctx, pc)
}

func writePantryTable(w io.Writer, entries []pantry.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INGREDIENT\tCATEGORY\tSTORE\tREPLACE\tRECIPE")
	for _, e := range entries {
		replace, recipe := "", ""
		if e.ReplaceUnit != "" {
			replace = fmt.Sprintf("%g %s", e.ReplaceFactor, e.ReplaceUnit)
		}
		if e.IsRecipe() {
			recipe = e.RecipeID.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.TrueIngredient, e.Category, e.Store, replace, recipe)
	}
	return tw.Flush()
}
