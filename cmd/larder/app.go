package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/larder/internal/logger"
	"github.com/cognicore/larder/pkg/larder/config"
)

const (
	outputYAML  = "yaml"
	outputJSON  = "json"
	outputTable = "table"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   outputYAML,
		Usage:   "Output format (yaml, json, table)",
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "larder",
		Usage: "Format recipe ingredient lines for grocery lists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to larder.yaml",
				Sources: cli.EnvVars("LARDER_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LARDER_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (console, json)",
			},
		},
		Commands: []*cli.Command{
			formatCmd(),
			unitsCmd(),
			pantryCmd(),
		},
	}
}

// loadConfig reads --config, or the defaults, and applies the global flags.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	var cfg *config.Config
	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		def := config.Default()
		cfg = &def
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}
	return cfg, nil
}

func newLogger(cmd *cli.Command, cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.Root().ErrWriter,
	})
}

// load builds the formatting components from the configuration.
func load(ctx context.Context, cfg *config.Config, log *zap.Logger) (*config.Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return (&config.Loader{Config: cfg, Logger: log}).Load(ctx)
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}

func checkOutput(format string, table bool) error {
	switch format {
	case outputYAML, outputJSON:
		return nil
	case outputTable:
		if table {
			return nil
		}
	}
	return fmt.Errorf("unknown output format: %q", format)
}
