package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/deduce/internal/logging"
	"github.com/cognicore/deduce/pkg/deduce"
	"github.com/cognicore/deduce/pkg/deduce/config"
)

// cli holds the persistent flags shared by all subcommands
type cli struct {
	configPath string
	verbose    bool
	sources    []string
	catalog    string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "deduce",
		Short: "Deductive knowledge base",
		Long: `deduce stores facts and if-then rules, derives every consequence on
assertion and withdraws unsupported conclusions on retraction.

Examples:
  deduce ask --source family.kb "(grandparentof ada ?X)"
  deduce repl --config deduce.yaml
  deduce import --catalog knowledge.db family.kb notes.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringArrayVarP(&c.sources, "source", "s", nil, "Knowledge source file (repeatable)")
	flags.StringVar(&c.catalog, "catalog", "", "SQLite statement catalog")

	root.AddCommand(
		newAskCmd(c),
		newReplCmd(c),
		newDumpCmd(c),
		newImportCmd(c),
	)
	return root
}

// loadConfig reads the config file, if any, and applies flag overrides
func (c *cli) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	cfg.Sources = append(cfg.Sources, c.sources...)
	if c.catalog != "" {
		cfg.Catalog = c.catalog
	}
	return &cfg, cfg.Validate()
}

func (c *cli) logger(cfg config.Log) (*zap.Logger, error) {
	if c.verbose {
		cfg = logging.Verbose(cfg)
	}
	log, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

// session builds a Session loaded with the catalog and every source
func (c *cli) session(ctx context.Context) (*deduce.Session, *config.Config, func(), error) {
	loader := config.Loader{
		ConfigPath: c.configPath,
		Sources:    c.sources,
		Catalog:    c.catalog,
	}
	comp, err := loader.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := c.logger(comp.Config.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = log.Sync() }

	s := deduce.New(deduce.Options{
		Logger:          log,
		JournalCapacity: comp.Config.JournalCapacity,
	})
	s.Load(comp.Items)
	return s, comp.Config, cleanup, nil
}
