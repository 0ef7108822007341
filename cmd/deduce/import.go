package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/source"
	"github.com/cognicore/deduce/pkg/deduce/source/sqlite"
)

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file...]",
		Short: "Store parsed knowledge sources in the catalog",
		Long: `Import parses the given files, plus any configured sources, and appends
their statements to the SQLite catalog. Statements already in the catalog are
skipped. Later runs load the catalog before any source file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Catalog == "" {
				return fmt.Errorf("%w: --catalog required", internalerr.ErrInvalidConfig)
			}
			paths := append(cfg.Sources, args...)
			if len(paths) == 0 {
				return fmt.Errorf("%w: nothing to import", internalerr.ErrInvalidInput)
			}

			log, err := c.logger(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			items, err := source.LoadAll(ctx, paths...)
			if err != nil {
				return err
			}

			cat, err := sqlite.Open(ctx, cfg.Catalog)
			if err != nil {
				return err
			}
			defer cat.Close()

			added, err := cat.Put(ctx, items...)
			if err != nil {
				return err
			}
			log.Debug("catalog updated", zap.String("catalog", cfg.Catalog), zap.Int("added", added))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d statement(s) into %s\n", added, len(items), cfg.Catalog)
			return nil
		},
	}
}
