package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pictor/internal/catalog"
	"pictor/internal/config"
	"pictor/internal/ingest"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "ingest [root]",
		Short: "Register photos from an import tree",
		Long: "Expands zip archives, scans for supported images, and adds anything " +
			"the catalog has not seen before. Without an argument the configured " +
			"import directory is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				root := cfg.Paths.ImportDir
				if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
					abs, err := filepath.Abs(args[0])
					if err != nil {
						return fmt.Errorf("resolve root: %w", err)
					}
					root = abs
				}

				pipeline := ingest.NewPipeline(cfg, store, ctx.cliLogger())
				stats, err := pipeline.Run(cmd.Context(), root, strings.TrimSpace(owner))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %d, skipped %d duplicates, %d errors\n",
					stats.Added, stats.Skipped, stats.Errors)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner identifier recorded on new images")
	return cmd
}
