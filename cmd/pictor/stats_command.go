package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pictor/internal/catalog"
	"pictor/internal/config"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				stats, err := store.Stats(cmd.Context(),
					cfg.Review.LowerBound, cfg.Review.UpperBound)
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Albums", strconv.Itoa(stats.Albums)},
					{"Images", strconv.Itoa(stats.Images)},
					{"Unprocessed", strconv.Itoa(stats.Unprocessed)},
					{"Tags", strconv.Itoa(stats.Tags)},
					{"Tag links", strconv.Itoa(stats.Links)},
					{"Pending review", strconv.Itoa(stats.PendingReview)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Metric", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}
