package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pictor/internal/catalog"
	"pictor/internal/config"
	"pictor/internal/review"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Verify uncertain automatic tags",
	}
	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewDecisionCommand(ctx, review.ActionApprove,
		"Approve a pending tag"))
	reviewCmd.AddCommand(newReviewDecisionCommand(ctx, review.ActionReject,
		"Reject and remove a pending tag"))
	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show tags waiting for a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				queue := review.NewQueue(cfg, store, ctx.cliLogger())
				items, err := queue.List(cmd.Context(), limit)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "Nothing to review")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, item := range items {
					rows = append(rows, []string{
						strconv.FormatInt(item.ImageID, 10),
						strconv.FormatInt(item.TagID, 10),
						item.Filename,
						item.TagName,
						fmt.Sprintf("%.2f", item.Confidence),
						string(item.Source),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Image", "Tag", "File", "Name", "Confidence", "Source"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to show")
	return cmd
}

func newReviewDecisionCommand(ctx *commandContext, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <image-id> <tag-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid image id %q", args[0])
			}
			tagID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tag id %q", args[1])
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				queue := review.NewQueue(cfg, store, ctx.cliLogger())
				if err := queue.Apply(cmd.Context(), imageID, tagID, action); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %s to tag %d on image %d\n", action, tagID, imageID)
				return nil
			})
		},
	}
}
