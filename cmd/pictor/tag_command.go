package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pictor/internal/catalog"
	"pictor/internal/config"
	"pictor/internal/services/vision"
	"pictor/internal/tagging"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Automatic tagging",
	}
	tagCmd.AddCommand(newTagRunCommand(ctx))
	tagCmd.AddCommand(newTagAddCommand(ctx))
	return tagCmd
}

func newTagAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <image-id> <name>",
		Short: "Attach a tag by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid image id %q", args[0])
			}
			name := strings.TrimSpace(args[1])
			if name == "" {
				return fmt.Errorf("tag name required")
			}

			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				cmdCtx := cmd.Context()
				img, err := store.GetImageByID(cmdCtx, imageID)
				if err != nil {
					return err
				}
				if img == nil || img.Deleted {
					return fmt.Errorf("image %d not found", imageID)
				}

				tag, err := store.FindOrCreateTag(cmdCtx, name, catalog.CategoryGeneral)
				if err != nil {
					return err
				}
				created, err := store.CreateLinkIfAbsent(cmdCtx, &catalog.TagLink{
					ImageID:    imageID,
					TagID:      tag.ID,
					Confidence: 1.0,
					Source:     catalog.SourceManual,
					Verified:   true,
				})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if !created {
					fmt.Fprintf(out, "Image %d already carries tag %q\n", imageID, name)
					return nil
				}
				total, err := store.CountImageLinks(cmdCtx, imageID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Tagged image %d with %q (%d tags total)\n", imageID, name, total)
				return nil
			})
		},
	}
}

func newTagRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Analyze every unprocessed image",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				engine := newTaggingEngine(cfg, store, ctx)
				summary, err := engine.Run(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Analyzed %d images, created %d tag links\n",
					summary.Images, summary.LinksCreated)
				if summary.FailedBatches > 0 {
					fmt.Fprintf(out, "%d batches failed and will be retried on the next run\n",
						summary.FailedBatches)
				}
				return nil
			})
		},
	}
}

func newTaggingEngine(cfg *config.Config, store *catalog.Store, ctx *commandContext) *tagging.Engine {
	client := vision.NewClient(cfg.Classifier.Endpoint,
		vision.WithTimeout(time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second))
	classifier := tagging.NewVisionClassifier(client, cfg.Classifier.Labels)

	var recognizer tagging.Recognizer
	if cfg.Recognizer.Enabled {
		recognizer = tagging.NewVisionRecognizer(client, cfg.Recognizer.Languages)
	}
	return tagging.NewEngine(cfg, store, classifier, recognizer, ctx.cliLogger())
}
