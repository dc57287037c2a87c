// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/theckman/slacksort"
	"github.com/theckman/slacksort/internal/config"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Move matching channels in to the section",
		Long: `Move the channels you're a member of, whose names match the configured
pattern, in to the configured sidebar section. The section is created if it
doesn't exist.

Sorting is safe to repeat. If it's interrupted, run it again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			lock, err := config.LockSort(ctx.configPath)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Unlock() }()

			log, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			client, err := ctx.client(cfg)
			if err != nil {
				return err
			}

			sorter, err := slacksort.NewSorter(client, slacksort.SorterConfig{
				SectionName:  cfg.SectionName,
				SectionEmoji: cfg.SectionEmoji,
				Pattern:      cfg.ChannelPattern,
				PageDelay:    cfg.PageDelay(),
				PageLimit:    cfg.Sweep.PageLimit,
				DryRun:       dryRun,
				Logger:       log,
			})
			if err != nil {
				return err
			}

			res, err := sorter.Sort(cmd.Context())

			printSortResult(cmd.OutOrStdout(), res, err != nil)

			return err
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be moved without changing anything")

	return cmd
}

func printSortResult(out io.Writer, res slacksort.Result, failed bool) {
	if res.Created {
		fmt.Fprintf(out, "Created '%s' section: %s\n", res.SectionName, res.SectionID)
		fmt.Fprintln(out, "Slack puts new sections at the very bottom of your sidebar. Reposition it as desired in the Slack client.")
	}

	if len(res.Batches) > 0 {
		fmt.Fprintln(out, batchesTable(res.Batches))
	}

	switch {
	case res.DryRun:
		fmt.Fprintf(out, "Would move %d channels to '%s' section (dry run; nothing was changed)\n", res.Moved, res.SectionName)
	case failed:
		fmt.Fprintf(out, "Moved %d channels to '%s' section before stopping after %d pages; it's safe to run again\n", res.Moved, res.SectionName, res.Pages)
	default:
		fmt.Fprintf(out, "Moved %d channels to '%s' section (some may have already been assigned)\n", res.Moved, res.SectionName)
	}
}
