// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theckman/slacksort"
)

func newSectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List your sidebar sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			client, err := ctx.client(cfg)
			if err != nil {
				return err
			}

			sections, err := client.ListSections(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(sections) == 0 {
				fmt.Fprintln(out, "No sections.")
			} else {
				fmt.Fprintln(out, sectionsTable(sections, cfg.SectionName))
			}

			if s, ok := slacksort.FindSection(sections, cfg.SectionName); ok {
				fmt.Fprintf(out, "Channels are sorted in to '%s' (%s).\n", s.Name, s.ID)
			} else {
				fmt.Fprintf(out, "The '%s' section doesn't exist yet; 'slacksort sort' will create it.\n", cfg.SectionName)
			}

			return nil
		},
	}
}
