// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"hey"},
		Short:   "Show who slacksort is signed in as",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return err
			}

			client, err := ctx.client(cfg)
			if err != nil {
				return err
			}

			profile, err := client.Profile(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Hello %s (%s)\n", displayName(profile), profile.Email)

			return nil
		},
	}
}
