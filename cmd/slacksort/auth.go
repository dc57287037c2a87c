// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/cobra"

	"github.com/theckman/slacksort/internal/config"
	"github.com/theckman/slacksort/internal/credentials"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	var browsers []string
	var cookieValue string
	var noVerify bool

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Refresh the Slack session cookie",
		Long: `Refresh the Slack session cookie slacksort signs in with.

By default the cookie is read from the browsers you're signed in to Slack with.
Use --cookie to provide it yourself: either the value of the "d" cookie, a JSON
cookie export, or the path to a file containing one. The new cookie is checked
against Slack before it's saved.`,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := ctx.readConfig()
			if err != nil {
				return err
			}

			if err := config.ValidateSubdomain(cfg.Subdomain); err != nil {
				return errors.Wrap(err, "run 'slacksort configure' first")
			}

			if len(browsers) == 0 {
				browsers = cfg.Credentials.Browsers
			}

			var cookie credentials.Cookie

			if cookieValue != "" {
				cookie, err = credentials.FromInline(cmd.Context(), cfg.Subdomain, cookieValue)
			} else {
				cookie, err = ctx.browserCookie(cmd.Context(), cfg.Subdomain, browsers)
			}

			if err != nil {
				return err
			}

			log, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			for _, w := range cookie.Warnings {
				log.Debug("cookie store warning", "warning", w)
			}

			cfg.SessionCookie = cookie.Value

			out := cmd.OutOrStdout()

			if !noVerify {
				client, err := ctx.client(cfg)
				if err != nil {
					return err
				}

				profile, err := client.Profile(cmd.Context())
				if err != nil {
					return errors.Wrapf(err, "the session from %s doesn't work", cookie.Source)
				}

				fmt.Fprintf(out, "Signed in as %s (%s)\n", displayName(profile), profile.Email)
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(out, "Saved the session from %s to %s\n", cookie.Source, path)

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&browsers, "browser", nil, "Browsers to search, in order (default from the config file, or all)")
	cmd.Flags().StringVar(&cookieValue, "cookie", "", "Session cookie value, JSON cookie export, or path to an export file")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Save the cookie without checking it against Slack")

	return cmd
}

func displayName(p slack.UserProfile) string {
	if p.DisplayNameNormalized != "" {
		return p.DisplayNameNormalized
	}

	if p.DisplayName != "" {
		return p.DisplayName
	}

	return p.RealName
}
