// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/theckman/slacksort/internal/config"
	"github.com/theckman/slacksort/internal/credentials"
)

func newConfigureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "configure",
		Short:       "Interactively set up the workspace, section, pattern, and session",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := ctx.readConfig()
			if err != nil {
				return err
			}

			cfg, err = ctx.configure(cmd, cfg, path)
			if err != nil {
				return err
			}

			ctx.config, ctx.configPath = cfg, path

			return nil
		},
	}
}

// configure prompts for every setting, offering the current values as
// defaults, and saves the result.
func (c *commandContext) configure(cmd *cobra.Command, cfg *config.Config, path string) (*config.Config, error) {
	p := c.prompter(cmd)
	out := cmd.OutOrStdout()

	sub, err := p.Ask("Slack subdomain (e.g., 'foo' in 'foo.slack.com')", cfg.Subdomain, func(v string) error {
		return config.ValidateSubdomain(config.NormalizeSubdomain(v))
	})
	if err != nil {
		return nil, err
	}
	cfg.Subdomain = config.NormalizeSubdomain(sub)

	name, err := p.Ask("Name of section for grouped channels (e.g., 'incidents')", cfg.SectionName, func(v string) error {
		return config.ValidateSectionName(config.NormalizeSectionName(v))
	})
	if err != nil {
		return nil, err
	}
	cfg.SectionName = config.NormalizeSectionName(name)

	emoji, err := p.Ask("Emoji for the section (e.g., 'fire' for :fire:)", cfg.SectionEmoji, func(v string) error {
		return config.ValidateSectionEmoji(config.NormalizeSectionEmoji(v))
	})
	if err != nil {
		return nil, err
	}
	cfg.SectionEmoji = config.NormalizeSectionEmoji(emoji)

	pattern, err := p.Ask("Regex for channels to sort (e.g., '^inc-', can be a partial match)", cfg.ChannelPattern, config.ValidateChannelPattern)
	if err != nil {
		return nil, err
	}
	cfg.ChannelPattern = pattern

	reauth := cfg.SessionCookie == ""

	if !reauth {
		if reauth, err = p.Confirm("Re-authenticate to Slack"); err != nil {
			return nil, err
		}
	}

	if reauth {
		cookie, err := c.obtainCookie(cmd, cfg)
		if err != nil {
			return nil, err
		}
		cfg.SessionCookie = cookie.Value
	}

	if err := config.Save(path, cfg); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Configuration saved to %s\n", path)

	return cfg, nil
}

// obtainCookie gets a session cookie for the workspace, from the browser if
// the person agrees, otherwise by asking them to paste it.
func (c *commandContext) obtainCookie(cmd *cobra.Command, cfg *config.Config) (credentials.Cookie, error) {
	p := c.prompter(cmd)
	out := cmd.OutOrStdout()

	useBrowser, err := p.Confirm("Read your Slack session from your browser")
	if err != nil {
		return credentials.Cookie{}, err
	}

	if useBrowser {
		fmt.Fprintf(out, "Looking for a signed in session for %s; your OS may ask to allow access to the browser's keychain entry.\n", credentials.WorkspaceURL(cfg.Subdomain))

		cookie, err := c.browserCookie(cmd.Context(), cfg.Subdomain, cfg.Credentials.Browsers)
		if err == nil {
			fmt.Fprintf(out, "Found a session in %s.\n", cookie.Source)
			return cookie, nil
		}

		if !errors.Is(err, credentials.ErrCookieNotFound) {
			return credentials.Cookie{}, err
		}

		fmt.Fprintf(out, "No session found (%s).\n", err)
	}

	fmt.Fprintf(out, "Sign in to %s in a browser, then copy the value of the cookie named %q from its developer tools.\n",
		credentials.WorkspaceURL(cfg.Subdomain), credentials.CookieName)

	v, err := p.Secret("Session cookie (or the path to a cookie export)", func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errors.New("a value is required")
		}
		return nil
	})
	if err != nil {
		return credentials.Cookie{}, err
	}

	return credentials.FromInline(cmd.Context(), cfg.Subdomain, v)
}
