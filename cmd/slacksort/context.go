// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/theckman/slacksort"
	"github.com/theckman/slacksort/internal/config"
	"github.com/theckman/slacksort/internal/credentials"
	"github.com/theckman/slacksort/internal/logging"
)

const httpTimeout = 30 * time.Second

type commandContext struct {
	configFlag   string
	logLevelFlag string

	// replaced in tests
	prompt        prompter
	interactive   func(cmd *cobra.Command) bool
	browserCookie func(ctx context.Context, subdomain string, browsers []string) (credentials.Cookie, error)
	endpoint      string

	config     *config.Config
	configPath string
}

func newCommandContext() *commandContext {
	return &commandContext{
		interactive:   stdinIsTerminal,
		browserCookie: credentials.FromBrowser,
	}
}

// ensureConfig loads and validates the configuration. When it's missing or
// incomplete and a person is at the terminal, they're walked through
// configuring it instead of being handed an error.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	if c.config != nil {
		return c.config, nil
	}

	cfg, path, _, err := config.Load(c.configFlag)
	if err != nil {
		if !config.IsUnconfigured(err) {
			return nil, err
		}

		if !c.interactive(cmd) {
			return nil, errors.Wrap(err, "slacksort is not configured; run 'slacksort configure'")
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Configuration not found or incomplete (%s). Starting configuration...\n", err)

		if cfg, err = c.configure(cmd, cfg, path); err != nil {
			return nil, err
		}
	}

	c.config, c.configPath = cfg, path

	return cfg, nil
}

// readConfig loads the configuration without requiring it to be valid.
func (c *commandContext) readConfig() (*config.Config, string, error) {
	cfg, path, _, err := config.Read(c.configFlag)
	return cfg, path, err
}

func (c *commandContext) prompter(cmd *cobra.Command) prompter {
	if c.prompt != nil {
		return c.prompt
	}

	return newPromptUI(cmd.InOrStdin(), cmd.OutOrStdout())
}

func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if c.logLevelFlag != "" {
		level = c.logLevelFlag
	}

	return logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
}

func (c *commandContext) client(cfg *config.Config) (*slacksort.Client, error) {
	httpc, err := slacksort.NewHTTPClient(httpTimeout)
	if err != nil {
		return nil, err
	}

	ts, err := slacksort.NewTokenSource(httpc, cfg.Subdomain, cfg.SessionCookie)
	if err != nil {
		return nil, err
	}

	if c.endpoint != "" {
		ts.SetEndpoint(c.endpoint)
	}

	return slacksort.New(httpc, ts)
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}

	fd := f.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func versionString() string {
	return slacksort.Version
}
