// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

// DefaultPageDelay is how long the sorter waits after each page of channels.
// Slack's rate limits for these methods are undocumented, so this is a guess
// that has worked in practice.
const DefaultPageDelay = 250 * time.Millisecond

// SorterConfig configures a *Sorter.
type SorterConfig struct {
	// SectionName is the name of the sidebar section to sort channels in to.
	SectionName string

	// SectionEmoji is the emoji (without colons) given to the section, if it
	// needs to be created.
	SectionEmoji string

	// Pattern is the regular expression channel names must match. It's matched
	// from the start of the name, but need not match the whole name.
	Pattern string

	// PageDelay is the pause after each page of channels. Zero uses
	// DefaultPageDelay; use a negative value to disable pacing.
	PageDelay time.Duration

	// PageLimit is the channel page size. Zero uses DefaultPageLimit.
	PageLimit int

	// DryRun computes what would be moved without moving anything. If the
	// section doesn't exist it isn't created either.
	DryRun bool

	// Logger receives progress messages. Nil discards them.
	Logger *slog.Logger
}

// Batch is the set of channels moved in one request.
type Batch struct {
	Page         int
	ChannelIDs   []string
	ChannelNames []string
}

// Result describes a sort run. On error, the Result describes the progress made
// before the failure; those moves have already been applied by Slack.
type Result struct {
	RunID       string
	SectionID   string
	SectionName string
	Created     bool
	Pages       int
	Moved       int
	Batches     []Batch
	DryRun      bool
}

// Sorter moves channels whose names match a pattern in to a sidebar section.
// A sort is safe to repeat: each page's move is complete once its request
// returns, and moving a channel that's already in the section does nothing.
type Sorter struct {
	c       *Client
	cfg     SorterConfig
	pattern *regexp.Regexp
	log     *slog.Logger

	// pace waits between pages; replaced in tests
	pace func(context.Context, time.Duration) error
}

// NewSorter returns a new *Sorter. The pattern is compiled here, once.
func NewSorter(c *Client, cfg SorterConfig) (*Sorter, error) {
	if c == nil {
		return nil, errors.New("must provide a client")
	}

	if len(cfg.SectionName) == 0 {
		return nil, errors.New("must provide a section name")
	}

	pattern, err := CompilePattern(cfg.Pattern)
	if err != nil {
		return nil, err
	}

	if cfg.PageDelay == 0 {
		cfg.PageDelay = DefaultPageDelay
	}

	if cfg.PageLimit == 0 {
		cfg.PageLimit = DefaultPageLimit
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Sorter{
		c:       c,
		cfg:     cfg,
		pattern: pattern,
		log:     log,
		pace:    sleepContext,
	}

	return s, nil
}

// CompilePattern compiles a channel name pattern. The pattern only needs to
// match the beginning of a name: "^inc-" and "inc-" are equivalent, and both
// match "inc-db" but not "misc-inc-talk".
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if len(pattern) == 0 {
		return nil, errors.New("must provide a channel name pattern")
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid channel name pattern %q", pattern)
	}

	return re, nil
}

// Sort runs the three phases of a sort: resolve (or create) the section, then
// sweep every page of channels, moving the matching ones.
func (s *Sorter) Sort(ctx context.Context) (Result, error) {
	res := Result{
		RunID:       uuid.NewString(),
		SectionName: s.cfg.SectionName,
		DryRun:      s.cfg.DryRun,
	}

	log := s.log.With("run_id", res.RunID, "section", s.cfg.SectionName)

	section, index, created, err := s.resolveSection(ctx)
	if err != nil {
		return res, err
	}

	res.SectionID, res.Created = section.ID, created

	if created {
		log.Info("created section; Slack puts new sections at the bottom of the sidebar",
			"section_id", section.ID, "emoji", section.Emoji)
	} else {
		log.Debug("found section", "section_id", section.ID, "indexed_channels", len(index))
	}

	err = s.sweep(ctx, log, section.ID, index, &res)

	log.Info("sort finished",
		"pages", res.Pages, "moved", res.Moved, "batches", len(res.Batches), "dry_run", res.DryRun)

	return res, err
}

// resolveSection finds the configured section, or creates it. The returned
// index holds the channels known to be in the section already, from the first
// page of its membership.
func (s *Sorter) resolveSection(ctx context.Context) (Section, map[string]struct{}, bool, error) {
	sections, err := s.c.ListSections(ctx)
	if err != nil {
		return Section{}, nil, false, err
	}

	if section, ok := FindSection(sections, s.cfg.SectionName); ok {
		index := make(map[string]struct{}, len(section.ChannelIDsPage.ChannelIDs))

		for _, id := range section.ChannelIDsPage.ChannelIDs {
			index[id] = struct{}{}
		}

		return section, index, false, nil
	}

	if s.cfg.DryRun {
		return Section{Name: s.cfg.SectionName, Emoji: s.cfg.SectionEmoji}, map[string]struct{}{}, false, nil
	}

	section, err := s.c.CreateSection(ctx, s.cfg.SectionName, s.cfg.SectionEmoji)
	if err != nil {
		return Section{}, nil, false, err
	}

	return section, map[string]struct{}{}, true, nil
}

func (s *Sorter) sweep(ctx context.Context, log *slog.Logger, sectionID string, index map[string]struct{}, res *Result) error {
	cp := s.c.ListChannels(s.cfg.PageLimit)

	for cp.Next(ctx) {
		res.Pages = cp.Fetched()

		batch := s.candidates(cp.Channels(), index)

		if len(batch.ChannelIDs) > 0 {
			batch.Page = res.Pages

			log.Info("moving channels", "page", batch.Page, "channels", batch.ChannelNames)

			if !s.cfg.DryRun {
				if err := s.c.InsertChannels(ctx, sectionID, batch.ChannelIDs...); err != nil {
					return err
				}
			}

			res.Batches = append(res.Batches, batch)
			res.Moved += len(batch.ChannelIDs)
		}

		if err := s.pace(ctx, s.cfg.PageDelay); err != nil {
			return errors.Wrap(err, "sweep interrupted")
		}
	}

	return errors.Wrap(cp.Err(), "failed to list channels")
}

// candidates returns the channels to move: ones the user is a member of, that
// aren't known to be in the section, whose names match the pattern.
func (s *Sorter) candidates(channels []slack.Channel, index map[string]struct{}) Batch {
	var b Batch

	for _, ch := range channels {
		if !ch.IsMember {
			continue
		}

		if _, ok := index[ch.ID]; ok {
			continue
		}

		if !s.pattern.MatchString(ch.Name) {
			continue
		}

		b.ChannelIDs = append(b.ChannelIDs, ch.ID)
		b.ChannelNames = append(b.ChannelNames, ch.Name)
	}

	return b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
