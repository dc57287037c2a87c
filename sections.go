// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"
)

// None of the users.channelSections.* methods are documented by Slack. Their
// shapes here are what the web client sends and receives.
const (
	sectionsListPath       = "/api/users.channelSections.list"
	sectionsCreatePath     = "/api/users.channelSections.create"
	sectionsBulkUpdatePath = "/api/users.channelSections.channels.bulkUpdate"
)

// ChannelIDsPage is the first page of a section's channel membership. Slack
// paginates membership of large sections, but how to request later pages is
// unknown, so only the first page is ever considered.
type ChannelIDsPage struct {
	ChannelIDs []string `json:"channel_ids"`
	Count      int      `json:"count"`
	Cursor     string   `json:"cursor"`
}

// Section is a named, emoji-tagged group of channels in a user's sidebar.
type Section struct {
	ID             string         `json:"channel_section_id"`
	Name           string         `json:"name"`
	Emoji          string         `json:"emoji"`
	Type           string         `json:"type"`
	ChannelIDsPage ChannelIDsPage `json:"channel_ids_page"`
}

type sectionsListResponse struct {
	Sections []Section `json:"channel_sections"`
}

type sectionsCreateResponse struct {
	ID string `json:"channel_section_id"`
}

// ListSections returns the user's sidebar sections. The method appears to be
// paginated, but how is unclear, and users rarely have more sections than fit
// on the one page we get.
func (c *Client) ListSections(ctx context.Context) ([]Section, error) {
	var resp sectionsListResponse

	if err := c.Get(ctx, sectionsListPath, nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to list sections")
	}

	return resp.Sections, nil
}

// FindSection returns the first section named name, and whether one was found.
func FindSection(sections []Section, name string) (Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}

	return Section{}, false
}

// CreateSection creates a new sidebar section. Slack puts new sections at the
// very bottom of the sidebar.
func (c *Client) CreateSection(ctx context.Context, name, emoji string) (Section, error) {
	if len(name) == 0 {
		return Section{}, errors.New("must provide a section name")
	}

	v := url.Values{
		"name":  []string{name},
		"emoji": []string{emoji},
	}

	var resp sectionsCreateResponse

	if err := c.Post(ctx, sectionsCreatePath, v, &resp); err != nil {
		return Section{}, errors.Wrapf(err, "failed to create section %q", name)
	}

	if len(resp.ID) == 0 {
		return Section{}, errors.Errorf("creating section %q returned no channel_section_id", name)
	}

	return Section{ID: resp.ID, Name: name, Emoji: emoji}, nil
}

type sectionInsert struct {
	SectionID  string   `json:"channel_section_id"`
	ChannelIDs []string `json:"channel_ids"`
}

// InsertChannels moves the channels in to the section with a single request.
// Moving a channel that's already in the section is not an error.
func (c *Client) InsertChannels(ctx context.Context, sectionID string, channelIDs ...string) error {
	if len(sectionID) == 0 {
		return errors.New("must provide a section ID")
	}

	if len(channelIDs) == 0 {
		return errors.New("must provide more than 0 channel IDs")
	}

	insert, err := json.Marshal([]sectionInsert{{SectionID: sectionID, ChannelIDs: channelIDs}})
	if err != nil {
		return errors.Wrap(err, "failed to encode insert")
	}

	v := url.Values{"insert": []string{string(insert)}}

	if err := c.Post(ctx, sectionsBulkUpdatePath, v, nil); err != nil {
		return errors.Wrapf(err, "failed to move %d channels in to section %s", len(channelIDs), sectionID)
	}

	return nil
}
