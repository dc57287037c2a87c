// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package slacksort

import (
	"context"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

const profileGetPath = "/api/users.profile.get"

type profileResponse struct {
	Profile slack.UserProfile `json:"profile"`
}

// Profile returns the profile of the user the session belongs to. It's a
// cheap way to check the credentials work.
func (c *Client) Profile(ctx context.Context) (slack.UserProfile, error) {
	var resp profileResponse

	if err := c.Get(ctx, profileGetPath, nil, &resp); err != nil {
		return slack.UserProfile{}, errors.Wrap(err, "failed to get user profile")
	}

	return resp.Profile, nil
}
