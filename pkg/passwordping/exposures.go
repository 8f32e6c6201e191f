// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package passwordping

import (
	"context"
	"net/url"
)

// GetExposuresForUser lists the exposures username appears in. An unknown
// username yields a zero count and an empty list.
func (c *Client) GetExposuresForUser(ctx context.Context, username string) (*ExposuresResponse, error) {
	res := &ExposuresResponse{}
	found, err := c.get(ctx, exposuresPath, url.Values{"username": {UsernameHash(username)}}, res)
	if err != nil {
		return nil, err
	}

	if !found {
		res.Count = 0
	}
	if res.Exposures == nil {
		res.Exposures = []string{}
	}

	return res, nil
}

// GetExposureDetails returns the details of exposure id, or nil when no such
// exposure exists.
func (c *Client) GetExposureDetails(ctx context.Context, id string) (*ExposureDetails, error) {
	if c.exposures != nil {
		if d, ok := c.exposures.get(id); ok {
			return d, nil
		}
	}

	d := &ExposureDetails{}
	found, err := c.get(ctx, exposuresPath, url.Values{"id": {id}}, d)
	if err != nil || !found {
		return nil, err
	}
	d.normalize()

	if c.exposures != nil {
		c.exposures.set(id, d)
	}

	return d, nil
}
