package spotify

import (
	"context"
	"net/url"
	"strconv"
)

// CurrentUser fetches the profile of the user the access token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PageOptions are the plain limit/offset parameters shared by list
// endpoints without a time-range dimension.
type PageOptions struct {
	Limit  int
	Offset int
}

func (o *PageOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.Limit > 0 {
		params.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		params.Set("offset", strconv.Itoa(o.Offset))
	}
	return params
}

// CurrentUserPlaylists lists the playlists the user owns or follows.
func (c *Client) CurrentUserPlaylists(ctx context.Context, opts *PageOptions) (*PlaylistPage, error) {
	var result PlaylistPage
	if err := c.get(ctx, "/me/playlists", opts.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
