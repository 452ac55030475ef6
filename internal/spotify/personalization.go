package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// TopOptions are the optional query parameters for top-item requests. Zero
// values are simply not sent, so the API falls back to its own defaults
// (medium_term, limit 20, offset 0).
type TopOptions struct {
	TimeRange TimeRange
	Limit     int
	Offset    int
}

func (o *TopOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.TimeRange != "" {
		params.Set("time_range", string(o.TimeRange))
	}
	if o.Limit > 0 {
		params.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		params.Set("offset", strconv.Itoa(o.Offset))
	}
	return params
}

// TopItems fetches one page of the user's most-listened artists or tracks.
// Both collections decode through the same per-item type dispatch, so a page
// containing an item of an unknown type fails rather than dropping it.
func (c *Client) TopItems(ctx context.Context, kind ItemKind, opts *TopOptions) (*TopItemPage, error) {
	if kind != ItemKindArtists && kind != ItemKindTracks {
		return nil, fmt.Errorf("unsupported top item kind %q", kind)
	}
	if opts != nil && opts.TimeRange != "" && !opts.TimeRange.Valid() {
		return nil, fmt.Errorf("invalid time range %q", opts.TimeRange)
	}

	var result TopItemPage
	if err := c.get(ctx, "/me/top/"+string(kind), opts.values(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TopArtists is TopItems narrowed to artists.
func (c *Client) TopArtists(ctx context.Context, opts *TopOptions) (*ArtistPage, error) {
	items, err := c.TopItems(ctx, ItemKindArtists, opts)
	if err != nil {
		return nil, err
	}
	return artistPageFrom(items)
}

// TopTracks is TopItems narrowed to tracks.
func (c *Client) TopTracks(ctx context.Context, opts *TopOptions) (*TrackPage, error) {
	items, err := c.TopItems(ctx, ItemKindTracks, opts)
	if err != nil {
		return nil, err
	}
	return trackPageFrom(items)
}

func artistPageFrom(items *TopItemPage) (*ArtistPage, error) {
	result := &ArtistPage{
		page:  items.page,
		Items: make([]Artist, 0, len(items.Items)),
	}
	for _, item := range items.Items {
		if item.Artist == nil {
			return nil, fmt.Errorf("top artists answered with a %s item", item.Type)
		}
		result.Items = append(result.Items, *item.Artist)
	}
	return result, nil
}

func trackPageFrom(items *TopItemPage) (*TrackPage, error) {
	result := &TrackPage{
		page:  items.page,
		Items: make([]Track, 0, len(items.Items)),
	}
	for _, item := range items.Items {
		if item.Track == nil {
			return nil, fmt.Errorf("top tracks answered with a %s item", item.Type)
		}
		result.Items = append(result.Items, *item.Track)
	}
	return result, nil
}
