package spotify

import (
	"context"
	"fmt"
)

// Search looks up artists and tracks matching the query. Both kinds are
// always requested; callers pick the sub-page they care about.
func (c *Client) Search(ctx context.Context, query string, opts *PageOptions) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	params := opts.values()
	params.Set("q", query)
	params.Set("type", "artist,track")

	var result SearchResult
	if err := c.get(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
