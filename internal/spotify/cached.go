package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ClientInterface is the read surface services and handlers depend on.
type ClientInterface interface {
	TopItems(ctx context.Context, kind ItemKind, opts *TopOptions) (*TopItemPage, error)
	TopArtists(ctx context.Context, opts *TopOptions) (*ArtistPage, error)
	TopTracks(ctx context.Context, opts *TopOptions) (*TrackPage, error)
	CurrentUser(ctx context.Context) (*User, error)
}

// Cache is the storage contract the cached client needs. store.DB satisfies
// it.
type Cache interface {
	GetCache(key string) ([]byte, error)
	SetCache(key string, data []byte, ttl time.Duration) error
}

var _ ClientInterface = (*Client)(nil)
var _ ClientInterface = (*CachedClient)(nil)

// CachedClient decorates the read endpoints with a TTL cache. Keys carry the
// user id so per-user sessions never read each other's entries. Endpoints
// that mutate or mirror live player state pass through uncached.
type CachedClient struct {
	*Client
	cache  Cache
	ttl    time.Duration
	userID string
}

func NewCachedClient(client *Client, cache Cache, ttl time.Duration, userID string) *CachedClient {
	return &CachedClient{
		Client: client,
		cache:  cache,
		ttl:    ttl,
		userID: userID,
	}
}

func (c *CachedClient) TopItems(ctx context.Context, kind ItemKind, opts *TopOptions) (*TopItemPage, error) {
	key := c.topKey(kind, opts)

	data, err := c.cache.GetCache(key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		var cached TopItemPage
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	result, err := c.Client.TopItems(ctx, kind, opts)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		c.cache.SetCache(key, data, c.ttl)
	}

	return result, nil
}

func (c *CachedClient) TopArtists(ctx context.Context, opts *TopOptions) (*ArtistPage, error) {
	items, err := c.TopItems(ctx, ItemKindArtists, opts)
	if err != nil {
		return nil, err
	}
	return artistPageFrom(items)
}

func (c *CachedClient) TopTracks(ctx context.Context, opts *TopOptions) (*TrackPage, error) {
	items, err := c.TopItems(ctx, ItemKindTracks, opts)
	if err != nil {
		return nil, err
	}
	return trackPageFrom(items)
}

func (c *CachedClient) CurrentUser(ctx context.Context) (*User, error) {
	key := fmt.Sprintf("spotify:%s:profile", c.userID)

	data, err := c.cache.GetCache(key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		var cached User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := c.Client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(user); err == nil {
		c.cache.SetCache(key, data, c.ttl)
	}

	return user, nil
}

func (c *CachedClient) topKey(kind ItemKind, opts *TopOptions) string {
	var timeRange TimeRange
	var limit, offset int
	if opts != nil {
		timeRange = opts.TimeRange
		limit = opts.Limit
		offset = opts.Offset
	}
	return fmt.Sprintf("spotify:%s:top:%s:%s:%d:%d", c.userID, kind, timeRange, limit, offset)
}
