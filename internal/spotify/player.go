package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Devices lists the playback devices currently attached to the user's
// account.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	var result devicesResponse
	if err := c.get(ctx, "/me/player/devices", nil, &result); err != nil {
		return nil, err
	}
	return result.Devices, nil
}

// PlaybackState returns the full player state, or nil when no device is
// active.
func (c *Client) PlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	ok, err := c.getOptional(ctx, "/me/player", nil, &state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// CurrentlyPlaying returns the playing item, or nil when nothing is playing.
func (c *Client) CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error) {
	var playing CurrentlyPlaying
	ok, err := c.getOptional(ctx, "/me/player/currently-playing", nil, &playing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &playing, nil
}

// TransferPlayback moves playback to another device, optionally starting it
// there.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	if deviceID == "" {
		return fmt.Errorf("device id is required")
	}
	body := struct {
		DeviceIDs []string `json:"device_ids"`
		Play      bool     `json:"play"`
	}{
		DeviceIDs: []string{deviceID},
		Play:      play,
	}
	return c.put(ctx, "/me/player", nil, body)
}

// PlayOptions narrows what and where Play starts. The zero value resumes
// whatever is paused on the active device.
type PlayOptions struct {
	DeviceID   string
	ContextURI string
	URIs       []string
	PositionMS int
}

// Play starts or resumes playback.
func (c *Client) Play(ctx context.Context, opts *PlayOptions) error {
	params := url.Values{}
	var body any
	if opts != nil {
		if opts.DeviceID != "" {
			params.Set("device_id", opts.DeviceID)
		}
		if opts.ContextURI != "" || len(opts.URIs) > 0 || opts.PositionMS > 0 {
			body = struct {
				ContextURI string   `json:"context_uri,omitempty"`
				URIs       []string `json:"uris,omitempty"`
				PositionMS int      `json:"position_ms,omitempty"`
			}{
				ContextURI: opts.ContextURI,
				URIs:       opts.URIs,
				PositionMS: opts.PositionMS,
			}
		}
	}
	return c.put(ctx, "/me/player/play", params, body)
}

// Pause pauses playback on the given device, or the active one when
// deviceID is empty.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	return c.put(ctx, "/me/player/pause", deviceParams(deviceID), nil)
}

// Next skips to the next item in the queue.
func (c *Client) Next(ctx context.Context, deviceID string) error {
	return c.post(ctx, "/me/player/next", deviceParams(deviceID), nil)
}

// Previous skips back to the previous item.
func (c *Client) Previous(ctx context.Context, deviceID string) error {
	return c.post(ctx, "/me/player/previous", deviceParams(deviceID), nil)
}

// SetVolume sets the device volume, 0-100.
func (c *Client) SetVolume(ctx context.Context, percent int, deviceID string) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("volume percent must be between 0 and 100, got %d", percent)
	}
	params := deviceParams(deviceID)
	params.Set("volume_percent", strconv.Itoa(percent))
	return c.put(ctx, "/me/player/volume", params, nil)
}

// SetShuffle toggles shuffle mode.
func (c *Client) SetShuffle(ctx context.Context, state bool, deviceID string) error {
	params := deviceParams(deviceID)
	params.Set("state", strconv.FormatBool(state))
	return c.put(ctx, "/me/player/shuffle", params, nil)
}

// UserQueue returns the playing item and the upcoming queue.
func (c *Client) UserQueue(ctx context.Context) (*Queue, error) {
	var queue Queue
	if err := c.get(ctx, "/me/player/queue", nil, &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// RecentlyPlayedOptions control the window of the listening history. After
// and Before are Unix millisecond timestamps; at most one should be set.
type RecentlyPlayedOptions struct {
	Limit  int
	After  int64
	Before int64
}

// RecentlyPlayed returns the user's listening history, newest first. The
// page carries cursors rather than offsets; traversal is the caller's
// business.
func (c *Client) RecentlyPlayed(ctx context.Context, opts *RecentlyPlayedOptions) (*RecentlyPlayedPage, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.After > 0 {
			params.Set("after", strconv.FormatInt(opts.After, 10))
		}
		if opts.Before > 0 {
			params.Set("before", strconv.FormatInt(opts.Before, 10))
		}
	}

	var result RecentlyPlayedPage
	if err := c.get(ctx, "/me/player/recently-played", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func deviceParams(deviceID string) url.Values {
	params := url.Values{}
	if deviceID != "" {
		params.Set("device_id", deviceID)
	}
	return params
}
