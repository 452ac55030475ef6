package spotify

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeRange selects the lookback window for top-item requests.
type TimeRange string

const (
	TimeRangeShort  TimeRange = "short_term"
	TimeRangeMedium TimeRange = "medium_term"
	TimeRangeLong   TimeRange = "long_term"
)

// Valid reports whether r is a time range the API accepts.
func (r TimeRange) Valid() bool {
	switch r {
	case TimeRangeShort, TimeRangeMedium, TimeRangeLong:
		return true
	}
	return false
}

// TimeRanges returns every supported time range, shortest first.
func TimeRanges() []TimeRange {
	return []TimeRange{TimeRangeShort, TimeRangeMedium, TimeRangeLong}
}

// ItemKind selects which top-item collection an endpoint addresses.
type ItemKind string

const (
	ItemKindArtists ItemKind = "artists"
	ItemKindTracks  ItemKind = "tracks"
)

// Wire values of the per-item "type" discriminator.
const (
	itemTypeArtist = "artist"
	itemTypeTrack  = "track"
)

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Followers struct {
	Total int `json:"total"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type ExternalIDs struct {
	ISRC string `json:"isrc"`
}

// Artist is the full artist object returned by top-item and search endpoints.
type Artist struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Followers    Followers    `json:"followers"`
	Genres       []string     `json:"genres"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Images       []Image      `json:"images"`
	Name         string       `json:"name"`
	Popularity   int          `json:"popularity"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// SimpleArtist is the reduced artist object nested inside tracks and albums.
type SimpleArtist struct {
	ExternalURLs ExternalURLs `json:"external_urls"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

type Album struct {
	AlbumType    string         `json:"album_type"`
	TotalTracks  int            `json:"total_tracks"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
	Href         string         `json:"href"`
	ID           string         `json:"id"`
	Images       []Image        `json:"images"`
	Name         string         `json:"name"`
	ReleaseDate  string         `json:"release_date"`
	Type         string         `json:"type"`
	URI          string         `json:"uri"`
	Artists      []SimpleArtist `json:"artists"`
}

type Track struct {
	Album        Album          `json:"album"`
	Artists      []SimpleArtist `json:"artists"`
	DiscNumber   int            `json:"disc_number"`
	DurationMS   int            `json:"duration_ms"`
	Explicit     bool           `json:"explicit"`
	ExternalIDs  ExternalIDs    `json:"external_ids"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
	Href         string         `json:"href"`
	ID           string         `json:"id"`
	IsLocal      bool           `json:"is_local"`
	Name         string         `json:"name"`
	Popularity   int            `json:"popularity"`
	PreviewURL   string         `json:"preview_url"`
	TrackNumber  int            `json:"track_number"`
	Type         string         `json:"type"`
	URI          string         `json:"uri"`
}

// Device is one playback target attached to the user's account.
type Device struct {
	ID               string `json:"id"`
	IsActive         bool   `json:"is_active"`
	IsPrivateSession bool   `json:"is_private_session"`
	IsRestricted     bool   `json:"is_restricted"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	VolumePercent    int    `json:"volume_percent"`
}

type devicesResponse struct {
	Devices []Device `json:"devices"`
}

// User is the current user's private profile.
type User struct {
	Country      string       `json:"country"`
	DisplayName  string       `json:"display_name"`
	Email        string       `json:"email"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	Followers    Followers    `json:"followers"`
	Href         string       `json:"href"`
	ID           string       `json:"id"`
	Images       []Image      `json:"images"`
	Product      string       `json:"product"`
	Type         string       `json:"type"`
	URI          string       `json:"uri"`
}

// page carries the envelope fields shared by every offset-paged response.
// Next and Previous are null on the wire when there is no adjacent page,
// which decodes to the empty string.
type page struct {
	Href     string `json:"href"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Total    int    `json:"total"`
	Next     string `json:"next"`
	Previous string `json:"previous"`
}

type ArtistPage struct {
	page
	Items []Artist `json:"items"`
}

type TrackPage struct {
	page
	Items []Track `json:"items"`
}

// TopItemPage is a page whose items are decoded through the type
// discriminator, so artists and tracks can share one decode path.
type TopItemPage struct {
	page
	Items []TopItem `json:"items"`
}

// TopItem is a tagged union over the wire "type" field. Exactly one of
// Artist or Track is set.
type TopItem struct {
	Type   string
	Artist *Artist
	Track  *Track
}

// UnknownItemTypeError reports an item whose discriminator matched no known
// record shape. Items are never silently dropped.
type UnknownItemTypeError struct {
	Type string
}

func (e *UnknownItemTypeError) Error() string {
	if e.Type == "" {
		return "item is missing the type field"
	}
	return fmt.Sprintf("unrecognized item type %q", e.Type)
}

func (i *TopItem) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	switch probe.Type {
	case itemTypeArtist:
		var a Artist
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		i.Type = probe.Type
		i.Artist = &a
	case itemTypeTrack:
		var t Track
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		i.Type = probe.Type
		i.Track = &t
	default:
		return &UnknownItemTypeError{Type: probe.Type}
	}
	return nil
}

func (i TopItem) MarshalJSON() ([]byte, error) {
	switch {
	case i.Artist != nil:
		return json.Marshal(i.Artist)
	case i.Track != nil:
		return json.Marshal(i.Track)
	}
	return nil, &UnknownItemTypeError{Type: i.Type}
}

// PlayContext identifies what collection playback was started from.
type PlayContext struct {
	Type         string       `json:"type"`
	Href         string       `json:"href"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	URI          string       `json:"uri"`
}

// PlaybackState is the full player state. Item is null when nothing is
// loaded.
type PlaybackState struct {
	Device               Device       `json:"device"`
	RepeatState          string       `json:"repeat_state"`
	ShuffleState         bool         `json:"shuffle_state"`
	Context              *PlayContext `json:"context"`
	Timestamp            int64        `json:"timestamp"`
	ProgressMS           int          `json:"progress_ms"`
	IsPlaying            bool         `json:"is_playing"`
	Item                 *Track       `json:"item"`
	CurrentlyPlayingType string       `json:"currently_playing_type"`
}

type CurrentlyPlaying struct {
	Context              *PlayContext `json:"context"`
	Timestamp            int64        `json:"timestamp"`
	ProgressMS           int          `json:"progress_ms"`
	IsPlaying            bool         `json:"is_playing"`
	Item                 *Track       `json:"item"`
	CurrentlyPlayingType string       `json:"currently_playing_type"`
}

type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}

type PlayHistoryItem struct {
	Track    Track        `json:"track"`
	PlayedAt time.Time    `json:"played_at"`
	Context  *PlayContext `json:"context"`
}

type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// RecentlyPlayedPage is cursor-paged rather than offset-paged.
type RecentlyPlayedPage struct {
	Href    string            `json:"href"`
	Limit   int               `json:"limit"`
	Next    string            `json:"next"`
	Cursors Cursors           `json:"cursors"`
	Items   []PlayHistoryItem `json:"items"`
}

type PlaylistOwner struct {
	DisplayName string `json:"display_name"`
	ID          string `json:"id"`
	Type        string `json:"type"`
	URI         string `json:"uri"`
}

type PlaylistTracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

type SimplePlaylist struct {
	Collaborative bool              `json:"collaborative"`
	Description   string            `json:"description"`
	ExternalURLs  ExternalURLs      `json:"external_urls"`
	Href          string            `json:"href"`
	ID            string            `json:"id"`
	Images        []Image           `json:"images"`
	Name          string            `json:"name"`
	Owner         PlaylistOwner     `json:"owner"`
	Public        bool              `json:"public"`
	SnapshotID    string            `json:"snapshot_id"`
	Tracks        PlaylistTracksRef `json:"tracks"`
	Type          string            `json:"type"`
	URI           string            `json:"uri"`
}

type PlaylistPage struct {
	page
	Items []SimplePlaylist `json:"items"`
}

// SearchResult holds the typed sub-pages of a search; a sub-page is nil when
// its kind was not requested.
type SearchResult struct {
	Artists *ArtistPage `json:"artists"`
	Tracks  *TrackPage  `json:"tracks"`
}
