package domain

import (
	"strings"
	"time"
)

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusFailed    SyncStatus = "failed"
)

type SyncTrigger string

const (
	SyncTriggerScheduled SyncTrigger = "scheduled"
	SyncTriggerManual    SyncTrigger = "manual"
)

// SyncRun represents one pass of pulling a user's listening data
type SyncRun struct {
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty" db:"finished_at"`
	Error       *string     `json:"error,omitempty" db:"error"`
	ID          string      `json:"id" db:"id"`
	UserID      string      `json:"user_id" db:"user_id"`
	Trigger     SyncTrigger `json:"trigger" db:"trigger_type"`
	Status      SyncStatus  `json:"status" db:"status"`
	ArtistCount int         `json:"artist_count" db:"artist_count"`
	TrackCount  int         `json:"track_count" db:"track_count"`
}

// User is the account whose listening data is tracked
type User struct {
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	ID          string    `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Country     string    `json:"country,omitempty" db:"country"`
	Product     string    `json:"product,omitempty" db:"product"`
	ImageURL    string    `json:"image_url,omitempty" db:"image_url"`
	Followers   int       `json:"followers" db:"followers"`
}

// Artist is the stored catalog row for an artist seen in any snapshot
type Artist struct {
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
	ID         string      `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	ImageURL   string      `json:"image_url,omitempty" db:"image_url"`
	URL        string      `json:"url,omitempty" db:"url"`
	Genres     StringSlice `json:"genres" db:"genres"`
	Popularity int         `json:"popularity" db:"popularity"`
	Followers  int         `json:"followers" db:"followers"`
}

// Normalize ensures the artist data is consistent.
func (a *Artist) Normalize() {
	for i, g := range a.Genres {
		a.Genres[i] = strings.ToLower(g)
	}
}

// Track is the stored catalog row for a track seen in any snapshot
type Track struct {
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
	ID         string      `json:"id" db:"id"`
	Title      string      `json:"title" db:"title"`
	Artist     string      `json:"artist" db:"artist"`
	Artists    StringSlice `json:"artists" db:"artists"`
	ArtistIDs  StringSlice `json:"artist_ids,omitempty" db:"artist_ids"`
	Album      string      `json:"album" db:"album"`
	AlbumID    string      `json:"album_id,omitempty" db:"album_id"`
	ImageURL   string      `json:"image_url,omitempty" db:"image_url"`
	URL        string      `json:"url,omitempty" db:"url"`
	ISRC       string      `json:"isrc,omitempty" db:"isrc"`
	DurationMS int         `json:"duration_ms" db:"duration_ms"`
	Popularity int         `json:"popularity" db:"popularity"`
	Explicit   bool        `json:"explicit" db:"explicit"`
}

// RankedArtist is an artist joined with its position in one snapshot
type RankedArtist struct {
	Artist
	Rank       int       `json:"rank" db:"rank"`
	TimeRange  string    `json:"time_range" db:"time_range"`
	CapturedAt time.Time `json:"captured_at" db:"captured_at"`
}

// RankedTrack is a track joined with its position in one snapshot
type RankedTrack struct {
	Track
	Rank       int       `json:"rank" db:"rank"`
	TimeRange  string    `json:"time_range" db:"time_range"`
	CapturedAt time.Time `json:"captured_at" db:"captured_at"`
}

// GenreCount is one genre's weight across a snapshot
type GenreCount struct {
	Genre string `json:"genre" db:"genre"`
	Count int    `json:"count" db:"count"`
}

// TrendEntry compares an artist's rank between the two most recent snapshots.
// PrevRank 0 means the artist was not present in the previous snapshot.
type TrendEntry struct {
	ArtistID string `json:"artist_id"`
	Name     string `json:"name"`
	Rank     int    `json:"rank"`
	PrevRank int    `json:"prev_rank"`
	Delta    int    `json:"delta"`
}

// Overview summarizes what the store currently holds
type Overview struct {
	LastSync *SyncRun `json:"last_sync,omitempty"`
	Users    int      `json:"users"`
	Artists  int      `json:"artists"`
	Tracks   int      `json:"tracks"`
	Runs     int      `json:"runs"`
}
