// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort         = "8080"
	DefaultDBPath       = "statify.db"
	DefaultRedirectURI  = "http://127.0.0.1:8080/auth/callback"
	DefaultSyncInterval = 1 * time.Hour
	DefaultConcurrency  = 2
	DefaultHTTPTimeout  = 30 * time.Second
	ArtworkHTTPTimeout  = 30 * time.Second
	DefaultRetryCount   = 3
	DefaultRetryBase    = 1 * time.Second
	DefaultUsername     = "statify"
	DefaultCacheTTL     = 15 * time.Minute
	WorkerPollInterval  = 30 * time.Second
)

// Spotify endpoints
const (
	APIBaseURL       = "https://api.spotify.com/v1"
	AccountsAuthURL  = "https://accounts.spotify.com/authorize"
	AccountsTokenURL = "https://accounts.spotify.com/api/token"
)

// Spotify enforces per-app rate limits over a rolling 30s window; spacing
// requests out keeps a full sync under it.
const MinRequestInterval = 200 * time.Millisecond

// Top item limits
const (
	DefaultTopLimit  = 20
	MaxTopLimit      = 50
	MaxRecentLimit   = 50
	MaxSearchResults = 50
)

// Database tables
const (
	UsersTable      = "users"
	TokensTable     = "tokens"
	ArtistsTable    = "artists"
	TracksTable     = "tracks"
	TopArtistsTable = "top_artists"
	TopTracksTable  = "top_tracks"
	SyncRunsTable   = "sync_runs"
	CacheTable      = "cache"
	SettingsTable   = "settings"
)

// MIME Types
const (
	MimeTypeJSON = "application/json"
	MimeTypeForm = "application/x-www-form-urlencoded"
	MimeTypeJPEG = "image/jpeg"
)

// UI/UX
const (
	MaxHistoryItems = 20
)
