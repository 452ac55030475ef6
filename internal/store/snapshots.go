package store

import (
	"fmt"
	"time"

	"github.com/cesargomez89/statify/internal/domain"
)

// InsertArtistSnapshot records one ranked page of top artists. Ranks start
// at 1 in page order. The catalog rows must already exist.
func (db *DB) InsertArtistSnapshot(userID, runID, timeRange string, capturedAt time.Time, artistIDs []string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `INSERT INTO top_artists (user_id, artist_id, time_range, rank, captured_at, run_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	for i, artistID := range artistIDs {
		if _, err := tx.Exec(query, userID, artistID, timeRange, i+1, capturedAt, runID); err != nil {
			return fmt.Errorf("failed to insert artist snapshot row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// InsertTrackSnapshot records one ranked page of top tracks.
func (db *DB) InsertTrackSnapshot(userID, runID, timeRange string, capturedAt time.Time, trackIDs []string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `INSERT INTO top_tracks (user_id, track_id, time_range, rank, captured_at, run_id)
		VALUES (?, ?, ?, ?, ?, ?)`

	for i, trackID := range trackIDs {
		if _, err := tx.Exec(query, userID, trackID, timeRange, i+1, capturedAt, runID); err != nil {
			return fmt.Errorf("failed to insert track snapshot row %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

// ArtistSnapshotTimes returns the capture times of the most recent artist
// snapshots, newest first, at most n of them.
func (db *DB) ArtistSnapshotTimes(userID, timeRange string, n int) ([]time.Time, error) {
	query := `SELECT DISTINCT captured_at FROM top_artists
		WHERE user_id = ? AND time_range = ?
		ORDER BY captured_at DESC LIMIT ?`

	var times []time.Time
	err := db.Select(&times, query, userID, timeRange, n)
	return times, err
}

// ArtistSnapshotAt returns the ranked artists of one snapshot, best rank
// first.
func (db *DB) ArtistSnapshotAt(userID, timeRange string, capturedAt time.Time) ([]domain.RankedArtist, error) {
	query := `SELECT a.id, a.name, a.image_url, a.url, a.genres, a.popularity, a.followers, a.updated_at,
			t.rank, t.time_range, t.captured_at
		FROM top_artists t
		JOIN artists a ON a.id = t.artist_id
		WHERE t.user_id = ? AND t.time_range = ? AND t.captured_at = ?
		ORDER BY t.rank ASC`

	var artists []domain.RankedArtist
	err := db.Select(&artists, query, userID, timeRange, capturedAt)
	return artists, err
}

// LatestArtistSnapshot returns the most recent ranked artists for the user
// and time range, or an empty slice when nothing was synced yet.
func (db *DB) LatestArtistSnapshot(userID, timeRange string) ([]domain.RankedArtist, error) {
	times, err := db.ArtistSnapshotTimes(userID, timeRange, 1)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, nil
	}
	return db.ArtistSnapshotAt(userID, timeRange, times[0])
}

// TrackSnapshotTimes returns the capture times of the most recent track
// snapshots, newest first, at most n of them.
func (db *DB) TrackSnapshotTimes(userID, timeRange string, n int) ([]time.Time, error) {
	query := `SELECT DISTINCT captured_at FROM top_tracks
		WHERE user_id = ? AND time_range = ?
		ORDER BY captured_at DESC LIMIT ?`

	var times []time.Time
	err := db.Select(&times, query, userID, timeRange, n)
	return times, err
}

// TrackSnapshotAt returns the ranked tracks of one snapshot, best rank first.
func (db *DB) TrackSnapshotAt(userID, timeRange string, capturedAt time.Time) ([]domain.RankedTrack, error) {
	query := `SELECT tr.id, tr.title, tr.artist, tr.artists, tr.artist_ids, tr.album, tr.album_id,
			tr.image_url, tr.url, tr.isrc, tr.duration_ms, tr.popularity, tr.explicit, tr.updated_at,
			t.rank, t.time_range, t.captured_at
		FROM top_tracks t
		JOIN tracks tr ON tr.id = t.track_id
		WHERE t.user_id = ? AND t.time_range = ? AND t.captured_at = ?
		ORDER BY t.rank ASC`

	var tracks []domain.RankedTrack
	err := db.Select(&tracks, query, userID, timeRange, capturedAt)
	return tracks, err
}

// LatestTrackSnapshot returns the most recent ranked tracks for the user and
// time range.
func (db *DB) LatestTrackSnapshot(userID, timeRange string) ([]domain.RankedTrack, error) {
	times, err := db.TrackSnapshotTimes(userID, timeRange, 1)
	if err != nil {
		return nil, err
	}
	if len(times) == 0 {
		return nil, nil
	}
	return db.TrackSnapshotAt(userID, timeRange, times[0])
}
