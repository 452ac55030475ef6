package store

import (
	"database/sql"
	"time"

	"github.com/cesargomez89/statify/internal/domain"
)

func (db *DB) UpsertTrack(track *domain.Track) error {
	track.UpdatedAt = time.Now()

	query := `INSERT INTO tracks (
			id, title, artist, artists, artist_ids, album, album_id,
			image_url, url, isrc, duration_ms, popularity, explicit, updated_at
		) VALUES (
			:id, :title, :artist, :artists, :artist_ids, :album, :album_id,
			:image_url, :url, :isrc, :duration_ms, :popularity, :explicit, :updated_at
		)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			artists = excluded.artists,
			artist_ids = excluded.artist_ids,
			album = excluded.album,
			album_id = excluded.album_id,
			image_url = excluded.image_url,
			url = excluded.url,
			isrc = excluded.isrc,
			duration_ms = excluded.duration_ms,
			popularity = excluded.popularity,
			explicit = excluded.explicit,
			updated_at = excluded.updated_at`

	_, err := db.NamedExec(query, track)
	return err
}

func (db *DB) GetTrack(id string) (*domain.Track, error) {
	query := `SELECT id, title, artist, artists, artist_ids, album, album_id,
			image_url, url, isrc, duration_ms, popularity, explicit, updated_at
		FROM tracks WHERE id = ?`

	track := &domain.Track{}
	err := db.Get(track, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return track, nil
}

func (db *DB) CountTracks() (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM tracks")
	return count, err
}
