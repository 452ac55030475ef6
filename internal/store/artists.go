package store

import (
	"database/sql"
	"time"

	"github.com/cesargomez89/statify/internal/domain"
)

func (db *DB) UpsertArtist(artist *domain.Artist) error {
	artist.Normalize()
	artist.UpdatedAt = time.Now()

	query := `INSERT INTO artists (id, name, image_url, url, genres, popularity, followers, updated_at)
		VALUES (:id, :name, :image_url, :url, :genres, :popularity, :followers, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			image_url = excluded.image_url,
			url = excluded.url,
			genres = excluded.genres,
			popularity = excluded.popularity,
			followers = excluded.followers,
			updated_at = excluded.updated_at`

	_, err := db.NamedExec(query, artist)
	return err
}

func (db *DB) GetArtist(id string) (*domain.Artist, error) {
	query := `SELECT id, name, image_url, url, genres, popularity, followers, updated_at
		FROM artists WHERE id = ?`

	artist := &domain.Artist{}
	err := db.Get(artist, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return artist, nil
}

func (db *DB) CountArtists() (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM artists")
	return count, err
}
