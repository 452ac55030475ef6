package store

import (
	"database/sql"
	"time"

	"github.com/cesargomez89/statify/internal/domain"
)

func (db *DB) UpsertUser(user *domain.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `INSERT INTO users (id, display_name, country, product, image_url, followers, created_at, updated_at)
		VALUES (:id, :display_name, :country, :product, :image_url, :followers, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			country = excluded.country,
			product = excluded.product,
			image_url = excluded.image_url,
			followers = excluded.followers,
			updated_at = excluded.updated_at`

	_, err := db.NamedExec(query, user)
	return err
}

func (db *DB) GetUser(id string) (*domain.User, error) {
	query := `SELECT id, display_name, country, product, image_url, followers, created_at, updated_at
		FROM users WHERE id = ?`

	user := &domain.User{}
	err := db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (db *DB) ListUsers() ([]*domain.User, error) {
	query := `SELECT id, display_name, country, product, image_url, followers, created_at, updated_at
		FROM users ORDER BY created_at ASC`

	var users []*domain.User
	err := db.Select(&users, query)
	return users, err
}

func (db *DB) CountUsers() (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM users")
	return count, err
}
