package store

import (
	"database/sql"
	"time"
)

// SaveToken stores a user's oauth2 token as its JSON encoding. Saving
// overwrites any previous token for the user.
func (db *DB) SaveToken(userID string, token []byte) error {
	query := `INSERT INTO tokens (user_id, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`

	_, err := db.Exec(query, userID, string(token), time.Now())
	return err
}

// GetToken returns the stored token JSON, or nil when the user never logged
// in.
func (db *DB) GetToken(userID string) ([]byte, error) {
	var token string
	err := db.Get(&token, "SELECT token FROM tokens WHERE user_id = ?", userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(token), nil
}

func (db *DB) DeleteToken(userID string) error {
	_, err := db.Exec("DELETE FROM tokens WHERE user_id = ?", userID)
	return err
}

// ListTokenUserIDs returns the ids of every user with a stored token, the
// population the periodic sync covers.
func (db *DB) ListTokenUserIDs() ([]string, error) {
	var ids []string
	err := db.Select(&ids, "SELECT user_id FROM tokens ORDER BY user_id ASC")
	return ids, err
}
