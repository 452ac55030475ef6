package store

import (
	"database/sql"
	"time"

	"github.com/cesargomez89/statify/internal/domain"
)

func (db *DB) CreateSyncRun(run *domain.SyncRun) error {
	query := `INSERT INTO sync_runs (id, user_id, trigger_type, status, artist_count, track_count, created_at, updated_at)
		VALUES (:id, :user_id, :trigger_type, :status, :artist_count, :track_count, :created_at, :updated_at)`

	_, err := db.NamedExec(query, run)
	return err
}

func (db *DB) GetSyncRun(id string) (*domain.SyncRun, error) {
	query := `SELECT id, user_id, trigger_type, status, artist_count, track_count, error, created_at, updated_at, finished_at
		FROM sync_runs WHERE id = ?`

	run := &domain.SyncRun{}
	err := db.Get(run, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (db *DB) ListSyncRuns(limit int) ([]*domain.SyncRun, error) {
	query := `SELECT id, user_id, trigger_type, status, artist_count, track_count, error, created_at, updated_at, finished_at
		FROM sync_runs ORDER BY created_at DESC LIMIT ?`

	var runs []*domain.SyncRun
	err := db.Select(&runs, query, limit)
	return runs, err
}

// GetRunningSyncRun returns the user's in-flight run, or nil.
func (db *DB) GetRunningSyncRun(userID string) (*domain.SyncRun, error) {
	query := `SELECT id, user_id, trigger_type, status, artist_count, track_count, error, created_at, updated_at, finished_at
		FROM sync_runs WHERE user_id = ? AND status = 'running' LIMIT 1`

	run := &domain.SyncRun{}
	err := db.Get(run, query, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (db *DB) CompleteSyncRun(id string, artistCount, trackCount int) error {
	now := time.Now()
	query := `UPDATE sync_runs SET status = ?, artist_count = ?, track_count = ?, updated_at = ?, finished_at = ?
		WHERE id = ?`
	_, err := db.Exec(query, domain.SyncStatusCompleted, artistCount, trackCount, now, now, id)
	return err
}

func (db *DB) FailSyncRun(id string, errorMsg string) error {
	now := time.Now()
	query := `UPDATE sync_runs SET status = ?, error = ?, updated_at = ?, finished_at = ? WHERE id = ?`
	_, err := db.Exec(query, domain.SyncStatusFailed, errorMsg, now, now, id)
	return err
}

// ResetStuckRuns fails any run still marked running, for recovery after an
// unclean shutdown.
func (db *DB) ResetStuckRuns() error {
	now := time.Now()
	query := `UPDATE sync_runs SET status = ?, error = 'interrupted by restart', updated_at = ?, finished_at = ?
		WHERE status = 'running'`
	_, err := db.Exec(query, domain.SyncStatusFailed, now, now)
	return err
}

func (db *DB) CountSyncRuns() (int, error) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM sync_runs")
	return count, err
}

// LastCompletedSyncRun returns the most recently finished successful run, or
// nil when no sync ever completed.
func (db *DB) LastCompletedSyncRun() (*domain.SyncRun, error) {
	query := `SELECT id, user_id, trigger_type, status, artist_count, track_count, error, created_at, updated_at, finished_at
		FROM sync_runs WHERE status = 'completed' ORDER BY finished_at DESC LIMIT 1`

	run := &domain.SyncRun{}
	err := db.Get(run, query)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}
