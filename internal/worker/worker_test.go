package worker

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/store"
)

func setupTestDB(t *testing.T) (*store.DB, func()) {
	tmpFile := "test_worker.db"
	db, err := store.NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		db.Close()
		os.Remove(tmpFile)
	}
	return db, cleanup
}

// mockRunner counts sync runs per user.
type mockRunner struct {
	mu    sync.Mutex
	calls map[string]int
}

func newMockRunner() *mockRunner {
	return &mockRunner{calls: make(map[string]int)}
}

func (m *mockRunner) Run(ctx context.Context, userID string, trigger domain.SyncTrigger) (*domain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[userID]++
	return &domain.SyncRun{ID: "run_" + userID, UserID: userID, Status: domain.SyncStatusCompleted}, nil
}

func (m *mockRunner) count(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[userID]
}

func TestWorker_SweepsUsersWithTokens(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, userID := range []string{"user_1", "user_2"} {
		if err := db.SaveToken(userID, []byte(`{}`)); err != nil {
			t.Fatalf("SaveToken failed: %v", err)
		}
	}
	// A user without a token is never swept
	if err := db.UpsertUser(&domain.User{ID: "user_3", DisplayName: "No Token"}); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	runner := newMockRunner()
	w := NewWorker(db, runner, time.Hour, logger.Default())
	w.Start()

	// The first sweep runs immediately
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runner.count("user_1") >= 1 && runner.count("user_2") >= 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	w.Stop()

	if runner.count("user_1") < 1 {
		t.Error("Expected user_1 to be synced")
	}
	if runner.count("user_2") < 1 {
		t.Error("Expected user_2 to be synced")
	}
	if runner.count("user_3") != 0 {
		t.Error("Expected user_3 (no token) to be skipped")
	}

	// The sweep recorded its completion time
	settings := store.NewSettingsRepo(db)
	lastSync, err := settings.Get(store.SettingLastSyncAt)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if lastSync == "" {
		t.Error("Expected last_sync_at to be recorded")
	}
	if _, err := time.Parse(time.RFC3339, lastSync); err != nil {
		t.Errorf("Expected RFC 3339 timestamp, got %s", lastSync)
	}
}

func TestWorker_ResetsStuckRunsOnStart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	stuck := &domain.SyncRun{
		ID:        "stuck",
		UserID:    "user_1",
		Trigger:   domain.SyncTriggerScheduled,
		Status:    domain.SyncStatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.CreateSyncRun(stuck); err != nil {
		t.Fatalf("CreateSyncRun failed: %v", err)
	}

	w := NewWorker(db, newMockRunner(), time.Hour, logger.Default())
	w.Start()
	w.Stop()

	run, err := db.GetSyncRun("stuck")
	if err != nil {
		t.Fatalf("GetSyncRun failed: %v", err)
	}
	if run.Status != domain.SyncStatusFailed {
		t.Errorf("Expected stuck run to be failed, got %s", run.Status)
	}
}

func TestWorker_PanicRecovery(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.SaveToken("user_1", []byte(`{}`)); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	w := NewWorker(db, panickyRunner{}, time.Hour, logger.Default())
	w.Start()
	time.Sleep(100 * time.Millisecond)
	// Stop must not hang or crash despite the panicking run
	w.Stop()
}

type panickyRunner struct{}

func (panickyRunner) Run(ctx context.Context, userID string, trigger domain.SyncTrigger) (*domain.SyncRun, error) {
	panic("boom")
}
