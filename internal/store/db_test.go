package store

import (
	"os"
	"testing"
	"time"

	"github.com/cesargomez89/statify/internal/domain"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	tmpFile := "test.db"
	db, err := NewSQLiteDB(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	cleanup := func() {
		if cErr := db.Close(); cErr != nil {
			t.Logf("db.Close error: %v", cErr)
		}
		if rErr := os.Remove(tmpFile); rErr != nil {
			t.Logf("os.Remove error: %v", rErr)
		}
	}
	return db, cleanup
}

func TestDB_Users(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := &domain.User{
		ID:          "user_123",
		DisplayName: "Test User",
		Country:     "DE",
		Product:     "premium",
		Followers:   42,
	}

	if err := db.UpsertUser(user); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}

	fetched, err := db.GetUser("user_123")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected user, got nil")
	}
	if fetched.DisplayName != "Test User" {
		t.Errorf("Expected display name 'Test User', got %s", fetched.DisplayName)
	}

	// Upsert updates in place
	user.DisplayName = "Renamed User"
	user.Followers = 43
	if err := db.UpsertUser(user); err != nil {
		t.Fatalf("UpsertUser (update) failed: %v", err)
	}

	fetched, _ = db.GetUser("user_123")
	if fetched.DisplayName != "Renamed User" {
		t.Errorf("Expected display name 'Renamed User', got %s", fetched.DisplayName)
	}
	if fetched.Followers != 43 {
		t.Errorf("Expected 43 followers, got %d", fetched.Followers)
	}

	count, err := db.CountUsers()
	if err != nil {
		t.Errorf("CountUsers failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	// Unknown user returns nil, nil
	missing, err := db.GetUser("nonexistent")
	if err != nil {
		t.Errorf("GetUser failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown user")
	}
}

func TestDB_Tokens(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.SaveToken("user_123", []byte(`{"access_token":"abc"}`)); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	token, err := db.GetToken("user_123")
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if string(token) != `{"access_token":"abc"}` {
		t.Errorf("Unexpected token payload: %s", token)
	}

	// Saving again overwrites
	if err := db.SaveToken("user_123", []byte(`{"access_token":"def"}`)); err != nil {
		t.Fatalf("SaveToken (update) failed: %v", err)
	}
	token, _ = db.GetToken("user_123")
	if string(token) != `{"access_token":"def"}` {
		t.Errorf("Expected overwritten token, got %s", token)
	}

	ids, err := db.ListTokenUserIDs()
	if err != nil {
		t.Errorf("ListTokenUserIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "user_123" {
		t.Errorf("Expected [user_123], got %v", ids)
	}

	// Missing token returns nil, nil
	missing, err := db.GetToken("nonexistent")
	if err != nil {
		t.Errorf("GetToken failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown user token")
	}

	if err := db.DeleteToken("user_123"); err != nil {
		t.Errorf("DeleteToken failed: %v", err)
	}
	token, _ = db.GetToken("user_123")
	if token != nil {
		t.Error("Expected nil after delete")
	}
}

func TestDB_Artists(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	artist := &domain.Artist{
		ID:         "artist_1",
		Name:       "Test Artist",
		Genres:     domain.StringSlice{"Indie Rock", "Shoegaze"},
		Popularity: 61,
		Followers:  1000,
	}

	if err := db.UpsertArtist(artist); err != nil {
		t.Fatalf("UpsertArtist failed: %v", err)
	}

	fetched, err := db.GetArtist("artist_1")
	if err != nil {
		t.Fatalf("GetArtist failed: %v", err)
	}
	if fetched.Name != "Test Artist" {
		t.Errorf("Expected name 'Test Artist', got %s", fetched.Name)
	}
	// Normalize lowercases genres on write
	if len(fetched.Genres) != 2 || fetched.Genres[0] != "indie rock" {
		t.Errorf("Expected normalized genres, got %v", fetched.Genres)
	}

	artist.Popularity = 70
	if err := db.UpsertArtist(artist); err != nil {
		t.Fatalf("UpsertArtist (update) failed: %v", err)
	}
	fetched, _ = db.GetArtist("artist_1")
	if fetched.Popularity != 70 {
		t.Errorf("Expected popularity 70, got %d", fetched.Popularity)
	}

	count, _ := db.CountArtists()
	if count != 1 {
		t.Errorf("Expected 1 artist, got %d", count)
	}
}

func TestDB_Tracks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	track := &domain.Track{
		ID:         "track_1",
		Title:      "Test Track",
		Artist:     "Test Artist",
		Artists:    domain.StringSlice{"Test Artist", "Featured Artist"},
		ArtistIDs:  domain.StringSlice{"artist_1", "artist_2"},
		Album:      "Test Album",
		AlbumID:    "album_1",
		ISRC:       "USABC1234567",
		DurationMS: 180000,
		Popularity: 55,
		Explicit:   true,
	}

	if err := db.UpsertTrack(track); err != nil {
		t.Fatalf("UpsertTrack failed: %v", err)
	}

	fetched, err := db.GetTrack("track_1")
	if err != nil {
		t.Fatalf("GetTrack failed: %v", err)
	}
	if fetched.Title != "Test Track" {
		t.Errorf("Expected title 'Test Track', got %s", fetched.Title)
	}
	if len(fetched.Artists) != 2 {
		t.Errorf("Expected 2 artists, got %d", len(fetched.Artists))
	}
	if !fetched.Explicit {
		t.Error("Expected explicit flag to survive the round trip")
	}

	missing, err := db.GetTrack("nonexistent")
	if err != nil {
		t.Errorf("GetTrack failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown track")
	}
}

func TestDB_Snapshots(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, a := range []*domain.Artist{
		{ID: "artist_1", Name: "First"},
		{ID: "artist_2", Name: "Second"},
		{ID: "artist_3", Name: "Third"},
	} {
		if err := db.UpsertArtist(a); err != nil {
			t.Fatalf("UpsertArtist failed: %v", err)
		}
	}

	older := time.Now().Add(-time.Hour).Truncate(time.Second)
	newer := time.Now().Truncate(time.Second)

	err := db.InsertArtistSnapshot("user_1", "run_1", "medium_term", older, []string{"artist_2", "artist_1"})
	if err != nil {
		t.Fatalf("InsertArtistSnapshot failed: %v", err)
	}
	err = db.InsertArtistSnapshot("user_1", "run_2", "medium_term", newer, []string{"artist_1", "artist_3"})
	if err != nil {
		t.Fatalf("InsertArtistSnapshot failed: %v", err)
	}

	// Latest snapshot reflects the newer capture
	latest, err := db.LatestArtistSnapshot("user_1", "medium_term")
	if err != nil {
		t.Fatalf("LatestArtistSnapshot failed: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("Expected 2 ranked artists, got %d", len(latest))
	}
	if latest[0].ID != "artist_1" || latest[0].Rank != 1 {
		t.Errorf("Expected artist_1 at rank 1, got %s at rank %d", latest[0].ID, latest[0].Rank)
	}
	if latest[1].ID != "artist_3" || latest[1].Rank != 2 {
		t.Errorf("Expected artist_3 at rank 2, got %s at rank %d", latest[1].ID, latest[1].Rank)
	}

	// The two most recent capture times come back newest first
	times, err := db.ArtistSnapshotTimes("user_1", "medium_term", 2)
	if err != nil {
		t.Fatalf("ArtistSnapshotTimes failed: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("Expected 2 snapshot times, got %d", len(times))
	}
	if !times[0].After(times[1]) {
		t.Errorf("Expected newest first, got %v then %v", times[0], times[1])
	}

	// The older snapshot is still addressable
	prev, err := db.ArtistSnapshotAt("user_1", "medium_term", times[1])
	if err != nil {
		t.Fatalf("ArtistSnapshotAt failed: %v", err)
	}
	if len(prev) != 2 || prev[0].ID != "artist_2" {
		t.Errorf("Expected artist_2 at rank 1 in older snapshot, got %v", prev)
	}

	// Other time ranges stay empty
	empty, err := db.LatestArtistSnapshot("user_1", "short_term")
	if err != nil {
		t.Fatalf("LatestArtistSnapshot failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no short_term snapshot, got %d rows", len(empty))
	}
}

func TestDB_TrackSnapshots(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	for _, tr := range []*domain.Track{
		{ID: "track_1", Title: "One"},
		{ID: "track_2", Title: "Two"},
	} {
		if err := db.UpsertTrack(tr); err != nil {
			t.Fatalf("UpsertTrack failed: %v", err)
		}
	}

	capturedAt := time.Now().Truncate(time.Second)
	err := db.InsertTrackSnapshot("user_1", "run_1", "short_term", capturedAt, []string{"track_2", "track_1"})
	if err != nil {
		t.Fatalf("InsertTrackSnapshot failed: %v", err)
	}

	latest, err := db.LatestTrackSnapshot("user_1", "short_term")
	if err != nil {
		t.Fatalf("LatestTrackSnapshot failed: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("Expected 2 ranked tracks, got %d", len(latest))
	}
	if latest[0].ID != "track_2" || latest[0].Rank != 1 {
		t.Errorf("Expected track_2 at rank 1, got %s at rank %d", latest[0].ID, latest[0].Rank)
	}
}

func TestDB_SyncRuns(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	run := &domain.SyncRun{
		ID:        "run_1",
		UserID:    "user_1",
		Trigger:   domain.SyncTriggerManual,
		Status:    domain.SyncStatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.CreateSyncRun(run); err != nil {
		t.Fatalf("CreateSyncRun failed: %v", err)
	}

	active, err := db.GetRunningSyncRun("user_1")
	if err != nil {
		t.Fatalf("GetRunningSyncRun failed: %v", err)
	}
	if active == nil || active.ID != "run_1" {
		t.Errorf("Expected run_1 to be running, got %v", active)
	}

	// The partial unique index rejects a second concurrent run
	dup := &domain.SyncRun{
		ID:        "run_dup",
		UserID:    "user_1",
		Trigger:   domain.SyncTriggerScheduled,
		Status:    domain.SyncStatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.CreateSyncRun(dup); err == nil {
		t.Error("Expected second running run for the same user to fail")
	}

	if err := db.CompleteSyncRun("run_1", 50, 50); err != nil {
		t.Fatalf("CompleteSyncRun failed: %v", err)
	}

	fetched, err := db.GetSyncRun("run_1")
	if err != nil {
		t.Fatalf("GetSyncRun failed: %v", err)
	}
	if fetched.Status != domain.SyncStatusCompleted {
		t.Errorf("Expected status %s, got %s", domain.SyncStatusCompleted, fetched.Status)
	}
	if fetched.ArtistCount != 50 || fetched.TrackCount != 50 {
		t.Errorf("Expected counts 50/50, got %d/%d", fetched.ArtistCount, fetched.TrackCount)
	}
	if fetched.FinishedAt == nil {
		t.Error("Expected FinishedAt to be set")
	}

	last, err := db.LastCompletedSyncRun()
	if err != nil {
		t.Fatalf("LastCompletedSyncRun failed: %v", err)
	}
	if last == nil || last.ID != "run_1" {
		t.Errorf("Expected run_1 as last completed, got %v", last)
	}

	// Failing a run records the error
	failing := &domain.SyncRun{
		ID:        "run_2",
		UserID:    "user_2",
		Trigger:   domain.SyncTriggerScheduled,
		Status:    domain.SyncStatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.CreateSyncRun(failing); err != nil {
		t.Fatalf("CreateSyncRun failed: %v", err)
	}
	if err := db.FailSyncRun("run_2", "token expired"); err != nil {
		t.Fatalf("FailSyncRun failed: %v", err)
	}
	fetched, _ = db.GetSyncRun("run_2")
	if fetched.Status != domain.SyncStatusFailed {
		t.Errorf("Expected status %s, got %s", domain.SyncStatusFailed, fetched.Status)
	}
	if fetched.Error == nil || *fetched.Error != "token expired" {
		t.Errorf("Expected error 'token expired', got %v", fetched.Error)
	}

	runs, err := db.ListSyncRuns(10)
	if err != nil {
		t.Fatalf("ListSyncRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("Expected 2 runs, got %d", len(runs))
	}

	count, _ := db.CountSyncRuns()
	if count != 2 {
		t.Errorf("Expected 2 runs counted, got %d", count)
	}
}

func TestDB_ResetStuckRuns(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	run := &domain.SyncRun{
		ID:        "stuck_run",
		UserID:    "user_1",
		Trigger:   domain.SyncTriggerScheduled,
		Status:    domain.SyncStatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.CreateSyncRun(run); err != nil {
		t.Fatalf("CreateSyncRun failed: %v", err)
	}

	if err := db.ResetStuckRuns(); err != nil {
		t.Fatalf("ResetStuckRuns failed: %v", err)
	}

	fetched, _ := db.GetSyncRun("stuck_run")
	if fetched.Status != domain.SyncStatusFailed {
		t.Errorf("Expected stuck run to be failed, got %s", fetched.Status)
	}

	active, _ := db.GetRunningSyncRun("user_1")
	if active != nil {
		t.Error("Expected no running run after reset")
	}
}

func TestDB_Cache(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if err := db.SetCache("key1", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}

	data, err := db.GetCache("key1")
	if err != nil {
		t.Fatalf("GetCache failed: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Expected 'payload', got %s", data)
	}

	// Expired entries read as a miss
	if err := db.SetCache("key2", []byte("stale"), -time.Minute); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}
	data, err = db.GetCache("key2")
	if err != nil {
		t.Fatalf("GetCache failed: %v", err)
	}
	if data != nil {
		t.Errorf("Expected expired entry to be nil, got %s", data)
	}

	// Missing key is nil, nil
	data, err = db.GetCache("nonexistent")
	if err != nil {
		t.Fatalf("GetCache failed: %v", err)
	}
	if data != nil {
		t.Error("Expected nil for missing key")
	}

	if err := db.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	data, _ = db.GetCache("key1")
	if data != nil {
		t.Error("Expected cache to be empty after clear")
	}
}

func TestDB_Settings(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewSettingsRepo(db)

	value, err := repo.Get(SettingActiveUser)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for unset key, got %s", value)
	}

	if err := repo.Set(SettingActiveUser, "user_1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, _ = repo.Get(SettingActiveUser)
	if value != "user_1" {
		t.Errorf("Expected 'user_1', got %s", value)
	}

	if err := repo.Set(SettingActiveUser, "user_2"); err != nil {
		t.Fatalf("Set (update) failed: %v", err)
	}
	value, _ = repo.Get(SettingActiveUser)
	if value != "user_2" {
		t.Errorf("Expected 'user_2', got %s", value)
	}

	if err := repo.Delete(SettingActiveUser); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	value, _ = repo.Get(SettingActiveUser)
	if value != "" {
		t.Errorf("Expected empty value after delete, got %s", value)
	}
}
