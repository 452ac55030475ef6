package domain

import (
	"testing"
)

func TestSyncStatus_Constants(t *testing.T) {
	tests := []struct {
		name     string
		status   SyncStatus
		expected string
	}{
		{"running", SyncStatusRunning, "running"},
		{"completed", SyncStatusCompleted, "completed"},
		{"failed", SyncStatusFailed, "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.status) != tt.expected {
				t.Errorf("SyncStatus %s = %q, want %q", tt.name, tt.status, tt.expected)
			}
		})
	}
}

func TestSyncTrigger_Constants(t *testing.T) {
	tests := []struct {
		name     string
		trigger  SyncTrigger
		expected string
	}{
		{"scheduled", SyncTriggerScheduled, "scheduled"},
		{"manual", SyncTriggerManual, "manual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.trigger) != tt.expected {
				t.Errorf("SyncTrigger %s = %q, want %q", tt.name, tt.trigger, tt.expected)
			}
		})
	}
}

func TestSyncRun_StatusAssignment(t *testing.T) {
	var run SyncRun

	validStatuses := []SyncStatus{
		SyncStatusRunning,
		SyncStatusCompleted,
		SyncStatusFailed,
	}

	for _, status := range validStatuses {
		run.Status = status
		if run.Status != status {
			t.Errorf("Status assignment failed: got %s, want %s", run.Status, status)
		}
	}
}

func TestArtist_Normalize(t *testing.T) {
	a := &Artist{
		Genres: StringSlice{"Indie Rock", "SHOEGAZE"},
	}
	a.Normalize()
	if a.Genres[0] != "indie rock" {
		t.Errorf("Normalize() changed Genres[0] to %q, want %q", a.Genres[0], "indie rock")
	}
	if a.Genres[1] != "shoegaze" {
		t.Errorf("Normalize() changed Genres[1] to %q, want %q", a.Genres[1], "shoegaze")
	}
}

func TestRankedArtist_Fields(t *testing.T) {
	ra := RankedArtist{
		Artist: Artist{ID: "artist_1", Name: "Artist One"},
		Rank:   3,
	}

	if ra.ID != "artist_1" {
		t.Errorf("ID = %s, want artist_1", ra.ID)
	}
	if ra.Name != "Artist One" {
		t.Errorf("Name = %s, want Artist One", ra.Name)
	}
	if ra.Rank != 3 {
		t.Errorf("Rank = %d, want 3", ra.Rank)
	}
}

func TestTrendEntry_Delta(t *testing.T) {
	tests := []struct {
		name  string
		entry TrendEntry
		want  int
	}{
		{"climbed", TrendEntry{Rank: 2, PrevRank: 5, Delta: 3}, 3},
		{"dropped", TrendEntry{Rank: 8, PrevRank: 4, Delta: -4}, -4},
		{"new entry", TrendEntry{Rank: 1, PrevRank: 0, Delta: 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.entry.Delta != tt.want {
				t.Errorf("Delta = %d, want %d", tt.entry.Delta, tt.want)
			}
		})
	}
}
