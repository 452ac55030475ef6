package app

import (
	"fmt"
	"sort"

	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/store"
)

// StatsService derives aggregates from stored snapshots. All reads, no API
// calls.
type StatsService struct {
	DB *store.DB
}

func NewStatsService(db *store.DB) *StatsService {
	return &StatsService{DB: db}
}

// Genres tallies genre occurrences across the latest artist snapshot, most
// frequent first. Ties break alphabetically so output is stable.
func (s *StatsService) Genres(userID, timeRange string, limit int) ([]domain.GenreCount, error) {
	artists, err := s.DB.LatestArtistSnapshot(userID, timeRange)
	if err != nil {
		return nil, fmt.Errorf("failed to load artist snapshot: %w", err)
	}

	tally := make(map[string]int)
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			tally[genre]++
		}
	}

	counts := make([]domain.GenreCount, 0, len(tally))
	for genre, count := range tally {
		counts = append(counts, domain.GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Genre < counts[j].Genre
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// Trends compares artist ranks between the two most recent snapshots. A
// PrevRank of 0 marks a new entry; Delta is positive for climbers.
func (s *StatsService) Trends(userID, timeRange string) ([]domain.TrendEntry, error) {
	times, err := s.DB.ArtistSnapshotTimes(userID, timeRange, 2)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot times: %w", err)
	}
	if len(times) == 0 {
		return nil, nil
	}

	current, err := s.DB.ArtistSnapshotAt(userID, timeRange, times[0])
	if err != nil {
		return nil, fmt.Errorf("failed to load current snapshot: %w", err)
	}

	prevRanks := make(map[string]int)
	if len(times) > 1 {
		previous, err := s.DB.ArtistSnapshotAt(userID, timeRange, times[1])
		if err != nil {
			return nil, fmt.Errorf("failed to load previous snapshot: %w", err)
		}
		for _, artist := range previous {
			prevRanks[artist.ID] = artist.Rank
		}
	}

	entries := make([]domain.TrendEntry, 0, len(current))
	for _, artist := range current {
		entry := domain.TrendEntry{
			ArtistID: artist.ID,
			Name:     artist.Name,
			Rank:     artist.Rank,
		}
		if prev, ok := prevRanks[artist.ID]; ok {
			entry.PrevRank = prev
			entry.Delta = prev - artist.Rank
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Overview summarizes what the store holds right now.
func (s *StatsService) Overview() (*domain.Overview, error) {
	users, err := s.DB.CountUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	artists, err := s.DB.CountArtists()
	if err != nil {
		return nil, fmt.Errorf("failed to count artists: %w", err)
	}
	tracks, err := s.DB.CountTracks()
	if err != nil {
		return nil, fmt.Errorf("failed to count tracks: %w", err)
	}
	runs, err := s.DB.CountSyncRuns()
	if err != nil {
		return nil, fmt.Errorf("failed to count sync runs: %w", err)
	}
	lastSync, err := s.DB.LastCompletedSyncRun()
	if err != nil {
		return nil, fmt.Errorf("failed to load last sync: %w", err)
	}

	return &domain.Overview{
		Users:    users,
		Artists:  artists,
		Tracks:   tracks,
		Runs:     runs,
		LastSync: lastSync,
	}, nil
}
