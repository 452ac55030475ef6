package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cesargomez89/statify/internal/constants"
	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/spotify"
	"github.com/cesargomez89/statify/internal/store"
)

// ClientProvider builds an authorized client for a user. SessionManager is
// the production implementation.
type ClientProvider interface {
	APIClientFor(ctx context.Context, userID string) (*spotify.Client, error)
}

// syncClient is the slice of the API surface one run needs.
type syncClient interface {
	TopArtists(ctx context.Context, opts *spotify.TopOptions) (*spotify.ArtistPage, error)
	TopTracks(ctx context.Context, opts *spotify.TopOptions) (*spotify.TrackPage, error)
}

// SyncService captures ranked snapshots of a user's top artists and tracks,
// one per time range, under a uuid-keyed run record.
type SyncService struct {
	DB       *store.DB
	Provider ClientProvider
	Logger   *logger.Logger

	// newClient lets tests substitute the API client; nil uses Provider.
	newClient func(ctx context.Context, userID string) (syncClient, error)
}

func NewSyncService(db *store.DB, provider ClientProvider, log *logger.Logger) *SyncService {
	return &SyncService{DB: db, Provider: provider, Logger: log}
}

func (s *SyncService) clientFor(ctx context.Context, userID string) (syncClient, error) {
	if s.newClient != nil {
		return s.newClient(ctx, userID)
	}
	return s.Provider.APIClientFor(ctx, userID)
}

// Run performs one full sync for the user. If a run is already in flight the
// existing run is returned instead of starting another.
func (s *SyncService) Run(ctx context.Context, userID string, trigger domain.SyncTrigger) (*domain.SyncRun, error) {
	existing, err := s.DB.GetRunningSyncRun(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for running sync: %w", err)
	}
	if existing != nil {
		s.Logger.Info("Sync already running", "run_id", existing.ID, "user_id", userID)
		return existing, nil
	}

	run := &domain.SyncRun{
		ID:        uuid.New().String(),
		UserID:    userID,
		Trigger:   trigger,
		Status:    domain.SyncStatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.DB.CreateSyncRun(run); err != nil {
		return nil, fmt.Errorf("failed to create sync run: %w", err)
	}

	log := s.Logger.WithRun(run.ID).WithUser(userID)
	log.Info("Sync started", "trigger", trigger)

	client, err := s.clientFor(ctx, userID)
	if err != nil {
		return s.fail(run, fmt.Errorf("failed to build client: %w", err))
	}

	capturedAt := time.Now().Truncate(time.Second)
	var artistCount, trackCount int

	for _, timeRange := range spotify.TimeRanges() {
		opts := &spotify.TopOptions{TimeRange: timeRange, Limit: constants.MaxTopLimit}

		artists, err := client.TopArtists(ctx, opts)
		if err != nil {
			return s.fail(run, fmt.Errorf("failed to fetch top artists (%s): %w", timeRange, err))
		}
		if err := s.snapshotArtists(userID, run.ID, timeRange, capturedAt, artists.Items); err != nil {
			return s.fail(run, err)
		}
		artistCount += len(artists.Items)

		tracks, err := client.TopTracks(ctx, opts)
		if err != nil {
			return s.fail(run, fmt.Errorf("failed to fetch top tracks (%s): %w", timeRange, err))
		}
		if err := s.snapshotTracks(userID, run.ID, timeRange, capturedAt, tracks.Items); err != nil {
			return s.fail(run, err)
		}
		trackCount += len(tracks.Items)
	}

	if err := s.DB.CompleteSyncRun(run.ID, artistCount, trackCount); err != nil {
		return nil, fmt.Errorf("failed to complete sync run: %w", err)
	}
	log.Info("Sync completed", "artists", artistCount, "tracks", trackCount)

	return s.DB.GetSyncRun(run.ID)
}

func (s *SyncService) snapshotArtists(userID, runID string, timeRange spotify.TimeRange, capturedAt time.Time, artists []spotify.Artist) error {
	ids := make([]string, 0, len(artists))
	for _, a := range artists {
		artist := a.ToDomain()
		if err := s.DB.UpsertArtist(&artist); err != nil {
			return fmt.Errorf("failed to upsert artist %s: %w", artist.ID, err)
		}
		ids = append(ids, artist.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.DB.InsertArtistSnapshot(userID, runID, string(timeRange), capturedAt, ids); err != nil {
		return fmt.Errorf("failed to snapshot artists (%s): %w", timeRange, err)
	}
	return nil
}

func (s *SyncService) snapshotTracks(userID, runID string, timeRange spotify.TimeRange, capturedAt time.Time, tracks []spotify.Track) error {
	ids := make([]string, 0, len(tracks))
	for _, t := range tracks {
		track := t.ToDomain()
		if err := s.DB.UpsertTrack(&track); err != nil {
			return fmt.Errorf("failed to upsert track %s: %w", track.ID, err)
		}
		ids = append(ids, track.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.DB.InsertTrackSnapshot(userID, runID, string(timeRange), capturedAt, ids); err != nil {
		return fmt.Errorf("failed to snapshot tracks (%s): %w", timeRange, err)
	}
	return nil
}

// fail marks the run failed and returns the original error alongside the
// updated run.
func (s *SyncService) fail(run *domain.SyncRun, cause error) (*domain.SyncRun, error) {
	s.Logger.WithRun(run.ID).Error("Sync failed", "error", cause)
	if err := s.DB.FailSyncRun(run.ID, cause.Error()); err != nil {
		s.Logger.WithRun(run.ID).Error("Failed to mark sync run failed", "error", err)
	}
	updated, err := s.DB.GetSyncRun(run.ID)
	if err != nil || updated == nil {
		updated = run
	}
	return updated, cause
}

// GetRun returns one run by id, or nil when unknown.
func (s *SyncService) GetRun(id string) (*domain.SyncRun, error) {
	return s.DB.GetSyncRun(id)
}

// ListRuns returns the most recent runs, newest first.
func (s *SyncService) ListRuns(limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		limit = constants.MaxHistoryItems
	}
	return s.DB.ListSyncRuns(limit)
}
