package worker

import (
	"context"
	"sync"
	"time"

	"github.com/cesargomez89/statify/internal/constants"
	"github.com/cesargomez89/statify/internal/domain"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/store"
)

// SyncRunner runs one sync for one user. app.SyncService is the production
// implementation.
type SyncRunner interface {
	Run(ctx context.Context, userID string, trigger domain.SyncTrigger) (*domain.SyncRun, error)
}

// Worker sweeps all logged-in users on a fixed interval, running their syncs
// with bounded concurrency.
type Worker struct {
	DB            *store.DB
	Settings      *store.SettingsRepo
	Sync          SyncRunner
	Interval      time.Duration
	MaxConcurrent int
	Logger        *logger.Logger
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

func NewWorker(db *store.DB, sync SyncRunner, interval time.Duration, log *logger.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	if interval <= 0 {
		interval = constants.DefaultSyncInterval
	}
	return &Worker{
		DB:            db,
		Settings:      store.NewSettingsRepo(db),
		Sync:          sync,
		Interval:      interval,
		MaxConcurrent: constants.DefaultConcurrency,
		Logger:        log.WithComponent("worker"),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (w *Worker) Start() {
	w.Logger.Info("Starting worker", "interval", w.Interval)

	// Runs interrupted by a crash or restart would block new syncs forever.
	if err := w.DB.ResetStuckRuns(); err != nil {
		w.Logger.Error("Failed to reset stuck runs", "error", err)
	}

	w.wg.Add(1)
	go w.loop()
}

func (w *Worker) Stop() {
	w.Logger.Info("Stopping worker")
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	// First sweep happens right away, not an interval later.
	w.sweep()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep syncs every user with a stored token, at most MaxConcurrent at once.
func (w *Worker) sweep() {
	userIDs, err := w.DB.ListTokenUserIDs()
	if err != nil {
		w.Logger.Error("Failed to list users", "error", err)
		return
	}
	if len(userIDs) == 0 {
		return
	}

	w.Logger.Info("Sweep started", "users", len(userIDs))

	sem := make(chan struct{}, w.MaxConcurrent)
	var sweepWG sync.WaitGroup
	for _, userID := range userIDs {
		select {
		case <-w.ctx.Done():
			sweepWG.Wait()
			return
		case sem <- struct{}{}:
		}
		sweepWG.Add(1)
		go func(userID string) {
			defer sweepWG.Done()
			defer func() { <-sem }()
			w.runUser(userID)
		}(userID)
	}
	sweepWG.Wait()

	if err := w.Settings.Set(store.SettingLastSyncAt, time.Now().Format(time.RFC3339)); err != nil {
		w.Logger.Error("Failed to record sweep time", "error", err)
	}
}

func (w *Worker) runUser(userID string) {
	defer func() {
		if r := recover(); r != nil {
			w.Logger.Error("Panic in sync", "user_id", userID, "panic", r)
		}
	}()

	run, err := w.Sync.Run(w.ctx, userID, domain.SyncTriggerScheduled)
	if err != nil {
		w.Logger.Error("Sync failed", "user_id", userID, "error", err)
		return
	}
	w.Logger.Info("Sync finished", "user_id", userID, "run_id", run.ID, "status", run.Status)
}
