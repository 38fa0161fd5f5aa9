package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const rebuildTimeout = 2 * time.Minute

// LeaderboardRebuilder reloads the leaderboard from durable progress.
// services.ProgressService satisfies it.
type LeaderboardRebuilder interface {
	RebuildLeaderboard(ctx context.Context) (int, error)
}

// Scheduler runs the service's periodic maintenance.
type Scheduler struct {
	scheduler *gocron.Scheduler
	rebuilder LeaderboardRebuilder
	rebuildAt string
	logger    *slog.Logger
}

// New creates a scheduler that rebuilds the leaderboard daily at rebuildAt
// ("HH:MM", UTC).
func New(rebuilder LeaderboardRebuilder, rebuildAt string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		rebuilder: rebuilder,
		rebuildAt: rebuildAt,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.rebuildAt).Do(s.RebuildLeaderboard); err != nil {
		return fmt.Errorf("schedule leaderboard rebuild at %q: %w", s.rebuildAt, err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started", "leaderboard_rebuild_at", s.rebuildAt)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RebuildLeaderboard runs one rebuild. Failures are logged; the next run retries.
func (s *Scheduler) RebuildLeaderboard() {
	ctx, cancel := context.WithTimeout(context.Background(), rebuildTimeout)
	defer cancel()

	start := time.Now()
	count, err := s.rebuilder.RebuildLeaderboard(ctx)
	if err != nil {
		s.logger.Error("Leaderboard rebuild failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("Leaderboard rebuilt", "entries", count, "duration", time.Since(start))
}
