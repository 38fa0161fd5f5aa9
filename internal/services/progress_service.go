package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linguaplay/scoring-service/internal/cache"
	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/scoring"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
	DefaultAttemptsLimit    = 20
	MaxAttemptsLimit        = 100
)

type ProgressService interface {
	GetProgress(ctx context.Context, userID string) (*ProgressView, error)
	GetAchievements(ctx context.Context, userID string) ([]models.Achievement, error)
	GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	GetAttempts(ctx context.Context, userID string, limit int) ([]*models.ExerciseAttempt, error)
	RebuildLeaderboard(ctx context.Context) (int, error)
}

// ProgressView is a learner's stored state with the derived views.
type ProgressView struct {
	State         *models.UserProgressState `json:"state"`
	Level         scoring.LevelInfo         `json:"level"`
	StreakTier    string                    `json:"streak_tier"`
	NextMilestone *scoring.StreakMilestone  `json:"next_milestone,omitempty"`
	Rank          *int                      `json:"rank,omitempty"`
}

type progressService struct {
	repo        repositories.ProgressRepository
	attempts    repositories.AttemptRepository
	leaderboard cache.Leaderboard
	engine      *scoring.Engine
	log         *ServiceLogger
}

// NewProgressService reads rankings from leaderboard when it is non-nil and
// from the progress table otherwise.
func NewProgressService(repo repositories.ProgressRepository, attempts repositories.AttemptRepository, leaderboard cache.Leaderboard, engine *scoring.Engine, logger *slog.Logger) ProgressService {
	if engine == nil {
		engine = scoring.NewEngine(nil, nil)
	}
	return &progressService{
		repo:        repo,
		attempts:    attempts,
		leaderboard: leaderboard,
		engine:      engine,
		log:         NewServiceLogger(logger, LogConfig{Service: "scoring", Component: "progress"}),
	}
}

func (s *progressService) load(ctx context.Context, userID string) (*models.UserProgressState, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	state, err := s.repo.Get(ctx, nil, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewUserProgressState(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return state, nil
}

func (s *progressService) GetProgress(ctx context.Context, userID string) (*ProgressView, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{
		State:      state,
		Level:      s.engine.Leveling().Level(state.TotalPoints),
		StreakTier: scoring.StreakTier(state.CurrentStreak),
	}
	if next, ok := scoring.NextStreakMilestone(state.CurrentStreak); ok {
		view.NextMilestone = &next
	}

	if s.leaderboard != nil {
		rank, err := s.leaderboard.Rank(ctx, userID)
		switch {
		case err == nil:
			view.Rank = &rank
		case !errors.Is(err, cache.ErrNotRanked):
			s.log.LogUpstream(ctx, "get_progress", userID, upstream("leaderboard", err))
		}
	}

	return view, nil
}

func (s *progressService) GetAchievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	state, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.Achievements().Evaluate(state), nil
}

// GetAttempts lists the learner's graded attempts, newest first.
func (s *progressService) GetAttempts(ctx context.Context, userID string, limit int) ([]*models.ExerciseAttempt, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if limit <= 0 {
		limit = DefaultAttemptsLimit
	}
	limit = min(limit, MaxAttemptsLimit)

	attempts, err := s.attempts.ListByUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []*models.ExerciseAttempt{}
	}
	return attempts, nil
}

func (s *progressService) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	limit = min(limit, MaxLeaderboardLimit)

	if s.leaderboard != nil {
		entries, err := s.leaderboard.Top(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			s.log.LogUpstream(ctx, "get_leaderboard", "", upstream("leaderboard", err))
		}
	}

	states, err := s.repo.TopByPoints(ctx, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank learners: %w", err)
	}
	return rankStates(states), nil
}

// RebuildLeaderboard replaces the ranking with the stored progress of every
// learner and returns how many were ranked.
func (s *progressService) RebuildLeaderboard(ctx context.Context) (int, error) {
	if s.leaderboard == nil {
		return 0, nil
	}

	states, err := s.repo.TopByPoints(ctx, nil, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load progress: %w", err)
	}

	entries := rankStates(states)
	if err := s.leaderboard.Replace(ctx, entries); err != nil {
		return 0, upstream("leaderboard", err)
	}

	s.log.Logger().InfoContext(ctx, "Leaderboard rebuilt", "learners", len(entries))
	return len(entries), nil
}

func rankStates(states []*models.UserProgressState) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(states))
	for i, st := range states {
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      st.UserID,
			TotalPoints: st.TotalPoints,
			Accuracy:    st.Accuracy,
		})
	}
	return entries
}
