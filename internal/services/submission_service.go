package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/linguaplay/scoring-service/internal/cache"
	"github.com/linguaplay/scoring-service/internal/events"
	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/scoring"
	"github.com/linguaplay/scoring-service/internal/validator"
)

const maxProgressRetries = 3

// SubmissionService grades an answer and folds the outcome into the learner's
// stored progress.
type SubmissionService interface {
	SubmitAnswer(ctx context.Context, userID string, req *models.Submission) (*SubmissionResponse, error)
}

type SubmissionResponse struct {
	ExerciseID      uint                      `json:"exercise_id"`
	Result          models.ScoreResult        `json:"result"`
	Metrics         *models.WritingMetrics    `json:"metrics,omitempty"`
	PointsAwarded   int                       `json:"points_awarded"`
	BonusPoints     int                       `json:"bonus_points"`
	TotalPoints     int                       `json:"total_points"`
	Level           scoring.LevelInfo         `json:"level"`
	LeveledUp       bool                      `json:"leveled_up"`
	CurrentStreak   int                       `json:"current_streak"`
	StreakMilestone bool                      `json:"streak_milestone"`
	Unlocked        []models.Achievement      `json:"unlocked_achievements"`
	Progress        *models.UserProgressState `json:"progress"`
}

// SubmissionDeps groups the collaborators of the submission flow. Locker,
// Leaderboard and Publisher are optional.
type SubmissionDeps struct {
	Exercises   ExerciseService
	Progress    repositories.ProgressRepository
	Attempts    repositories.AttemptRepository
	Transactor  repositories.Transactor
	Locker      cache.Locker
	Leaderboard cache.Leaderboard
	Publisher   events.EventPublisher
	Engine      *scoring.Engine
	Validator   *validator.Validator
	LockTTL     time.Duration
}

type submissionService struct {
	deps SubmissionDeps
	log  *ServiceLogger
	now  func() time.Time
}

func NewSubmissionService(deps SubmissionDeps, logger *slog.Logger) SubmissionService {
	if deps.LockTTL <= 0 {
		deps.LockTTL = 5 * time.Second
	}
	if deps.Engine == nil {
		deps.Engine = scoring.NewEngine(nil, nil)
	}
	return &submissionService{
		deps: deps,
		log:  NewServiceLogger(logger, LogConfig{Service: "scoring", Component: "submission"}),
		now:  time.Now,
	}
}

func (s *submissionService) SubmitAnswer(ctx context.Context, userID string, req *models.Submission) (*SubmissionResponse, error) {
	op := s.log.WithOperation(ctx, "submit_answer", userID)

	var exerciseID uint
	if req != nil {
		exerciseID = req.ExerciseID
	}

	resp, err := s.submit(ctx, userID, req)
	op.LogResult(exerciseID, "exercise", err)
	return resp, err
}

func (s *submissionService) submit(ctx context.Context, userID string, req *models.Submission) (*SubmissionResponse, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if req == nil {
		return nil, NewValidationError("request", "is required", nil)
	}
	if err := s.deps.Validator.Validate(req); err != nil {
		return nil, err
	}

	exercise, err := s.deps.Exercises.GetByID(ctx, req.ExerciseID)
	if err != nil {
		return nil, err
	}

	answer, err := req.DecodeFor(exercise.Type)
	if err != nil && !errors.Is(err, models.ErrUnsupportedExerciseType) {
		return nil, err
	}

	attempted, err := s.deps.Attempts.Exists(ctx, nil, userID, exercise.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check previous attempts: %w", err)
	}
	if attempted {
		return nil, ErrExerciseAlreadyAttempted
	}

	result := s.deps.Engine.Grade(exercise, req)

	release, err := s.lockLearner(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	update, err := s.applyWithRetry(ctx, userID, exercise, req, result)
	if err != nil {
		return nil, err
	}

	s.updateLeaderboard(ctx, userID, update.State)
	s.publishEvents(ctx, userID, exercise, result, update)

	resp := &SubmissionResponse{
		ExerciseID:      exercise.ID,
		Result:          result,
		PointsAwarded:   update.PointsAwarded,
		BonusPoints:     update.BonusPoints,
		TotalPoints:     update.State.TotalPoints,
		Level:           update.LevelAfter,
		LeveledUp:       update.LeveledUp,
		CurrentStreak:   update.State.CurrentStreak,
		StreakMilestone: update.StreakMilestone,
		Unlocked:        update.Unlocked,
		Progress:        update.State,
	}
	if resp.Unlocked == nil {
		resp.Unlocked = []models.Achievement{}
	}
	if text, ok := answer.(models.TextAnswer); ok && exercise.Type == models.Writing {
		minWords, maxWords := exercise.WordBounds()
		resp.Metrics = scoring.AnalyzeWriting(text.Text, minWords, maxWords).Metrics
	}
	return resp, nil
}

// lockLearner serializes progress updates for one learner. When the lock
// store itself fails the update proceeds under the version check alone.
func (s *submissionService) lockLearner(ctx context.Context, userID string) (func(), error) {
	noop := func() {}
	if s.deps.Locker == nil {
		return noop, nil
	}

	lock, err := s.deps.Locker.Acquire(ctx, cache.LearnerLockKey(userID), s.deps.LockTTL)
	if errors.Is(err, cache.ErrLockNotAcquired) {
		return nil, fmt.Errorf("%w: learner is busy", ErrVersionConflict)
	}
	if err != nil {
		s.log.LogUpstream(ctx, "submit_answer", userID, upstream("lock", err))
		return noop, nil
	}

	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.log.LogUpstream(ctx, "submit_answer", userID, upstream("lock", err))
		}
	}, nil
}

func (s *submissionService) applyWithRetry(ctx context.Context, userID string, exercise *models.Exercise, req *models.Submission, result models.ScoreResult) (scoring.ProgressUpdate, error) {
	outcome := scoring.Outcome{
		Result:               result,
		BasePoints:           exercise.Points,
		TimeTakenSeconds:     req.TimeTakenSeconds,
		TimeLimitSeconds:     exercise.TimeLimitSeconds,
		HintsUsed:            req.HintsUsed,
		DifficultyMultiplier: exercise.Multiplier(),
	}

	var update scoring.ProgressUpdate
	for attempt := 1; attempt <= maxProgressRetries; attempt++ {
		err := s.deps.Transactor.WithinTransaction(ctx, func(tx *gorm.DB) error {
			state, isNew, err := s.loadState(ctx, tx, userID)
			if err != nil {
				return err
			}

			update = s.deps.Engine.UpdateProgress(state, outcome, s.now())

			if isNew {
				err = s.deps.Progress.Create(ctx, tx, update.State)
			} else {
				err = s.deps.Progress.Save(ctx, tx, update.State)
			}
			if err != nil {
				return err
			}

			return s.recordAttempt(ctx, tx, userID, exercise, req, result, update.PointsAwarded)
		})
		if err == nil {
			return update, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return scoring.ProgressUpdate{}, err
		}

		s.log.Logger().WarnContext(ctx, "Progress version conflict, retrying",
			"user_id", userID, "exercise_id", exercise.ID, "attempt", attempt)
	}

	return scoring.ProgressUpdate{}, fmt.Errorf("%w after %d attempts", ErrVersionConflict, maxProgressRetries)
}

func (s *submissionService) loadState(ctx context.Context, tx *gorm.DB, userID string) (*models.UserProgressState, bool, error) {
	state, err := s.deps.Progress.Get(ctx, tx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.NewUserProgressState(userID), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load progress: %w", err)
	}
	return state, false, nil
}

func (s *submissionService) recordAttempt(ctx context.Context, tx *gorm.DB, userID string, exercise *models.Exercise, req *models.Submission, result models.ScoreResult, points int) error {
	attempt := &models.ExerciseAttempt{
		UserID:           userID,
		ExerciseID:       exercise.ID,
		Answer:           datatypes.JSON(req.Answer),
		IsCorrect:        result.IsCorrect,
		Score:            result.Score,
		PointsEarned:     points,
		TimeTakenSeconds: req.TimeTakenSeconds,
		HintsUsed:        req.HintsUsed,
		Feedback:         result.Feedback,
	}
	if len(attempt.Answer) == 0 {
		attempt.Answer = datatypes.JSON("null")
	}

	err := s.deps.Attempts.Create(ctx, tx, attempt)
	if errors.Is(err, repositories.ErrDuplicate) {
		return ErrExerciseAlreadyAttempted
	}
	return err
}

func (s *submissionService) updateLeaderboard(ctx context.Context, userID string, state *models.UserProgressState) {
	if s.deps.Leaderboard == nil {
		return
	}
	if err := s.deps.Leaderboard.Update(ctx, userID, state.TotalPoints, state.Accuracy); err != nil {
		s.log.LogUpstream(ctx, "update_leaderboard", userID, upstream("leaderboard", err))
	}
}

func (s *submissionService) publishEvents(ctx context.Context, userID string, exercise *models.Exercise, result models.ScoreResult, update scoring.ProgressUpdate) {
	if s.deps.Publisher == nil {
		return
	}

	batch := []*events.Event{
		events.NewSubmissionGradedEvent(userID, events.SubmissionGradedEvent{
			ExerciseID:    exercise.ID,
			ExerciseType:  string(exercise.Type),
			IsCorrect:     result.IsCorrect,
			Score:         result.Score,
			PointsAwarded: update.PointsAwarded,
			BonusPoints:   update.BonusPoints,
			TotalPoints:   update.State.TotalPoints,
		}),
	}
	for _, a := range update.Unlocked {
		batch = append(batch, events.NewAchievementUnlockedEvent(userID, events.AchievementUnlockedEvent{
			AchievementID: a.ID,
			Name:          a.Name,
			PointsReward:  a.PointsReward,
		}))
	}
	if update.LeveledUp {
		batch = append(batch, events.NewLevelUpEvent(userID, events.LevelUpEvent{
			Strategy:    update.LevelAfter.Strategy,
			OldLevel:    update.LevelBefore.Level,
			NewLevel:    update.LevelAfter.Level,
			LevelName:   update.LevelAfter.Name,
			TotalPoints: update.State.TotalPoints,
		}))
	}
	if update.StreakMilestone {
		streak := update.State.CurrentStreak
		batch = append(batch, events.NewStreakMilestoneEvent(userID, streak, scoring.StreakTier(streak)))
	}

	for _, event := range batch {
		if err := s.deps.Publisher.Publish(ctx, event); err != nil {
			s.log.LogUpstream(ctx, "publish_event", userID, upstream("events", err))
		}
	}
}
