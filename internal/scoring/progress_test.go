package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaplay/scoring-service/internal/models"
)

func unlockedIDs(list []models.Achievement) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func correctOutcome(score, base int) Outcome {
	return Outcome{
		Result:               models.ScoreResult{IsCorrect: models.BoolPtr(true), Score: score},
		BasePoints:           base,
		DifficultyMultiplier: 1,
	}
}

func TestEngine_UpdateProgress_FirstCorrectAnswer(t *testing.T) {
	engine := NewEngine(nil, nil)
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	update := engine.UpdateProgress(models.NewUserProgressState("learner-1"), correctOutcome(100, 10), now)
	s := update.State

	assert.Equal(t, 10, update.PointsAwarded)
	assert.Equal(t, []string{"first_quiz", "perfect_score"}, unlockedIDs(update.Unlocked))
	assert.Equal(t, 35, update.BonusPoints)
	assert.Equal(t, 45, s.TotalPoints)

	assert.Equal(t, 1, s.QuizzesTaken)
	assert.Equal(t, 1, s.CorrectAnswers)
	assert.Equal(t, 1, s.PerfectScores)
	assert.Equal(t, 100.0, s.AverageScore)
	assert.Equal(t, 1.0, s.Accuracy)
	assert.Equal(t, models.MasteryMaster, s.MasteryLevel)

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.TotalActiveDays)
	assert.True(t, update.NewActiveDay)
	assert.False(t, update.StreakMilestone)
	assert.False(t, update.LeveledUp)
	assert.ElementsMatch(t, []string{"first_quiz", "perfect_score"}, []string(s.UnlockedAchievements))
}

func TestEngine_UpdateProgress_IncorrectAwardsNoPoints(t *testing.T) {
	engine := NewEngine(nil, nil)
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	outcome := Outcome{Result: models.ScoreResult{IsCorrect: models.BoolPtr(false)}, BasePoints: 10, DifficultyMultiplier: 1}
	update := engine.UpdateProgress(models.NewUserProgressState("learner-1"), outcome, now)

	assert.Equal(t, 0, update.PointsAwarded)
	assert.Equal(t, 10, update.BonusPoints)
	assert.Equal(t, 10, update.State.TotalPoints)
	assert.Equal(t, 0, update.State.CorrectAnswers)
	assert.Equal(t, models.MasteryBeginner, update.State.MasteryLevel)
}

func TestEngine_UpdateProgress_RewardsCreditedOnce(t *testing.T) {
	engine := NewEngine(nil, nil)
	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	first := engine.UpdateProgress(models.NewUserProgressState("learner-1"), correctOutcome(100, 10), now)
	outcome := Outcome{Result: models.ScoreResult{IsCorrect: models.BoolPtr(false)}, BasePoints: 10}
	second := engine.UpdateProgress(first.State, outcome, now.Add(time.Hour))

	assert.Empty(t, second.Unlocked)
	assert.Equal(t, 0, second.BonusPoints)
	assert.Equal(t, first.State.TotalPoints, second.State.TotalPoints)
	assert.False(t, second.NewActiveDay)
	assert.Equal(t, 1, second.State.CurrentStreak)
	assert.Equal(t, 2, second.State.QuizzesTaken)
	assert.Equal(t, 50.0, second.State.AverageScore)
	assert.Equal(t, 0.5, second.State.Accuracy)
}

func TestEngine_UpdateProgress_DoesNotMutateInput(t *testing.T) {
	engine := NewEngine(nil, nil)
	state := models.NewUserProgressState("learner-1")
	state.TotalPoints = 40
	before := state.Clone()

	engine.UpdateProgress(state, correctOutcome(90, 10), time.Now())
	assert.Equal(t, before, state)
}

func TestEngine_UpdateProgress_LevelUp(t *testing.T) {
	engine := NewEngine(nil, ContinuousLeveling{})
	state := models.NewUserProgressState("learner-1")
	state.TotalPoints = 95
	state.QuizzesTaken = 1
	state.AverageScore = 100
	state.CorrectAnswers = 1
	state.PerfectScores = 1
	state.UnlockedAchievements = append(state.UnlockedAchievements, "first_quiz", "perfect_score")

	update := engine.UpdateProgress(state, correctOutcome(80, 10), time.Now())

	assert.Equal(t, []string{"points_100"}, unlockedIDs(update.Unlocked))
	assert.Equal(t, 125, update.State.TotalPoints)
	assert.Equal(t, 1, update.LevelBefore.Level)
	assert.Equal(t, 2, update.LevelAfter.Level)
	assert.True(t, update.LeveledUp)
}

func TestEngine_UpdateProgress_StreakMilestone(t *testing.T) {
	engine := NewEngine(nil, nil)
	yesterday := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	state := models.NewUserProgressState("learner-1")
	state.CurrentStreak = 2
	state.LongestStreak = 2
	state.LastActivityDate = &yesterday

	update := engine.UpdateProgress(state, correctOutcome(50, 0), yesterday.Add(30*time.Hour))

	assert.Equal(t, 3, update.State.CurrentStreak)
	assert.True(t, update.StreakMilestone)
	assert.Contains(t, unlockedIDs(update.Unlocked), "streak_3")
}

func TestEngine_UpdateProgress_WritingPassesAtThreshold(t *testing.T) {
	engine := NewEngine(nil, nil)
	now := time.Now()

	passing := Outcome{Result: models.ScoreResult{Score: 72}, BasePoints: 20, DifficultyMultiplier: 1}
	update := engine.UpdateProgress(models.NewUserProgressState("learner-1"), passing, now)
	assert.Equal(t, 20, update.PointsAwarded)

	failing := Outcome{Result: models.ScoreResult{Score: 65}, BasePoints: 20, DifficultyMultiplier: 1}
	update = engine.UpdateProgress(models.NewUserProgressState("learner-1"), failing, now)
	assert.Equal(t, 0, update.PointsAwarded)
}

func TestEngine_Grade(t *testing.T) {
	engine := NewEngine(NewEvaluator(EvaluatorOptions{}), nil)
	result := engine.Grade(exerciseWithKey(models.TrueFalse, `true`), submit(`true`))
	require.NotNil(t, result.IsCorrect)
	assert.True(t, *result.IsCorrect)
}

func TestMasteryFor(t *testing.T) {
	tests := map[float64]models.MasteryLevel{
		0:    models.MasteryBeginner,
		0.74: models.MasteryBeginner,
		0.75: models.MasteryIntermediate,
		0.85: models.MasteryAdvanced,
		0.95: models.MasteryMaster,
		1:    models.MasteryMaster,
	}
	for acc, want := range tests {
		assert.Equal(t, want, MasteryFor(acc), "accuracy=%v", acc)
	}
}
