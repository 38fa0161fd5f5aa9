package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaplay/scoring-service/internal/models"
)

func findAchievement(t *testing.T, list []models.Achievement, id string) models.Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	require.Failf(t, "achievement not found", "id %s", id)
	return models.Achievement{}
}

func TestAchievementEvaluator_FirstQuiz(t *testing.T) {
	e := NewAchievementEvaluator()

	s := models.NewUserProgressState("learner-1")
	assert.False(t, findAchievement(t, e.Evaluate(s), "first_quiz").Earned)

	s.QuizzesTaken = 1
	assert.True(t, findAchievement(t, e.Evaluate(s), "first_quiz").Earned)
}

func TestAchievementEvaluator_QuizMaster(t *testing.T) {
	e := NewAchievementEvaluator()
	s := models.NewUserProgressState("learner-1")

	s.QuizzesTaken = 5
	s.AverageScore = 79.5
	a := findAchievement(t, e.Evaluate(s), "quiz_master")
	assert.False(t, a.Earned)
	assert.Less(t, a.Progress, 1.0)

	s.AverageScore = 80
	assert.True(t, findAchievement(t, e.Evaluate(s), "quiz_master").Earned)
}

func TestAchievementEvaluator_StreakChampion(t *testing.T) {
	e := NewAchievementEvaluator()
	s := models.NewUserProgressState("learner-1")

	s.CurrentStreak = 6
	a := findAchievement(t, e.Evaluate(s), "streak_champion")
	assert.False(t, a.Earned)
	assert.InDelta(t, 6.0/7.0, a.Progress, 1e-9)

	s.CurrentStreak = 7
	assert.True(t, findAchievement(t, e.Evaluate(s), "streak_champion").Earned)
}

func TestAchievementEvaluator_Idempotent(t *testing.T) {
	e := NewAchievementEvaluator()
	s := models.NewUserProgressState("learner-1")
	s.QuizzesTaken = 3
	s.TotalPoints = 250
	s.CurrentStreak = 4

	first := e.Evaluate(s)
	second := e.Evaluate(s)
	assert.Equal(t, first, second)
	assert.Len(t, first, len(e.Catalog()))
}

func TestAchievementEvaluator_LedgerKeepsEarned(t *testing.T) {
	e := NewAchievementEvaluator()
	s := models.NewUserProgressState("learner-1")
	s.CurrentStreak = 1
	s.UnlockedAchievements = append(s.UnlockedAchievements, "streak_champion")

	a := findAchievement(t, e.Evaluate(s), "streak_champion")
	assert.True(t, a.Earned)
	assert.Equal(t, 1.0, a.Progress)
}

func TestAchievementEvaluator_NilState(t *testing.T) {
	e := NewAchievementEvaluator()
	for _, a := range e.Evaluate(nil) {
		assert.False(t, a.Earned, a.ID)
	}
}
