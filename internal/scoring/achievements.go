package scoring

import (
	"math"

	"github.com/linguaplay/scoring-service/internal/models"
)

type achievementRule struct {
	models.Achievement
	earned   func(s *models.UserProgressState) bool
	progress func(s *models.UserProgressState) float64
}

func ratio(current, target float64) float64 {
	if target <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, current/target))
}

func threshold(field func(s *models.UserProgressState) int, target int) (func(*models.UserProgressState) bool, func(*models.UserProgressState) float64) {
	return func(s *models.UserProgressState) bool { return field(s) >= target },
		func(s *models.UserProgressState) float64 { return ratio(float64(field(s)), float64(target)) }
}

func newRule(a models.Achievement, field func(s *models.UserProgressState) int, target int) achievementRule {
	earned, progress := threshold(field, target)
	return achievementRule{Achievement: a, earned: earned, progress: progress}
}

var (
	quizzes       = func(s *models.UserProgressState) int { return s.QuizzesTaken }
	currentStreak = func(s *models.UserProgressState) int { return s.CurrentStreak }
	totalPoints   = func(s *models.UserProgressState) int { return s.TotalPoints }
	perfectScores = func(s *models.UserProgressState) int { return s.PerfectScores }
	correct       = func(s *models.UserProgressState) int { return s.CorrectAnswers }
)

// defaultCatalog lists achievements in display order.
func defaultCatalog() []achievementRule {
	return []achievementRule{
		newRule(models.Achievement{
			ID: "first_quiz", Name: "First Steps", Description: "Complete your first quiz",
			Category: models.AchievementQuiz, PointsReward: 10,
		}, quizzes, 1),
		{
			Achievement: models.Achievement{
				ID: "quiz_master", Name: "Quiz Master", Description: "Complete 5 quizzes with an average score of 80 or more",
				Category: models.AchievementQuiz, PointsReward: 50,
			},
			earned: func(s *models.UserProgressState) bool {
				return s.QuizzesTaken >= 5 && s.AverageScore >= 80
			},
			progress: func(s *models.UserProgressState) float64 {
				return (ratio(float64(s.QuizzesTaken), 5) + ratio(s.AverageScore, 80)) / 2
			},
		},
		newRule(models.Achievement{
			ID: "streak_3", Name: "Getting Started", Description: "Practice 3 days in a row",
			Category: models.AchievementStreak, PointsReward: 15,
		}, currentStreak, 3),
		newRule(models.Achievement{
			ID: "streak_champion", Name: "Streak Champion", Description: "Practice 7 days in a row",
			Category: models.AchievementStreak, PointsReward: 50,
		}, currentStreak, 7),
		newRule(models.Achievement{
			ID: "streak_30", Name: "Habit Builder", Description: "Practice 30 days in a row",
			Category: models.AchievementStreak, PointsReward: 150,
		}, currentStreak, 30),
		newRule(models.Achievement{
			ID: "points_100", Name: "Point Collector", Description: "Earn 100 points",
			Category: models.AchievementPoints, PointsReward: 20,
		}, totalPoints, 100),
		newRule(models.Achievement{
			ID: "points_1000", Name: "High Scorer", Description: "Earn 1000 points",
			Category: models.AchievementPoints, PointsReward: 100,
		}, totalPoints, 1000),
		newRule(models.Achievement{
			ID: "perfect_score", Name: "Perfectionist", Description: "Get a perfect score",
			Category: models.AchievementAccuracy, PointsReward: 25,
		}, perfectScores, 1),
		newRule(models.Achievement{
			ID: "exercises_50", Name: "Dedicated Learner", Description: "Answer 50 exercises correctly",
			Category: models.AchievementPractice, PointsReward: 75,
		}, correct, 50),
	}
}

// AchievementEvaluator derives the achievement list from a progress state.
// An achievement already recorded in the state's unlock ledger stays earned
// even if the stat that earned it later drops.
type AchievementEvaluator struct {
	rules []achievementRule
}

func NewAchievementEvaluator() *AchievementEvaluator {
	return &AchievementEvaluator{rules: defaultCatalog()}
}

// Evaluate returns every achievement with Earned and Progress computed from
// state, in catalog order.
func (e *AchievementEvaluator) Evaluate(state *models.UserProgressState) []models.Achievement {
	if state == nil {
		state = models.NewUserProgressState("")
	}
	out := make([]models.Achievement, 0, len(e.rules))
	for _, r := range e.rules {
		a := r.Achievement
		a.Earned = r.earned(state) || state.HasUnlocked(a.ID)
		a.Progress = r.progress(state)
		if a.Earned {
			a.Progress = 1
		}
		out = append(out, a)
	}
	return out
}

// Catalog returns the achievement definitions without evaluation.
func (e *AchievementEvaluator) Catalog() []models.Achievement {
	out := make([]models.Achievement, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, r.Achievement)
	}
	return out
}
