package models

type AchievementCategory string

const (
	AchievementQuiz     AchievementCategory = "quiz"
	AchievementStreak   AchievementCategory = "streak"
	AchievementPoints   AchievementCategory = "points"
	AchievementAccuracy AchievementCategory = "accuracy"
	AchievementPractice AchievementCategory = "practice"
)

// Achievement is derived from a UserProgressState on every evaluation.
type Achievement struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Category     AchievementCategory `json:"category"`
	PointsReward int                 `json:"points_reward"`
	Earned       bool                `json:"earned"`
	Progress     float64             `json:"progress"`
}
