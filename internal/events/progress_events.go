package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "scoring-service"
	EventVersion = "1.0"
)

type EventType string

const (
	EventSubmissionGraded    EventType = "submission.graded"
	EventAchievementUnlocked EventType = "achievement.unlocked"
	EventLevelUp             EventType = "progress.level_up"
	EventStreakMilestone     EventType = "streak.milestone"
)

// Event is the envelope for everything the service publishes.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	UserID    string                 `json:"user_id"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SubmissionGradedEvent struct {
	ExerciseID    uint   `json:"exercise_id"`
	ExerciseType  string `json:"exercise_type"`
	IsCorrect     *bool  `json:"is_correct,omitempty"`
	Score         int    `json:"score"`
	PointsAwarded int    `json:"points_awarded"`
	BonusPoints   int    `json:"bonus_points"`
	TotalPoints   int    `json:"total_points"`
}

type AchievementUnlockedEvent struct {
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	PointsReward  int    `json:"points_reward"`
}

type LevelUpEvent struct {
	Strategy    string `json:"strategy"`
	OldLevel    int    `json:"old_level"`
	NewLevel    int    `json:"new_level"`
	LevelName   string `json:"level_name"`
	TotalPoints int    `json:"total_points"`
}

type StreakMilestoneEvent struct {
	Streak int    `json:"streak"`
	Tier   string `json:"tier"`
}

func newEvent(t EventType, userID string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventVersion,
		UserID:    userID,
		Data:      data,
	}
}

func NewSubmissionGradedEvent(userID string, data SubmissionGradedEvent) *Event {
	return newEvent(EventSubmissionGraded, userID, data)
}

func NewAchievementUnlockedEvent(userID string, data AchievementUnlockedEvent) *Event {
	return newEvent(EventAchievementUnlocked, userID, data)
}

func NewLevelUpEvent(userID string, data LevelUpEvent) *Event {
	return newEvent(EventLevelUp, userID, data)
}

func NewStreakMilestoneEvent(userID string, streak int, tier string) *Event {
	return newEvent(EventStreakMilestone, userID, StreakMilestoneEvent{Streak: streak, Tier: tier})
}
