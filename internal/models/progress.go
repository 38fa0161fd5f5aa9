package models

import (
	"slices"
	"time"

	"gorm.io/datatypes"
)

type MasteryLevel string

const (
	MasteryBeginner     MasteryLevel = "beginner"
	MasteryIntermediate MasteryLevel = "intermediate"
	MasteryAdvanced     MasteryLevel = "advanced"
	MasteryMaster       MasteryLevel = "master"
)

// UserProgressState is the per-learner aggregate the engine reads and returns.
// Version guards the read-modify-write cycle against lost updates.
type UserProgressState struct {
	UserID string `json:"user_id" gorm:"primaryKey;size:64"`

	TotalPoints      int        `json:"total_points" gorm:"not null;default:0;index"`
	CurrentStreak    int        `json:"current_streak" gorm:"not null;default:0"`
	LongestStreak    int        `json:"longest_streak" gorm:"not null;default:0"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty" gorm:"type:date"`
	TotalActiveDays  int        `json:"total_active_days" gorm:"not null;default:0"`

	QuizzesTaken   int          `json:"quizzes_taken" gorm:"not null;default:0"`
	AverageScore   float64      `json:"average_score" gorm:"not null;default:0"`
	CorrectAnswers int          `json:"correct_answers" gorm:"not null;default:0"`
	PerfectScores  int          `json:"perfect_scores" gorm:"not null;default:0"`
	Accuracy       float64      `json:"accuracy" gorm:"not null;default:0"`
	MasteryLevel   MasteryLevel `json:"mastery_level" gorm:"size:20;default:beginner"`

	// UnlockedAchievements is the ledger of achievement IDs ever earned.
	UnlockedAchievements datatypes.JSONSlice[string] `json:"unlocked_achievements" gorm:"type:jsonb"`

	Version   int       `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserProgressState) TableName() string {
	return "user_progress"
}

// NewUserProgressState returns the zero state for a learner with no activity.
func NewUserProgressState(userID string) *UserProgressState {
	return &UserProgressState{
		UserID:               userID,
		MasteryLevel:         MasteryBeginner,
		UnlockedAchievements: datatypes.JSONSlice[string]{},
	}
}

// Clone returns a deep copy so callers can derive a new state without
// touching the original.
func (s *UserProgressState) Clone() *UserProgressState {
	c := *s
	if s.LastActivityDate != nil {
		d := *s.LastActivityDate
		c.LastActivityDate = &d
	}
	c.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	if c.UnlockedAchievements == nil {
		c.UnlockedAchievements = datatypes.JSONSlice[string]{}
	}
	return &c
}

// HasUnlocked reports whether the achievement is in the unlock ledger.
func (s *UserProgressState) HasUnlocked(id string) bool {
	return slices.Contains(s.UnlockedAchievements, id)
}
