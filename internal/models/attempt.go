package models

import (
	"time"

	"gorm.io/datatypes"
)

// ExerciseAttempt records one graded submission. A learner may attempt an
// exercise only once.
type ExerciseAttempt struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	UserID           string         `json:"user_id" gorm:"not null;size:64;uniqueIndex:idx_attempt_user_exercise"`
	ExerciseID       uint           `json:"exercise_id" gorm:"not null;uniqueIndex:idx_attempt_user_exercise"`
	Answer           datatypes.JSON `json:"answer" gorm:"type:jsonb"`
	IsCorrect        *bool          `json:"is_correct,omitempty"`
	Score            int            `json:"score"`
	PointsEarned     int            `json:"points_earned"`
	TimeTakenSeconds *int           `json:"time_taken_seconds,omitempty"`
	HintsUsed        int            `json:"hints_used"`
	Feedback         string         `json:"feedback" gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at"`

	Exercise *Exercise `json:"exercise,omitempty" gorm:"foreignKey:ExerciseID"`
}

func (ExerciseAttempt) TableName() string {
	return "exercise_attempts"
}
