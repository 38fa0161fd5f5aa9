package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExerciseType string

const (
	MultipleChoice ExerciseType = "multiple_choice"
	TrueFalse      ExerciseType = "true_false"
	MultipleSelect ExerciseType = "multiple_select"
	FillBlank      ExerciseType = "fill_blank"
	Matching       ExerciseType = "matching"
	DragDrop       ExerciseType = "drag_drop"
	AudioQuestion  ExerciseType = "audio_question"
	Writing        ExerciseType = "writing"
	Speaking       ExerciseType = "speaking"
)

// AllExerciseTypes returns every supported exercise type.
func AllExerciseTypes() []ExerciseType {
	return []ExerciseType{
		MultipleChoice, TrueFalse, MultipleSelect, FillBlank,
		Matching, DragDrop, AudioQuestion, Writing, Speaking,
	}
}

// IsValid reports whether t is a known exercise type.
func (t ExerciseType) IsValid() bool {
	for _, known := range AllExerciseTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// IsFreeText reports whether answers of this type are graded by an analyzer
// instead of being compared against an answer key.
func (t ExerciseType) IsFreeText() bool {
	return t == Writing || t == Speaking
}

const (
	// DefaultPoints applies when an author omits points; an explicit 0 is kept.
	DefaultPoints               = 10
	DefaultDifficultyMultiplier = 1.0
	DefaultRequiredAccuracy     = 0.8
)

type Exercise struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	LessonID *uint        `json:"lesson_id" gorm:"index"`
	Type     ExerciseType `json:"type" gorm:"not null;size:32;index" validate:"required,exercise_type"`
	Prompt   string       `json:"prompt" gorm:"type:text;not null" validate:"required,max=2000"`

	// Options holds the choices for index-based types and the item labels for
	// matching and drag_drop.
	Options datatypes.JSONSlice[string] `json:"options,omitempty" gorm:"type:jsonb"`

	// CorrectAnswer is the answer key; its shape depends on Type (see DecodeAnswer).
	CorrectAnswer datatypes.JSON `json:"correct_answer,omitempty" gorm:"type:jsonb"`
	Explanation   string         `json:"explanation,omitempty" gorm:"type:text"`

	// Reward
	Points               int                         `json:"points" gorm:"not null" validate:"min=0,max=1000"`
	DifficultyMultiplier float64                     `json:"difficulty_multiplier" gorm:"not null;default:1" validate:"min=0,max=10"`
	TimeLimitSeconds     *int                        `json:"time_limit_seconds,omitempty" validate:"omitempty,min=1,max=86400"`
	Hints                datatypes.JSONSlice[string] `json:"hints,omitempty" gorm:"type:jsonb"`

	// Writing
	MinWords *int `json:"min_words,omitempty" validate:"omitempty,min=0"`
	MaxWords *int `json:"max_words,omitempty" validate:"omitempty,min=0"`

	// Speaking
	TargetText       string                      `json:"target_text,omitempty" gorm:"type:text"`
	TargetWords      datatypes.JSONSlice[string] `json:"target_words,omitempty" gorm:"type:jsonb"`
	RequiredAccuracy float64                     `json:"required_accuracy" gorm:"not null;default:0.8" validate:"min=0,max=1"`

	// Fill-blank matching policy
	AcceptPartial bool `json:"accept_partial" gorm:"default:false"`
	CaseSensitive bool `json:"case_sensitive" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// AnswerKey decodes the stored correct answer for the exercise type.
func (e *Exercise) AnswerKey() (Answer, error) {
	return DecodeAnswerKey(e.Type, []byte(e.CorrectAnswer))
}

// Multiplier returns the difficulty multiplier, defaulting non-positive values to 1.
func (e *Exercise) Multiplier() float64 {
	if e.DifficultyMultiplier <= 0 {
		return DefaultDifficultyMultiplier
	}
	return e.DifficultyMultiplier
}

// Accuracy returns the speaking accuracy needed for a correct result.
func (e *Exercise) Accuracy() float64 {
	if e.RequiredAccuracy <= 0 || e.RequiredAccuracy > 1 {
		return DefaultRequiredAccuracy
	}
	return e.RequiredAccuracy
}

// WordBounds returns the writing limits; zero means unbounded.
func (e *Exercise) WordBounds() (minWords, maxWords int) {
	if e.MinWords != nil {
		minWords = *e.MinWords
	}
	if e.MaxWords != nil {
		maxWords = *e.MaxWords
	}
	return minWords, maxWords
}

// ExerciseView is the learner-facing exercise. It omits the answer key and
// the explanation, which are only revealed through graded feedback.
type ExerciseView struct {
	ID                   uint         `json:"id"`
	LessonID             *uint        `json:"lesson_id"`
	Type                 ExerciseType `json:"type"`
	Prompt               string       `json:"prompt"`
	Options              []string     `json:"options,omitempty"`
	Points               int          `json:"points"`
	DifficultyMultiplier float64      `json:"difficulty_multiplier"`
	TimeLimitSeconds     *int         `json:"time_limit_seconds,omitempty"`
	Hints                []string     `json:"hints,omitempty"`
	MinWords             *int         `json:"min_words,omitempty"`
	MaxWords             *int         `json:"max_words,omitempty"`
	TargetText           string       `json:"target_text,omitempty"`
	TargetWords          []string     `json:"target_words,omitempty"`
	RequiredAccuracy     float64      `json:"required_accuracy"`
	CreatedAt            time.Time    `json:"created_at"`
}

// LearnerView strips the answer key from e.
func (e *Exercise) LearnerView() *ExerciseView {
	return &ExerciseView{
		ID:                   e.ID,
		LessonID:             e.LessonID,
		Type:                 e.Type,
		Prompt:               e.Prompt,
		Options:              e.Options,
		Points:               e.Points,
		DifficultyMultiplier: e.Multiplier(),
		TimeLimitSeconds:     e.TimeLimitSeconds,
		Hints:                e.Hints,
		MinWords:             e.MinWords,
		MaxWords:             e.MaxWords,
		TargetText:           e.TargetText,
		TargetWords:          e.TargetWords,
		RequiredAccuracy:     e.Accuracy(),
		CreatedAt:            e.CreatedAt,
	}
}
