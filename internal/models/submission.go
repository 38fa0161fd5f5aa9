package models

import "encoding/json"

// Submission is a learner's answer to one exercise. Answer stays raw until the
// exercise type is known.
type Submission struct {
	ExerciseID       uint            `json:"exercise_id" validate:"required"`
	Answer           json.RawMessage `json:"answer"`
	TimeTakenSeconds *int            `json:"time_taken_seconds,omitempty" validate:"omitempty,min=0"`
	HintsUsed        int             `json:"hints_used" validate:"min=0"`
}

// DecodeFor decodes the answer payload for the given exercise type.
func (s *Submission) DecodeFor(t ExerciseType) (Answer, error) {
	return DecodeAnswer(t, s.Answer)
}
