package models

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm/schema"
)

func TestExercise_PointsHasNoColumnDefault(t *testing.T) {
	s, err := schema.Parse(&Exercise{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	tests := []struct {
		field       string
		wantDefault bool
	}{
		{"Points", false},
		{"DifficultyMultiplier", true},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := s.LookUpField(tt.field)
			require.NotNil(t, f)
			assert.Equal(t, tt.wantDefault, f.HasDefaultValue)
		})
	}
}

func TestExercise_LearnerView(t *testing.T) {
	lesson := uint(3)
	e := &Exercise{
		ID:            7,
		LessonID:      &lesson,
		Type:          MultipleChoice,
		Prompt:        "Pick the verb",
		Options:       []string{"run", "blue"},
		CorrectAnswer: datatypes.JSON("0"),
		Explanation:   "Run is an action.",
		Points:        0,
		Hints:         []string{"an action"},
	}

	view := e.LearnerView()
	assert.Equal(t, uint(7), view.ID)
	assert.Equal(t, []string{"run", "blue"}, view.Options)
	assert.Equal(t, 0, view.Points)
	assert.Equal(t, 1.0, view.DifficultyMultiplier)

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "correct_answer")
	assert.NotContains(t, fields, "explanation")
	assert.Contains(t, fields, "prompt")
}
