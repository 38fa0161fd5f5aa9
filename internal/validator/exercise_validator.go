package validator

import (
	"fmt"
	"strings"

	"github.com/linguaplay/scoring-service/internal/errors"
	"github.com/linguaplay/scoring-service/internal/models"
)

const (
	minOptions = 2
	maxOptions = 10
)

// ExerciseValidator checks that an exercise's answer key and options fit its type.
type ExerciseValidator struct{}

func NewExerciseValidator() *ExerciseValidator {
	return &ExerciseValidator{}
}

// Validate returns every problem found; an empty result means the exercise
// can be graded.
func (v *ExerciseValidator) Validate(ex *models.Exercise) errors.ValidationErrors {
	var errs errors.ValidationErrors
	add := func(field, message, rule string, value interface{}) {
		errs = append(errs, *errors.NewValidationErrorWithRule(field, message, rule, value))
	}

	if ex == nil {
		add("exercise", "is required", "required", nil)
		return errs
	}
	if !ex.Type.IsValid() {
		add("type", fmt.Sprintf("unsupported exercise type %q", ex.Type), "exercise_type", string(ex.Type))
		return errs
	}

	if ex.Type.IsFreeText() {
		return append(errs, v.validateFreeText(ex)...)
	}

	key, err := ex.AnswerKey()
	if err != nil {
		add("correct_answer", err.Error(), "answer_shape", string(ex.CorrectAnswer))
		return errs
	}
	if key == nil {
		add("correct_answer", "is required", "required", nil)
		return errs
	}

	switch k := key.(type) {
	case models.IndexAnswer:
		v.checkOptions(ex, add)
		if len(ex.Options) > 0 && (k.Index < 0 || k.Index >= len(ex.Options)) {
			add("correct_answer", fmt.Sprintf("index %d is out of range", k.Index), "option_index", k.Index)
		}
	case models.IndexSetAnswer:
		v.checkOptions(ex, add)
		if len(k.Indices) == 0 {
			add("correct_answer", "must select at least one option", "min", nil)
		}
		seen := make(map[int]bool, len(k.Indices))
		for _, idx := range k.Indices {
			if seen[idx] {
				add("correct_answer", fmt.Sprintf("index %d is repeated", idx), "unique", idx)
			}
			seen[idx] = true
			if len(ex.Options) > 0 && (idx < 0 || idx >= len(ex.Options)) {
				add("correct_answer", fmt.Sprintf("index %d is out of range", idx), "option_index", idx)
			}
		}
	case models.TextAnswer:
		for _, c := range k.Candidates() {
			if strings.TrimSpace(c) == "" {
				add("correct_answer", "accepted answers cannot be blank", "required", c)
				break
			}
		}
	case models.SequenceAnswer:
		if len(k.Items) < 2 {
			add("correct_answer", "must contain at least 2 items", "min", len(k.Items))
		}
		if len(ex.Options) > 0 && len(ex.Options) != len(k.Items) {
			add("correct_answer", "must order every option exactly once", "len", len(k.Items))
		}
	}

	return errs
}

// ValidateBatch validates several exercises and prefixes each field with its
// position.
func (v *ExerciseValidator) ValidateBatch(exercises []*models.Exercise) errors.ValidationErrors {
	var errs errors.ValidationErrors
	if len(exercises) == 0 {
		return append(errs, *errors.NewValidationError("exercises", "batch cannot be empty", nil))
	}
	for i, ex := range exercises {
		for _, e := range v.Validate(ex) {
			e.Field = fmt.Sprintf("exercises[%d].%s", i, e.Field)
			errs = append(errs, e)
		}
	}
	return errs
}

func (v *ExerciseValidator) checkOptions(ex *models.Exercise, add func(string, string, string, interface{})) {
	if ex.Type == models.TrueFalse {
		return
	}
	if len(ex.Options) < minOptions {
		add("options", fmt.Sprintf("must have at least %d options", minOptions), "min", len(ex.Options))
	}
	if len(ex.Options) > maxOptions {
		add("options", fmt.Sprintf("cannot have more than %d options", maxOptions), "max", len(ex.Options))
	}
	for _, o := range ex.Options {
		if strings.TrimSpace(o) == "" {
			add("options", "option text cannot be empty", "required", o)
			break
		}
	}
}

func (v *ExerciseValidator) validateFreeText(ex *models.Exercise) errors.ValidationErrors {
	var errs errors.ValidationErrors
	switch ex.Type {
	case models.Writing:
		minWords, maxWords := ex.WordBounds()
		if maxWords > 0 && minWords > maxWords {
			errs = append(errs, *errors.NewValidationErrorWithRule("max_words", "must be greater than or equal to min_words", "gtefield", maxWords))
		}
	case models.Speaking:
		if strings.TrimSpace(ex.TargetText) == "" {
			errs = append(errs, *errors.NewValidationErrorWithRule("target_text", "is required for speaking exercises", "required", nil))
		}
		if ex.RequiredAccuracy < 0 || ex.RequiredAccuracy > 1 {
			errs = append(errs, *errors.NewValidationErrorWithRule("required_accuracy", "must be between 0 and 1", "range", ex.RequiredAccuracy))
		}
	}
	return errs
}
