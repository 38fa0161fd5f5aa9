// Package scoring holds the pure grading and progression rules: answer
// evaluation, writing and speech analysis, points, levels, streaks and
// achievements. Nothing in this package performs I/O or keeps state.
package scoring

import (
	"fmt"
	"slices"
	"strings"

	"github.com/linguaplay/scoring-service/internal/models"
)

const (
	feedbackCorrect       = "Correct!"
	feedbackIncorrect     = "Incorrect."
	feedbackNoAnswer      = "No answer was submitted."
	feedbackUnknownType   = "This exercise type cannot be graded yet."
	feedbackBrokenAnswers = "This exercise has no valid answer key and could not be graded."
)

type EvaluatorOptions struct {
	// FillBlankContains accepts a fill_blank answer when it contains the key
	// or the key contains it. Exercises can opt in with AcceptPartial.
	FillBlankContains bool
}

// Evaluator grades a submission against its exercise. It never returns an
// error: any answer it cannot grade is reported as incorrect.
type Evaluator struct {
	opts EvaluatorOptions
}

func NewEvaluator(opts EvaluatorOptions) *Evaluator {
	return &Evaluator{opts: opts}
}

func (e *Evaluator) Evaluate(exercise *models.Exercise, submission *models.Submission) models.ScoreResult {
	if exercise == nil {
		return incorrect(feedbackUnknownType)
	}
	if !exercise.Type.IsValid() {
		return incorrect(fmt.Sprintf("%s (type %q)", feedbackUnknownType, exercise.Type))
	}
	if submission == nil {
		return incorrect(feedbackNoAnswer)
	}

	answer, err := submission.DecodeFor(exercise.Type)
	if err != nil || answer == nil {
		return incorrect(feedbackNoAnswer)
	}

	switch exercise.Type {
	case models.Writing:
		text := answer.(models.TextAnswer).Text
		minWords, maxWords := exercise.WordBounds()
		return AnalyzeWriting(text, minWords, maxWords).ScoreResult
	case models.Speaking:
		return e.evaluateSpeech(exercise, answer.(models.TextAnswer).Text)
	}

	key, err := exercise.AnswerKey()
	if err != nil || key == nil {
		return incorrect(feedbackBrokenAnswers)
	}

	var ok bool
	switch exercise.Type {
	case models.MultipleChoice, models.AudioQuestion:
		ok = matchIndex(key, answer)
	case models.TrueFalse:
		ok = matchBool(key, answer)
	case models.MultipleSelect:
		ok = matchIndexSet(key, answer)
	case models.FillBlank:
		ok = e.matchText(exercise, key, answer)
	case models.Matching, models.DragDrop:
		ok = matchSequence(key, answer)
	}
	return verdict(ok, exercise.Explanation)
}

func (e *Evaluator) evaluateSpeech(exercise *models.Exercise, transcript string) models.ScoreResult {
	speech := ScoreSpeech(transcript, exercise.TargetText, exercise.TargetWords)
	if !speech.Detected || speech.Score == nil {
		return incorrect(speech.Feedback)
	}
	required := int(exercise.Accuracy()*100 + 0.5)
	return models.ScoreResult{
		IsCorrect: models.BoolPtr(*speech.Score >= required),
		Score:     *speech.Score,
		Feedback:  speech.Feedback,
	}
}

func matchIndex(key, answer models.Answer) bool {
	k, ok1 := key.(models.IndexAnswer)
	a, ok2 := answer.(models.IndexAnswer)
	return ok1 && ok2 && k.Index == a.Index
}

func matchBool(key, answer models.Answer) bool {
	k, ok1 := key.(models.BoolAnswer)
	a, ok2 := answer.(models.BoolAnswer)
	return ok1 && ok2 && k.Value == a.Value
}

// matchIndexSet compares as sets: same size and every element present in
// both directions.
func matchIndexSet(key, answer models.Answer) bool {
	k, ok1 := key.(models.IndexSetAnswer)
	a, ok2 := answer.(models.IndexSetAnswer)
	if !ok1 || !ok2 || len(k.Indices) != len(a.Indices) {
		return false
	}
	for _, idx := range a.Indices {
		if !slices.Contains(k.Indices, idx) {
			return false
		}
	}
	for _, idx := range k.Indices {
		if !slices.Contains(a.Indices, idx) {
			return false
		}
	}
	return true
}

func (e *Evaluator) matchText(exercise *models.Exercise, key, answer models.Answer) bool {
	k, ok1 := key.(models.TextAnswer)
	a, ok2 := answer.(models.TextAnswer)
	if !ok1 || !ok2 {
		return false
	}
	normalize := func(s string) string {
		s = strings.TrimSpace(s)
		if !exercise.CaseSensitive {
			s = strings.ToLower(s)
		}
		return s
	}

	submitted := normalize(a.Text)
	if submitted == "" {
		return false
	}
	partial := e.opts.FillBlankContains || exercise.AcceptPartial
	for _, candidate := range k.Candidates() {
		expected := normalize(candidate)
		if expected == "" {
			continue
		}
		if submitted == expected {
			return true
		}
		if partial && (strings.Contains(submitted, expected) || strings.Contains(expected, submitted)) {
			return true
		}
	}
	return false
}

func matchSequence(key, answer models.Answer) bool {
	k, ok1 := key.(models.SequenceAnswer)
	a, ok2 := answer.(models.SequenceAnswer)
	return ok1 && ok2 && slices.Equal(k.Items, a.Items)
}

func verdict(ok bool, explanation string) models.ScoreResult {
	if !ok {
		return incorrect(withExplanation(feedbackIncorrect, explanation))
	}
	return models.ScoreResult{
		IsCorrect: models.BoolPtr(true),
		Score:     100,
		Feedback:  withExplanation(feedbackCorrect, explanation),
	}
}

func incorrect(feedback string) models.ScoreResult {
	return models.ScoreResult{
		IsCorrect: models.BoolPtr(false),
		Score:     0,
		Feedback:  feedback,
	}
}

func withExplanation(feedback, explanation string) string {
	if explanation = strings.TrimSpace(explanation); explanation != "" {
		return feedback + " " + explanation
	}
	return feedback
}
