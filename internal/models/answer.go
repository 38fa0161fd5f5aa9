package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	apperrors "github.com/linguaplay/scoring-service/internal/errors"
)

// ErrUnsupportedExerciseType is returned when an answer is decoded for a type
// the engine does not know.
var ErrUnsupportedExerciseType = errors.New("unsupported exercise type")

// Answer is the tagged union of answer shapes. The concrete variant is chosen
// by the exercise type, never by inspecting the payload.
type Answer interface {
	isAnswer()
}

// IndexAnswer is a single option index (multiple_choice, audio_question).
type IndexAnswer struct {
	Index int `json:"index"`
}

// BoolAnswer is a true/false answer.
type BoolAnswer struct {
	Value bool `json:"value"`
}

// IndexSetAnswer is an unordered set of option indices (multiple_select).
type IndexSetAnswer struct {
	Indices []int `json:"indices"`
}

// TextAnswer is free text: a fill_blank entry, an essay or a speech transcript.
// Alternatives is only populated on answer keys.
type TextAnswer struct {
	Text         string   `json:"text"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// SequenceAnswer is an ordered list of item identifiers (matching, drag_drop).
type SequenceAnswer struct {
	Items []string `json:"items"`
}

func (IndexAnswer) isAnswer()    {}
func (BoolAnswer) isAnswer()     {}
func (IndexSetAnswer) isAnswer() {}
func (TextAnswer) isAnswer()     {}
func (SequenceAnswer) isAnswer() {}

// Candidates returns the text followed by every accepted alternative.
func (a TextAnswer) Candidates() []string {
	return append([]string{a.Text}, a.Alternatives...)
}

// DecodeAnswer decodes a learner's answer payload for the given exercise type.
// An absent or null payload yields a nil Answer and no error; a payload of the
// wrong JSON shape yields a *ValidationError.
func DecodeAnswer(t ExerciseType, raw []byte) (Answer, error) {
	return decodeAnswer(t, raw, false)
}

// DecodeAnswerKey decodes an exercise answer key. Unlike DecodeAnswer it
// accepts a list of alternatives for fill_blank.
func DecodeAnswerKey(t ExerciseType, raw []byte) (Answer, error) {
	return decodeAnswer(t, raw, true)
}

func decodeAnswer(t ExerciseType, raw []byte, key bool) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch t {
	case MultipleChoice, AudioQuestion:
		idx, err := decodeIndex(raw)
		if err != nil {
			return nil, shapeError("must be an option index", raw)
		}
		return IndexAnswer{Index: idx}, nil

	case TrueFalse:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, shapeError("must be a boolean", raw)
		}
		return BoolAnswer{Value: v}, nil

	case MultipleSelect:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, shapeError("must be a list of option indices", raw)
		}
		indices := make([]int, 0, len(items))
		for _, item := range items {
			idx, err := decodeIndex(item)
			if err != nil {
				return nil, shapeError("must be a list of option indices", raw)
			}
			indices = append(indices, idx)
		}
		return IndexSetAnswer{Indices: indices}, nil

	case FillBlank:
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return TextAnswer{Text: text}, nil
		}
		if key {
			var accepted []string
			if err := json.Unmarshal(raw, &accepted); err == nil && len(accepted) > 0 {
				return TextAnswer{Text: accepted[0], Alternatives: accepted[1:]}, nil
			}
			return nil, shapeError("must be a string or a non-empty list of strings", raw)
		}
		return nil, shapeError("must be a string", raw)

	case Writing, Speaking:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, shapeError("must be a string", raw)
		}
		return TextAnswer{Text: text}, nil

	case Matching, DragDrop:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, shapeError("must be an ordered list", raw)
		}
		seq := make([]string, 0, len(items))
		for _, item := range items {
			seq = append(seq, canonicalItem(item))
		}
		return SequenceAnswer{Items: seq}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExerciseType, t)
	}
}

func decodeIndex(raw []byte) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, err
	}
	return i, nil
}

// canonicalItem renders a sequence element as compact JSON, so 1 and "1"
// stay distinct and whitespace differences do not matter.
func canonicalItem(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func shapeError(message string, raw []byte) *apperrors.ValidationError {
	return apperrors.NewValidationErrorWithRule("answer", message, "answer_shape", string(raw))
}
