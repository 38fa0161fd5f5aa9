package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/linguaplay/scoring-service/internal/models"
)

const (
	feedbackNoSpeech = "No speech detected. Please try again."

	// SpeechScoreFloor is the lowest score any non-empty transcript receives.
	SpeechScoreFloor = 30

	missingWordPenalty = 10
)

// ScoreSpeech compares a transcript with the target text word by word. A
// transcript word matches when it contains, or is contained in, some target
// word.
func ScoreSpeech(transcript, targetText string, targetWords []string) models.SpeechResult {
	spoken := strings.Fields(strings.ToLower(transcript))
	if len(spoken) == 0 {
		return models.SpeechResult{Detected: false, Feedback: feedbackNoSpeech}
	}
	target := strings.Fields(strings.ToLower(targetText))

	matched := 0
	for _, word := range spoken {
		for _, t := range target {
			if strings.Contains(t, word) || strings.Contains(word, t) {
				matched++
				break
			}
		}
	}
	similarity := float64(matched) / float64(max(len(spoken), len(target)))

	score := int(math.Round(similarity * 100))
	feedback := speechFeedback(score)
	score = max(score, SpeechScoreFloor)

	lowered := strings.ToLower(transcript)
	var missing []string
	for _, w := range targetWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if !strings.Contains(lowered, strings.ToLower(w)) {
			missing = append(missing, w)
		}
	}
	if len(missing) > 0 {
		feedback += fmt.Sprintf(" Try to pronounce these words more clearly: %s.", strings.Join(missing, ", "))
		score = max(score-len(missing)*missingWordPenalty, SpeechScoreFloor)
	}

	return models.SpeechResult{
		Detected:     true,
		Score:        &score,
		Similarity:   similarity,
		Feedback:     feedback,
		MissingWords: missing,
	}
}

func speechFeedback(score int) string {
	switch {
	case score >= 90:
		return "Excellent pronunciation! Very clear and accurate."
	case score >= 80:
		return "Good job! Your pronunciation is quite clear."
	case score >= 70:
		return "Not bad! Try to speak a bit more clearly."
	case score >= 60:
		return "Keep practicing! Focus on pronunciation of key words."
	default:
		return "Don't give up! Try speaking slower and more clearly."
	}
}
