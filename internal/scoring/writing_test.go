package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaplay/scoring-service/internal/models"
)

func TestAnalyzeWriting_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\t"} {
		result := AnalyzeWriting(text, 50, 200)
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, feedbackEmptyWriting, result.Feedback)
		assert.Empty(t, result.CategoryScores)
		assert.Nil(t, result.Metrics)
	}
}

func TestAnalyzeWriting_Rubric(t *testing.T) {
	result := AnalyzeWriting("The cat sat.", 0, 0)

	assert.Equal(t, 80, result.CategoryScores[models.CategoryContent])
	assert.Equal(t, 65, result.CategoryScores[models.CategoryOrganization])
	assert.Equal(t, 100, result.CategoryScores[models.CategoryVocabulary])
	assert.Equal(t, 75, result.CategoryScores[models.CategoryGrammar])
	assert.Equal(t, 81, result.Score)

	assert.ElementsMatch(t, []string{"Strong content and ideas", "Good vocabulary usage"}, result.Strengths)
	assert.Equal(t, []string{"Improve organization with clear paragraphs and transitions"}, result.Suggestions)
	assert.Equal(t, "Good writing! You show solid skills with room for some improvement.", result.Feedback)

	require.NotNil(t, result.Metrics)
	assert.Equal(t, 3, result.Metrics.WordCount)
	assert.Equal(t, 1, result.Metrics.SentenceCount)
	assert.Equal(t, 1, result.Metrics.ParagraphCount)
	assert.Equal(t, 3, result.Metrics.AvgWordsPerSentence)
	assert.Equal(t, 100, result.Metrics.VocabularyDiversityPercent)
}

func TestAnalyzeWriting_CategoryAdjustments(t *testing.T) {
	const walk = "We walked to the park and played there all day. "

	tests := []struct {
		name         string
		text         string
		organization int
		vocabulary   int
		grammar      int
		score        int
	}{
		{
			name:         "one long paragraph loses organization",
			text:         strings.Repeat(walk, 16),
			organization: 55,
			vocabulary:   13,
			grammar:      85,
			score:        60,
		},
		{
			name:         "same text in two paragraphs",
			text:         strings.Repeat(walk, 8) + "\n\n" + strings.Repeat(walk, 8),
			organization: 75,
			vocabulary:   13,
			grammar:      85,
			score:        64,
		},
		{
			name:         "complex words raise vocabulary",
			text:         strings.Repeat("Beautiful elephants wander slowly across the open plain today. ", 3),
			organization: 75,
			vocabulary:   77,
			grammar:      85,
			score:        80,
		},
		{
			name:         "plain words at the same diversity",
			text:         strings.Repeat("Big gray dogs walk slowly across the open plain today. ", 3),
			organization: 75,
			vocabulary:   67,
			grammar:      85,
			score:        77,
		},
		{
			name:         "long sentences lose grammar",
			text:         "The small dog ran across the wide green field and then it ran back again to the old red barn where the farmer was waiting with some fresh food for it.",
			organization: 65,
			vocabulary:   100,
			grammar:      75,
			score:        81,
		},
		{
			name:         "mid length sentence keeps grammar",
			text:         "The small dog ran across the wide green field and then it ran back again.",
			organization: 65,
			vocabulary:   100,
			grammar:      85,
			score:        84,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeWriting(tt.text, 0, 0)

			assert.Equal(t, 80, result.CategoryScores[models.CategoryContent])
			assert.Equal(t, tt.organization, result.CategoryScores[models.CategoryOrganization])
			assert.Equal(t, tt.vocabulary, result.CategoryScores[models.CategoryVocabulary])
			assert.Equal(t, tt.grammar, result.CategoryScores[models.CategoryGrammar])
			assert.Equal(t, tt.score, result.Score)
		})
	}
}

func TestAnalyzeWriting_WordBounds(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		result := AnalyzeWriting("The cat sat.", 10, 0)
		assert.Equal(t, 50, result.CategoryScores[models.CategoryContent])
		assert.Contains(t, result.Suggestions, "Add more content - you need at least 10 words")
	})

	t.Run("too long", func(t *testing.T) {
		result := AnalyzeWriting("The cat sat.", 0, 2)
		assert.Equal(t, 60, result.CategoryScores[models.CategoryContent])
		assert.Contains(t, result.Suggestions, "Reduce length - maximum is 2 words")
	})
}

func TestAnalyzeWriting_ScoreAlwaysInRange(t *testing.T) {
	inputs := []string{
		"a",
		"!!!",
		"i  think its a good day your welcome",
		strings.Repeat("word ", 1000),
		strings.Repeat("Extraordinary responsibilities necessitate considerable deliberation. ", 60),
		"First paragraph here. It has two sentences.\n\nSecond paragraph here. Also two sentences.",
	}
	for _, text := range inputs {
		for _, bounds := range [][2]int{{0, 0}, {50, 100}, {1, 1}} {
			result := AnalyzeWriting(text, bounds[0], bounds[1])
			assert.GreaterOrEqual(t, result.Score, 0)
			assert.LessOrEqual(t, result.Score, 100)
			for category, score := range result.CategoryScores {
				assert.GreaterOrEqual(t, score, 0, category)
				assert.LessOrEqual(t, score, 100, category)
			}
		}
	}
}

func TestEstimateSyllables(t *testing.T) {
	tests := map[string]int{
		"cat":    1,
		"cake":   1,
		"table":  2,
		"yellow": 2,
		"banana": 3,
		"BANANA": 3,
	}
	for word, want := range tests {
		assert.Equal(t, want, EstimateSyllables(word), word)
	}
}

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"clean", "I think this is fine.", 0},
		{"lowercase i and no punctuation", "i think so", 2},
		{"double space", "Hello  there.", 1},
		{"your welcome", "Thanks, your welcome.", 1},
		{"its been", "Well its been a while.", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, CommonErrors(tt.text), tt.want)
		})
	}
}
