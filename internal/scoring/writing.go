package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/linguaplay/scoring-service/internal/models"
)

const feedbackEmptyWriting = "Please write something before submitting."

var (
	sentenceSplit  = regexp.MustCompile(`[.!?]+`)
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	terminalPunct  = regexp.MustCompile(`[.!?]$`)

	syllableSuffix = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	syllableLeadY  = regexp.MustCompile(`^y`)
	vowelGroup     = regexp.MustCompile(`[aeiouy]{1,2}`)
)

// AnalyzeWriting scores free text on content, organization, vocabulary and
// grammar. A zero bound disables the matching word-count check.
func AnalyzeWriting(text string, minWords, maxWords int) models.WritingAnalysis {
	if strings.TrimSpace(text) == "" {
		return models.WritingAnalysis{
			ScoreResult: models.ScoreResult{Score: 0, Feedback: feedbackEmptyWriting},
		}
	}

	words := strings.Fields(text)
	sentences := nonBlank(sentenceSplit.Split(text, -1))
	paragraphs := nonBlank(paragraphSplit.Split(text, -1))
	wordCount := len(words)

	content := 80.0
	if minWords > 0 && wordCount < minWords {
		content -= math.Min(30, float64(minWords-wordCount)/float64(minWords)*100)
	}
	if maxWords > 0 && wordCount > maxWords {
		content -= math.Min(20, float64(wordCount-maxWords)/float64(maxWords)*100)
	}

	organization := 75.0
	if len(paragraphs) < 2 && wordCount > 150 {
		organization -= 20
	}
	if len(paragraphs) > 0 && float64(len(sentences))/float64(len(paragraphs)) < 2 {
		organization -= 10
	}

	unique := make(map[string]struct{}, wordCount)
	complexWords := 0
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
		if EstimateSyllables(w) >= 3 {
			complexWords++
		}
	}
	diversity := float64(len(unique)) / float64(wordCount)
	vocabulary := math.Min(100, diversity*200)
	if float64(complexWords)/float64(wordCount) > 0.1 {
		vocabulary += 10
	}

	grammarErrors := CommonErrors(text)
	grammar := 85.0 - float64(len(grammarErrors))*5
	if len(sentences) > 0 {
		tokens := 0
		for _, s := range sentences {
			tokens += len(strings.Fields(s))
		}
		avg := float64(tokens) / float64(len(sentences))
		if avg < 8 || avg > 25 {
			grammar -= 10
		}
	}

	scores := map[string]int{
		models.CategoryContent:      clampScore(content),
		models.CategoryOrganization: clampScore(organization),
		models.CategoryVocabulary:   clampScore(vocabulary),
		models.CategoryGrammar:      clampScore(grammar),
	}
	overall := int(math.Round(
		float64(scores[models.CategoryContent])*0.25 +
			float64(scores[models.CategoryOrganization])*0.20 +
			float64(scores[models.CategoryVocabulary])*0.25 +
			float64(scores[models.CategoryGrammar])*0.30,
	))

	strengths, suggestions := writingFeedback(scores, wordCount, minWords, maxWords)

	avgWords := 0
	if len(sentences) > 0 {
		avgWords = int(math.Round(float64(wordCount) / float64(len(sentences))))
	}

	return models.WritingAnalysis{
		ScoreResult: models.ScoreResult{
			Score:          clampScore(float64(overall)),
			Feedback:       overallMessage(scores),
			CategoryScores: scores,
			Strengths:      strengths,
			Suggestions:    suggestions,
		},
		Metrics: &models.WritingMetrics{
			WordCount:                  wordCount,
			ParagraphCount:             len(paragraphs),
			SentenceCount:              len(sentences),
			AvgWordsPerSentence:        avgWords,
			VocabularyDiversityPercent: int(math.Round(diversity * 100)),
			Errors:                     grammarErrors,
		},
	}
}

// EstimateSyllables counts vowel groups after stripping silent endings.
func EstimateSyllables(word string) int {
	word = strings.ToLower(word)
	if len([]rune(word)) <= 3 {
		return 1
	}
	word = syllableSuffix.ReplaceAllString(word, "")
	word = syllableLeadY.ReplaceAllString(word, "")
	if n := len(vowelGroup.FindAllString(word, -1)); n > 0 {
		return n
	}
	return 1
}

// CommonErrors runs the fixed grammar checklist and returns one message per
// problem found.
func CommonErrors(text string) []string {
	var errs []string
	if strings.Contains(text, " i ") || strings.HasPrefix(text, "i ") {
		errs = append(errs, `Capitalize "I"`)
	}
	if strings.Contains(text, "  ") {
		errs = append(errs, "Double spaces found")
	}
	if !terminalPunct.MatchString(strings.TrimSpace(text)) {
		errs = append(errs, "Missing ending punctuation")
	}
	if strings.Contains(text, "your welcome") {
		errs = append(errs, `Use "you're" not "your" for "you are"`)
	}
	if strings.Contains(text, "its a") || strings.Contains(text, "its been") {
		errs = append(errs, `Use "it's" (contraction) not "its" (possessive)`)
	}
	return errs
}

func writingFeedback(scores map[string]int, wordCount, minWords, maxWords int) (strengths, suggestions []string) {
	type rule struct {
		category   string
		strength   string
		suggestion string
	}
	rules := []rule{
		{models.CategoryContent, "Strong content and ideas", "Develop your ideas more fully with specific examples and details"},
		{models.CategoryOrganization, "Well-organized structure", "Improve organization with clear paragraphs and transitions"},
		{models.CategoryVocabulary, "Good vocabulary usage", "Use more varied and precise vocabulary"},
		{models.CategoryGrammar, "Correct grammar and mechanics", "Review grammar rules and proofread carefully"},
	}
	for _, r := range rules {
		if scores[r.category] >= 80 {
			strengths = append(strengths, r.strength)
		}
		if scores[r.category] < 70 {
			suggestions = append(suggestions, r.suggestion)
		}
	}

	if minWords > 0 && wordCount < minWords {
		suggestions = append(suggestions, fmt.Sprintf("Add more content - you need at least %d words", minWords))
	}
	if maxWords > 0 && wordCount > maxWords {
		suggestions = append(suggestions, fmt.Sprintf("Reduce length - maximum is %d words", maxWords))
	}
	return strengths, suggestions
}

func overallMessage(scores map[string]int) string {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	mean := float64(sum) / float64(len(scores))
	switch {
	case mean >= 90:
		return "Excellent work! Your writing demonstrates strong skills across all areas."
	case mean >= 80:
		return "Good writing! You show solid skills with room for some improvement."
	case mean >= 70:
		return "Satisfactory work. Focus on the suggested areas for improvement."
	case mean >= 60:
		return "Your writing shows potential. Work on the key areas highlighted below."
	default:
		return "Keep practicing! Focus on basic writing skills and organization."
	}
}

func nonBlank(parts []string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func clampScore(v float64) int {
	r := int(math.Round(v))
	return max(0, min(100, r))
}
