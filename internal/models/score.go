package models

// Rubric categories for writing.
const (
	CategoryContent      = "content"
	CategoryOrganization = "organization"
	CategoryVocabulary   = "vocabulary"
	CategoryGrammar      = "grammar"
)

// PassingScore is the overall score at which an outcome without an explicit
// correctness flag counts as passed.
const PassingScore = 70

type ScoreResult struct {
	// IsCorrect is nil for writing, which is graded on a rubric only.
	IsCorrect      *bool          `json:"is_correct,omitempty"`
	Score          int            `json:"score"`
	Feedback       string         `json:"feedback"`
	CategoryScores map[string]int `json:"category_scores,omitempty"`
	Strengths      []string       `json:"strengths,omitempty"`
	Suggestions    []string       `json:"suggestions,omitempty"`
}

// Passed reports whether the outcome earns points.
func (r ScoreResult) Passed() bool {
	if r.IsCorrect != nil {
		return *r.IsCorrect
	}
	return r.Score >= PassingScore
}

type WritingMetrics struct {
	WordCount                  int      `json:"word_count"`
	ParagraphCount             int      `json:"paragraph_count"`
	SentenceCount              int      `json:"sentence_count"`
	AvgWordsPerSentence        int      `json:"avg_words_per_sentence"`
	VocabularyDiversityPercent int      `json:"vocabulary_diversity_percent"`
	Errors                     []string `json:"errors,omitempty"`
}

type WritingAnalysis struct {
	ScoreResult
	Metrics *WritingMetrics `json:"metrics,omitempty"`
}

type SpeechResult struct {
	Detected     bool     `json:"detected"`
	Score        *int     `json:"score,omitempty"`
	Similarity   float64  `json:"similarity"`
	Feedback     string   `json:"feedback"`
	MissingWords []string `json:"missing_words,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}
