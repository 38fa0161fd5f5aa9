package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/scoring"
	"github.com/linguaplay/scoring-service/internal/validator"
)

func newScoringService() ScoringService {
	svc := NewScoringService(scoring.NewEngine(nil, nil), validator.New(), discardLogger())
	svc.(*scoringService).now = func() time.Time { return fixedNow }
	return svc
}

func intPtr(v int) *int { return &v }

func TestScoringService_AnalyzeWriting(t *testing.T) {
	svc := newScoringService()

	analysis, err := svc.AnalyzeWriting(context.Background(), &AnalyzeWritingRequest{Text: "The cat sat."})
	require.NoError(t, err)
	require.NotNil(t, analysis.Metrics)
	assert.Equal(t, 3, analysis.Metrics.WordCount)
	assert.Equal(t, 100, analysis.CategoryScores[models.CategoryVocabulary])

	_, err = svc.AnalyzeWriting(context.Background(), &AnalyzeWritingRequest{
		Text: "text", MinWords: intPtr(50), MaxWords: intPtr(10),
	})
	assert.True(t, IsValidation(err))
}

func TestScoringService_ScoreSpeech(t *testing.T) {
	svc := newScoringService()

	result, err := svc.ScoreSpeech(context.Background(), &ScoreSpeechRequest{
		Transcript: "hello world", TargetText: "hello world",
	})
	require.NoError(t, err)
	assert.True(t, result.Detected)
	require.NotNil(t, result.Score)
	assert.Equal(t, 100, *result.Score)

	_, err = svc.ScoreSpeech(context.Background(), &ScoreSpeechRequest{Transcript: "hello"})
	assert.True(t, IsValidation(err))
}

func TestScoringService_CalculatePoints(t *testing.T) {
	tests := []struct {
		name string
		req  CalculatePointsRequest
		want int
	}{
		{name: "base only", req: CalculatePointsRequest{BasePoints: 10}, want: 10},
		{name: "fast answer", req: CalculatePointsRequest{BasePoints: 10, TimeTakenSeconds: intPtr(15), TimeLimitSeconds: intPtr(30)}, want: 15},
		{name: "three hints", req: CalculatePointsRequest{BasePoints: 10, HintsUsed: 3}, want: 7},
	}

	svc := newScoringService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.CalculatePoints(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Points)
		})
	}

	_, err := svc.CalculatePoints(context.Background(), &CalculatePointsRequest{BasePoints: -1})
	assert.True(t, IsValidation(err))
}

func TestScoringService_UpdateProgressFromZeroState(t *testing.T) {
	svc := newScoringService()

	update, err := svc.UpdateProgress(context.Background(), &UpdateProgressRequest{
		Result:     models.ScoreResult{IsCorrect: models.BoolPtr(true), Score: 100},
		BasePoints: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, update.PointsAwarded)
	assert.Equal(t, 45, update.State.TotalPoints)
	assert.Equal(t, 1, update.State.CurrentStreak)
	require.NotNil(t, update.State.LastActivityDate)
	assert.Equal(t, scoring.CalendarDay(fixedNow), *update.State.LastActivityDate)
}
