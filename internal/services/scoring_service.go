package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/scoring"
	"github.com/linguaplay/scoring-service/internal/validator"
)

// ScoringService exposes the engine without persistence.
type ScoringService interface {
	AnalyzeWriting(ctx context.Context, req *AnalyzeWritingRequest) (*models.WritingAnalysis, error)
	ScoreSpeech(ctx context.Context, req *ScoreSpeechRequest) (*models.SpeechResult, error)
	CalculatePoints(ctx context.Context, req *CalculatePointsRequest) (*CalculatePointsResponse, error)
	UpdateProgress(ctx context.Context, req *UpdateProgressRequest) (*scoring.ProgressUpdate, error)
}

type AnalyzeWritingRequest struct {
	Text     string `json:"text"`
	MinWords *int   `json:"min_words,omitempty" validate:"omitempty,min=0"`
	MaxWords *int   `json:"max_words,omitempty" validate:"omitempty,min=0"`
}

type ScoreSpeechRequest struct {
	Transcript  string   `json:"transcript"`
	TargetText  string   `json:"target_text" validate:"required"`
	TargetWords []string `json:"target_words,omitempty"`
}

type CalculatePointsRequest struct {
	BasePoints           int      `json:"base_points" validate:"min=0"`
	TimeTakenSeconds     *int     `json:"time_taken_seconds,omitempty" validate:"omitempty,min=0"`
	TimeLimitSeconds     *int     `json:"time_limit_seconds,omitempty" validate:"omitempty,min=0"`
	HintsUsed            int      `json:"hints_used" validate:"min=0"`
	DifficultyMultiplier *float64 `json:"difficulty_multiplier,omitempty" validate:"omitempty,min=0"`
}

type CalculatePointsResponse struct {
	Points int `json:"points"`
}

// UpdateProgressRequest applies a graded result to a caller-supplied state.
// A missing state is the zero state; a missing time is now.
type UpdateProgressRequest struct {
	State                *models.UserProgressState `json:"state,omitempty"`
	Result               models.ScoreResult        `json:"result"`
	BasePoints           int                       `json:"base_points" validate:"min=0"`
	TimeTakenSeconds     *int                      `json:"time_taken_seconds,omitempty" validate:"omitempty,min=0"`
	TimeLimitSeconds     *int                      `json:"time_limit_seconds,omitempty" validate:"omitempty,min=0"`
	HintsUsed            int                       `json:"hints_used" validate:"min=0"`
	DifficultyMultiplier *float64                  `json:"difficulty_multiplier,omitempty" validate:"omitempty,min=0"`
	ActivityAt           *time.Time                `json:"activity_at,omitempty"`
}

type scoringService struct {
	engine    *scoring.Engine
	validator *validator.Validator
	log       *ServiceLogger
	now       func() time.Time
}

func NewScoringService(engine *scoring.Engine, validator *validator.Validator, logger *slog.Logger) ScoringService {
	return &scoringService{
		engine:    engine,
		validator: validator,
		log:       NewServiceLogger(logger, LogConfig{Service: "scoring", Component: "engine"}),
		now:       time.Now,
	}
}

func (s *scoringService) AnalyzeWriting(ctx context.Context, req *AnalyzeWritingRequest) (*models.WritingAnalysis, error) {
	op := s.log.WithOperation(ctx, "analyze_writing", "")
	if err := s.validateWriting(req); err != nil {
		op.LogResult(0, "writing", err)
		return nil, err
	}

	minWords, maxWords := 0, 0
	if req.MinWords != nil {
		minWords = *req.MinWords
	}
	if req.MaxWords != nil {
		maxWords = *req.MaxWords
	}

	analysis := scoring.AnalyzeWriting(req.Text, minWords, maxWords)
	op.LogResult(0, "writing", nil)
	return &analysis, nil
}

func (s *scoringService) validateWriting(req *AnalyzeWritingRequest) error {
	if req == nil {
		return NewValidationError("request", "is required", nil)
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if req.MinWords != nil && req.MaxWords != nil && *req.MaxWords > 0 && *req.MaxWords < *req.MinWords {
		return NewValidationError("max_words", "must be greater than or equal to min_words", *req.MaxWords)
	}
	return nil
}

func (s *scoringService) ScoreSpeech(ctx context.Context, req *ScoreSpeechRequest) (*models.SpeechResult, error) {
	op := s.log.WithOperation(ctx, "score_speech", "")
	if req == nil {
		err := NewValidationError("request", "is required", nil)
		op.LogResult(0, "speech", err)
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		op.LogResult(0, "speech", err)
		return nil, err
	}

	result := scoring.ScoreSpeech(req.Transcript, req.TargetText, req.TargetWords)
	op.LogResult(0, "speech", nil)
	return &result, nil
}

func (s *scoringService) CalculatePoints(ctx context.Context, req *CalculatePointsRequest) (*CalculatePointsResponse, error) {
	if req == nil {
		return nil, NewValidationError("request", "is required", nil)
	}
	if err := s.validator.Validate(req); err != nil {
		s.log.WithOperation(ctx, "calculate_points", "").LogResult(0, "points", err)
		return nil, err
	}

	points := scoring.CalculatePoints(scoring.PointsInput{
		BasePoints:           req.BasePoints,
		TimeTakenSeconds:     req.TimeTakenSeconds,
		TimeLimitSeconds:     req.TimeLimitSeconds,
		HintsUsed:            req.HintsUsed,
		DifficultyMultiplier: multiplierOrDefault(req.DifficultyMultiplier),
	})
	return &CalculatePointsResponse{Points: points}, nil
}

func (s *scoringService) UpdateProgress(ctx context.Context, req *UpdateProgressRequest) (*scoring.ProgressUpdate, error) {
	op := s.log.WithOperation(ctx, "update_progress", "")
	if req == nil {
		err := NewValidationError("request", "is required", nil)
		op.LogResult(0, "progress", err)
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		op.LogResult(0, "progress", err)
		return nil, err
	}

	activity := s.now()
	if req.ActivityAt != nil {
		activity = *req.ActivityAt
	}

	update := s.engine.UpdateProgress(req.State, scoring.Outcome{
		Result:               req.Result,
		BasePoints:           req.BasePoints,
		TimeTakenSeconds:     req.TimeTakenSeconds,
		TimeLimitSeconds:     req.TimeLimitSeconds,
		HintsUsed:            req.HintsUsed,
		DifficultyMultiplier: multiplierOrDefault(req.DifficultyMultiplier),
	}, activity)

	op.LogResult(0, "progress", nil)
	return &update, nil
}

func multiplierOrDefault(m *float64) float64 {
	if m == nil {
		return models.DefaultDifficultyMultiplier
	}
	return *m
}
