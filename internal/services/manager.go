package services

import (
	"log/slog"
	"time"

	"github.com/linguaplay/scoring-service/internal/cache"
	"github.com/linguaplay/scoring-service/internal/events"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/scoring"
	"github.com/linguaplay/scoring-service/internal/validator"
)

// ServiceManager exposes every service the HTTP layer depends on.
type ServiceManager interface {
	Scoring() ScoringService
	Submission() SubmissionService
	Progress() ProgressService
	Exercise() ExerciseService
	ImportExport() ImportExportService
}

// Dependencies are the collaborators shared across services.
type Dependencies struct {
	ExerciseRepo repositories.ExerciseRepository
	ProgressRepo repositories.ProgressRepository
	AttemptRepo  repositories.AttemptRepository
	Transactor   repositories.Transactor

	Cache       cache.CacheService
	Locker      cache.Locker
	Leaderboard cache.Leaderboard
	Publisher   events.EventPublisher

	Engine    *scoring.Engine
	Validator *validator.Validator

	CacheTTL time.Duration
	LockTTL  time.Duration
}

type serviceManager struct {
	scoring      ScoringService
	submission   SubmissionService
	progress     ProgressService
	exercise     ExerciseService
	importExport ImportExportService
}

func NewServiceManager(deps Dependencies, logger *slog.Logger) ServiceManager {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	exercise := NewExerciseService(deps.ExerciseRepo, deps.Cache, deps.CacheTTL, deps.Validator, logger)
	return &serviceManager{
		scoring:  NewScoringService(deps.Engine, deps.Validator, logger),
		exercise: exercise,
		submission: NewSubmissionService(SubmissionDeps{
			Exercises:   exercise,
			Progress:    deps.ProgressRepo,
			Attempts:    deps.AttemptRepo,
			Transactor:  deps.Transactor,
			Locker:      deps.Locker,
			Leaderboard: deps.Leaderboard,
			Publisher:   deps.Publisher,
			Engine:      deps.Engine,
			Validator:   deps.Validator,
			LockTTL:     deps.LockTTL,
		}, logger),
		progress:     NewProgressService(deps.ProgressRepo, deps.AttemptRepo, deps.Leaderboard, deps.Engine, logger),
		importExport: NewImportExportService(deps.ExerciseRepo, deps.ProgressRepo, deps.Engine, logger, deps.Validator),
	}
}

func (m *serviceManager) Scoring() ScoringService           { return m.scoring }
func (m *serviceManager) Submission() SubmissionService     { return m.submission }
func (m *serviceManager) Progress() ProgressService         { return m.progress }
func (m *serviceManager) Exercise() ExerciseService         { return m.exercise }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
