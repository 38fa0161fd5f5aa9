package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
)

type HandlerManager struct {
	scoringHandler    *ScoringHandler
	submissionHandler *SubmissionHandler
	progressHandler   *ProgressHandler
	exerciseHandler   *ExerciseHandler
	reportHandler     *ReportHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		scoringHandler:    NewScoringHandler(serviceManager.Scoring(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), logger),
		progressHandler:   NewProgressHandler(serviceManager.Progress(), logger),
		exerciseHandler:   NewExerciseHandler(serviceManager.Exercise(), serviceManager.ImportExport(), logger),
		reportHandler:     NewReportHandler(serviceManager.ImportExport(), logger),
	}
}

// SetupRoutes sets up all API routes. auth guards learner endpoints;
// authoring endpoints also require admin rights.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	author := []gin.HandlerFunc{auth, RequireAdmin()}

	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Stateless engine
		scoringRoutes := v1.Group("/scoring")
		{
			scoringRoutes.POST("/writing", hm.scoringHandler.AnalyzeWriting)
			scoringRoutes.POST("/speech", hm.scoringHandler.ScoreSpeech)
			scoringRoutes.POST("/points", hm.scoringHandler.CalculatePoints)
			scoringRoutes.POST("/progress", hm.scoringHandler.UpdateProgress)
		}

		v1.GET("/leaderboard", hm.progressHandler.GetLeaderboard)

		exercises := v1.Group("/exercises")
		{
			exercises.GET("", hm.exerciseHandler.ListExercises)
			exercises.GET("/:id", hm.exerciseHandler.GetExercise)
			exercises.POST("", append(author, hm.exerciseHandler.CreateExercise)...)
			exercises.POST("/import", append(author, hm.exerciseHandler.ImportExercises)...)
			exercises.DELETE("/:id", append(author, hm.exerciseHandler.DeleteExercise)...)
		}

		// Learner routes
		learner := v1.Group("", auth)
		{
			learner.POST("/submissions", hm.submissionHandler.SubmitAnswer)
			learner.GET("/progress/me", hm.progressHandler.GetMyProgress)
			learner.GET("/progress/me/achievements", hm.progressHandler.GetMyAchievements)
			learner.GET("/progress/me/attempts", hm.progressHandler.GetMyAttempts)
			learner.GET("/reports/progress", hm.reportHandler.ExportProgressReport)
		}
	}
}
