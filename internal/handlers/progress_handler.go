package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
	}
}

// GetMyProgress returns the caller's progress with level and streak views
// @Summary Get my progress
// @Tags progress
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.ProgressView}
// @Failure 401 {object} ErrorResponse
// @Router /progress/me [get]
func (h *ProgressHandler) GetMyProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.progressService.GetProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Progress retrieved", view)
}

// GetMyAchievements lists the catalog with the caller's progress on each entry
// @Summary Get my achievements
// @Tags progress
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.Achievement}
// @Failure 401 {object} ErrorResponse
// @Router /progress/me/achievements [get]
func (h *ProgressHandler) GetMyAchievements(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	achievements, err := h.progressService.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Achievements retrieved", achievements)
}

// GetMyAttempts lists the caller's graded attempts, newest first
// @Summary Get my attempts
// @Tags progress
// @Produce json
// @Param limit query int false "Number of attempts" default(20)
// @Success 200 {object} SuccessResponse{data=[]models.ExerciseAttempt}
// @Failure 401 {object} ErrorResponse
// @Router /progress/me/attempts [get]
func (h *ProgressHandler) GetMyAttempts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := parseIntQuery(c, "limit", services.DefaultAttemptsLimit)
	attempts, err := h.progressService.GetAttempts(c.Request.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Attempts retrieved", attempts, "count", len(attempts))
}

// GetLeaderboard ranks learners by points, then accuracy
// @Summary Get leaderboard
// @Tags progress
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {object} SuccessResponse{data=[]models.LeaderboardEntry}
// @Router /leaderboard [get]
func (h *ProgressHandler) GetLeaderboard(c *gin.Context) {
	limit := parseIntQuery(c, "limit", services.DefaultLeaderboardLimit)

	entries, err := h.progressService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Leaderboard retrieved", entries, "count", len(entries))
}
