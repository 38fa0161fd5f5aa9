package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
}

func NewSubmissionHandler(submissionService services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	base := NewBaseHandler(logger)
	base.internalMessage = msgGradingFailed
	return &SubmissionHandler{
		BaseHandler:       base,
		submissionService: submissionService,
	}
}

// SubmitAnswer grades an answer and updates the learner's progress
// @Summary Submit answer
// @Description Grades the answer, awards points and achievements
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body models.Submission true "Answer"
// @Success 200 {object} SuccessResponse{data=services.SubmissionResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions [post]
func (h *SubmissionHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Submitting answer", "exercise_id", req.ExerciseID)

	resp, err := h.submissionService.SubmitAnswer(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Answer graded", resp,
		"exercise_id", req.ExerciseID, "points_awarded", resp.PointsAwarded)
}
