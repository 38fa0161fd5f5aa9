package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
)

// ScoringHandler exposes the stateless engine operations.
type ScoringHandler struct {
	BaseHandler
	scoringService services.ScoringService
}

func NewScoringHandler(scoringService services.ScoringService, logger utils.Logger) *ScoringHandler {
	base := NewBaseHandler(logger)
	base.internalMessage = msgGradingFailed
	return &ScoringHandler{
		BaseHandler:    base,
		scoringService: scoringService,
	}
}

// bind decodes the JSON body into req, answering 400 on failure.
func (h *ScoringHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return false
	}
	return true
}

// AnalyzeWriting scores a piece of free writing
// @Summary Analyze writing
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body services.AnalyzeWritingRequest true "Text and word limits"
// @Success 200 {object} SuccessResponse{data=models.WritingAnalysis}
// @Failure 400 {object} ErrorResponse
// @Router /scoring/writing [post]
func (h *ScoringHandler) AnalyzeWriting(c *gin.Context) {
	var req services.AnalyzeWritingRequest
	if !h.bind(c, &req) {
		return
	}

	analysis, err := h.scoringService.AnalyzeWriting(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Writing analyzed", analysis, "score", analysis.Score)
}

// ScoreSpeech compares a transcript with the target text
// @Summary Score speech
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body services.ScoreSpeechRequest true "Transcript and target"
// @Success 200 {object} SuccessResponse{data=models.SpeechResult}
// @Failure 400 {object} ErrorResponse
// @Router /scoring/speech [post]
func (h *ScoringHandler) ScoreSpeech(c *gin.Context) {
	var req services.ScoreSpeechRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.scoringService.ScoreSpeech(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Speech scored", result)
}

// CalculatePoints applies the points formula
// @Summary Calculate points
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body services.CalculatePointsRequest true "Points inputs"
// @Success 200 {object} SuccessResponse{data=services.CalculatePointsResponse}
// @Failure 400 {object} ErrorResponse
// @Router /scoring/points [post]
func (h *ScoringHandler) CalculatePoints(c *gin.Context) {
	var req services.CalculatePointsRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.scoringService.CalculatePoints(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Points calculated", resp)
}

// UpdateProgress folds a result into a caller-supplied state without storing it
// @Summary Update progress
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body services.UpdateProgressRequest true "State and result"
// @Success 200 {object} SuccessResponse{data=scoring.ProgressUpdate}
// @Failure 400 {object} ErrorResponse
// @Router /scoring/progress [post]
func (h *ScoringHandler) UpdateProgress(c *gin.Context) {
	var req services.UpdateProgressRequest
	if !h.bind(c, &req) {
		return
	}

	update, err := h.scoringService.UpdateProgress(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Progress updated", update)
}
