package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewReportHandler(importExportService services.ImportExportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ExportProgressReport downloads a progress workbook. Learners only get
// their own sheet; admins may name learners or take the top of the board.
// @Summary Export progress report
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param user_id query []string false "Learners to include; top learners when omitted"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /reports/progress [get]
func (h *ReportHandler) ExportProgressReport(c *gin.Context) {
	requesterID, ok := requireUserID(c)
	if !ok {
		return
	}

	userIDs := queryList(c, "user_id")
	if !c.GetBool(ContextIsAdmin) {
		for _, id := range userIDs {
			if id != requesterID {
				h.RespondWithError(c, http.StatusForbidden, "Insufficient permissions", nil, "learners may only export their own progress")
				return
			}
		}
		userIDs = []string{requesterID}
	} else if len(userIDs) > services.MaxReportLearners {
		h.RespondWithError(c, http.StatusBadRequest, "Validation failed", nil,
			fmt.Sprintf("at most %d learners per report", services.MaxReportLearners))
		return
	}
	h.LogRequest(c, "Exporting progress report", "learners", len(userIDs))

	data, err := h.importExportService.ExportProgressReport(c.Request.Context(), userIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("progress-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
