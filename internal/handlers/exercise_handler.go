package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/services"
	"github.com/linguaplay/scoring-service/internal/utils"
)

const maxImportSize = 10 << 20

type ExerciseHandler struct {
	BaseHandler
	exerciseService     services.ExerciseService
	importExportService services.ImportExportService
}

func NewExerciseHandler(exerciseService services.ExerciseService, importExportService services.ImportExportService, logger utils.Logger) *ExerciseHandler {
	return &ExerciseHandler{
		BaseHandler:         NewBaseHandler(logger),
		exerciseService:     exerciseService,
		importExportService: importExportService,
	}
}

// CreateExercise creates a new exercise
// @Summary Create exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Param exercise body models.Exercise true "Exercise"
// @Success 201 {object} SuccessResponse{data=models.Exercise}
// @Failure 400 {object} ErrorResponse
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	h.LogRequest(c, "Creating exercise")

	exercise := models.Exercise{Points: models.DefaultPoints}
	if err := c.ShouldBindJSON(&exercise); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}
	exercise.ID = 0

	created, err := h.exerciseService.Create(c.Request.Context(), &exercise)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "Exercise created", created, "exercise_id", created.ID)
}

// GetExercise retrieves an exercise without its answer key
// @Summary Get exercise
// @Tags exercises
// @Produce json
// @Param id path uint true "Exercise ID"
// @Success 200 {object} SuccessResponse{data=models.ExerciseView}
// @Failure 404 {object} ErrorResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	exercise, err := h.exerciseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Exercise retrieved", exercise.LearnerView())
}

// ListExercises lists exercises
// @Summary List exercises
// @Tags exercises
// @Produce json
// @Param type query string false "Exercise type"
// @Param lesson_id query int false "Lesson"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} SuccessResponse
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	filters := repositories.ExerciseFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if t := c.Query("type"); t != "" {
		exerciseType := models.ExerciseType(t)
		filters.Type = &exerciseType
	}
	if lessonID := parseIntQuery(c, "lesson_id", 0); lessonID > 0 {
		id := uint(lessonID)
		filters.LessonID = &id
	}

	exercises, total, err := h.exerciseService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	views := make([]*models.ExerciseView, 0, len(exercises))
	for _, e := range exercises {
		views = append(views, e.LearnerView())
	}
	h.RespondWithSuccess(c, http.StatusOK, "Exercises retrieved", gin.H{
		"exercises": views,
		"total":     total,
	})
}

// DeleteExercise deletes an exercise
// @Summary Delete exercise
// @Tags exercises
// @Param id path uint true "Exercise ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.exerciseService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Exercise deleted", nil, "exercise_id", id)
}

// ImportExercises imports exercises from an uploaded .xlsx or .csv file
// @Summary Import exercises
// @Tags exercises
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} SuccessResponse{data=models.ImportSummary}
// @Failure 400 {object} ErrorResponse
// @Router /exercises/import [post]
func (h *ExerciseHandler) ImportExercises(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err, err.Error())
		return
	}
	if header.Size > maxImportSize {
		h.RespondWithError(c, http.StatusBadRequest, "File is too large", nil, header.Size)
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Could not read file", err, err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing exercises", "filename", header.Filename, "size", header.Size)

	summary, err := h.importExportService.ImportExercisesFromFile(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Exercises imported", summary,
		"success_count", summary.SuccessCount, "error_count", summary.ErrorCount)
}
