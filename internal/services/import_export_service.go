package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/linguaplay/scoring-service/internal/models"
	"github.com/linguaplay/scoring-service/internal/repositories"
	"github.com/linguaplay/scoring-service/internal/scoring"
	"github.com/linguaplay/scoring-service/internal/validator"
)

const listSeparator = "|"

// ImportExportService handles spreadsheet import of exercises and export of
// learner progress.
type ImportExportService interface {
	// Import operations
	ImportExercisesFromFile(ctx context.Context, file multipart.File, filename string) (*models.ImportSummary, error)
	ImportExercisesFromCSV(ctx context.Context, reader io.Reader) (*models.ImportSummary, error)
	ImportExercisesFromExcel(ctx context.Context, reader io.Reader) (*models.ImportSummary, error)

	// Export operations
	ExportProgressReport(ctx context.Context, userIDs []string) ([]byte, error)
}

type importExportService struct {
	exercises repositories.ExerciseRepository
	progress  repositories.ProgressRepository
	engine    *scoring.Engine
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(exercises repositories.ExerciseRepository, progress repositories.ProgressRepository, engine *scoring.Engine, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	if engine == nil {
		engine = scoring.NewEngine(nil, nil)
	}
	return &importExportService{
		exercises: exercises,
		progress:  progress,
		engine:    engine,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

var requiredColumns = []string{"type", "prompt"}

func (s *importExportService) ImportExercisesFromFile(ctx context.Context, file multipart.File, filename string) (*models.ImportSummary, error) {
	s.logger.Info("Starting file import", "filename", filename)

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return s.ImportExercisesFromCSV(ctx, file)
	case ".xlsx":
		return s.ImportExercisesFromExcel(ctx, file)
	default:
		return nil, NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportExercisesFromCSV(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.importRows(ctx, records)
}

func (s *importExportService) ImportExercisesFromExcel(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.importRows(ctx, rows)
}

func (s *importExportService) importRows(ctx context.Context, rows [][]string) (*models.ImportSummary, error) {
	start := time.Now()

	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	summary := &models.ImportSummary{
		TotalRows:        len(rows) - 1,
		CreatedExercises: []uint{},
		Errors:           []models.ImportValidationError{},
	}

	var exercises []*models.Exercise
	for i, record := range rows[1:] {
		exercise, rowErrors := s.parseRow(record, headerMap, i+2)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
		} else {
			exercises = append(exercises, exercise)
		}
		summary.ProcessedRows++
	}

	if len(exercises) > 0 {
		if err := s.exercises.CreateBatch(ctx, nil, exercises); err != nil {
			return nil, fmt.Errorf("failed to save exercises: %w", err)
		}
		for _, ex := range exercises {
			summary.CreatedExercises = append(summary.CreatedExercises, ex.ID)
		}
		summary.SuccessCount = len(exercises)
	}
	summary.ProcessingTime = time.Since(start)

	s.logger.Info("Exercise import completed",
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	return summary, nil
}

// rowReader reads typed cells from one record and collects parse errors.
type rowReader struct {
	record    []string
	headerMap map[string]int
	row       int
	errors    []models.ImportValidationError
}

func (r *rowReader) get(name string) string {
	if index, exists := r.headerMap[name]; exists && index < len(r.record) {
		return strings.TrimSpace(r.record[index])
	}
	return ""
}

func (r *rowReader) fail(column, message, value, code string) {
	r.errors = append(r.errors, models.ImportValidationError{
		Row: r.row, Column: column, Message: message, Value: value, Code: code,
	})
}

func (r *rowReader) optionalInt(column string) *int {
	raw := r.get(column)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(column, "must be a whole number", raw, "invalid_number")
		return nil
	}
	return &n
}

func (r *rowReader) float(column string, fallback float64) float64 {
	raw := r.get(column)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		r.fail(column, "must be a number", raw, "invalid_number")
		return fallback
	}
	return v
}

func (r *rowReader) bool(column string) bool {
	raw := r.get(column)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.fail(column, "must be true or false", raw, "invalid_bool")
	}
	return v
}

func (r *rowReader) list(column string) []string {
	return splitList(r.get(column))
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Exercise, []models.ImportValidationError) {
	r := &rowReader{record: record, headerMap: headerMap, row: rowNum}

	exercise := &models.Exercise{
		Type:        models.ExerciseType(strings.ToLower(r.get("type"))),
		Prompt:      r.get("prompt"),
		Options:     r.list("options"),
		Explanation: r.get("explanation"),
		Hints:       r.list("hints"),
		TargetText:  r.get("target_text"),
		TargetWords: r.list("target_words"),
	}

	exercise.Points = models.DefaultPoints
	if points := r.optionalInt("points"); points != nil {
		exercise.Points = *points
	}
	exercise.DifficultyMultiplier = r.float("difficulty_multiplier", models.DefaultDifficultyMultiplier)
	exercise.RequiredAccuracy = r.float("required_accuracy", models.DefaultRequiredAccuracy)
	exercise.TimeLimitSeconds = r.optionalInt("time_limit_seconds")
	exercise.MinWords = r.optionalInt("min_words")
	exercise.MaxWords = r.optionalInt("max_words")
	exercise.CaseSensitive = r.bool("case_sensitive")
	exercise.AcceptPartial = r.bool("accept_partial")
	if lessonID := r.optionalInt("lesson_id"); lessonID != nil && *lessonID > 0 {
		id := uint(*lessonID)
		exercise.LessonID = &id
	}

	if raw := r.get("correct_answer"); raw != "" {
		key, err := answerKeyJSON(exercise.Type, raw)
		if err != nil {
			r.fail("correct_answer", err.Error(), raw, "answer_shape")
		} else {
			exercise.CorrectAnswer = key
		}
	}

	if len(r.errors) > 0 {
		return nil, r.errors
	}

	if err := s.validator.ValidateExercise(exercise); err != nil {
		verrs, ok := AsValidationErrors(err)
		if !ok {
			r.fail("row", err.Error(), "", "invalid")
			return nil, r.errors
		}
		for _, ve := range verrs {
			r.fail(ve.Field, ve.Message, fmt.Sprint(ve.Value), ve.Rule)
		}
		return nil, r.errors
	}

	return exercise, nil
}

// answerKeyJSON converts a spreadsheet cell into the stored answer key. Cells
// may hold JSON or the plain forms: "a|b" lists, bare words and indices.
func answerKeyJSON(t models.ExerciseType, raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "\"") {
		if !json.Valid([]byte(raw)) {
			return nil, errors.New("invalid JSON answer")
		}
		return []byte(raw), nil
	}

	switch t {
	case models.FillBlank, models.Matching, models.DragDrop:
		items := splitList(raw)
		if t == models.FillBlank && len(items) == 1 {
			return json.Marshal(items[0])
		}
		return json.Marshal(items)
	case models.MultipleSelect:
		var indices []int
		for _, item := range splitList(raw) {
			n, err := strconv.Atoi(item)
			if err != nil {
				return nil, fmt.Errorf("must list option indices separated by %q", listSeparator)
			}
			indices = append(indices, n)
		}
		return json.Marshal(indices)
	case models.TrueFalse:
		v, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return nil, errors.New("must be 'true' or 'false'")
		}
		return json.Marshal(v)
	default:
		if json.Valid([]byte(raw)) {
			return []byte(raw), nil
		}
		return json.Marshal(raw)
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(raw, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// ===== EXPORT OPERATIONS =====

var progressReportHeaders = []interface{}{
	"User ID", "Total Points", "Level", "Level Name", "Current Streak", "Longest Streak",
	"Streak Tier", "Active Days", "Exercises", "Average Score", "Accuracy (%)",
	"Mastery", "Achievements", "Last Active",
}

// MaxReportLearners bounds the learners in one progress report.
const MaxReportLearners = 100

// ExportProgressReport writes one row per learner. With no user IDs it
// reports the top learners by points.
func (s *importExportService) ExportProgressReport(ctx context.Context, userIDs []string) ([]byte, error) {
	if len(userIDs) > MaxReportLearners {
		return nil, NewValidationError("user_id", fmt.Sprintf("must list at most %d learners", MaxReportLearners), len(userIDs))
	}

	var (
		states []*models.UserProgressState
		err    error
	)
	if len(userIDs) == 0 {
		states, err = s.progress.TopByPoints(ctx, nil, MaxReportLearners)
	} else {
		states, err = s.progress.GetMany(ctx, nil, userIDs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Progress"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to prepare Excel sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &progressReportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}

	leveling := s.engine.Leveling()
	for i, st := range states {
		level := leveling.Level(st.TotalPoints)
		lastActive := ""
		if st.LastActivityDate != nil {
			lastActive = st.LastActivityDate.Format(time.DateOnly)
		}

		row := []interface{}{
			st.UserID,
			st.TotalPoints,
			level.Level,
			level.Name,
			st.CurrentStreak,
			st.LongestStreak,
			scoring.StreakTier(st.CurrentStreak),
			st.TotalActiveDays,
			st.QuizzesTaken,
			st.AverageScore,
			st.Accuracy * 100,
			string(st.MasteryLevel),
			len(st.UnlockedAchievements),
			lastActive,
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Progress report exported", "learners", len(states))
	return buf.Bytes(), nil
}
