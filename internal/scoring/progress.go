package scoring

import (
	"math"
	"time"

	"github.com/linguaplay/scoring-service/internal/models"
)

// Outcome is a graded submission together with the inputs of the points
// calculation.
type Outcome struct {
	Result               models.ScoreResult
	BasePoints           int
	TimeTakenSeconds     *int
	TimeLimitSeconds     *int
	HintsUsed            int
	DifficultyMultiplier float64
}

// ProgressUpdate is the result of applying one outcome to a progress state.
type ProgressUpdate struct {
	State           *models.UserProgressState `json:"state"`
	PointsAwarded   int                       `json:"points_awarded"`
	BonusPoints     int                       `json:"bonus_points"`
	Unlocked        []models.Achievement      `json:"unlocked_achievements"`
	Achievements    []models.Achievement      `json:"achievements"`
	LevelBefore     LevelInfo                 `json:"level_before"`
	LevelAfter      LevelInfo                 `json:"level_after"`
	LeveledUp       bool                      `json:"leveled_up"`
	NewActiveDay    bool                      `json:"new_active_day"`
	StreakMilestone bool                      `json:"streak_milestone"`
}

// Engine composes the scoring components.
type Engine struct {
	evaluator    *Evaluator
	leveling     LevelingStrategy
	achievements *AchievementEvaluator
}

func NewEngine(evaluator *Evaluator, leveling LevelingStrategy) *Engine {
	if evaluator == nil {
		evaluator = NewEvaluator(EvaluatorOptions{})
	}
	if leveling == nil {
		leveling = ContinuousLeveling{}
	}
	return &Engine{
		evaluator:    evaluator,
		leveling:     leveling,
		achievements: NewAchievementEvaluator(),
	}
}

func (e *Engine) Evaluator() *Evaluator               { return e.evaluator }
func (e *Engine) Leveling() LevelingStrategy          { return e.leveling }
func (e *Engine) Achievements() *AchievementEvaluator { return e.achievements }

// Grade evaluates a submission against its exercise.
func (e *Engine) Grade(ex *models.Exercise, sub *models.Submission) models.ScoreResult {
	return e.evaluator.Evaluate(ex, sub)
}

// UpdateProgress applies outcome to state for an activity at activity and
// returns the new state. state is not modified.
func (e *Engine) UpdateProgress(state *models.UserProgressState, outcome Outcome, activity time.Time) ProgressUpdate {
	if state == nil {
		state = models.NewUserProgressState("")
	}
	next := state.Clone()
	update := ProgressUpdate{LevelBefore: e.leveling.Level(state.TotalPoints)}

	passed := outcome.Result.Passed()
	if passed {
		update.PointsAwarded = CalculatePoints(PointsInput{
			BasePoints:           outcome.BasePoints,
			TimeTakenSeconds:     outcome.TimeTakenSeconds,
			TimeLimitSeconds:     outcome.TimeLimitSeconds,
			HintsUsed:            outcome.HintsUsed,
			DifficultyMultiplier: outcome.DifficultyMultiplier,
		})
	}
	next.TotalPoints += update.PointsAwarded

	score := max(0, min(100, outcome.Result.Score))
	next.QuizzesTaken++
	next.AverageScore = roundTo(
		(state.AverageScore*float64(state.QuizzesTaken)+float64(score))/float64(next.QuizzesTaken), 2)
	if passed {
		next.CorrectAnswers++
	}
	if score == 100 {
		next.PerfectScores++
	}
	next.Accuracy = roundTo(float64(next.CorrectAnswers)/float64(next.QuizzesTaken), 4)
	next.MasteryLevel = MasteryFor(next.Accuracy)

	update.NewActiveDay = applyStreak(next, activity)
	update.StreakMilestone = update.NewActiveDay && IsStreakMilestone(next.CurrentStreak)

	// Rewards can unlock point achievements, so repeat until nothing new.
	for {
		found := false
		for _, a := range e.achievements.Evaluate(next) {
			if !a.Earned || next.HasUnlocked(a.ID) {
				continue
			}
			next.UnlockedAchievements = append(next.UnlockedAchievements, a.ID)
			next.TotalPoints += a.PointsReward
			update.BonusPoints += a.PointsReward
			update.Unlocked = append(update.Unlocked, a)
			found = true
		}
		if !found {
			break
		}
	}

	update.Achievements = e.achievements.Evaluate(next)
	update.LevelAfter = e.leveling.Level(next.TotalPoints)
	update.LeveledUp = update.LevelAfter.Level > update.LevelBefore.Level
	update.State = next
	return update
}

// MasteryFor maps an accuracy in [0,1] to a mastery level.
func MasteryFor(accuracy float64) models.MasteryLevel {
	switch {
	case accuracy >= 0.95:
		return models.MasteryMaster
	case accuracy >= 0.85:
		return models.MasteryAdvanced
	case accuracy >= 0.75:
		return models.MasteryIntermediate
	default:
		return models.MasteryBeginner
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
