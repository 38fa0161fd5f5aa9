package scoring

import (
	"time"

	"github.com/linguaplay/scoring-service/internal/models"
)

// StreakMilestones are the streak lengths that carry a named tier.
var StreakMilestones = []int{3, 7, 14, 30, 100, 365}

type StreakMilestone struct {
	Days      int     `json:"days"`
	Tier      string  `json:"tier"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// UpdateStreak returns a copy of state with the streak advanced for an
// activity on the calendar day (UTC) of activity.
func UpdateStreak(state *models.UserProgressState, activity time.Time) *models.UserProgressState {
	next := state.Clone()
	applyStreak(next, activity)
	return next
}

// applyStreak mutates s in place and reports whether the activity started a
// new active day.
func applyStreak(s *models.UserProgressState, activity time.Time) bool {
	day := CalendarDay(activity)

	if s.LastActivityDate != nil {
		switch DaysBetween(*s.LastActivityDate, day) {
		case 0:
			return false
		case 1:
			s.CurrentStreak++
		default:
			// Gaps and clock skew both restart the streak.
			s.CurrentStreak = 1
		}
	} else {
		s.CurrentStreak = 1
	}

	s.LongestStreak = max(s.LongestStreak, s.CurrentStreak)
	s.TotalActiveDays++
	s.LastActivityDate = &day
	return true
}

// CalendarDay truncates t to midnight UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(CalendarDay(b).Sub(CalendarDay(a)).Hours() / 24)
}

// StreakTier names the tier reached by a streak of the given length.
func StreakTier(current int) string {
	switch {
	case current >= 365:
		return "Legendary"
	case current >= 100:
		return "Master"
	case current >= 30:
		return "Expert"
	case current >= 14:
		return "Advanced"
	case current >= 7:
		return "Intermediate"
	case current >= 3:
		return "Beginner"
	default:
		return "Starter"
	}
}

// IsStreakMilestone reports whether a streak of exactly n days is a milestone.
func IsStreakMilestone(n int) bool {
	for _, m := range StreakMilestones {
		if n == m {
			return true
		}
	}
	return false
}

// NextStreakMilestone returns the next milestone above current, or false when
// every milestone has been reached.
func NextStreakMilestone(current int) (StreakMilestone, bool) {
	for _, m := range StreakMilestones {
		if current < m {
			return StreakMilestone{
				Days:      m,
				Tier:      StreakTier(m),
				Remaining: m - current,
				Percent:   float64(max(0, current)) / float64(m) * 100,
			}, true
		}
	}
	return StreakMilestone{}, false
}
