package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaplay/scoring-service/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stateWithStreak(current, longest int, last *time.Time) *models.UserProgressState {
	s := models.NewUserProgressState("learner-1")
	s.CurrentStreak = current
	s.LongestStreak = longest
	s.LastActivityDate = last
	return s
}

func TestUpdateStreak(t *testing.T) {
	today := time.Date(2024, time.March, 11, 15, 30, 0, 0, time.UTC)
	yesterday := day(2024, time.March, 10)
	threeDaysAgo := day(2024, time.March, 8)
	sameDay := day(2024, time.March, 11)
	tomorrow := day(2024, time.March, 12)

	tests := []struct {
		name        string
		state       *models.UserProgressState
		wantCurrent int
		wantLongest int
	}{
		{"first activity", stateWithStreak(0, 0, nil), 1, 1},
		{"yesterday increments", stateWithStreak(4, 4, &yesterday), 5, 5},
		{"gap resets", stateWithStreak(4, 9, &threeDaysAgo), 1, 9},
		{"same day unchanged", stateWithStreak(4, 6, &sameDay), 4, 6},
		{"clock skew resets", stateWithStreak(4, 6, &tomorrow), 1, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := UpdateStreak(tt.state, today)
			assert.Equal(t, tt.wantCurrent, next.CurrentStreak)
			assert.Equal(t, tt.wantLongest, next.LongestStreak)
			assert.GreaterOrEqual(t, next.LongestStreak, next.CurrentStreak)
			require.NotNil(t, next.LastActivityDate)
		})
	}
}

func TestUpdateStreak_CalendarDays(t *testing.T) {
	last := time.Date(2024, time.March, 10, 23, 0, 0, 0, time.UTC)
	s := stateWithStreak(2, 2, &last)

	next := UpdateStreak(s, time.Date(2024, time.March, 11, 0, 30, 0, 0, time.UTC))
	assert.Equal(t, 3, next.CurrentStreak)
	assert.Equal(t, day(2024, time.March, 11), *next.LastActivityDate)
}

func TestUpdateStreak_DoesNotMutateInput(t *testing.T) {
	yesterday := day(2024, time.March, 10)
	s := stateWithStreak(4, 4, &yesterday)
	s.TotalActiveDays = 4

	next := UpdateStreak(s, day(2024, time.March, 11))

	assert.Equal(t, 4, s.CurrentStreak)
	assert.Equal(t, 4, s.TotalActiveDays)
	assert.Equal(t, yesterday, *s.LastActivityDate)
	assert.Equal(t, 5, next.TotalActiveDays)
}

func TestUpdateStreak_SameDayIsIdempotent(t *testing.T) {
	s := stateWithStreak(0, 0, nil)
	now := day(2024, time.May, 1)

	once := UpdateStreak(s, now)
	twice := UpdateStreak(once, now.Add(5*time.Hour))
	assert.Equal(t, once, twice)
}

func TestStreakTier(t *testing.T) {
	tests := map[int]string{
		0: "Starter", 2: "Starter", 3: "Beginner", 7: "Intermediate",
		14: "Advanced", 30: "Expert", 100: "Master", 365: "Legendary", 1000: "Legendary",
	}
	for n, want := range tests {
		assert.Equal(t, want, StreakTier(n), "streak=%d", n)
	}
}

func TestNextStreakMilestone(t *testing.T) {
	m, ok := NextStreakMilestone(5)
	require.True(t, ok)
	assert.Equal(t, 7, m.Days)
	assert.Equal(t, 2, m.Remaining)
	assert.Equal(t, "Intermediate", m.Tier)

	m, ok = NextStreakMilestone(0)
	require.True(t, ok)
	assert.Equal(t, 3, m.Days)
	assert.Equal(t, 0.0, m.Percent)

	_, ok = NextStreakMilestone(365)
	assert.False(t, ok)

	assert.True(t, IsStreakMilestone(30))
	assert.False(t, IsStreakMilestone(31))
}
