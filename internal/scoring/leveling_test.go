package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinuousLeveling(t *testing.T) {
	l := ContinuousLeveling{}
	tests := map[int]int{0: 1, 99: 1, 100: 2, 399: 2, 400: 3, 899: 3, 900: 4, 10000: 11, -50: 1}
	for points, level := range tests {
		assert.Equal(t, level, l.Level(points).Level, "points=%d", points)
	}

	info := l.Level(250)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, 100, info.CurrentThreshold)
	assert.Equal(t, 400, info.NextThreshold)
	assert.Equal(t, 150, info.PointsToNext)
	assert.InDelta(t, 0.5, info.Progress, 1e-9)

	assert.Equal(t, 0, PointsForLevel(1))
	assert.Equal(t, 400, PointsForLevel(3))
}

func TestTieredLeveling(t *testing.T) {
	l := TieredLeveling{}
	tests := []struct {
		points int
		level  int
		name   string
		toNext int
	}{
		{0, 1, "Beginner", 50},
		{49, 1, "Beginner", 1},
		{50, 2, "Beginner+", 150},
		{120, 2, "Beginner+", 80},
		{200, 3, "Intermediate", 300},
		{999, 4, "Advanced", 1},
		{1000, 5, "Expert", 0},
		{5000, 5, "Expert", 0},
	}
	for _, tt := range tests {
		info := l.Level(tt.points)
		assert.Equal(t, tt.level, info.Level, "points=%d", tt.points)
		assert.Equal(t, tt.name, info.Name, "points=%d", tt.points)
		assert.Equal(t, tt.toNext, info.PointsToNext, "points=%d", tt.points)
	}
	assert.True(t, l.Level(1000).MaxLevel)
}

func TestLeveling_Monotonic(t *testing.T) {
	for _, s := range []LevelingStrategy{ContinuousLeveling{}, TieredLeveling{}} {
		prev := 0
		for p := 0; p <= 5000; p += 7 {
			level := s.Level(p).Level
			assert.GreaterOrEqual(t, level, prev, "%s at %d", s.Name(), p)
			prev = level
		}
	}
}

func TestNewLevelingStrategy(t *testing.T) {
	s, err := NewLevelingStrategy("")
	require.NoError(t, err)
	assert.Equal(t, LevelingContinuous, s.Name())

	s, err = NewLevelingStrategy(LevelingTiered)
	require.NoError(t, err)
	assert.Equal(t, LevelingTiered, s.Name())

	_, err = NewLevelingStrategy("bogus")
	assert.Error(t, err)
}
