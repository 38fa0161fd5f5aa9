package scoring

import (
	"fmt"
	"math"
)

const (
	LevelingContinuous = "continuous"
	LevelingTiered     = "tiered"

	pointsPerLevelUnit = 100
)

type LevelInfo struct {
	Strategy string `json:"strategy"`
	Level    int    `json:"level"`
	Name     string `json:"name"`
	// CurrentThreshold and NextThreshold are the cumulative points at which the
	// current and next level start. NextThreshold is 0 at the top level.
	CurrentThreshold int     `json:"current_threshold"`
	NextThreshold    int     `json:"next_threshold"`
	PointsToNext     int     `json:"points_to_next"`
	Progress         float64 `json:"progress"`
	MaxLevel         bool    `json:"max_level"`
}

// LevelingStrategy maps cumulative points to a level. Level must be
// non-decreasing in totalPoints.
type LevelingStrategy interface {
	Name() string
	Level(totalPoints int) LevelInfo
}

// NewLevelingStrategy returns the strategy registered under name.
func NewLevelingStrategy(name string) (LevelingStrategy, error) {
	switch name {
	case "", LevelingContinuous:
		return ContinuousLeveling{}, nil
	case LevelingTiered:
		return TieredLeveling{}, nil
	default:
		return nil, fmt.Errorf("unknown leveling strategy %q", name)
	}
}

// ContinuousLeveling uses level = floor(sqrt(points/100)) + 1.
type ContinuousLeveling struct{}

func (ContinuousLeveling) Name() string { return LevelingContinuous }

func (ContinuousLeveling) Level(totalPoints int) LevelInfo {
	totalPoints = max(0, totalPoints)

	n := int(math.Sqrt(float64(totalPoints) / pointsPerLevelUnit))
	for (n+1)*(n+1)*pointsPerLevelUnit <= totalPoints {
		n++
	}
	for n > 0 && n*n*pointsPerLevelUnit > totalPoints {
		n--
	}
	level := n + 1

	current := PointsForLevel(level)
	next := PointsForLevel(level + 1)
	return LevelInfo{
		Strategy:         LevelingContinuous,
		Level:            level,
		Name:             fmt.Sprintf("Level %d", level),
		CurrentThreshold: current,
		NextThreshold:    next,
		PointsToNext:     next - totalPoints,
		Progress:         float64(totalPoints-current) / float64(next-current),
	}
}

// PointsForLevel returns the cumulative points at which a continuous level starts.
func PointsForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * pointsPerLevelUnit
}

type tier struct {
	threshold int
	name      string
}

var tiers = []tier{
	{0, "Beginner"},
	{50, "Beginner+"},
	{200, "Intermediate"},
	{500, "Advanced"},
	{1000, "Expert"},
}

// TieredLeveling uses fixed named tiers.
type TieredLeveling struct{}

func (TieredLeveling) Name() string { return LevelingTiered }

func (TieredLeveling) Level(totalPoints int) LevelInfo {
	totalPoints = max(0, totalPoints)

	idx := 0
	for i, t := range tiers {
		if totalPoints >= t.threshold {
			idx = i
		}
	}

	info := LevelInfo{
		Strategy:         LevelingTiered,
		Level:            idx + 1,
		Name:             tiers[idx].name,
		CurrentThreshold: tiers[idx].threshold,
	}
	if idx == len(tiers)-1 {
		info.Progress = 1
		info.MaxLevel = true
		return info
	}
	next := tiers[idx+1].threshold
	info.NextThreshold = next
	info.PointsToNext = next - totalPoints
	info.Progress = float64(totalPoints-info.CurrentThreshold) / float64(next-info.CurrentThreshold)
	return info
}
