package cache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/linguaplay/scoring-service/internal/models"
)

// ErrNotRanked is returned by Rank for a learner absent from the board.
var ErrNotRanked = errors.New("learner not ranked")

// Leaderboard ranks learners by total points, then accuracy.
type Leaderboard interface {
	Update(ctx context.Context, userID string, totalPoints int, accuracy float64) error
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Rank(ctx context.Context, userID string) (int, error)
	Replace(ctx context.Context, entries []models.LeaderboardEntry) error
}

// leaderboardScore packs points and accuracy into one sorted-set score.
// Accuracy in [0,1] is halved so it can never outweigh a whole point.
func leaderboardScore(totalPoints int, accuracy float64) float64 {
	return float64(totalPoints) + math.Max(0, math.Min(1, accuracy))/2
}

// redisScore negates the packed score so that ascending sorted-set order
// ranks higher scores first and breaks ties by ascending user ID, the same
// order the database uses.
func redisScore(totalPoints int, accuracy float64) float64 {
	return -leaderboardScore(totalPoints, accuracy)
}

func decodeScore(score float64) (int, float64) {
	points := math.Floor(score)
	accuracy := math.Round((score-points)*2*10000) / 10000
	return int(points), accuracy
}

type redisLeaderboard struct {
	client *redis.Client
	key    string
}

func NewRedisLeaderboard(client *redis.Client, key string) Leaderboard {
	return &redisLeaderboard{client: client, key: key}
}

func (l *redisLeaderboard) Update(ctx context.Context, userID string, totalPoints int, accuracy float64) error {
	err := l.client.ZAdd(ctx, l.key, redis.Z{
		Score:  redisScore(totalPoints, accuracy),
		Member: userID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to update leaderboard: %w", err)
	}
	return nil
}

func (l *redisLeaderboard) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		return []models.LeaderboardEntry{}, nil
	}
	members, err := l.client.ZRangeWithScores(ctx, l.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for i, m := range members {
		userID, _ := m.Member.(string)
		points, accuracy := decodeScore(-m.Score)
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      userID,
			TotalPoints: points,
			Accuracy:    accuracy,
		})
	}
	return entries, nil
}

func (l *redisLeaderboard) Rank(ctx context.Context, userID string) (int, error) {
	rank, err := l.client.ZRank(ctx, l.key, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotRanked
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read leaderboard rank: %w", err)
	}
	return int(rank) + 1, nil
}

// Replace rebuilds the board atomically from entries.
func (l *redisLeaderboard) Replace(ctx context.Context, entries []models.LeaderboardEntry) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, l.key)
		if len(entries) == 0 {
			return nil
		}
		members := make([]redis.Z, 0, len(entries))
		for _, e := range entries {
			members = append(members, redis.Z{
				Score:  redisScore(e.TotalPoints, e.Accuracy),
				Member: e.UserID,
			})
		}
		pipe.ZAdd(ctx, l.key, members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to rebuild leaderboard: %w", err)
	}
	return nil
}

type memoryLeaderboard struct {
	mu     sync.RWMutex
	scores map[string]float64
}

func NewMemoryLeaderboard() Leaderboard {
	return &memoryLeaderboard{scores: make(map[string]float64)}
}

func (l *memoryLeaderboard) Update(_ context.Context, userID string, totalPoints int, accuracy float64) error {
	l.mu.Lock()
	l.scores[userID] = leaderboardScore(totalPoints, accuracy)
	l.mu.Unlock()
	return nil
}

func (l *memoryLeaderboard) ranked() []models.LeaderboardEntry {
	l.mu.RLock()
	entries := make([]models.LeaderboardEntry, 0, len(l.scores))
	for userID, score := range l.scores {
		points, accuracy := decodeScore(score)
		entries = append(entries, models.LeaderboardEntry{UserID: userID, TotalPoints: points, Accuracy: accuracy})
	}
	scores := l.scores
	sort.Slice(entries, func(i, j int) bool {
		si, sj := scores[entries[i].UserID], scores[entries[j].UserID]
		if si != sj {
			return si > sj
		}
		return entries[i].UserID < entries[j].UserID
	})
	l.mu.RUnlock()

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (l *memoryLeaderboard) Top(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		return []models.LeaderboardEntry{}, nil
	}
	entries := l.ranked()
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (l *memoryLeaderboard) Rank(_ context.Context, userID string) (int, error) {
	for _, e := range l.ranked() {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return 0, ErrNotRanked
}

func (l *memoryLeaderboard) Replace(_ context.Context, entries []models.LeaderboardEntry) error {
	scores := make(map[string]float64, len(entries))
	for _, e := range entries {
		scores[e.UserID] = leaderboardScore(e.TotalPoints, e.Accuracy)
	}
	l.mu.Lock()
	l.scores = scores
	l.mu.Unlock()
	return nil
}
