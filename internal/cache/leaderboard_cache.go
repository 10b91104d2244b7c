package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache handles Redis ZSET operations for per-date submission
// rankings. Entries are written on submit and served straight from redis;
// the analytics engine computes its rankings from the store.
type LeaderboardCache interface {
	RecordSubmission(ctx context.Context, quizDate, userID string, percentage float64) error
	GetTop(ctx context.Context, quizDate string, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, quizDate, userID string) (int64, error)
}

// LeaderboardEntry represents a single leaderboard entry.
type LeaderboardEntry struct {
	UserID     string  `json:"userId"`
	Percentage float64 `json:"percentage"`
	Rank       int     `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a new leaderboard cache.
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (c *leaderboardCache) key(quizDate string) string {
	return fmt.Sprintf("quiz:%s:lb", quizDate)
}

func (c *leaderboardCache) RecordSubmission(ctx context.Context, quizDate, userID string, percentage float64) error {
	key := c.key(quizDate)
	if err := c.client.ZAdd(ctx, key, redis.Z{
		Score:  percentage,
		Member: userID,
	}).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, quizDate string, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(quizDate), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			UserID:     z.Member.(string),
			Percentage: z.Score,
			Rank:       i + 1,
		}
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, quizDate, userID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(quizDate), userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}
