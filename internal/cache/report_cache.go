package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dailyquiz/internal/model"
)

// ReportCache keeps short-lived copies of computed analytics reports so the
// HTTP layer can absorb dashboard refresh bursts. The analytics engine always
// computes from the store; cached copies never feed back into it.
type ReportCache interface {
	GetWindowReport(ctx context.Context, key string) (*model.WindowReport, error)
	SetWindowReport(ctx context.Context, key string, report *model.WindowReport) error
	GetQuizAnalytics(ctx context.Context, quizDate string) (*model.QuizAnalytics, error)
	SetQuizAnalytics(ctx context.Context, quizDate string, report *model.QuizAnalytics) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache.
func NewReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	return &reportCache{client: client, ttl: ttl}
}

func (c *reportCache) windowKey(key string) string {
	return fmt.Sprintf("analytics:window:%s", key)
}

func (c *reportCache) quizKey(quizDate string) string {
	return fmt.Sprintf("analytics:quiz:%s", quizDate)
}

func (c *reportCache) GetWindowReport(ctx context.Context, key string) (*model.WindowReport, error) {
	data, err := c.client.Get(ctx, c.windowKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.WindowReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) SetWindowReport(ctx context.Context, key string, report *model.WindowReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.windowKey(key), data, c.ttl).Err()
}

func (c *reportCache) GetQuizAnalytics(ctx context.Context, quizDate string) (*model.QuizAnalytics, error) {
	data, err := c.client.Get(ctx, c.quizKey(quizDate)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.QuizAnalytics
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) SetQuizAnalytics(ctx context.Context, quizDate string, report *model.QuizAnalytics) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.quizKey(quizDate), data, c.ttl).Err()
}
