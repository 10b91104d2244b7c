package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dailyquiz/internal/model"
	"dailyquiz/internal/repository"
)

// CatalogCache is a TTL read-through cache over the quiz catalog. Quizzes
// are immutable after creation, so a cached definition never goes stale
// within its lifetime; singleflight collapses concurrent misses for the
// same date into one store read.
type CatalogCache struct {
	repo  repository.QuizRepo
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	cache map[string]cachedQuiz
}

type cachedQuiz struct {
	quiz      *model.Quiz
	expiresAt time.Time
}

// NewCatalogCache creates a catalog cache with the given entry lifetime.
func NewCatalogCache(repo repository.QuizRepo, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		repo:  repo,
		ttl:   ttl,
		clock: time.Now,
		cache: make(map[string]cachedQuiz),
	}
}

// GetByDate returns the quiz for a date, reading through to the store on a
// miss. Not-found results are not cached; a quiz may be created later the
// same day.
func (c *CatalogCache) GetByDate(ctx context.Context, quizDate string) (*model.Quiz, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[quizDate]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.quiz, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(quizDate, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[quizDate]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.quiz, nil
		}
		c.mu.RUnlock()

		quiz, err := c.repo.GetByDate(ctx, quizDate)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[quizDate] = cachedQuiz{quiz: quiz, expiresAt: now.Add(c.ttl)}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Quiz), nil
}

// Invalidate drops a cached entry. The seed tool calls it after inserting.
func (c *CatalogCache) Invalidate(quizDate string) {
	c.mu.Lock()
	delete(c.cache, quizDate)
	c.mu.Unlock()
}
