package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/model"
	"dailyquiz/internal/repository"
)

// QuizStatus describes a caller's standing against one quiz.
type QuizStatus string

const (
	QuizStatusNotAttempted QuizStatus = "not_attempted"
	QuizStatusInProgress   QuizStatus = "in_progress"
	QuizStatusCompleted    QuizStatus = "completed"
)

// QuizSummary is one row of the recent-quizzes listing, decorated with the
// caller's attempt status.
type QuizSummary struct {
	QuizDate       string     `json:"quizDate"`
	TotalQuestions int        `json:"totalQuestions"`
	Status         QuizStatus `json:"status"`
	Score          int        `json:"score,omitempty"`
	Percentage     float64    `json:"percentage,omitempty"`
	AnsweredCount  int        `json:"answeredCount,omitempty"`
}

// QuizService manages the quiz catalog: ingestion with validation and
// read access for takers and operators.
type QuizService struct {
	quizRepo    repository.QuizRepo
	attemptRepo repository.AttemptRepo
	catalog     *cache.CatalogCache
}

// NewQuizService creates a new quiz catalog service.
func NewQuizService(quizRepo repository.QuizRepo, attemptRepo repository.AttemptRepo, catalog *cache.CatalogCache) *QuizService {
	return &QuizService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		catalog:     catalog,
	}
}

// TodayString returns today's quiz date key.
func (s *QuizService) TodayString() string {
	return todayString()
}

// Create validates and stores a new quiz definition. Validation problems are
// reported in full; a second quiz for the same date is rejected with
// ErrQuizExists by the store's unique index.
func (s *QuizService) Create(ctx context.Context, quiz *model.Quiz) error {
	quiz.Normalize()
	if err := quiz.Validate(); err != nil {
		return err
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return err
	}
	s.catalog.Invalidate(quiz.QuizDate)
	return nil
}

// GetByDate returns the quiz for a date through the catalog cache.
func (s *QuizService) GetByDate(ctx context.Context, quizDate string) (*model.Quiz, error) {
	return s.catalog.GetByDate(ctx, quizDate)
}

// Today returns today's quiz.
func (s *QuizService) Today(ctx context.Context) (*model.Quiz, error) {
	return s.GetByDate(ctx, todayString())
}

// Recent lists the quizzes from the past days (most recent first) with the
// caller's attempt status for each.
func (s *QuizService) Recent(ctx context.Context, days int, userID string) ([]QuizSummary, error) {
	if days <= 0 {
		days = 7
	}
	dates := windowDates(time.Now().UTC(), days)

	quizzes, err := s.quizRepo.GetByDates(ctx, dates)
	if err != nil {
		return nil, err
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].QuizDate > quizzes[j].QuizDate })

	summaries := make([]QuizSummary, 0, len(quizzes))
	for _, quiz := range quizzes {
		summary := QuizSummary{
			QuizDate:       quiz.QuizDate,
			TotalQuestions: quiz.TotalQuestions,
			Status:         QuizStatusNotAttempted,
		}
		attempt, err := s.attemptRepo.FindByUserAndDate(ctx, userID, quiz.QuizDate)
		switch {
		case errors.Is(err, model.ErrAttemptNotFound):
			// no attempt yet
		case err != nil:
			return nil, err
		case attempt.IsCompleted:
			summary.Status = QuizStatusCompleted
			summary.Score = attempt.Score
			summary.Percentage = attempt.Percentage
		default:
			summary.Status = QuizStatusInProgress
			summary.AnsweredCount = len(attempt.Answers)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Statistics returns the lightweight attempt summary for one quiz date.
// Zero attempts yields zeroed stats, not an error.
func (s *QuizService) Statistics(ctx context.Context, quizDate string) (*model.QuizStatistics, error) {
	quiz, err := s.catalog.GetByDate(ctx, quizDate)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attemptRepo.FindByDates(ctx, []string{quizDate})
	if err != nil {
		return nil, err
	}

	stats := &model.QuizStatistics{
		QuizDate:       quizDate,
		TotalQuestions: quiz.TotalQuestions,
		TotalAttempts:  len(attempts),
	}

	var scoreSum, pctSum float64
	for _, attempt := range attempts {
		if !attempt.IsCompleted {
			continue
		}
		stats.CompletedAttempts++
		scoreSum += float64(attempt.Score)
		pctSum += attempt.Percentage
	}
	stats.IncompleteAttempts = stats.TotalAttempts - stats.CompletedAttempts

	if stats.CompletedAttempts > 0 {
		stats.AverageScore = model.Round2(scoreSum / float64(stats.CompletedAttempts))
		stats.AveragePercentage = model.Round2(pctSum / float64(stats.CompletedAttempts))
	}
	if stats.TotalAttempts > 0 {
		stats.CompletionRate = model.Round2(100 * float64(stats.CompletedAttempts) / float64(stats.TotalAttempts))
	}
	return stats, nil
}
