package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/model"
	"dailyquiz/internal/repository"
)

// AttemptService owns the attempt lifecycle state machine: absent ->
// in-progress -> completed, with completed terminal. It holds no locks;
// the store's unique (user, date) index arbitrates concurrent starts and
// completed-guard filters fence saves against submits.
type AttemptService struct {
	attemptRepo repository.AttemptRepo
	catalog     *cache.CatalogCache
	leaderboard cache.LeaderboardCache
}

// NewAttemptService creates a new attempt lifecycle service.
func NewAttemptService(attemptRepo repository.AttemptRepo, catalog *cache.CatalogCache) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		catalog:     catalog,
	}
}

// SetLeaderboard wires the optional per-date submission leaderboard.
func (s *AttemptService) SetLeaderboard(lb cache.LeaderboardCache) {
	s.leaderboard = lb
}

// CanAttempt reports whether the user may open the quiz for a date, with a
// caller-facing reason when not. Both a fresh start and a resumable
// in-progress attempt are allowed.
func (s *AttemptService) CanAttempt(ctx context.Context, userID, quizDate string) (bool, string, error) {
	if _, err := s.catalog.GetByDate(ctx, quizDate); err != nil {
		if errors.Is(err, model.ErrQuizNotFound) {
			return false, "no quiz available for date " + quizDate, nil
		}
		return false, "", err
	}

	attempt, err := s.attemptRepo.FindByUserAndDate(ctx, userID, quizDate)
	switch {
	case errors.Is(err, model.ErrAttemptNotFound):
		return true, "", nil
	case err != nil:
		return false, "", err
	case attempt.IsCompleted:
		return false, "you have already completed this quiz", nil
	}
	return true, "", nil
}

// Start opens a new attempt or resumes the existing in-progress one
// unchanged. When two starts race, the store's unique index lets exactly one
// insert through; the loser re-reads and resumes the winner's record, so
// neither caller sees a duplicate-key failure.
func (s *AttemptService) Start(ctx context.Context, userID, quizDate string) (*model.QuizAttempt, error) {
	quiz, err := s.catalog.GetByDate(ctx, quizDate)
	if err != nil {
		return nil, err
	}

	attempt, err := s.attemptRepo.FindByUserAndDate(ctx, userID, quizDate)
	switch {
	case err == nil:
		if attempt.IsCompleted {
			return nil, model.ErrQuizCompleted
		}
		return attempt, nil
	case !errors.Is(err, model.ErrAttemptNotFound):
		return nil, err
	}

	attempt = model.NewAttempt(userID, quizDate, quiz.TotalQuestions)
	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		if errors.Is(err, model.ErrAttemptExists) {
			return s.attemptRepo.FindByUserAndDate(ctx, userID, quizDate)
		}
		return nil, err
	}
	return attempt, nil
}

// SaveAnswer upserts the answer for one question and persists the full
// answers array with the autosave flag set. Answers are immutable once the
// attempt completes.
func (s *AttemptService) SaveAnswer(ctx context.Context, userID, quizDate string, questionIndex int, selectedAnswer string) error {
	if questionIndex < 0 || selectedAnswer == "" {
		return &model.ValidationError{Problems: []string{"question index and selected answer are required"}}
	}

	// Freshest read before the write; the repo's completed-guard closes the
	// remaining race against a concurrent submit.
	attempt, err := s.attemptRepo.FindByUserAndDate(ctx, userID, quizDate)
	if err != nil {
		return err
	}
	if attempt.IsCompleted {
		return model.ErrQuizCompleted
	}

	attempt.SetAnswer(questionIndex, selectedAnswer)
	return s.attemptRepo.SaveAnswers(ctx, attempt.ID, attempt.Answers)
}

// SaveProgress applies SaveAnswer for each entry, best effort: invalid
// entries are skipped, an individual failure does not abort the batch, and
// the count of entries actually saved is returned. Only store unavailability
// aborts early.
func (s *AttemptService) SaveProgress(ctx context.Context, userID, quizDate string, answers map[int]string) (int, error) {
	if len(answers) == 0 {
		return 0, nil
	}

	indices := make([]int, 0, len(answers))
	for index := range answers {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	saved := 0
	for _, index := range indices {
		selected := answers[index]
		if index < 0 || selected == "" {
			continue
		}
		if err := s.SaveAnswer(ctx, userID, quizDate, index, selected); err != nil {
			if errors.Is(err, model.ErrStoreUnavailable) {
				return saved, err
			}
			log.Printf("save progress: skipping answer %d for %s/%s: %v", index, userID, quizDate, err)
			continue
		}
		saved++
	}
	return saved, nil
}

// Submit grades the attempt against the catalog's answer key and finalizes
// it in one update: per-answer verdicts, score, percentage, completion flag
// and timestamp. The transition is one-way; a repeat submit is rejected with
// ErrQuizCompleted and the stored result is untouched.
func (s *AttemptService) Submit(ctx context.Context, userID, quizDate string) (*model.ScoreResult, error) {
	attempt, err := s.attemptRepo.FindByUserAndDate(ctx, userID, quizDate)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted {
		return nil, model.ErrQuizCompleted
	}

	quiz, err := s.catalog.GetByDate(ctx, quizDate)
	if err != nil {
		return nil, err
	}

	result := model.ScoreAnswers(quiz.AnswerKey(), attempt.Answers)
	for i := range attempt.Answers {
		if verdict, ok := result.Correctness[attempt.Answers[i].QuestionIndex]; ok {
			v := verdict
			attempt.Answers[i].IsCorrect = &v
		}
	}

	now := time.Now().UTC()
	attempt.Score = result.Score
	attempt.TotalQuestions = result.TotalQuestions
	attempt.Percentage = result.Percentage
	attempt.IsCompleted = true
	attempt.CompletedAt = &now

	if err := s.attemptRepo.Complete(ctx, attempt); err != nil {
		return nil, err
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.RecordSubmission(ctx, quizDate, userID, result.Percentage); err != nil {
			log.Printf("leaderboard update failed for %s/%s: %v", userID, quizDate, err)
		}
	}
	return &result, nil
}

// Get returns the user's attempt for a date, for resume and result views.
func (s *AttemptService) Get(ctx context.Context, userID, quizDate string) (*model.QuizAttempt, error) {
	return s.attemptRepo.FindByUserAndDate(ctx, userID, quizDate)
}

// History lists the user's attempts, most recent first.
func (s *AttemptService) History(ctx context.Context, userID string) ([]*model.QuizAttempt, error) {
	return s.attemptRepo.FindByUser(ctx, userID)
}
