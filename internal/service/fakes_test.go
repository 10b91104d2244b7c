package service

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/model"
)

// In-memory stand-ins for the mongo repositories, mirroring their error
// contracts: duplicate inserts, not-found lookups, and the completed guard
// on attempt updates.

type fakeQuizRepo struct {
	mu     sync.Mutex
	byDate map[string]*model.Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{byDate: make(map[string]*model.Quiz)}
}

func (r *fakeQuizRepo) Create(_ context.Context, quiz *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byDate[quiz.QuizDate]; ok {
		return model.ErrQuizExists
	}
	quiz.ID = primitive.NewObjectID()
	stored := *quiz
	r.byDate[quiz.QuizDate] = &stored
	return nil
}

func (r *fakeQuizRepo) GetByDate(_ context.Context, quizDate string) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz, ok := r.byDate[quizDate]
	if !ok {
		return nil, model.ErrQuizNotFound
	}
	out := *quiz
	return &out, nil
}

func (r *fakeQuizRepo) GetByDates(_ context.Context, quizDates []string) ([]*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Quiz
	for _, date := range quizDates {
		if quiz, ok := r.byDate[date]; ok {
			copied := *quiz
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizDate < out[j].QuizDate })
	return out, nil
}

func (r *fakeQuizRepo) EnsureIndexes(context.Context) error { return nil }

type fakeAttemptRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*model.QuizAttempt
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{byID: make(map[primitive.ObjectID]*model.QuizAttempt)}
}

func cloneAttempt(a *model.QuizAttempt) *model.QuizAttempt {
	out := *a
	out.Answers = append([]model.AnswerRecord(nil), a.Answers...)
	return &out
}

func (r *fakeAttemptRepo) Create(_ context.Context, attempt *model.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.UserID == attempt.UserID && existing.QuizDate == attempt.QuizDate {
			return model.ErrAttemptExists
		}
	}
	attempt.ID = primitive.NewObjectID()
	r.byID[attempt.ID] = cloneAttempt(attempt)
	return nil
}

func (r *fakeAttemptRepo) FindByUserAndDate(_ context.Context, userID, quizDate string) (*model.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, attempt := range r.byID {
		if attempt.UserID == userID && attempt.QuizDate == quizDate {
			return cloneAttempt(attempt), nil
		}
	}
	return nil, model.ErrAttemptNotFound
}

func (r *fakeAttemptRepo) SaveAnswers(_ context.Context, id primitive.ObjectID, answers []model.AnswerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.byID[id]
	if !ok || attempt.IsCompleted {
		return model.ErrQuizCompleted
	}
	attempt.Answers = append([]model.AnswerRecord(nil), answers...)
	attempt.AutoSaved = true
	return nil
}

func (r *fakeAttemptRepo) Complete(_ context.Context, updated *model.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt, ok := r.byID[updated.ID]
	if !ok || attempt.IsCompleted {
		return model.ErrQuizCompleted
	}
	attempt.Answers = append([]model.AnswerRecord(nil), updated.Answers...)
	attempt.Score = updated.Score
	attempt.TotalQuestions = updated.TotalQuestions
	attempt.Percentage = updated.Percentage
	attempt.IsCompleted = true
	attempt.CompletedAt = updated.CompletedAt
	return nil
}

func (r *fakeAttemptRepo) FindByDates(_ context.Context, quizDates []string) ([]*model.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dates := make(map[string]bool, len(quizDates))
	for _, d := range quizDates {
		dates[d] = true
	}
	var out []*model.QuizAttempt
	for _, attempt := range r.byID {
		if dates[attempt.QuizDate] {
			out = append(out, cloneAttempt(attempt))
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) FindCompletedByDate(ctx context.Context, quizDate string) ([]*model.QuizAttempt, error) {
	all, _ := r.FindByDates(ctx, []string{quizDate})
	var out []*model.QuizAttempt
	for _, attempt := range all {
		if attempt.IsCompleted {
			out = append(out, attempt)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) FindCompletedByUser(ctx context.Context, userID string, quizDates []string) ([]*model.QuizAttempt, error) {
	all, _ := r.FindByDates(ctx, quizDates)
	var out []*model.QuizAttempt
	for _, attempt := range all {
		if attempt.IsCompleted && attempt.UserID == userID {
			out = append(out, attempt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuizDate < out[j].QuizDate })
	return out, nil
}

func (r *fakeAttemptRepo) FindByUser(_ context.Context, userID string) ([]*model.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.QuizAttempt
	for _, attempt := range r.byID {
		if attempt.UserID == userID {
			out = append(out, cloneAttempt(attempt))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptedAt.After(out[j].AttemptedAt) })
	return out, nil
}

func (r *fakeAttemptRepo) EnsureIndexes(context.Context) error { return nil }

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *user
	r.byID[user.UserID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, userIDs []string) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, id := range userIDs {
		if user, ok := r.byID[id]; ok {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

type fakeLeaderboard struct {
	mu      sync.Mutex
	records []string
}

func (l *fakeLeaderboard) RecordSubmission(_ context.Context, quizDate, userID string, _ float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, quizDate+"/"+userID)
	return nil
}

func (l *fakeLeaderboard) GetTop(context.Context, string, int) ([]cache.LeaderboardEntry, error) {
	return nil, nil
}

func (l *fakeLeaderboard) GetRank(context.Context, string, string) (int64, error) {
	return -1, nil
}
