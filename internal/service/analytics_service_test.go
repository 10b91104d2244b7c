package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"dailyquiz/internal/model"
)

func seedUser(t *testing.T, users *fakeUserRepo, userID, name, email string) {
	t.Helper()
	if err := users.Upsert(context.Background(), &model.User{UserID: userID, Name: name, Email: email}); err != nil {
		t.Fatal(err)
	}
}

func seedCompleted(repo *fakeAttemptRepo, userID, quizDate string, score, total int, completedAt time.Time) {
	pct := model.Round2(100 * float64(score) / float64(total))
	attempt := &model.QuizAttempt{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		QuizDate:       quizDate,
		Score:          score,
		TotalQuestions: total,
		Percentage:     pct,
		AttemptedAt:    completedAt.Add(-10 * time.Minute),
		CompletedAt:    &completedAt,
		IsCompleted:    true,
	}
	repo.byID[attempt.ID] = attempt
}

func seedInProgress(repo *fakeAttemptRepo, userID, quizDate string) {
	attempt := &model.QuizAttempt{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		QuizDate:    quizDate,
		AttemptedAt: time.Now().UTC(),
	}
	repo.byID[attempt.ID] = attempt
}

func TestDailyWindowStats(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	attemptRepo := newFakeAttemptRepo()
	userRepo := newFakeUserRepo()
	svc := NewAnalyticsService(quizRepo, attemptRepo, userRepo, 10)
	ctx := context.Background()

	dates := windowDates(time.Now().UTC(), 7)
	today := dates[len(dates)-1]

	if err := quizRepo.Create(ctx, testQuiz(today)); err != nil {
		t.Fatal(err)
	}
	seedUser(t, userRepo, "user_a", "Alice", "alice@example.com")
	seedUser(t, userRepo, "user_b", "Bob", "bob@example.com")

	base := time.Now().UTC().Add(-time.Hour)
	seedCompleted(attemptRepo, "user_a", today, 3, 3, base)
	seedCompleted(attemptRepo, "user_b", today, 1, 3, base.Add(time.Minute))
	seedInProgress(attemptRepo, "user_c", today)

	report, err := svc.DailyWindowStats(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}

	if len(report.DailyStats) != 7 {
		t.Fatalf("expected 7 day rows, got %d", len(report.DailyStats))
	}
	if report.OverallStats.TotalQuizzes != 1 || report.OverallStats.TotalAttempts != 2 {
		t.Fatalf("unexpected overall stats %+v", report.OverallStats)
	}
	if report.OverallStats.TotalParticipants != 2 {
		t.Fatalf("participants = %d, want 2", report.OverallStats.TotalParticipants)
	}

	todayRow := report.DailyStats[len(report.DailyStats)-1]
	if todayRow.Date != today {
		t.Fatalf("last row is %s, want %s", todayRow.Date, today)
	}
	if todayRow.ParticipantsOpened != 3 || todayRow.ParticipantsSubmitted != 2 {
		t.Fatalf("opened/submitted = %d/%d, want 3/2", todayRow.ParticipantsOpened, todayRow.ParticipantsSubmitted)
	}
	if todayRow.CompletionRate != 66.67 {
		t.Fatalf("completion rate = %v, want 66.67", todayRow.CompletionRate)
	}
	if todayRow.ParticipationRate != 30 {
		t.Fatalf("participation rate = %v, want 30", todayRow.ParticipationRate)
	}
	if todayRow.AverageScore != 2 || todayRow.HighestScore != 3 || todayRow.LowestScore != 1 {
		t.Fatalf("score aggregates wrong: %+v", todayRow)
	}
	if len(todayRow.TopPerformers) != 2 || todayRow.TopPerformers[0].Name != "Alice" {
		t.Fatalf("top performers wrong: %+v", todayRow.TopPerformers)
	}

	emptyRow := report.DailyStats[0]
	if emptyRow.QuizTitle != "No quiz available" {
		t.Fatalf("quizless day title = %q", emptyRow.QuizTitle)
	}
	if emptyRow.ParticipantsOpened != 0 || emptyRow.AverageScore != 0 || len(emptyRow.TopPerformers) != 0 {
		t.Fatalf("quizless day not zeroed: %+v", emptyRow)
	}
}

func TestRankAttemptsTieBreak(t *testing.T) {
	early := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	attempts := []*model.QuizAttempt{
		{UserID: "user_c", Percentage: 80, CompletedAt: &late},
		{UserID: "user_a", Percentage: 80, CompletedAt: &early},
		{UserID: "user_b", Percentage: 100, CompletedAt: &late},
	}

	ranked := rankAttempts(attempts)
	got := []string{ranked[0].UserID, ranked[1].UserID, ranked[2].UserID}
	want := []string{"user_b", "user_a", "user_c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rank order %v, want %v", got, want)
		}
	}
}

func TestQuizAnalytics(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	attemptRepo := newFakeAttemptRepo()
	userRepo := newFakeUserRepo()
	svc := NewAnalyticsService(quizRepo, attemptRepo, userRepo, 0)
	ctx := context.Background()

	if _, err := svc.QuizAnalytics(ctx, "2026-08-25"); !errors.Is(err, model.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	if err := quizRepo.Create(ctx, testQuiz("2026-08-25")); err != nil {
		t.Fatal(err)
	}

	report, err := svc.QuizAnalytics(ctx, "2026-08-25")
	if err != nil {
		t.Fatal(err)
	}
	if report.Message == "" || report.ParticipantsCount != 0 {
		t.Fatalf("empty quiz should be a message result: %+v", report)
	}

	seedUser(t, userRepo, "user_a", "Alice", "alice@example.com")
	now := time.Now().UTC()
	seedCompleted(attemptRepo, "user_a", "2026-08-25", 3, 3, now)
	seedCompleted(attemptRepo, "user_b", "2026-08-25", 2, 3, now)
	seedCompleted(attemptRepo, "user_c", "2026-08-25", 1, 3, now)

	report, err = svc.QuizAnalytics(ctx, "2026-08-25")
	if err != nil {
		t.Fatal(err)
	}
	if report.ParticipantsCount != 3 || report.HighestScore != 3 || report.LowestScore != 1 {
		t.Fatalf("aggregates wrong: %+v", report)
	}
	if report.ScoreDistribution.Band90Plus != 1 || report.ScoreDistribution.Band60s != 1 || report.ScoreDistribution.BandBelow != 1 {
		t.Fatalf("distribution wrong: %+v", report.ScoreDistribution)
	}

	if report.Participants[0].Rank != 1 || report.Participants[0].Name != "Alice" {
		t.Fatalf("first participant wrong: %+v", report.Participants[0])
	}
	if report.Participants[2].Name != "Unknown User" {
		t.Fatalf("missing directory record should fall back: %+v", report.Participants[2])
	}
}

func TestUserPerformance(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	attemptRepo := newFakeAttemptRepo()
	userRepo := newFakeUserRepo()
	svc := NewAnalyticsService(quizRepo, attemptRepo, userRepo, 0)
	ctx := context.Background()

	if _, err := svc.UserPerformance(ctx, "user_x", 30); !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	seedUser(t, userRepo, "user_a", "Alice", "alice@example.com")

	perf, err := svc.UserPerformance(ctx, "user_a", 30)
	if err != nil {
		t.Fatal(err)
	}
	if perf.Message == "" || perf.AttemptsCount != 0 {
		t.Fatalf("no attempts should be a message result: %+v", perf)
	}

	dates := windowDates(time.Now().UTC(), 30)
	now := time.Now().UTC()
	seedCompleted(attemptRepo, "user_a", dates[10], 1, 4, now.Add(-48*time.Hour))
	seedCompleted(attemptRepo, "user_a", dates[20], 3, 4, now.Add(-24*time.Hour))

	perf, err = svc.UserPerformance(ctx, "user_a", 30)
	if err != nil {
		t.Fatal(err)
	}
	if perf.AttemptsCount != 2 || perf.BestScore != 3 || perf.WorstScore != 1 {
		t.Fatalf("aggregates wrong: %+v", perf)
	}
	if perf.ImprovementTrend != 50 {
		t.Fatalf("trend = %v, want 50", perf.ImprovementTrend)
	}
	if perf.AttemptsByDate[0].Date != dates[10] {
		t.Fatalf("attempts should be ordered oldest first: %+v", perf.AttemptsByDate)
	}
}
