package service

import (
	"context"
	"sort"
	"time"

	"dailyquiz/internal/model"
	"dailyquiz/internal/repository"
)

// AnalyticsService computes read-side aggregates from raw attempt and quiz
// records. Every entry point reads the store fresh, mutates nothing, and is
// deterministic for a given store state. Reads may interleave with lifecycle
// writes; a report computed mid-submission can undercount by one attempt.
type AnalyticsService struct {
	quizRepo    repository.QuizRepo
	attemptRepo repository.AttemptRepo
	userRepo    repository.UserRepo
	teamSize    int
}

// NewAnalyticsService creates a new analytics service. teamSize is the
// expected participant population used for participation rates; zero
// disables the rate rather than dividing by zero.
func NewAnalyticsService(quizRepo repository.QuizRepo, attemptRepo repository.AttemptRepo, userRepo repository.UserRepo, teamSize int) *AnalyticsService {
	return &AnalyticsService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		userRepo:    userRepo,
		teamSize:    teamSize,
	}
}

// DailyWindowStats aggregates the inclusive window of the past days ending
// today, oldest day first. Averages and extremes cover submitted attempts
// only; the overall participant count covers distinct users with completed
// attempts, deliberately narrower than the per-day opened figures.
func (s *AnalyticsService) DailyWindowStats(ctx context.Context, days int) (*model.WindowReport, error) {
	if days <= 0 {
		days = 7
	}
	dates := windowDates(time.Now().UTC(), days)

	quizzes, err := s.quizRepo.GetByDates(ctx, dates)
	if err != nil {
		return nil, err
	}
	allAttempts, err := s.attemptRepo.FindByDates(ctx, dates)
	if err != nil {
		return nil, err
	}

	var completed []*model.QuizAttempt
	for _, attempt := range allAttempts {
		if attempt.IsCompleted {
			completed = append(completed, attempt)
		}
	}

	lookup, userIDs, err := s.userLookup(ctx, completed)
	if err != nil {
		return nil, err
	}

	quizByDate := make(map[string]*model.Quiz, len(quizzes))
	for _, quiz := range quizzes {
		quizByDate[quiz.QuizDate] = quiz
	}
	openedByDate := make(map[string][]*model.QuizAttempt)
	for _, attempt := range allAttempts {
		openedByDate[attempt.QuizDate] = append(openedByDate[attempt.QuizDate], attempt)
	}
	submittedByDate := make(map[string][]*model.QuizAttempt)
	for _, attempt := range completed {
		submittedByDate[attempt.QuizDate] = append(submittedByDate[attempt.QuizDate], attempt)
	}

	report := &model.WindowReport{
		OverallStats: model.OverallStats{
			TotalParticipants: len(userIDs),
			TotalAttempts:     len(completed),
			TotalQuizzes:      len(quizzes),
			DateRange:         dates[0] + " to " + dates[len(dates)-1],
		},
		DateRange: dates,
	}

	for _, date := range dates {
		day := model.DayStats{
			Date:          date,
			DayName:       dayName(date),
			QuizTitle:     "No quiz available",
			TopPerformers: []model.TopPerformer{},
		}

		opened := openedByDate[date]
		submitted := submittedByDate[date]
		day.ParticipantsOpened = len(opened)
		day.ParticipantsSubmitted = len(submitted)
		if len(opened) > 0 {
			day.CompletionRate = model.Round2(100 * float64(len(submitted)) / float64(len(opened)))
		}
		if s.teamSize > 0 {
			day.ParticipationRate = model.Round2(100 * float64(len(opened)) / float64(s.teamSize))
		}

		quiz, hasQuiz := quizByDate[date]
		if hasQuiz {
			day.QuizTitle = "Quiz for " + date
			day.TotalQuestions = quiz.TotalQuestions
		}

		if hasQuiz && len(submitted) > 0 {
			var scoreSum, pctSum float64
			day.HighestScore = submitted[0].Score
			day.LowestScore = submitted[0].Score
			for _, attempt := range submitted {
				scoreSum += float64(attempt.Score)
				pctSum += attempt.Percentage
				if attempt.Score > day.HighestScore {
					day.HighestScore = attempt.Score
				}
				if attempt.Score < day.LowestScore {
					day.LowestScore = attempt.Score
				}
			}
			day.AverageScore = model.Round2(scoreSum / float64(len(submitted)))
			day.AveragePercentage = model.Round2(pctSum / float64(len(submitted)))

			ranked := rankAttempts(submitted)
			top := len(ranked)
			if top > 3 {
				top = 3
			}
			for _, attempt := range ranked[:top] {
				name, email := displayFor(lookup, attempt.UserID)
				day.TopPerformers = append(day.TopPerformers, model.TopPerformer{
					Name:           name,
					Email:          email,
					Score:          attempt.Score,
					TotalQuestions: attempt.TotalQuestions,
					Percentage:     attempt.Percentage,
				})
			}
		}

		report.DailyStats = append(report.DailyStats, day)
	}
	return report, nil
}

// QuizAnalytics builds the detailed operator report for one quiz date. A
// missing quiz is ErrQuizNotFound; zero completed attempts is a message
// result, not an error.
func (s *AnalyticsService) QuizAnalytics(ctx context.Context, quizDate string) (*model.QuizAnalytics, error) {
	quiz, err := s.quizRepo.GetByDate(ctx, quizDate)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attemptRepo.FindCompletedByDate(ctx, quizDate)
	if err != nil {
		return nil, err
	}

	report := &model.QuizAnalytics{
		QuizDate:       quizDate,
		TotalQuestions: quiz.TotalQuestions,
		Participants:   []model.RankedParticipant{},
	}
	if len(attempts) == 0 {
		report.Message = "no completed attempts found"
		return report, nil
	}

	lookup, _, err := s.userLookup(ctx, attempts)
	if err != nil {
		return nil, err
	}

	var scoreSum, pctSum float64
	report.HighestScore = attempts[0].Score
	report.LowestScore = attempts[0].Score
	for _, attempt := range attempts {
		scoreSum += float64(attempt.Score)
		pctSum += attempt.Percentage
		if attempt.Score > report.HighestScore {
			report.HighestScore = attempt.Score
		}
		if attempt.Score < report.LowestScore {
			report.LowestScore = attempt.Score
		}
		report.ScoreDistribution.Add(attempt.Percentage)
	}
	report.ParticipantsCount = len(attempts)
	report.AverageScore = model.Round2(scoreSum / float64(len(attempts)))
	report.AveragePercentage = model.Round2(pctSum / float64(len(attempts)))

	for i, attempt := range rankAttempts(attempts) {
		name, email := displayFor(lookup, attempt.UserID)
		report.Participants = append(report.Participants, model.RankedParticipant{
			Rank:           i + 1,
			Name:           name,
			Email:          email,
			Score:          attempt.Score,
			TotalQuestions: attempt.TotalQuestions,
			Percentage:     attempt.Percentage,
			CompletedAt:    attempt.CompletedAt,
		})
	}
	return report, nil
}

// UserPerformance aggregates one user's completed attempts over the past
// days, oldest first.
func (s *AnalyticsService) UserPerformance(ctx context.Context, userID string, days int) (*model.UserPerformance, error) {
	if days <= 0 {
		days = 30
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dates := windowDates(time.Now().UTC(), days)
	attempts, err := s.attemptRepo.FindCompletedByUser(ctx, userID, dates)
	if err != nil {
		return nil, err
	}

	perf := &model.UserPerformance{
		UserName:       user.DisplayName(),
		UserEmail:      user.Email,
		AttemptsByDate: []model.PerformancePoint{},
	}
	if len(attempts) == 0 {
		perf.Message = "no completed attempts found"
		return perf, nil
	}

	var scoreSum, pctSum float64
	perf.BestScore = attempts[0].Score
	perf.WorstScore = attempts[0].Score
	perf.BestPercentage = attempts[0].Percentage
	perf.WorstPercentage = attempts[0].Percentage
	for _, attempt := range attempts {
		scoreSum += float64(attempt.Score)
		pctSum += attempt.Percentage
		if attempt.Score > perf.BestScore {
			perf.BestScore = attempt.Score
		}
		if attempt.Score < perf.WorstScore {
			perf.WorstScore = attempt.Score
		}
		if attempt.Percentage > perf.BestPercentage {
			perf.BestPercentage = attempt.Percentage
		}
		if attempt.Percentage < perf.WorstPercentage {
			perf.WorstPercentage = attempt.Percentage
		}
		perf.AttemptsByDate = append(perf.AttemptsByDate, model.PerformancePoint{
			Date:           attempt.QuizDate,
			Score:          attempt.Score,
			Percentage:     attempt.Percentage,
			TotalQuestions: attempt.TotalQuestions,
		})
	}
	perf.AttemptsCount = len(attempts)
	perf.AverageScore = model.Round2(scoreSum / float64(len(attempts)))
	perf.AveragePercentage = model.Round2(pctSum / float64(len(attempts)))
	if len(attempts) > 1 {
		perf.ImprovementTrend = model.Round2(attempts[len(attempts)-1].Percentage - attempts[0].Percentage)
	}
	return perf, nil
}

// userLookup fetches directory records for the distinct users behind a set
// of attempts.
func (s *AnalyticsService) userLookup(ctx context.Context, attempts []*model.QuizAttempt) (map[string]*model.User, []string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, attempt := range attempts {
		if !seen[attempt.UserID] {
			seen[attempt.UserID] = true
			ids = append(ids, attempt.UserID)
		}
	}
	lookup := make(map[string]*model.User, len(ids))
	if len(ids) == 0 {
		return lookup, ids, nil
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, user := range users {
		lookup[user.UserID] = user
	}
	return lookup, ids, nil
}

// rankAttempts orders attempts by percentage descending. Ties rank by
// earliest completion, then user ID, so rankings are reproducible across
// runs regardless of store iteration order.
func rankAttempts(attempts []*model.QuizAttempt) []*model.QuizAttempt {
	ranked := append([]*model.QuizAttempt(nil), attempts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Percentage != ranked[j].Percentage {
			return ranked[i].Percentage > ranked[j].Percentage
		}
		ti, tj := ranked[i].CompletedAt, ranked[j].CompletedAt
		if ti != nil && tj != nil && !ti.Equal(*tj) {
			return ti.Before(*tj)
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	return ranked
}

func displayFor(lookup map[string]*model.User, userID string) (name, email string) {
	if user, ok := lookup[userID]; ok {
		return user.DisplayName(), user.Email
	}
	return "Unknown User", ""
}
