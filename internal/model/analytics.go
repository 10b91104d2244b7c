package model

import "time"

// TopPerformer is one entry in a day's bounded top-3 ranking.
type TopPerformer struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
}

// DayStats is the aggregate for one calendar date inside a rolling window.
// Averages and extremes cover submitted attempts only; completion rate is
// submitted over opened.
type DayStats struct {
	Date                  string         `json:"date"`
	DayName               string         `json:"dayName"`
	QuizTitle             string         `json:"quizTitle"`
	TotalQuestions        int            `json:"totalQuestions"`
	ParticipantsOpened    int            `json:"participantsOpened"`
	ParticipantsSubmitted int            `json:"participantsSubmitted"`
	AverageScore          float64        `json:"averageScore"`
	AveragePercentage     float64        `json:"averagePercentage"`
	HighestScore          int            `json:"highestScore"`
	LowestScore           int            `json:"lowestScore"`
	TopPerformers         []TopPerformer `json:"topPerformers"`
	CompletionRate        float64        `json:"completionRate"`
	ParticipationRate     float64        `json:"participationRate"`
}

// OverallStats summarizes a whole window. TotalParticipants counts distinct
// users across completed attempts only, unlike the per-day opened figures.
type OverallStats struct {
	TotalParticipants int    `json:"totalParticipants"`
	TotalAttempts     int    `json:"totalAttempts"`
	TotalQuizzes      int    `json:"totalQuizzes"`
	DateRange         string `json:"dateRange"`
}

// WindowReport is the full rolling-window analytics snapshot. Derived fresh
// per request, never persisted.
type WindowReport struct {
	OverallStats OverallStats `json:"overallStats"`
	DailyStats   []DayStats   `json:"dailyStats"`
	DateRange    []string     `json:"dateRange"`
}

// ScoreDistribution buckets submitted percentages into fixed bands. Bounds
// are inclusive at the lower edge and exclusive at the upper, except the top
// band which includes 100.
type ScoreDistribution struct {
	Band90Plus int `json:"90-100%"`
	Band80s    int `json:"80-89%"`
	Band70s    int `json:"70-79%"`
	Band60s    int `json:"60-69%"`
	BandBelow  int `json:"below60%"`
}

// Add files a percentage into its band.
func (d *ScoreDistribution) Add(percentage float64) {
	switch {
	case percentage >= 90:
		d.Band90Plus++
	case percentage >= 80:
		d.Band80s++
	case percentage >= 70:
		d.Band70s++
	case percentage >= 60:
		d.Band60s++
	default:
		d.BandBelow++
	}
}

// RankedParticipant is one row of a quiz's full ranking. Rank is positional
// in the percentage-descending sort.
type RankedParticipant struct {
	Rank           int        `json:"rank"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Percentage     float64    `json:"percentage"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

// QuizAnalytics is the detailed report for a single quiz date. When no
// completed attempts exist, Message is set and the numeric fields stay zero.
type QuizAnalytics struct {
	QuizDate          string              `json:"quizDate"`
	TotalQuestions    int                 `json:"totalQuestions"`
	ParticipantsCount int                 `json:"participantsCount"`
	AverageScore      float64             `json:"averageScore"`
	AveragePercentage float64             `json:"averagePercentage"`
	HighestScore      int                 `json:"highestScore"`
	LowestScore       int                 `json:"lowestScore"`
	ScoreDistribution ScoreDistribution   `json:"scoreDistribution"`
	Participants      []RankedParticipant `json:"participants"`
	Message           string              `json:"message,omitempty"`
}

// PerformancePoint is one dated result in a user's performance series.
type PerformancePoint struct {
	Date           string  `json:"date"`
	Score          int     `json:"score"`
	Percentage     float64 `json:"percentage"`
	TotalQuestions int     `json:"totalQuestions"`
}

// UserPerformance aggregates one user's completed attempts over a window.
type UserPerformance struct {
	UserName          string             `json:"userName"`
	UserEmail         string             `json:"userEmail"`
	AttemptsCount     int                `json:"attemptsCount"`
	AverageScore      float64            `json:"averageScore"`
	AveragePercentage float64            `json:"averagePercentage"`
	BestScore         int                `json:"bestScore"`
	WorstScore        int                `json:"worstScore"`
	BestPercentage    float64            `json:"bestPercentage"`
	WorstPercentage   float64            `json:"worstPercentage"`
	ImprovementTrend  float64            `json:"improvementTrend"`
	AttemptsByDate    []PerformancePoint `json:"attemptsByDate"`
	Message           string             `json:"message,omitempty"`
}

// QuizStatistics is the lightweight per-date attempt summary served next to
// the catalog, as opposed to the operator-grade QuizAnalytics report.
type QuizStatistics struct {
	QuizDate           string  `json:"quizDate"`
	TotalQuestions     int     `json:"totalQuestions"`
	TotalAttempts      int     `json:"totalAttempts"`
	CompletedAttempts  int     `json:"completedAttempts"`
	IncompleteAttempts int     `json:"incompleteAttempts"`
	AverageScore       float64 `json:"averageScore"`
	AveragePercentage  float64 `json:"averagePercentage"`
	CompletionRate     float64 `json:"completionRate"`
}
