package service

import (
	"time"

	"dailyquiz/internal/model"
)

// windowDates returns the inclusive run of calendar dates ending at end,
// oldest first.
func windowDates(end time.Time, days int) []string {
	start := end.AddDate(0, 0, -(days - 1))
	out := make([]string, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, start.AddDate(0, 0, i).Format(model.DateLayout))
	}
	return out
}

// todayString is today's date key in UTC.
func todayString() string {
	return time.Now().UTC().Format(model.DateLayout)
}

func dayName(quizDate string) string {
	t, err := time.Parse(model.DateLayout, quizDate)
	if err != nil {
		return "Unknown"
	}
	return t.Weekday().String()
}
