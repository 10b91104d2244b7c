package cache

import (
	"context"
	"testing"
	"time"

	"dailyquiz/internal/model"
)

func TestReportCacheRoundTrip(t *testing.T) {
	cache := NewReportCache(newTestRedis(t), time.Minute)
	ctx := context.Background()

	missing, err := cache.GetWindowReport(ctx, "7d")
	if err != nil || missing != nil {
		t.Fatalf("cold cache should be a clean miss: %v, %v", missing, err)
	}

	report := &model.WindowReport{
		OverallStats: model.OverallStats{TotalParticipants: 4, DateRange: "2026-08-19 to 2026-08-25"},
		DateRange:    []string{"2026-08-19", "2026-08-25"},
	}
	if err := cache.SetWindowReport(ctx, "7d", report); err != nil {
		t.Fatal(err)
	}

	cached, err := cache.GetWindowReport(ctx, "7d")
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil || cached.OverallStats.TotalParticipants != 4 {
		t.Fatalf("cached report mangled: %+v", cached)
	}
}

func TestReportCacheQuizAnalytics(t *testing.T) {
	cache := NewReportCache(newTestRedis(t), time.Minute)
	ctx := context.Background()

	report := &model.QuizAnalytics{QuizDate: "2026-08-25", ParticipantsCount: 3}
	report.ScoreDistribution.Add(95)
	report.ScoreDistribution.Add(55)

	if err := cache.SetQuizAnalytics(ctx, "2026-08-25", report); err != nil {
		t.Fatal(err)
	}

	cached, err := cache.GetQuizAnalytics(ctx, "2026-08-25")
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil || cached.ParticipantsCount != 3 {
		t.Fatalf("cached report mangled: %+v", cached)
	}
	if cached.ScoreDistribution.Band90Plus != 1 || cached.ScoreDistribution.BandBelow != 1 {
		t.Fatalf("distribution lost in round trip: %+v", cached.ScoreDistribution)
	}

	other, err := cache.GetQuizAnalytics(ctx, "2026-08-24")
	if err != nil || other != nil {
		t.Fatalf("different date should miss: %v, %v", other, err)
	}
}
