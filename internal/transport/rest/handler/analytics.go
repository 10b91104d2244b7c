package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/service"
)

// AnalyticsHandler serves the operator reporting endpoints. Reports are
// computed fresh by the analytics engine; a short-TTL cache in front absorbs
// dashboard refresh bursts and is bypassed on any cache error.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	reports          cache.ReportCache
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, reports cache.ReportCache) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		reports:          reports,
	}
}

// DailyStats returns the rolling-window day-by-day report.
func (h *AnalyticsHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	key := fmt.Sprintf("%dd", days)

	if h.reports != nil {
		if report, err := h.reports.GetWindowReport(r.Context(), key); err != nil {
			log.Printf("report cache read failed: %v", err)
		} else if report != nil {
			writeJSON(w, http.StatusOK, report)
			return
		}
	}

	report, err := h.analyticsService.DailyWindowStats(r.Context(), days)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.reports != nil {
		if err := h.reports.SetWindowReport(r.Context(), key, report); err != nil {
			log.Printf("report cache write failed: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, report)
}

// QuizAnalytics returns the detailed report for one quiz date.
func (h *AnalyticsHandler) QuizAnalytics(w http.ResponseWriter, r *http.Request) {
	quizDate := mux.Vars(r)["date"]

	if h.reports != nil {
		if report, err := h.reports.GetQuizAnalytics(r.Context(), quizDate); err != nil {
			log.Printf("report cache read failed: %v", err)
		} else if report != nil {
			writeJSON(w, http.StatusOK, report)
			return
		}
	}

	report, err := h.analyticsService.QuizAnalytics(r.Context(), quizDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if h.reports != nil {
		if err := h.reports.SetQuizAnalytics(r.Context(), quizDate, report); err != nil {
			log.Printf("report cache write failed: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, report)
}

// UserPerformance returns one user's performance over a recent window.
func (h *AnalyticsHandler) UserPerformance(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	days := queryInt(r, "days", 30)

	perf, err := h.analyticsService.UserPerformance(r.Context(), userID, days)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}
