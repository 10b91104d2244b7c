package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/model"
	"dailyquiz/internal/service"
	"dailyquiz/internal/transport/rest/middleware"
)

// QuizHandler serves the quiz catalog: today's quiz, date lookups, the
// recent listing, admin ingestion, and the per-date leaderboard.
type QuizHandler struct {
	quizService    *service.QuizService
	attemptService *service.AttemptService
	leaderboard    cache.LeaderboardCache
}

func NewQuizHandler(quizService *service.QuizService, attemptService *service.AttemptService, leaderboard cache.LeaderboardCache) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		attemptService: attemptService,
		leaderboard:    leaderboard,
	}
}

// Today returns today's quiz, stripped of answer keys, together with the
// caller's eligibility to attempt it.
func (h *QuizHandler) Today(w http.ResponseWriter, r *http.Request) {
	h.serveQuiz(w, r, h.quizService.TodayString())
}

// Get returns the quiz for a date, stripped of answer keys.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.serveQuiz(w, r, mux.Vars(r)["date"])
}

func (h *QuizHandler) serveQuiz(w http.ResponseWriter, r *http.Request, quizDate string) {
	userID, _ := middleware.GetUserID(r.Context())

	quiz, err := h.quizService.GetByDate(r.Context(), quizDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	canAttempt, reason, err := h.attemptService.CanAttempt(r.Context(), userID, quizDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{
		"quiz":       quiz.WithoutAnswers(),
		"canAttempt": canAttempt,
	}
	if reason != "" {
		resp["reason"] = reason
	}
	writeJSON(w, http.StatusOK, resp)
}

// Recent lists the past week's quizzes with the caller's status on each.
func (h *QuizHandler) Recent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	days := queryInt(r, "days", 7)

	summaries, err := h.quizService.Recent(r.Context(), days, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": summaries})
}

// Create ingests a new quiz definition. Admin only.
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	var quiz model.Quiz
	if err := json.NewDecoder(r.Body).Decode(&quiz); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.quizService.Create(r.Context(), &quiz); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "quiz created",
		"quizDate": quiz.QuizDate,
	})
}

// Statistics returns the lightweight attempt summary for one date. Admin only.
func (h *QuizHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quizService.Statistics(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Leaderboard returns the top submissions for a date plus the caller's rank.
func (h *QuizHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	quizDate := mux.Vars(r)["date"]
	userID, _ := middleware.GetUserID(r.Context())
	limit := queryInt(r, "limit", 10)

	entries, err := h.leaderboard.GetTop(r.Context(), quizDate, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rank, err := h.leaderboard.GetRank(r.Context(), quizDate, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quizDate": quizDate,
		"entries":  entries,
		"yourRank": rank,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
