package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"dailyquiz/internal/service"
	"dailyquiz/internal/transport/rest/middleware"
)

// AttemptHandler serves the attempt lifecycle: start, autosave, submit, and
// the caller's own views.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// Start opens or resumes the caller's attempt for a date.
func (h *AttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	quizDate := mux.Vars(r)["date"]

	attempt, err := h.attemptService.Start(r.Context(), userID, quizDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

// Get returns the caller's attempt for a date, with its progress summary.
func (h *AttemptHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	quizDate := mux.Vars(r)["date"]

	attempt, err := h.attemptService.Get(r.Context(), userID, quizDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempt":  attempt,
		"progress": attempt.Progress(),
	})
}

// SaveAnswer autosaves a single answer on the caller's in-progress attempt.
func (h *AttemptHandler) SaveAnswer(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	quizDate := mux.Vars(r)["date"]

	var req struct {
		QuestionIndex  int    `json:"questionIndex"`
		SelectedAnswer string `json:"selectedAnswer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.attemptService.SaveAnswer(r.Context(), userID, quizDate, req.QuestionIndex, req.SelectedAnswer); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "answer saved"})
}

// SaveProgress autosaves a batch of answers keyed by question index. Invalid
// entries are skipped; the response reports how many were saved.
func (h *AttemptHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	quizDate := mux.Vars(r)["date"]

	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answers := make(map[int]string, len(req.Answers))
	for key, selected := range req.Answers {
		index, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		answers[index] = selected
	}

	saved, err := h.attemptService.SaveProgress(r.Context(), userID, quizDate, answers)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "progress saved",
		"saved":   saved,
	})
}

// Submit grades and finalizes the caller's attempt.
func (h *AttemptHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())
	quizDate := mux.Vars(r)["date"]

	result, err := h.attemptService.Submit(r.Context(), userID, quizDate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// History lists the caller's attempts, most recent first.
func (h *AttemptHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r.Context())

	attempts, err := h.attemptService.History(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}
