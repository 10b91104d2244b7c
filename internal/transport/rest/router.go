package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/service"
	"dailyquiz/internal/transport/rest/handler"
	"dailyquiz/internal/transport/rest/middleware"
)

// Container carries the wired services the router needs.
type Container struct {
	AuthService      *service.AuthService
	QuizService      *service.QuizService
	AttemptService   *service.AttemptService
	AnalyticsService *service.AnalyticsService
	Leaderboard      cache.LeaderboardCache
	Reports          cache.ReportCache
}

// NewRouter builds the HTTP API. Quiz taking and the caller's own views
// require a session token; ingestion and reporting require the admin flag.
func NewRouter(c *Container) *mux.Router {
	authHandler := handler.NewAuthHandler(c.AuthService)
	quizHandler := handler.NewQuizHandler(c.QuizService, c.AttemptService, c.Leaderboard)
	attemptHandler := handler.NewAttemptHandler(c.AttemptService)
	analyticsHandler := handler.NewAnalyticsHandler(c.AnalyticsService, c.Reports)
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)
	userRoutes.HandleFunc("/quizzes/today", quizHandler.Today).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/recent", quizHandler.Recent).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/{date:\\d{4}-\\d{2}-\\d{2}}", quizHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/{date}/leaderboard", quizHandler.Leaderboard).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/{date}/attempt", attemptHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/{date}/attempt", attemptHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/{date}/answers", attemptHandler.SaveAnswer).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/{date}/answers", attemptHandler.SaveProgress).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/quizzes/{date}/submit", attemptHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/attempts/history", attemptHandler.History).Methods("GET", "OPTIONS")

	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)
	adminRoutes.HandleFunc("/quizzes", quizHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/quizzes/{date}/stats", quizHandler.Statistics).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/analytics/daily", analyticsHandler.DailyStats).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/analytics/quiz/{date}", analyticsHandler.QuizAnalytics).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/analytics/users/{userId}", analyticsHandler.UserPerformance).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := os.Getenv("CORS_ALLOWED_ORIGIN")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
