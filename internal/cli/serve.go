package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/config"
	"dailyquiz/internal/repository"
	"dailyquiz/internal/service"
	"dailyquiz/internal/transport/rest"
)

// NewServeCmd builds the CLI subcommand to start the API server.
func NewServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath)
		},
	}
}

func runServer(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return err
	}
	log.Println("connected to MongoDB")

	db := mongoClient.Database(cfg.Mongo.Database)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return err
	}
	log.Println("connected to Redis")

	quizRepo := repository.NewQuizRepo(db)
	attemptRepo := repository.NewAttemptRepo(db)
	userRepo := repository.NewUserRepo(db)
	for _, ensure := range []func(context.Context) error{
		quizRepo.EnsureIndexes,
		attemptRepo.EnsureIndexes,
		userRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return err
		}
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	reportTTL := config.TTLDuration(cfg.Analytics.ReportTTL, time.Minute)

	catalog := cache.NewCatalogCache(quizRepo, quizTTL)
	leaderboard := cache.NewLeaderboardCache(rdb)
	reports := cache.NewReportCache(rdb, reportTTL)

	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.AdminEmail)
	quizSvc := service.NewQuizService(quizRepo, attemptRepo, catalog)
	attemptSvc := service.NewAttemptService(attemptRepo, catalog)
	attemptSvc.SetLeaderboard(leaderboard)
	analyticsSvc := service.NewAnalyticsService(quizRepo, attemptRepo, userRepo, cfg.Analytics.TeamSize)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		QuizService:      quizSvc,
		AttemptService:   attemptSvc,
		AnalyticsService: analyticsSvc,
		Leaderboard:      leaderboard,
		Reports:          reports,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server stopped: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
