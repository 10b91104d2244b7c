package cli

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyquiz/internal/cache"
	"dailyquiz/internal/config"
	"dailyquiz/internal/model"
	"dailyquiz/internal/repository"
	"dailyquiz/internal/service"
)

// NewSeedCmd builds the CLI subcommand that inserts a sample quiz, handy for
// local development.
func NewSeedCmd(configPath *string) *cobra.Command {
	var quizDate string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a sample quiz for a date (default today)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, quizDate)
		},
	}
	cmd.Flags().StringVar(&quizDate, "date", "", "quiz date (YYYY-MM-DD)")
	return cmd
}

func runSeed(ctx context.Context, configPath, quizDate string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return err
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.Mongo.Database)
	quizRepo := repository.NewQuizRepo(db)
	if err := quizRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	catalog := cache.NewCatalogCache(quizRepo, time.Minute)
	quizSvc := service.NewQuizService(quizRepo, repository.NewAttemptRepo(db), catalog)

	if quizDate == "" {
		quizDate = quizSvc.TodayString()
	}

	quiz := sampleQuiz(quizDate)
	if err := quizSvc.Create(ctx, quiz); err != nil {
		if errors.Is(err, model.ErrQuizExists) {
			log.Printf("quiz for %s already exists, nothing to do", quizDate)
			return nil
		}
		return err
	}
	log.Printf("seeded quiz for %s with %d questions", quizDate, quiz.TotalQuestions)
	return nil
}

func sampleQuiz(quizDate string) *model.Quiz {
	abcd := func(a, b, c, d string) model.OptionList {
		return model.OptionList{
			{Key: "A", Text: a},
			{Key: "B", Text: b},
			{Key: "C", Text: c},
			{Key: "D", Text: d},
		}
	}
	return &model.Quiz{
		QuizDate: quizDate,
		Questions: []model.Question{
			{
				Text:    "Which HTTP status code means Too Many Requests?",
				Options: abcd("408", "429", "503", "301"),
				Answer:  "B",
			},
			{
				Text:    "What does TTL stand for in caching?",
				Options: abcd("Time To Live", "Total Transfer Limit", "Transport Layer Link", "Timed Token List"),
				Answer:  "A",
			},
			{
				Text:    "Which data structure gives O(1) average lookup by key?",
				Options: abcd("Linked list", "Binary tree", "Hash table", "Stack"),
				Answer:  "C",
			},
			{
				Text:    "Which command shows the commit history in git?",
				Options: abcd("git status", "git log", "git diff", "git branch"),
				Answer:  "B",
			},
			{
				Text:    "What port does HTTPS use by default?",
				Options: abcd("80", "8080", "22", "443"),
				Answer:  "D",
			},
		},
	}
}
