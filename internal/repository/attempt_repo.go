package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyquiz/internal/model"
)

// AttemptRepo handles MongoDB operations for quiz attempts. The unique
// (user_id, quiz_date) index is the only concurrency-control primitive:
// concurrent creates race at the store and exactly one insert wins.
type AttemptRepo interface {
	Create(ctx context.Context, attempt *model.QuizAttempt) error
	FindByUserAndDate(ctx context.Context, userID, quizDate string) (*model.QuizAttempt, error)
	SaveAnswers(ctx context.Context, id primitive.ObjectID, answers []model.AnswerRecord) error
	Complete(ctx context.Context, attempt *model.QuizAttempt) error
	FindByDates(ctx context.Context, quizDates []string) ([]*model.QuizAttempt, error)
	FindCompletedByDate(ctx context.Context, quizDate string) ([]*model.QuizAttempt, error)
	FindCompletedByUser(ctx context.Context, userID string, quizDates []string) ([]*model.QuizAttempt, error)
	FindByUser(ctx context.Context, userID string) ([]*model.QuizAttempt, error)
	EnsureIndexes(ctx context.Context) error
}

type attemptRepo struct {
	collection *mongo.Collection
}

// NewAttemptRepo creates a new attempt repository.
func NewAttemptRepo(db *mongo.Database) AttemptRepo {
	return &attemptRepo{collection: db.Collection("attempts")}
}

func (r *attemptRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "quiz_date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "quiz_date", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "attempted_at", Value: 1}}},
	})
	return storeErr(err)
}

// Create inserts a fresh attempt. A duplicate-key violation surfaces as
// ErrAttemptExists so the lifecycle engine can resolve the race by resuming
// the existing record instead of failing.
func (r *attemptRepo) Create(ctx context.Context, attempt *model.QuizAttempt) error {
	result, err := r.collection.InsertOne(ctx, attempt)
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrAttemptExists
	}
	if err != nil {
		return storeErr(err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		attempt.ID = oid
	}
	return nil
}

func (r *attemptRepo) FindByUserAndDate(ctx context.Context, userID, quizDate string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "quiz_date": quizDate}).Decode(&attempt)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrAttemptNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &attempt, nil
}

// SaveAnswers replaces the whole answers array and flags the attempt as
// autosaved. The is_completed guard in the filter means a save racing a
// submit can never land after completion is durable: attempts are never
// deleted, so a zero match count always means the quiz was completed.
func (r *attemptRepo) SaveAnswers(ctx context.Context, id primitive.ObjectID, answers []model.AnswerRecord) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "is_completed": false},
		bson.M{"$set": bson.M{"answers": answers, "auto_saved": true}},
	)
	if err != nil {
		return storeErr(err)
	}
	if result.MatchedCount == 0 {
		return model.ErrQuizCompleted
	}
	return nil
}

// Complete finalizes an attempt: score, percentage, graded answers and the
// completion flag land in one update. The is_completed guard makes the
// transition one-way; a second submit matches nothing.
func (r *attemptRepo) Complete(ctx context.Context, attempt *model.QuizAttempt) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": attempt.ID, "is_completed": false},
		bson.M{"$set": bson.M{
			"answers":         attempt.Answers,
			"score":           attempt.Score,
			"total_questions": attempt.TotalQuestions,
			"percentage":      attempt.Percentage,
			"is_completed":    true,
			"completed_at":    attempt.CompletedAt,
		}},
	)
	if err != nil {
		return storeErr(err)
	}
	if result.MatchedCount == 0 {
		return model.ErrQuizCompleted
	}
	return nil
}

func (r *attemptRepo) FindByDates(ctx context.Context, quizDates []string) ([]*model.QuizAttempt, error) {
	return r.find(ctx, bson.M{"quiz_date": bson.M{"$in": quizDates}}, nil)
}

func (r *attemptRepo) FindCompletedByDate(ctx context.Context, quizDate string) ([]*model.QuizAttempt, error) {
	return r.find(ctx, bson.M{"quiz_date": quizDate, "is_completed": true}, nil)
}

func (r *attemptRepo) FindCompletedByUser(ctx context.Context, userID string, quizDates []string) ([]*model.QuizAttempt, error) {
	filter := bson.M{
		"user_id":      userID,
		"quiz_date":    bson.M{"$in": quizDates},
		"is_completed": true,
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "quiz_date", Value: 1}}))
}

func (r *attemptRepo) FindByUser(ctx context.Context, userID string) ([]*model.QuizAttempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "attempted_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *attemptRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.QuizAttempt, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var attempts []*model.QuizAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, storeErr(err)
	}
	return attempts, nil
}
