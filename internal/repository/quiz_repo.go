package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyquiz/internal/model"
)

// QuizRepo handles MongoDB operations for the quiz catalog. Quizzes are
// immutable after creation; the unique quiz_date index rejects a second
// definition for the same date.
type QuizRepo interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	GetByDate(ctx context.Context, quizDate string) (*model.Quiz, error)
	GetByDates(ctx context.Context, quizDates []string) ([]*model.Quiz, error)
	EnsureIndexes(ctx context.Context) error
}

type quizRepo struct {
	collection *mongo.Collection
}

// NewQuizRepo creates a new quiz repository.
func NewQuizRepo(db *mongo.Database) QuizRepo {
	return &quizRepo{collection: db.Collection("quizzes")}
}

func (r *quizRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "quiz_date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	return storeErr(err)
}

func (r *quizRepo) Create(ctx context.Context, quiz *model.Quiz) error {
	quiz.CreatedAt = time.Now().UTC()
	quiz.UpdatedAt = quiz.CreatedAt

	result, err := r.collection.InsertOne(ctx, quiz)
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrQuizExists
	}
	if err != nil {
		return storeErr(err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		quiz.ID = oid
	}
	return nil
}

func (r *quizRepo) GetByDate(ctx context.Context, quizDate string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.collection.FindOne(ctx, bson.M{"quiz_date": quizDate}).Decode(&quiz)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrQuizNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &quiz, nil
}

func (r *quizRepo) GetByDates(ctx context.Context, quizDates []string) ([]*model.Quiz, error) {
	opts := options.Find().SetSort(bson.D{{Key: "quiz_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"quiz_date": bson.M{"$in": quizDates}}, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var quizzes []*model.Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, storeErr(err)
	}
	return quizzes, nil
}
