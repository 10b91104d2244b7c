package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyquiz/internal/model"
)

// UserRepo is the user directory adapter. Analytics uses FindByIDs to
// decorate rankings with display names; the auth shim upserts records as
// callers log in.
type UserRepo interface {
	Upsert(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByIDs(ctx context.Context, userIDs []string) ([]*model.User, error)
	EnsureIndexes(ctx context.Context) error
}

type userRepo struct {
	collection *mongo.Collection
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepo{collection: db.Collection("users")}
}

func (r *userRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "last_active", Value: 1}}},
	})
	return storeErr(err)
}

func (r *userRepo) Upsert(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.LastActive = now

	update := bson.M{
		"$set": bson.M{
			"email":       user.Email,
			"name":        user.Name,
			"given_name":  user.GivenName,
			"family_name": user.FamilyName,
			"last_active": user.LastActive,
		},
		"$setOnInsert": bson.M{
			"user_id":    user.UserID,
			"created_at": now,
			"is_active":  true,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": user.UserID}, update, opts)
	return storeErr(err)
}

func (r *userRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

func (r *userRepo) FindByIDs(ctx context.Context, userIDs []string) ([]*model.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}
