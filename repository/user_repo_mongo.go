package repository

import (
	"context"
	"errors"
	"fmt"

	"climatesolutions/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

type MongoUserRepo struct {
	DB *mongo.Database
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{DB: db}
}

func (r *MongoUserRepo) users() *mongo.Collection {
	return r.DB.Collection(usersCollection)
}

// EnsureIndexes creates the unique userName index. It is idempotent.
func (r *MongoUserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userName", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("userName_unique"),
	})
	return err
}

func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	if user.LoginHistory == nil {
		user.LoginHistory = []models.LoginEntry{}
	}

	_, err := r.users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateUser, err)
		}
		return err
	}
	return nil
}

func (r *MongoUserRepo) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	user := &models.User{}

	err := r.users().FindOne(ctx, bson.M{"userName": userName}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// AppendLoginHistory pushes entry onto the user's history in a single update
// and returns the document as it is after the push.
func (r *MongoUserRepo) AppendLoginHistory(ctx context.Context, userName string, entry models.LoginEntry) (*models.User, error) {
	user := &models.User{}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.users().FindOneAndUpdate(ctx,
		bson.M{"userName": userName},
		bson.M{"$push": bson.M{"loginHistory": entry}},
		opts,
	).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}
