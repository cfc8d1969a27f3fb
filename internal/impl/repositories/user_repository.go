package repositories

import (
	"context"

	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"
	"agenthub/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(collection *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{
		collection: collection,
	}
}

// EnsureIndexes creates the unique subject index. The uniqueness
// constraint is what makes concurrent first-time user creation safe:
// the second insert fails with a duplicate key error and the caller
// refetches.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subject_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.InternalErrorf("failed to create user indexes: %v", err)
	}
	return nil
}

func (r *MongoUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.DuplicateErrorf("user already exists for subject: %s", user.SubjectID)
		}
		return errors.InternalErrorf("failed to create user: %v", err)
	}
	return nil
}

func (r *MongoUserRepository) GetUser(ctx context.Context, id primitive.ObjectID) (*entities.User, error) {
	var user entities.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFoundErrorf("user not found: %s", id.Hex())
	}
	if err != nil {
		return nil, errors.InternalErrorf("failed to get user: %v", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) GetUserBySubject(ctx context.Context, subject string) (*entities.User, error) {
	var user entities.User
	err := r.collection.FindOne(ctx, bson.M{"subject_id": subject}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFoundErrorf("user not found for subject: %s", subject)
	}
	if err != nil {
		return nil, errors.InternalErrorf("failed to get user: %v", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	update, err := bson.Marshal(bson.M{
		"$set": user,
	})
	if err != nil {
		return errors.InternalErrorf("failed to marshal user: %v", err)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return errors.InternalErrorf("failed to update user: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.NotFoundErrorf("user not found: %s", user.ID.Hex())
	}
	return nil
}

// AdjustAgentCount adds delta to the denormalized agent counter,
// floored at zero.
func (r *MongoUserRepository) AdjustAgentCount(ctx context.Context, id primitive.ObjectID, delta int64) error {
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"agent_count": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$agent_count", 0}}, delta}}}},
		}}},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.InternalErrorf("failed to adjust agent count: %v", err)
	}
	return nil
}

var _ interfaces.UserRepository = (*MongoUserRepository)(nil)
