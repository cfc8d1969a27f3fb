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

type MongoLikeRepository struct {
	collection *mongo.Collection
}

func NewMongoLikeRepository(collection *mongo.Collection) *MongoLikeRepository {
	return &MongoLikeRepository{
		collection: collection,
	}
}

// EnsureIndexes creates the per-side lookup indexes and the compound
// unique index that holds the at-most-one-like-per-(agent,user)
// invariant.
func (r *MongoLikeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "agent_id", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "agent_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return errors.InternalErrorf("failed to create like indexes: %v", err)
	}
	return nil
}

func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *entities.Like) error {
	if like.ID.IsZero() {
		like.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.DuplicateErrorf("agent %s already liked by user %s", like.AgentID.Hex(), like.UserID.Hex())
		}
		return errors.InternalErrorf("failed to create like: %v", err)
	}
	return nil
}

func (r *MongoLikeRepository) GetLike(ctx context.Context, agentID, userID primitive.ObjectID) (*entities.Like, error) {
	var like entities.Like
	err := r.collection.FindOne(ctx, bson.M{"agent_id": agentID, "user_id": userID}).Decode(&like)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFoundErrorf("like not found for agent %s and user %s", agentID.Hex(), userID.Hex())
	}
	if err != nil {
		return nil, errors.InternalErrorf("failed to get like: %v", err)
	}
	return &like, nil
}

func (r *MongoLikeRepository) DeleteLike(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.InternalErrorf("failed to delete like: %v", err)
	}
	if result.DeletedCount == 0 {
		return errors.NotFoundErrorf("like not found: %s", id.Hex())
	}
	return nil
}

// DeleteLikesByAgent removes every like row for the agent. Deleting
// zero rows is not an error.
func (r *MongoLikeRepository) DeleteLikesByAgent(ctx context.Context, agentID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"agent_id": agentID})
	if err != nil {
		return errors.InternalErrorf("failed to delete likes for agent: %v", err)
	}
	return nil
}

var _ interfaces.LikeRepository = (*MongoLikeRepository)(nil)
