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

type MongoAgentRepository struct {
	collection *mongo.Collection
}

func NewMongoAgentRepository(collection *mongo.Collection) *MongoAgentRepository {
	return &MongoAgentRepository{
		collection: collection,
	}
}

// EnsureIndexes creates the secondary indexes the query paths rely on,
// including the text index backing description search.
func (r *MongoAgentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "likes", Value: -1}}},
		{Keys: bson.D{{Key: "description", Value: "text"}}},
	})
	if err != nil {
		return errors.InternalErrorf("failed to create agent indexes: %v", err)
	}
	return nil
}

func (r *MongoAgentRepository) CreateAgent(ctx context.Context, agent *entities.Agent) error {
	if agent.ID.IsZero() {
		agent.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, agent); err != nil {
		return errors.InternalErrorf("failed to create agent: %v", err)
	}
	return nil
}

func (r *MongoAgentRepository) GetAgent(ctx context.Context, id primitive.ObjectID) (*entities.Agent, error) {
	var agent entities.Agent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&agent)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFoundErrorf("agent not found: %s", id.Hex())
	}
	if err != nil {
		return nil, errors.InternalErrorf("failed to get agent: %v", err)
	}
	return &agent, nil
}

func (r *MongoAgentRepository) UpdateAgent(ctx context.Context, agent *entities.Agent) error {
	update, err := bson.Marshal(bson.M{
		"$set": agent,
	})
	if err != nil {
		return errors.InternalErrorf("failed to marshal agent: %v", err)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": agent.ID}, update)
	if err != nil {
		return errors.InternalErrorf("failed to update agent: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.NotFoundErrorf("agent not found: %s", agent.ID.Hex())
	}
	return nil
}

func (r *MongoAgentRepository) DeleteAgent(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.InternalErrorf("failed to delete agent: %v", err)
	}
	if result.DeletedCount == 0 {
		return errors.NotFoundErrorf("agent not found: %s", id.Hex())
	}
	return nil
}

func (r *MongoAgentRepository) ListAgents(ctx context.Context, filter entities.AgentFilter, page entities.PaginationOpts) (*entities.AgentPage, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	} else if filter.AuthorID != nil {
		query["author_id"] = *filter.AuthorID
	}

	sortKey := "created_at"
	if filter.SortBy == entities.SortByPopular {
		sortKey = "likes"
	}

	offset, err := decodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	limit := page.Limit()

	opts := options.Find().
		SetSort(listSort(sortKey)).
		SetSkip(offset).
		SetLimit(limit)

	agents, err := r.findAgents(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return buildPage(agents, offset, limit), nil
}

func (r *MongoAgentRepository) SearchAgents(ctx context.Context, query, category string, page entities.PaginationOpts) (*entities.AgentPage, error) {
	match := bson.M{"$text": bson.M{"$search": query}}
	if category != "" {
		match["category"] = category
	}

	offset, err := decodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	limit := page.Limit()

	opts := options.Find().
		SetSort(searchSort()).
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSkip(offset).
		SetLimit(limit)

	agents, err := r.findAgents(ctx, match, opts)
	if err != nil {
		return nil, err
	}
	return buildPage(agents, offset, limit), nil
}

func (r *MongoAgentRepository) ListPublicAgents(ctx context.Context, limit int64) ([]*entities.Agent, error) {
	opts := options.Find().SetLimit(limit)
	return r.findAgents(ctx, bson.M{"is_public": true}, opts)
}

func (r *MongoAgentRepository) ListAgentsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*entities.Agent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.findAgents(ctx, bson.M{"author_id": authorID}, opts)
}

// IncrementViews is a no-op for agents that no longer exist.
func (r *MongoAgentRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return errors.InternalErrorf("failed to increment views: %v", err)
	}
	return nil
}

// AdjustLikes adds delta to the like counter, floored at zero.
func (r *MongoAgentRepository) AdjustLikes(ctx context.Context, id primitive.ObjectID, delta int64) error {
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"likes": bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$likes", 0}}, delta}}}},
		}}},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return errors.InternalErrorf("failed to adjust likes: %v", err)
	}
	return nil
}

func (r *MongoAgentRepository) findAgents(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*entities.Agent, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.InternalErrorf("failed to list agents: %v", err)
	}
	defer cursor.Close(ctx)

	agents := make([]*entities.Agent, 0)
	for cursor.Next(ctx) {
		var agent entities.Agent
		if err := cursor.Decode(&agent); err != nil {
			return nil, errors.InternalErrorf("failed to decode agent: %v", err)
		}
		agents = append(agents, &agent)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.InternalErrorf("failed to list agents: %v", err)
	}
	return agents, nil
}

// Every scan carries an _id tiebreaker: offset cursors assume a total
// order, and neither sort keys nor text scores are unique on their own.
func listSort(key string) bson.D {
	return bson.D{{Key: key, Value: -1}, {Key: "_id", Value: -1}}
}

func searchSort() bson.D {
	return bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}, {Key: "_id", Value: -1}}
}

func buildPage(agents []*entities.Agent, offset, limit int64) *entities.AgentPage {
	return &entities.AgentPage{
		Agents:         agents,
		ContinueCursor: encodeCursor(offset + int64(len(agents))),
		IsDone:         int64(len(agents)) < limit,
	}
}

var _ interfaces.AgentRepository = (*MongoAgentRepository)(nil)
