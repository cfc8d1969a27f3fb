package interfaces

import (
	"context"

	"agenthub/internal/domain/entities"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LikeRepository interface {
	CreateLike(ctx context.Context, like *entities.Like) error
	GetLike(ctx context.Context, agentID, userID primitive.ObjectID) (*entities.Like, error)
	DeleteLike(ctx context.Context, id primitive.ObjectID) error
	DeleteLikesByAgent(ctx context.Context, agentID primitive.ObjectID) error
}
