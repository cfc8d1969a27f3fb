package interfaces

import (
	"context"

	"agenthub/internal/domain/entities"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// CreateUser inserts a new user. It returns a DuplicateError when a
	// user with the same external subject already exists.
	CreateUser(ctx context.Context, user *entities.User) error
	GetUser(ctx context.Context, id primitive.ObjectID) (*entities.User, error)
	GetUserBySubject(ctx context.Context, subject string) (*entities.User, error)
	UpdateUser(ctx context.Context, user *entities.User) error
	// AdjustAgentCount adds delta to the user's agent counter, floored
	// at zero.
	AdjustAgentCount(ctx context.Context, id primitive.ObjectID, delta int64) error
}
