package interfaces

import (
	"context"

	"agenthub/internal/domain/entities"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AgentRepository interface {
	CreateAgent(ctx context.Context, agent *entities.Agent) error
	GetAgent(ctx context.Context, id primitive.ObjectID) (*entities.Agent, error)
	UpdateAgent(ctx context.Context, agent *entities.Agent) error
	DeleteAgent(ctx context.Context, id primitive.ObjectID) error
	ListAgents(ctx context.Context, filter entities.AgentFilter, page entities.PaginationOpts) (*entities.AgentPage, error)
	SearchAgents(ctx context.Context, query, category string, page entities.PaginationOpts) (*entities.AgentPage, error)
	ListPublicAgents(ctx context.Context, limit int64) ([]*entities.Agent, error)
	ListAgentsByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*entities.Agent, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	AdjustLikes(ctx context.Context, id primitive.ObjectID, delta int64) error
}
