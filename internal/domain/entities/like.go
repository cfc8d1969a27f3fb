package entities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like records a user's endorsement of an agent. The likes collection
// holds at most one row per (agent, user) pair.
type Like struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AgentID   primitive.ObjectID `json:"agent_id" bson:"agent_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

func NewLike(agentID, userID primitive.ObjectID) *Like {
	return &Like{
		AgentID:   agentID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}
