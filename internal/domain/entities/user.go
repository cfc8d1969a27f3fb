package entities

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the local profile shadowing an external identity. Exactly one
// user exists per external subject; the users collection enforces this
// with a unique index on subject_id.
type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SubjectID       string             `json:"subject_id" bson:"subject_id"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email,omitempty" bson:"email,omitempty"`
	ProfileImageURL string             `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`
	Bio             string             `json:"bio,omitempty" bson:"bio,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	AgentCount      int64              `json:"agent_count" bson:"agent_count"`
}

func NewUser(identity *Identity) *User {
	name := identity.Name
	if name == "" {
		name = "Anonymous"
	}
	return &User{
		SubjectID:       identity.Subject,
		Name:            name,
		Email:           identity.Email,
		ProfileImageURL: identity.PictureURL,
		CreatedAt:       time.Now(),
	}
}

// UserStats aggregates a user's catalog footprint. AgentCount here is
// computed from the live agent set, not the denormalized counter.
type UserStats struct {
	AgentCount int64     `json:"agent_count"`
	TotalViews int64     `json:"total_views"`
	TotalLikes int64     `json:"total_likes"`
	JoinedAt   time.Time `json:"joined_at"`
}
