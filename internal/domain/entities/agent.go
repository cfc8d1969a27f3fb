package entities

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validation bounds for agent fields.
const (
	NameMinLength        = 3
	NameMaxLength        = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 2000
)

type Agent struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name"`
	Description string              `json:"description" bson:"description"`
	Rules       []string            `json:"rules" bson:"rules"`
	Category    string              `json:"category" bson:"category"`
	Tags        []string            `json:"tags" bson:"tags"`
	Tools       []string            `json:"tools" bson:"tools"`
	AuthorID    *primitive.ObjectID `json:"author_id,omitempty" bson:"author_id,omitempty"`
	IsPublic    bool                `json:"is_public" bson:"is_public"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
	Views       int64               `json:"views" bson:"views"`
	Likes       int64               `json:"likes" bson:"likes"`
}

func NewAgent(name, description string, rules []string, category string, tags, tools []string, isPublic bool) *Agent {
	now := time.Now()
	return &Agent{
		Name:        name,
		Description: description,
		Rules:       rules,
		Category:    category,
		Tags:        tags,
		Tools:       tools,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasNonEmptyTag reports whether at least one tag survives trimming.
func HasNonEmptyTag(tags []string) bool {
	for _, tag := range tags {
		if strings.TrimSpace(tag) != "" {
			return true
		}
	}
	return false
}

// AgentWithAuthor is an agent joined with its author's profile.
// Author is nil for system-seeded agents that have no owner.
type AgentWithAuthor struct {
	Agent
	Author *User `json:"author,omitempty"`
}

// AgentPatch carries a partial update. Nil fields are left untouched;
// slices use nil to mean absent.
type AgentPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Rules       []string  `json:"rules,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Tools       []string  `json:"tools,omitempty"`
	IsPublic    *bool     `json:"is_public,omitempty"`
}

// Apply copies the provided fields onto the agent and refreshes UpdatedAt.
func (p AgentPatch) Apply(agent *Agent) {
	if p.Name != nil {
		agent.Name = *p.Name
	}
	if p.Description != nil {
		agent.Description = *p.Description
	}
	if p.Rules != nil {
		agent.Rules = p.Rules
	}
	if p.Category != nil {
		agent.Category = *p.Category
	}
	if p.Tags != nil {
		agent.Tags = p.Tags
	}
	if p.Tools != nil {
		agent.Tools = p.Tools
	}
	if p.IsPublic != nil {
		agent.IsPublic = *p.IsPublic
	}
	agent.UpdatedAt = time.Now()
}
