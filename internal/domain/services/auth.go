package services

import (
	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"
)

// CanReadAgent reports whether the given user may see the agent. Public
// agents are visible to everyone; private agents only to their author.
func CanReadAgent(agent *entities.Agent, user *entities.User) bool {
	if agent.IsPublic {
		return true
	}
	if user == nil || agent.AuthorID == nil {
		return false
	}
	return *agent.AuthorID == user.ID
}

// RequireOwner fails unless user is the agent's author. Every update
// and delete path goes through this check.
func RequireOwner(agent *entities.Agent, user *entities.User) error {
	if agent == nil {
		return errors.NotFoundErrorf("agent not found")
	}
	if user == nil || agent.AuthorID == nil || *agent.AuthorID != user.ID {
		return errors.ForbiddenErrorf("not authorized to modify this agent")
	}
	return nil
}
