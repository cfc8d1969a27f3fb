package services

import (
	"context"
	"testing"

	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestLikeService() (*likeService, *mockAgentRepository, *mockUserRepository, *mockLikeRepository) {
	mockAgents := new(mockAgentRepository)
	mockUsers := new(mockUserRepository)
	mockLikes := new(mockLikeRepository)
	service := NewLikeService(mockLikes, mockAgents, mockUsers, zap.NewNop())
	return service, mockAgents, mockUsers, mockLikes
}

func TestLikeService_ToggleLike(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()

	t.Run("toggle twice is an involution", func(t *testing.T) {
		service, mockAgents, mockUsers, mockLikes := newTestLikeService()
		user := testUser(identity)
		agent := validAgent("Bot")
		agent.ID = primitive.NewObjectID()

		mockAgents.On("GetAgent", ctx, agent.ID).Return(agent, nil).Twice()
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(user, nil).Twice()

		// First call inserts the like and bumps the counter.
		mockLikes.On("GetLike", ctx, agent.ID, user.ID).Return(nil, errors.NotFoundErrorf("like not found")).Once()
		mockLikes.On("CreateLike", ctx, mock.AnythingOfType("*entities.Like")).Return(nil).Once()
		mockAgents.On("AdjustLikes", ctx, agent.ID, int64(1)).Return(nil).Once()

		liked, err := service.ToggleLike(ctx, identity, agent.ID)
		assert.NoError(t, err)
		assert.True(t, liked)

		// Second call removes it and restores the counter.
		existing := entities.NewLike(agent.ID, user.ID)
		existing.ID = primitive.NewObjectID()
		mockLikes.On("GetLike", ctx, agent.ID, user.ID).Return(existing, nil).Once()
		mockLikes.On("DeleteLike", ctx, existing.ID).Return(nil).Once()
		mockAgents.On("AdjustLikes", ctx, agent.ID, int64(-1)).Return(nil).Once()

		liked, err = service.ToggleLike(ctx, identity, agent.ID)
		assert.NoError(t, err)
		assert.False(t, liked)

		mockLikes.AssertExpectations(t)
		mockAgents.AssertExpectations(t)
	})

	t.Run("first like creates the caller's user", func(t *testing.T) {
		service, mockAgents, mockUsers, mockLikes := newTestLikeService()
		agent := validAgent("Bot")
		agent.ID = primitive.NewObjectID()

		mockAgents.On("GetAgent", ctx, agent.ID).Return(agent, nil).Once()
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(nil, errors.NotFoundErrorf("user not found")).Once()
		mockUsers.On("CreateUser", ctx, mock.AnythingOfType("*entities.User")).Return(nil).Once()
		mockLikes.On("GetLike", ctx, agent.ID, mock.Anything).Return(nil, errors.NotFoundErrorf("like not found")).Once()
		mockLikes.On("CreateLike", ctx, mock.AnythingOfType("*entities.Like")).Return(nil).Once()
		mockAgents.On("AdjustLikes", ctx, agent.ID, int64(1)).Return(nil).Once()

		liked, err := service.ToggleLike(ctx, identity, agent.ID)

		assert.NoError(t, err)
		assert.True(t, liked)
		mockUsers.AssertExpectations(t)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		service, _, _, _ := newTestLikeService()
		_, err := service.ToggleLike(ctx, nil, primitive.NewObjectID())
		assert.IsType(t, &errors.UnauthenticatedError{}, err)
	})

	t.Run("missing agent", func(t *testing.T) {
		service, mockAgents, _, _ := newTestLikeService()
		id := primitive.NewObjectID()
		mockAgents.On("GetAgent", ctx, id).Return(nil, errors.NotFoundErrorf("agent not found")).Once()

		_, err := service.ToggleLike(ctx, identity, id)
		assert.IsType(t, &errors.NotFoundError{}, err)
	})
}

func TestLikeService_HasLiked(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()

	t.Run("anonymous caller", func(t *testing.T) {
		service, _, _, _ := newTestLikeService()
		liked, err := service.HasLiked(ctx, nil, primitive.NewObjectID())
		assert.NoError(t, err)
		assert.False(t, liked)
	})

	t.Run("caller without a user row", func(t *testing.T) {
		service, _, mockUsers, _ := newTestLikeService()
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(nil, errors.NotFoundErrorf("user not found")).Once()

		liked, err := service.HasLiked(ctx, identity, primitive.NewObjectID())
		assert.NoError(t, err)
		assert.False(t, liked)
	})

	t.Run("tracks the toggle state", func(t *testing.T) {
		service, _, mockUsers, mockLikes := newTestLikeService()
		user := testUser(identity)
		agentID := primitive.NewObjectID()
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(user, nil).Twice()

		mockLikes.On("GetLike", ctx, agentID, user.ID).Return(entities.NewLike(agentID, user.ID), nil).Once()
		liked, err := service.HasLiked(ctx, identity, agentID)
		assert.NoError(t, err)
		assert.True(t, liked)

		mockLikes.On("GetLike", ctx, agentID, user.ID).Return(nil, errors.NotFoundErrorf("like not found")).Once()
		liked, err = service.HasLiked(ctx, identity, agentID)
		assert.NoError(t, err)
		assert.False(t, liked)
	})
}
