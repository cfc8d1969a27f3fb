package services

import (
	"context"
	"testing"
	"time"

	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestUserService() (*userService, *mockUserRepository, *mockAgentRepository) {
	mockUsers := new(mockUserRepository)
	mockAgents := new(mockAgentRepository)
	service := NewUserService(mockUsers, mockAgents, zap.NewNop())
	return service, mockUsers, mockAgents
}

func TestUserService_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()

	t.Run("anonymous caller resolves to nil", func(t *testing.T) {
		service, mockUsers, _ := newTestUserService()

		user, err := service.GetCurrentUser(ctx, nil)

		assert.NoError(t, err)
		assert.Nil(t, user)
		mockUsers.AssertNotCalled(t, "GetUserBySubject", mock.Anything, mock.Anything)
	})

	t.Run("read path never creates a user", func(t *testing.T) {
		service, mockUsers, _ := newTestUserService()
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(nil, errors.NotFoundErrorf("user not found")).Once()

		user, err := service.GetCurrentUser(ctx, identity)

		assert.NoError(t, err)
		assert.Nil(t, user)
		mockUsers.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("existing user is returned", func(t *testing.T) {
		service, mockUsers, _ := newTestUserService()
		existing := testUser(identity)
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(existing, nil).Once()

		user, err := service.GetCurrentUser(ctx, identity)

		assert.NoError(t, err)
		assert.Equal(t, existing, user)
	})
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()

	t.Run("anonymous caller", func(t *testing.T) {
		mockUsers := new(mockUserRepository)
		_, err := ensureUser(ctx, mockUsers, nil)
		assert.IsType(t, &errors.UnauthenticatedError{}, err)
	})

	t.Run("creates on first use", func(t *testing.T) {
		mockUsers := new(mockUserRepository)
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(nil, errors.NotFoundErrorf("user not found")).Once()
		mockUsers.On("CreateUser", ctx, mock.AnythingOfType("*entities.User")).Return(nil).Once()

		user, err := ensureUser(ctx, mockUsers, identity)

		assert.NoError(t, err)
		assert.Equal(t, identity.Subject, user.SubjectID)
		assert.Equal(t, "Dana", user.Name)
		assert.Zero(t, user.AgentCount)
		mockUsers.AssertExpectations(t)
	})

	t.Run("defaults the name for bare identities", func(t *testing.T) {
		mockUsers := new(mockUserRepository)
		bare := &entities.Identity{Subject: "subject-2"}
		mockUsers.On("GetUserBySubject", ctx, bare.Subject).Return(nil, errors.NotFoundErrorf("user not found")).Once()
		mockUsers.On("CreateUser", ctx, mock.AnythingOfType("*entities.User")).Return(nil).Once()

		user, err := ensureUser(ctx, mockUsers, bare)

		assert.NoError(t, err)
		assert.Equal(t, "Anonymous", user.Name)
	})

	t.Run("lost insert race refetches the winner", func(t *testing.T) {
		mockUsers := new(mockUserRepository)
		winner := testUser(identity)
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(nil, errors.NotFoundErrorf("user not found")).Once()
		mockUsers.On("CreateUser", ctx, mock.AnythingOfType("*entities.User")).Return(errors.DuplicateErrorf("user already exists")).Once()
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(winner, nil).Once()

		user, err := ensureUser(ctx, mockUsers, identity)

		assert.NoError(t, err)
		assert.Equal(t, winner, user)
		mockUsers.AssertExpectations(t)
	})

	t.Run("second call finds the existing row", func(t *testing.T) {
		mockUsers := new(mockUserRepository)
		existing := testUser(identity)
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(existing, nil).Once()

		user, err := ensureUser(ctx, mockUsers, identity)

		assert.NoError(t, err)
		assert.Equal(t, existing, user)
		mockUsers.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestUserService_CreateOrUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous caller", func(t *testing.T) {
		service, _, _ := newTestUserService()
		_, err := service.CreateOrUpdateUser(ctx, nil, nil, nil)
		assert.IsType(t, &errors.UnauthenticatedError{}, err)
	})

	t.Run("creates a profile with overrides", func(t *testing.T) {
		service, mockUsers, _ := newTestUserService()
		identity := testIdentity()
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(nil, errors.NotFoundErrorf("user not found")).Once()
		mockUsers.On("CreateUser", ctx, mock.AnythingOfType("*entities.User")).Return(nil).Once()

		name := "Custom Name"
		bio := "I build agents"
		user, err := service.CreateOrUpdateUser(ctx, identity, &name, &bio)

		assert.NoError(t, err)
		assert.Equal(t, "Custom Name", user.Name)
		assert.Equal(t, "I build agents", user.Bio)
	})

	t.Run("patches the existing profile and refreshes identity fields", func(t *testing.T) {
		service, mockUsers, _ := newTestUserService()
		identity := &entities.Identity{
			Subject:    "subject-1",
			Name:       "Dana",
			Email:      "dana@example.com",
			PictureURL: "https://example.com/dana.png",
		}
		existing := testUser(identity)
		existing.Email = "stale@example.com"
		mockUsers.On("GetUserBySubject", ctx, identity.Subject).Return(existing, nil).Once()
		mockUsers.On("UpdateUser", ctx, existing).Return(nil).Once()

		bio := "Updated bio"
		user, err := service.CreateOrUpdateUser(ctx, identity, nil, &bio)

		assert.NoError(t, err)
		assert.Equal(t, "Dana", user.Name)
		assert.Equal(t, "Updated bio", user.Bio)
		assert.Equal(t, "dana@example.com", user.Email)
		assert.Equal(t, "https://example.com/dana.png", user.ProfileImageURL)
		mockUsers.AssertExpectations(t)
	})
}

func TestUserService_GetUserStats(t *testing.T) {
	ctx := context.Background()
	identity := testIdentity()

	t.Run("anonymous caller without explicit id", func(t *testing.T) {
		service, _, _ := newTestUserService()

		stats, err := service.GetUserStats(ctx, nil, nil)

		assert.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("aggregates over the live agent set", func(t *testing.T) {
		service, mockUsers, mockAgents := newTestUserService()
		user := testUser(identity)
		user.CreatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		agents := []*entities.Agent{
			{Views: 10, Likes: 2},
			{Views: 5, Likes: 1},
		}
		mockUsers.On("GetUser", ctx, user.ID).Return(user, nil).Once()
		mockAgents.On("ListAgentsByAuthor", ctx, user.ID).Return(agents, nil).Once()

		stats, err := service.GetUserStats(ctx, nil, &user.ID)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), stats.AgentCount)
		assert.Equal(t, int64(15), stats.TotalViews)
		assert.Equal(t, int64(3), stats.TotalLikes)
		assert.Equal(t, user.CreatedAt, stats.JoinedAt)
	})

	t.Run("unknown user yields nil", func(t *testing.T) {
		service, mockUsers, _ := newTestUserService()
		id := primitive.NewObjectID()
		mockUsers.On("GetUser", ctx, id).Return(nil, errors.NotFoundErrorf("user not found")).Once()

		stats, err := service.GetUserStats(ctx, nil, &id)

		assert.NoError(t, err)
		assert.Nil(t, stats)
	})
}
