package services

import (
	"context"

	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"
	"agenthub/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserService interface {
	GetCurrentUser(ctx context.Context, identity *entities.Identity) (*entities.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error)
	CreateOrUpdateUser(ctx context.Context, identity *entities.Identity, name, bio *string) (*entities.User, error)
	GetUserStats(ctx context.Context, identity *entities.Identity, userID *primitive.ObjectID) (*entities.UserStats, error)
}

type userService struct {
	userRepo  interfaces.UserRepository
	agentRepo interfaces.AgentRepository
	logger    *zap.Logger
}

func NewUserService(userRepo interfaces.UserRepository, agentRepo interfaces.AgentRepository, logger *zap.Logger) *userService {
	return &userService{
		userRepo:  userRepo,
		agentRepo: agentRepo,
		logger:    logger,
	}
}

// resolveUser maps an identity to its local user. It returns nil for
// anonymous callers and for identities that have no user yet; read-only
// paths never create one.
func resolveUser(ctx context.Context, repo interfaces.UserRepository, identity *entities.Identity) (*entities.User, error) {
	if identity == nil {
		return nil, nil
	}
	user, err := repo.GetUserBySubject(ctx, identity.Subject)
	if err != nil {
		if _, ok := err.(*errors.NotFoundError); ok {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ensureUser resolves the caller's user, creating one on first use.
// Two concurrent first-time calls can both attempt the insert; the
// unique subject index rejects the loser, which refetches instead.
func ensureUser(ctx context.Context, repo interfaces.UserRepository, identity *entities.Identity) (*entities.User, error) {
	if identity == nil {
		return nil, errors.UnauthenticatedErrorf("not authenticated")
	}
	user, err := resolveUser(ctx, repo, identity)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = entities.NewUser(identity)
	if err := repo.CreateUser(ctx, user); err != nil {
		if _, ok := err.(*errors.DuplicateError); ok {
			return repo.GetUserBySubject(ctx, identity.Subject)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetCurrentUser(ctx context.Context, identity *entities.Identity) (*entities.User, error) {
	return resolveUser(ctx, s.userRepo, identity)
}

func (s *userService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*entities.User, error) {
	return s.userRepo.GetUser(ctx, id)
}

func (s *userService) CreateOrUpdateUser(ctx context.Context, identity *entities.Identity, name, bio *string) (*entities.User, error) {
	if identity == nil {
		return nil, errors.UnauthenticatedErrorf("not authenticated")
	}

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = entities.NewUser(identity)
		if name != nil && *name != "" {
			user.Name = *name
		}
		if bio != nil {
			user.Bio = *bio
		}
		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			if _, ok := err.(*errors.DuplicateError); ok {
				return s.userRepo.GetUserBySubject(ctx, identity.Subject)
			}
			return nil, err
		}
		s.logger.Info("created user profile", zap.String("subject", identity.Subject))
		return user, nil
	}

	if name != nil {
		user.Name = *name
	}
	if bio != nil {
		user.Bio = *bio
	}
	// Refresh identity-provided fields when the provider has them.
	if identity.Email != "" {
		user.Email = identity.Email
	}
	if identity.PictureURL != "" {
		user.ProfileImageURL = identity.PictureURL
	}
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUserStats(ctx context.Context, identity *entities.Identity, userID *primitive.ObjectID) (*entities.UserStats, error) {
	id := userID
	if id == nil {
		user, err := resolveUser(ctx, s.userRepo, identity)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, nil
		}
		id = &user.ID
	}

	user, err := s.userRepo.GetUser(ctx, *id)
	if err != nil {
		if _, ok := err.(*errors.NotFoundError); ok {
			return nil, nil
		}
		return nil, err
	}

	agents, err := s.agentRepo.ListAgentsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	stats := &entities.UserStats{
		AgentCount: int64(len(agents)),
		JoinedAt:   user.CreatedAt,
	}
	for _, agent := range agents {
		stats.TotalViews += agent.Views
		stats.TotalLikes += agent.Likes
	}
	return stats, nil
}

// verify interface implementation
var _ UserService = &userService{}
