package services

import (
	"context"

	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"
	"agenthub/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type LikeService interface {
	ToggleLike(ctx context.Context, identity *entities.Identity, agentID primitive.ObjectID) (bool, error)
	HasLiked(ctx context.Context, identity *entities.Identity, agentID primitive.ObjectID) (bool, error)
}

type likeService struct {
	likeRepo  interfaces.LikeRepository
	agentRepo interfaces.AgentRepository
	userRepo  interfaces.UserRepository
	logger    *zap.Logger
}

func NewLikeService(likeRepo interfaces.LikeRepository, agentRepo interfaces.AgentRepository, userRepo interfaces.UserRepository, logger *zap.Logger) *likeService {
	return &likeService{
		likeRepo:  likeRepo,
		agentRepo: agentRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// ToggleLike flips the caller's like on an agent. It returns the
// resulting state: true when the call added a like, false when it
// removed one.
func (s *likeService) ToggleLike(ctx context.Context, identity *entities.Identity, agentID primitive.ObjectID) (bool, error) {
	if identity == nil {
		return false, errors.UnauthenticatedErrorf("not authenticated")
	}

	agent, err := s.agentRepo.GetAgent(ctx, agentID)
	if err != nil {
		return false, err
	}

	user, err := ensureUser(ctx, s.userRepo, identity)
	if err != nil {
		return false, err
	}

	existing, err := s.likeRepo.GetLike(ctx, agent.ID, user.ID)
	if err != nil {
		if _, ok := err.(*errors.NotFoundError); !ok {
			return false, err
		}
		// Not yet liked: insert the row, then bump the counter.
		if err := s.likeRepo.CreateLike(ctx, entities.NewLike(agent.ID, user.ID)); err != nil {
			return false, err
		}
		if err := s.agentRepo.AdjustLikes(ctx, agent.ID, 1); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := s.likeRepo.DeleteLike(ctx, existing.ID); err != nil {
		return false, err
	}
	if err := s.agentRepo.AdjustLikes(ctx, agent.ID, -1); err != nil {
		return false, err
	}
	return false, nil
}

// HasLiked is a read-only existence check; anonymous callers and
// callers with no local user have liked nothing.
func (s *likeService) HasLiked(ctx context.Context, identity *entities.Identity, agentID primitive.ObjectID) (bool, error) {
	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	if _, err := s.likeRepo.GetLike(ctx, agentID, user.ID); err != nil {
		if _, ok := err.(*errors.NotFoundError); ok {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// verify interface implementation
var _ LikeService = &likeService{}
