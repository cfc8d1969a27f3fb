package services

import (
	"context"
	"sort"
	"unicode/utf8"

	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"
	"agenthub/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const popularTagSampleSize = 100

type AgentService interface {
	ListAgents(ctx context.Context, identity *entities.Identity, filter entities.AgentFilter, page entities.PaginationOpts) (*entities.AgentPage, error)
	SearchAgents(ctx context.Context, identity *entities.Identity, query, category string, page entities.PaginationOpts) (*entities.AgentPage, error)
	GetAgentByID(ctx context.Context, identity *entities.Identity, id primitive.ObjectID) (*entities.AgentWithAuthor, error)
	GetMyAgents(ctx context.Context, identity *entities.Identity, page entities.PaginationOpts) (*entities.AgentPage, error)
	CreateAgent(ctx context.Context, identity *entities.Identity, agent *entities.Agent) (primitive.ObjectID, error)
	UpdateAgent(ctx context.Context, identity *entities.Identity, id primitive.ObjectID, patch entities.AgentPatch) error
	DeleteAgent(ctx context.Context, identity *entities.Identity, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	GetCategories() []string
	GetPopularTags(ctx context.Context, limit int) ([]string, error)
}

type agentService struct {
	agentRepo interfaces.AgentRepository
	userRepo  interfaces.UserRepository
	likeRepo  interfaces.LikeRepository
	logger    *zap.Logger
}

func NewAgentService(agentRepo interfaces.AgentRepository, userRepo interfaces.UserRepository, likeRepo interfaces.LikeRepository, logger *zap.Logger) *agentService {
	return &agentService{
		agentRepo: agentRepo,
		userRepo:  userRepo,
		likeRepo:  likeRepo,
		logger:    logger,
	}
}

// filterReadable drops agents the caller may not see. The page keeps
// its cursor and done flag, so a filtered page can be shorter than
// requested without being the last one.
func filterReadable(page *entities.AgentPage, user *entities.User) *entities.AgentPage {
	visible := make([]*entities.Agent, 0, len(page.Agents))
	for _, agent := range page.Agents {
		if CanReadAgent(agent, user) {
			visible = append(visible, agent)
		}
	}
	page.Agents = visible
	return page
}

func (s *agentService) ListAgents(ctx context.Context, identity *entities.Identity, filter entities.AgentFilter, page entities.PaginationOpts) (*entities.AgentPage, error) {
	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}

	result, err := s.agentRepo.ListAgents(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return filterReadable(result, user), nil
}

func (s *agentService) SearchAgents(ctx context.Context, identity *entities.Identity, query, category string, page entities.PaginationOpts) (*entities.AgentPage, error) {
	// An empty query completes immediately without touching storage.
	if query == "" {
		return entities.EmptyAgentPage(), nil
	}

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}

	result, err := s.agentRepo.SearchAgents(ctx, query, category, page)
	if err != nil {
		return nil, err
	}
	return filterReadable(result, user), nil
}

// GetAgentByID returns nil for agents that do not exist and for agents
// the caller may not see, so the response never confirms that a hidden
// agent exists.
func (s *agentService) GetAgentByID(ctx context.Context, identity *entities.Identity, id primitive.ObjectID) (*entities.AgentWithAuthor, error) {
	agent, err := s.agentRepo.GetAgent(ctx, id)
	if err != nil {
		if _, ok := err.(*errors.NotFoundError); ok {
			return nil, nil
		}
		return nil, err
	}

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}
	if !CanReadAgent(agent, user) {
		return nil, nil
	}

	result := &entities.AgentWithAuthor{Agent: *agent}
	if agent.AuthorID != nil {
		author, err := s.userRepo.GetUser(ctx, *agent.AuthorID)
		if err != nil {
			if _, ok := err.(*errors.NotFoundError); !ok {
				return nil, err
			}
		} else {
			result.Author = author
		}
	}
	return result, nil
}

func (s *agentService) GetMyAgents(ctx context.Context, identity *entities.Identity, page entities.PaginationOpts) (*entities.AgentPage, error) {
	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return entities.EmptyAgentPage(), nil
	}

	// The author's own listing includes private agents, so no
	// visibility filter is applied here.
	filter := entities.AgentFilter{AuthorID: &user.ID, SortBy: entities.SortByNewest}
	return s.agentRepo.ListAgents(ctx, filter, page)
}

func (s *agentService) CreateAgent(ctx context.Context, identity *entities.Identity, agent *entities.Agent) (primitive.ObjectID, error) {
	if err := validateAgent(agent); err != nil {
		return primitive.NilObjectID, err
	}

	user, err := ensureUser(ctx, s.userRepo, identity)
	if err != nil {
		return primitive.NilObjectID, err
	}

	agent.AuthorID = &user.ID
	agent.Views = 0
	agent.Likes = 0
	if err := s.agentRepo.CreateAgent(ctx, agent); err != nil {
		return primitive.NilObjectID, err
	}

	if err := s.userRepo.AdjustAgentCount(ctx, user.ID, 1); err != nil {
		return primitive.NilObjectID, err
	}

	s.logger.Info("created agent",
		zap.String("agent_id", agent.ID.Hex()),
		zap.String("author_id", user.ID.Hex()))
	return agent.ID, nil
}

func (s *agentService) UpdateAgent(ctx context.Context, identity *entities.Identity, id primitive.ObjectID, patch entities.AgentPatch) error {
	if identity == nil {
		return errors.UnauthenticatedErrorf("not authenticated")
	}

	agent, err := s.agentRepo.GetAgent(ctx, id)
	if err != nil {
		return err
	}

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return err
	}
	if err := RequireOwner(agent, user); err != nil {
		return err
	}

	if patch.Name != nil {
		if n := utf8.RuneCountInString(*patch.Name); n < entities.NameMinLength || n > entities.NameMaxLength {
			return errors.ValidationErrorf("agent name must be between %d and %d characters", entities.NameMinLength, entities.NameMaxLength)
		}
	}
	if patch.Description != nil {
		if n := utf8.RuneCountInString(*patch.Description); n < entities.DescriptionMinLength || n > entities.DescriptionMaxLength {
			return errors.ValidationErrorf("agent description must be between %d and %d characters", entities.DescriptionMinLength, entities.DescriptionMaxLength)
		}
	}

	patch.Apply(agent)
	return s.agentRepo.UpdateAgent(ctx, agent)
}

func (s *agentService) DeleteAgent(ctx context.Context, identity *entities.Identity, id primitive.ObjectID) error {
	if identity == nil {
		return errors.UnauthenticatedErrorf("not authenticated")
	}

	agent, err := s.agentRepo.GetAgent(ctx, id)
	if err != nil {
		return err
	}

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return err
	}
	if err := RequireOwner(agent, user); err != nil {
		return err
	}

	// Likes referencing the agent go with it; their rows carry no
	// counters of their own.
	if err := s.likeRepo.DeleteLikesByAgent(ctx, id); err != nil {
		return err
	}
	if err := s.agentRepo.DeleteAgent(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.AdjustAgentCount(ctx, user.ID, -1); err != nil {
		return err
	}

	s.logger.Info("deleted agent",
		zap.String("agent_id", id.Hex()),
		zap.String("author_id", user.ID.Hex()))
	return nil
}

// IncrementViews counts a view with no authorization check and is a
// silent no-op when the agent no longer exists.
func (s *agentService) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	return s.agentRepo.IncrementViews(ctx, id)
}

func (s *agentService) GetCategories() []string {
	return entities.Categories()
}

// GetPopularTags tallies tag frequency over a sample of up to 100
// public agents. Ties keep encounter order.
func (s *agentService) GetPopularTags(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}

	agents, err := s.agentRepo.ListPublicAgents(ctx, popularTagSampleSize)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	tags := make([]string, 0)
	for _, agent := range agents {
		for _, tag := range agent.Tags {
			if counts[tag] == 0 {
				tags = append(tags, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(tags, func(i, j int) bool {
		return counts[tags[i]] > counts[tags[j]]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

// Length limits count characters, not bytes: multibyte names must not
// trip the upper bound early.
func validateAgent(agent *entities.Agent) error {
	if n := utf8.RuneCountInString(agent.Name); n < entities.NameMinLength || n > entities.NameMaxLength {
		return errors.ValidationErrorf("agent name must be between %d and %d characters", entities.NameMinLength, entities.NameMaxLength)
	}
	if n := utf8.RuneCountInString(agent.Description); n < entities.DescriptionMinLength || n > entities.DescriptionMaxLength {
		return errors.ValidationErrorf("agent description must be between %d and %d characters", entities.DescriptionMinLength, entities.DescriptionMaxLength)
	}
	if len(agent.Rules) == 0 {
		return errors.ValidationErrorf("agent must have at least one rule")
	}
	if !entities.HasNonEmptyTag(agent.Tags) {
		return errors.ValidationErrorf("agent must have at least one tag")
	}
	if !entities.IsCategory(agent.Category) {
		return errors.ValidationErrorf("unknown category: %s", agent.Category)
	}
	return nil
}

// verify interface implementation
var _ AgentService = &agentService{}
