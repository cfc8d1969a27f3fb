package apicontrollers

import (
	"net/http"
	"strconv"

	apimiddleware "agenthub/internal/api/middleware"
	"agenthub/internal/domain/entities"
	"agenthub/internal/domain/errors"
	"agenthub/internal/domain/services"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AgentController struct {
	logger       *zap.Logger
	agentService services.AgentService
	likeService  services.LikeService
}

func NewAgentController(logger *zap.Logger, agentService services.AgentService, likeService services.LikeService) *AgentController {
	return &AgentController{
		logger:       logger,
		agentService: agentService,
		likeService:  likeService,
	}
}

// RegisterRoutes registers all agent-related routes with Echo
func (c *AgentController) RegisterRoutes(e *echo.Group) {
	e.GET("/agents", c.ListAgents)
	e.GET("/agents/search", c.SearchAgents)
	e.GET("/agents/:id", c.GetAgent)
	e.POST("/agents", c.CreateAgent)
	e.PUT("/agents/:id", c.UpdateAgent)
	e.DELETE("/agents/:id", c.DeleteAgent)
	e.POST("/agents/:id/views", c.IncrementViews)
	e.POST("/agents/:id/like", c.ToggleLike)
	e.GET("/agents/:id/liked", c.HasLiked)
	e.GET("/me/agents", c.MyAgents)
	e.GET("/categories", c.GetCategories)
	e.GET("/tags/popular", c.GetPopularTags)
}

type createAgentRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Rules       []string `json:"rules"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Tools       []string `json:"tools"`
	IsPublic    bool     `json:"is_public"`
}

// ListAgents handles the GET request to list agents with optional
// category/author filters and sort order
func (c *AgentController) ListAgents(ctx echo.Context) error {
	filter := entities.AgentFilter{
		Category: ctx.QueryParam("category"),
		SortBy:   entities.SortBy(ctx.QueryParam("sort_by")),
	}
	if author := ctx.QueryParam("author_id"); author != "" {
		id, err := primitive.ObjectIDFromHex(author)
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid author ID"})
		}
		filter.AuthorID = &id
	}

	page, err := c.agentService.ListAgents(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), filter, pageOpts(ctx))
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

// SearchAgents handles the GET request to text-search agent descriptions
func (c *AgentController) SearchAgents(ctx echo.Context) error {
	page, err := c.agentService.SearchAgents(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx),
		ctx.QueryParam("q"), ctx.QueryParam("category"), pageOpts(ctx))
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

// GetAgent handles the GET request to retrieve a specific agent with
// its author attached
func (c *AgentController) GetAgent(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
	}

	agent, err := c.agentService.GetAgentByID(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), id)
	if err != nil {
		return c.handleError(ctx, err)
	}
	if agent == nil {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "agent not found"})
	}
	return ctx.JSON(http.StatusOK, agent)
}

// MyAgents handles the GET request for the caller's own agents,
// private ones included
func (c *AgentController) MyAgents(ctx echo.Context) error {
	page, err := c.agentService.GetMyAgents(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), pageOpts(ctx))
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

// CreateAgent handles the POST request to create a new agent
func (c *AgentController) CreateAgent(ctx echo.Context) error {
	var req createAgentRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	agent := entities.NewAgent(req.Name, req.Description, req.Rules, req.Category, req.Tags, req.Tools, req.IsPublic)
	id, err := c.agentService.CreateAgent(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), agent)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, map[string]string{"id": id.Hex()})
}

// UpdateAgent handles the PUT request to patch the provided fields of
// an existing agent
func (c *AgentController) UpdateAgent(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
	}

	var patch entities.AgentPatch
	if err := ctx.Bind(&patch); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := c.agentService.UpdateAgent(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), id, patch); err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// DeleteAgent handles the DELETE request to delete an agent
func (c *AgentController) DeleteAgent(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
	}

	if err := c.agentService.DeleteAgent(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), id); err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// IncrementViews handles the POST request to count a view
func (c *AgentController) IncrementViews(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
	}

	if err := c.agentService.IncrementViews(ctx.Request().Context(), id); err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ToggleLike handles the POST request to flip the caller's like
func (c *AgentController) ToggleLike(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
	}

	liked, err := c.likeService.ToggleLike(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), id)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"liked": liked})
}

// HasLiked handles the GET request to check the caller's like state
func (c *AgentController) HasLiked(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid agent ID"})
	}

	liked, err := c.likeService.HasLiked(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), id)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"liked": liked})
}

// GetCategories handles the GET request for the category registry
func (c *AgentController) GetCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.agentService.GetCategories())
}

// GetPopularTags handles the GET request for the most used tags across
// public agents
func (c *AgentController) GetPopularTags(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	tags, err := c.agentService.GetPopularTags(ctx.Request().Context(), limit)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, tags)
}

// handleError maps the error taxonomy to HTTP status codes
func (c *AgentController) handleError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch err.(type) {
	case *errors.ValidationError:
		status = http.StatusBadRequest
	case *errors.UnauthenticatedError:
		status = http.StatusUnauthorized
	case *errors.ForbiddenError:
		status = http.StatusForbidden
	case *errors.NotFoundError:
		status = http.StatusNotFound
	case *errors.DuplicateError:
		status = http.StatusConflict
	default:
		c.logger.Error("Error occurred", zap.Error(err))
	}
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func pageOpts(ctx echo.Context) entities.PaginationOpts {
	numItems, _ := strconv.Atoi(ctx.QueryParam("limit"))
	return entities.PaginationOpts{
		Cursor:   ctx.QueryParam("cursor"),
		NumItems: numItems,
	}
}
