package apicontrollers

import (
	"net/http"

	apimiddleware "agenthub/internal/api/middleware"
	"agenthub/internal/domain/errors"
	"agenthub/internal/domain/services"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserController struct {
	logger      *zap.Logger
	userService services.UserService
}

func NewUserController(logger *zap.Logger, userService services.UserService) *UserController {
	return &UserController{
		logger:      logger,
		userService: userService,
	}
}

// RegisterRoutes registers all user-related routes with Echo
func (c *UserController) RegisterRoutes(e *echo.Group) {
	e.GET("/me", c.GetCurrentUser)
	e.PUT("/me", c.UpdateProfile)
	e.GET("/me/stats", c.MyStats)
	e.GET("/users/:id", c.GetUser)
	e.GET("/users/:id/stats", c.GetUserStats)
}

type updateProfileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// GetCurrentUser handles the GET request for the caller's own profile.
// Anonymous callers and callers without a profile yet get null.
func (c *UserController) GetCurrentUser(ctx echo.Context) error {
	user, err := c.userService.GetCurrentUser(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx))
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, user)
}

// UpdateProfile handles the PUT request to create or patch the
// caller's profile
func (c *UserController) UpdateProfile(ctx echo.Context) error {
	var req updateProfileRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	user, err := c.userService.CreateOrUpdateUser(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), req.Name, req.Bio)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, user)
}

// MyStats handles the GET request for the caller's catalog stats
func (c *UserController) MyStats(ctx echo.Context) error {
	stats, err := c.userService.GetUserStats(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), nil)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// GetUser handles the GET request for a public user profile
func (c *UserController) GetUser(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
	}

	user, err := c.userService.GetUserByID(ctx.Request().Context(), id)
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, user)
}

// GetUserStats handles the GET request for a user's catalog stats
func (c *UserController) GetUserStats(ctx echo.Context) error {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user ID"})
	}

	stats, err := c.userService.GetUserStats(ctx.Request().Context(), apimiddleware.CallerIdentity(ctx), &id)
	if err != nil {
		return c.handleError(ctx, err)
	}
	if stats == nil {
		return ctx.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}
	return ctx.JSON(http.StatusOK, stats)
}

// handleError maps the error taxonomy to HTTP status codes
func (c *UserController) handleError(ctx echo.Context, err error) error {
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
