package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/customer-service/internal/app"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// UserUseCases is the part of app.UserService the handler calls.
type UserUseCases interface {
	CreateUser(ctx context.Context, in app.CreateUserInput, out ports.UserOutputPort) error
	UpdateUser(ctx context.Context, in app.UpdateUserInput, out ports.UserOutputPort) error
	GetUserByID(ctx context.Context, id uuid.UUID, out ports.UserOutputPort) error
	GetUserByEmail(ctx context.Context, email string, out ports.UserOutputPort) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles the user endpoints.
type UserHandler struct {
	service UserUseCases
}

// NewUserHandler creates a user handler.
func NewUserHandler(service UserUseCases) *UserHandler {
	return &UserHandler{service: service}
}

// Create handles POST /api/v1/users. The user is created at the identity
// provider first; the response carries the id it issued.
//
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserRequest true "User"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	in, err := app.NewCreateUserInput(req.Email, req.FirstName, req.LastName, req.LanguageCode)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.CreateUser(c.Request.Context(), in, &userPresenter{c: c}); err != nil {
		dto.HandleError(c, err)
	}
}

// Get handles GET /api/v1/users/:userId.
//
// @Summary Get a user
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{userId} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := app.ParseID("userId", c.Param("userId"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.GetUserByID(c.Request.Context(), id, &userPresenter{c: c}); err != nil {
		dto.HandleError(c, err)
	}
}

// FindByEmail handles GET /api/v1/users?email=.
//
// @Summary Find a user by email
// @Tags users
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) FindByEmail(c *gin.Context) {
	var query dto.UserByEmailQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	if err := h.service.GetUserByEmail(c.Request.Context(), query.Email, &userPresenter{c: c}); err != nil {
		dto.HandleError(c, err)
	}
}

// Update handles PUT /api/v1/users/:userId. The remote record is updated
// before the local one.
//
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param request body dto.UserRequest true "User"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/users/{userId} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UserRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	in, err := app.NewUpdateUserInput(c.Param("userId"), req.Email, req.FirstName, req.LastName, req.LanguageCode)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.UpdateUser(c.Request.Context(), in, &userPresenter{c: c}); err != nil {
		dto.HandleError(c, err)
	}
}

// Delete handles DELETE /api/v1/users/:userId. Only the local record is
// removed.
//
// @Summary Delete a user
// @Tags users
// @Param userId path string true "User ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/users/{userId} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := app.ParseID("userId", c.Param("userId"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterUserRoutes registers the user routes.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, read, write gin.HandlerFunc) {
	users := rg.Group("/users")
	users.POST("", write, h.Create)
	users.GET("", read, h.FindByEmail)
	users.GET("/:userId", read, h.Get)
	users.PUT("/:userId", write, h.Update)
	users.DELETE("/:userId", write, h.Delete)
}
