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

// RoleUseCases is the part of app.RoleService the handler calls.
type RoleUseCases interface {
	CreateRole(ctx context.Context, in app.CreateRoleInput, out ports.RoleOutputPort) error
	UpdateRole(ctx context.Context, in app.UpdateRoleInput, out ports.RoleOutputPort) error
	GetRole(ctx context.Context, id uuid.UUID, out ports.RoleOutputPort) error
	DeleteRole(ctx context.Context, id uuid.UUID) error
}

// RoleHandler handles the role endpoints.
type RoleHandler struct {
	service RoleUseCases
}

// NewRoleHandler creates a role handler.
func NewRoleHandler(service RoleUseCases) *RoleHandler {
	return &RoleHandler{service: service}
}

// Create handles POST /api/v1/roles.
func (h *RoleHandler) Create(c *gin.Context) {
	var req dto.RoleRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	in, err := app.NewCreateRoleInput(req.Name, req.InvariantKey, req.Description)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.CreateRole(c.Request.Context(), in, &rolePresenter{c: c}); err != nil {
		dto.HandleError(c, err)
	}
}

// Get handles GET /api/v1/roles/:roleId.
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := app.ParseID("roleId", c.Param("roleId"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.GetRole(c.Request.Context(), id, &rolePresenter{c: c}); err != nil {
		dto.HandleError(c, err)
	}
}

// Update handles PUT /api/v1/roles/:roleId.
func (h *RoleHandler) Update(c *gin.Context) {
	var req dto.RoleRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	in, err := app.NewUpdateRoleInput(c.Param("roleId"), req.Name, req.InvariantKey, req.Description)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.UpdateRole(c.Request.Context(), in, &rolePresenter{c: c}); err != nil {
		dto.HandleError(c, err)
	}
}

// Delete handles DELETE /api/v1/roles/:roleId.
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := app.ParseID("roleId", c.Param("roleId"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.DeleteRole(c.Request.Context(), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoleRoutes registers the role routes.
func (h *RoleHandler) RegisterRoleRoutes(rg *gin.RouterGroup, read, write gin.HandlerFunc) {
	roles := rg.Group("/roles")
	roles.POST("", write, h.Create)
	roles.GET("/:roleId", read, h.Get)
	roles.PUT("/:roleId", write, h.Update)
	roles.DELETE("/:roleId", write, h.Delete)
}
