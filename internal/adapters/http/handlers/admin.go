package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// UserSweeper runs the user consistency sweep.
type UserSweeper interface {
	SweepUsers(ctx context.Context) (*ports.ReconcileReport, error)
}

// AdminHandler handles operator endpoints.
type AdminHandler struct {
	sweeper UserSweeper
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(sweeper UserSweeper) *AdminHandler {
	return &AdminHandler{sweeper: sweeper}
}

// ReconcileUsers handles POST /api/v1/admin/reconcile/users. The sweep only
// reports differences; it changes nothing.
//
// @Summary Compare local users with the identity provider
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ReconcileResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/admin/reconcile/users [post]
func (h *AdminHandler) ReconcileUsers(c *gin.Context) {
	report, err := h.sweeper.SweepUsers(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ReconcileResponse{
		Checked:    report.Checked,
		Missing:    orEmpty(report.Missing),
		Failed:     orEmpty(report.Failed),
		StartedAt:  report.StartedAt.UTC().Format(time.RFC3339),
		DurationMS: report.Duration.Milliseconds(),
	})
}

// RegisterAdminRoutes registers the admin routes behind guard.
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, guard gin.HandlerFunc) {
	admin := rg.Group("/admin", guard)
	admin.POST("/reconcile/users", h.ReconcileUsers)
}

func orEmpty(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}

	return ids
}
