package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/customer-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/customer-service/internal/app"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// CustomerUseCases is the part of app.CustomerService the handler calls.
type CustomerUseCases interface {
	CreateCustomer(ctx context.Context, in app.CreateCustomerInput, out ports.CustomerOutputPort) error
	GetCustomer(ctx context.Context, id uuid.UUID, out ports.CustomerOutputPort) error
	UpdateCustomer(ctx context.Context, in app.UpdateCustomerInput, out ports.CustomerOutputPort) error
	DeleteCustomer(ctx context.Context, id uuid.UUID, out ports.CustomerOutputPort) error
}

// CustomerHandler handles the customer endpoints.
type CustomerHandler struct {
	service   CustomerUseCases
	countries ports.CountryGateway
}

// NewCustomerHandler creates a customer handler. Countries resolves the
// country code of every customer response.
func NewCustomerHandler(service CustomerUseCases, countries ports.CountryGateway) *CustomerHandler {
	return &CustomerHandler{
		service:   service,
		countries: countries,
	}
}

func (h *CustomerHandler) presenter(c *gin.Context) *customerPresenter {
	return &customerPresenter{c: c, countries: h.countries}
}

// Create handles POST /api/v1/customers.
//
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param request body dto.CustomerRequest true "Customer"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/v1/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CustomerRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	in, err := app.NewCreateCustomerInput(req.ContextID(), req.CountryCode, req.ParentID(), req.OrganizationNumber, req.Name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.CreateCustomer(c.Request.Context(), in, h.presenter(c)); err != nil {
		dto.HandleError(c, err)
	}
}

// Get handles GET /api/v1/customers/:id.
//
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := app.ParseID("idContext", c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.GetCustomer(c.Request.Context(), id, h.presenter(c)); err != nil {
		dto.HandleError(c, err)
	}
}

// Update handles PUT /api/v1/customers/:id. The body replaces every field.
//
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body dto.CustomerRequest true "Customer"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := app.ParseID("idContext", c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.CustomerRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	in, err := app.NewUpdateCustomerInput(id, req.CountryCode, req.ParentID(), req.OrganizationNumber, req.Name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.UpdateCustomer(c.Request.Context(), in, h.presenter(c)); err != nil {
		dto.HandleError(c, err)
	}
}

// Delete handles DELETE /api/v1/customers/:id.
//
// @Summary Delete a customer
// @Tags customers
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := app.ParseID("idContext", c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id, h.presenter(c)); err != nil {
		dto.HandleError(c, err)
	}
}

// RegisterCustomerRoutes registers the customer routes. Reads need the
// read scope, writes the write scope.
func (h *CustomerHandler) RegisterCustomerRoutes(rg *gin.RouterGroup, read, write gin.HandlerFunc) {
	customers := rg.Group("/customers")
	customers.POST("", write, h.Create)
	customers.GET("/:id", read, h.Get)
	customers.PUT("/:id", write, h.Update)
	customers.DELETE("/:id", write, h.Delete)
}
