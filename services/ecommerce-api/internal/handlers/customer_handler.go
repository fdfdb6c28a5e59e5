package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/common"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg/utils"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/internal/services"
	"github.com/nimeshabuddhika/ecommerce-data-api/services/ecommerce-api/internal/views"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	logger  *zap.Logger
	service services.CustomerService
}

func NewCustomerHandler(logger *zap.Logger, svc services.CustomerService) *CustomerHandler {
	return &CustomerHandler{logger: logger, service: svc}
}

// RegisterRoutes registers customer routes on the provided group.
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/customers", h.CreateCustomer)
	r.GET("/customers", h.ListCustomers)
	r.GET("/customers/:id", h.GetCustomer)
	r.PUT("/customers/:id", h.UpdateCustomer)
	r.DELETE("/customers/:id", h.DeleteCustomer)
}

// CreateCustomer godoc
// @Summary Create a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body views.CustomerRequest true "Customer"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req views.CustomerRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	customer, err := h.service.CreateCustomer(c.Request.Context(), traceID(c), req.ToModel(0))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewAPIResponse("customer created", views.NewCustomerResponse(customer)))
}

// ListCustomers godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Success 200 {array} views.CustomerResponse
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context(), traceID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, views.NewCustomerResponses(customers))
}

// GetCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} views.CustomerResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	customer, err := h.service.GetCustomer(c.Request.Context(), traceID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, views.NewCustomerResponse(customer))
}

// UpdateCustomer replaces a customer's fields. An unknown id is a 404 even
// when the body is invalid; a bad body never mutates the row.
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID"
// @Param customer body views.CustomerRequest true "Customer"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if _, err = h.service.GetCustomer(c.Request.Context(), traceID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req views.CustomerRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	customer, err := h.service.UpdateCustomer(c.Request.Context(), traceID(c), req.ToModel(id))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, common.NewAPIResponse("customer updated", views.NewCustomerResponse(customer)))
}

// DeleteCustomer godoc
// @Summary Delete a customer
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Failure 409 {object} pkg.ErrorResponse
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err = h.service.DeleteCustomer(c.Request.Context(), traceID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, common.NewAPIResponse("customer deleted", nil))
}
