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

type OrderHandler struct {
	logger  *zap.Logger
	service services.OrderService
}

func NewOrderHandler(logger *zap.Logger, svc services.OrderService) *OrderHandler {
	return &OrderHandler{logger: logger, service: svc}
}

// RegisterRoutes registers order routes on the provided group.
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)
}

// CreateOrder godoc
// @Summary Create an order
// @Description Links the requested products that exist; unknown product ids are skipped.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body views.OrderRequest true "Order"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Failure 409 {object} pkg.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req views.OrderRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	order, err := h.service.CreateOrder(c.Request.Context(), traceID(c), req.CustomerID, req.ProductIDs)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewAPIResponse("order created", views.NewOrderDetailsResponse(order)))
}

// GetOrder godoc
// @Summary Get an order with its products
// @Tags orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} views.OrderDetailsResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), traceID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, views.NewOrderDetailsResponse(order))
}
