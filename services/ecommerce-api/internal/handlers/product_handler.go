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

type ProductHandler struct {
	logger  *zap.Logger
	service services.ProductService
}

func NewProductHandler(logger *zap.Logger, svc services.ProductService) *ProductHandler {
	return &ProductHandler{logger: logger, service: svc}
}

// RegisterRoutes registers product routes on the provided group.
func (h *ProductHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body views.ProductRequest true "Product"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req views.ProductRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	product, err := h.service.CreateProduct(c.Request.Context(), traceID(c), req.ToModel(0))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewAPIResponse("product created", views.NewProductResponse(product)))
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} views.ProductResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context(), traceID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, views.NewProductResponses(products))
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} views.ProductResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), traceID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, views.NewProductResponse(product))
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body views.ProductRequest true "Product"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if _, err = h.service.GetProduct(c.Request.Context(), traceID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req views.ProductRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	product, err := h.service.UpdateProduct(c.Request.Context(), traceID(c), req.ToModel(id))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, common.NewAPIResponse("product updated", views.NewProductResponse(product)))
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Failure 409 {object} pkg.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err = h.service.DeleteProduct(c.Request.Context(), traceID(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, common.NewAPIResponse("product deleted", nil))
}
