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

const customerIdParam = "customerId"

// AccountHandler serves customer accounts, addressed by the owning customer's id.
type AccountHandler struct {
	logger  *zap.Logger
	service services.AccountService
}

func NewAccountHandler(logger *zap.Logger, svc services.AccountService) *AccountHandler {
	return &AccountHandler{logger: logger, service: svc}
}

func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/customeraccounts", h.CreateAccount)
	r.GET("/customeraccounts/:"+customerIdParam, h.GetAccount)
	r.PUT("/customeraccounts/:"+customerIdParam, h.UpdateAccount)
	r.DELETE("/customeraccounts/:"+customerIdParam, h.DeleteAccount)
}

// CreateAccount godoc
// @Summary Create a customer account
// @Tags customeraccounts
// @Accept json
// @Produce json
// @Param account body views.CreateAccountRequest true "Account"
// @Success 201 {object} common.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Failure 409 {object} pkg.ErrorResponse
// @Router /customeraccounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req views.CreateAccountRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	account, err := h.service.CreateAccount(c.Request.Context(), traceID(c), req.CustomerID, req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewAPIResponse("customer account created", views.NewAccountResponse(account)))
}

// GetAccount godoc
// @Summary Get a customer's account
// @Tags customeraccounts
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {object} views.AccountResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Router /customeraccounts/{customerId} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	customerID, err := utils.ParseIDParam(c, customerIdParam)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	account, err := h.service.GetAccount(c.Request.Context(), traceID(c), customerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, views.NewAccountResponse(account))
}

// UpdateAccount godoc
// @Summary Update a customer's account
// @Tags customeraccounts
// @Accept json
// @Produce json
// @Param customerId path int true "Customer ID"
// @Param account body views.UpdateAccountRequest true "Account"
// @Success 200 {object} common.APIResponse
// @Failure 400 {object} pkg.ErrorResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Failure 409 {object} pkg.ErrorResponse
// @Router /customeraccounts/{customerId} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	customerID, err := utils.ParseIDParam(c, customerIdParam)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if _, err = h.service.GetAccount(c.Request.Context(), traceID(c), customerID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	var req views.UpdateAccountRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	account, err := h.service.UpdateAccount(c.Request.Context(), traceID(c), customerID, req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, common.NewAPIResponse("customer account updated", views.NewAccountResponse(account)))
}

// DeleteAccount godoc
// @Summary Delete a customer's account
// @Tags customeraccounts
// @Produce json
// @Param customerId path int true "Customer ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} pkg.ErrorResponse
// @Router /customeraccounts/{customerId} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	customerID, err := utils.ParseIDParam(c, customerIdParam)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err = h.service.DeleteAccount(c.Request.Context(), traceID(c), customerID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, common.NewAPIResponse("customer account deleted", nil))
}
